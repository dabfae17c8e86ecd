// Package server exposes the shelf over the Model Context Protocol.
package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/menubar-shelf/internal/shelf"
	"github.com/mj1618/menubar-shelf/internal/version"
)

// Name is the MCP server name advertised to clients.
const Name = "menubar-shelf"

// Options selects optional tool groups.
type Options struct {
	// ShelfTools registers show/hide/toggle. Only meaningful while the
	// native event loop is running.
	ShelfTools bool
}

// Server wraps the MCP server with the shelf runtime.
type Server struct {
	rt   *shelf.Runtime
	mcp  *mcpserver.MCPServer
	opts Options

	clickMu sync.Mutex // one forwarded click at a time

	httpMu  sync.Mutex
	httpSrv *mcpserver.StreamableHTTPServer
}

// New creates and configures an MCP server with the shelf tools.
func New(rt *shelf.Runtime, opts Options) *Server {
	s := &Server{rt: rt, opts: opts}
	s.mcp = mcpserver.NewMCPServer(Name, version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve starts the server with the given transport and blocks.
func (s *Server) Serve(transport string, port int) error {
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpSrv := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.httpMu.Lock()
		s.httpSrv = httpSrv
		s.httpMu.Unlock()
		return httpSrv.Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

// Shutdown stops a streamable-http server started by Serve.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpMu.Lock()
	httpSrv := s.httpSrv
	s.httpMu.Unlock()
	if httpSrv == nil {
		return nil
	}
	return httpSrv.Shutdown(ctx)
}

func (s *Server) registerTools() {
	// list_items
	s.mcp.AddTool(
		mcp.NewTool("list_items",
			mcp.WithDescription("List the status items currently in the macOS menu bar, sorted left to right. Each item has an id (valid for this scan), a stable key, owner, role and frame."),
			mcp.WithString("owner", mcp.Description("Filter by owning application name (case-insensitive)")),
			mcp.WithNumber("pid", mcp.Description("Filter by owning process ID")),
			mcp.WithBoolean("cached", mcp.Description("Return the last published scan instead of scanning now")),
		),
		s.handleListItems,
	)

	// click_item
	s.mcp.AddTool(
		mcp.NewTool("click_item",
			mcp.WithDescription("Click a menu bar status item by synthesizing a press and release at its center"),
			mcp.WithString("id", mcp.Description("Item id or stable key from list_items")),
			mcp.WithString("owner", mcp.Description("Select by owning application name")),
			mcp.WithNumber("index", mcp.Description("Index among items matching owner (default 0)")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
		),
		s.handleClickItem,
	)

	// capture_item
	s.mcp.AddTool(
		mcp.NewTool("capture_item",
			mcp.WithDescription("Capture the icon of a menu bar status item as a PNG image. Requires screen recording permission."),
			mcp.WithString("id", mcp.Description("Item id or stable key from list_items")),
			mcp.WithString("owner", mcp.Description("Select by owning application name")),
			mcp.WithNumber("index", mcp.Description("Index among items matching owner (default 0)")),
			mcp.WithNumber("size", mcp.Description("Scale the icon to fit a square of this many pixels (0 = original)")),
		),
		s.handleCaptureItem,
	)

	// invalidate_cache
	s.mcp.AddTool(
		mcp.NewTool("invalidate_cache",
			mcp.WithDescription("Forget captured icons so they are re-read from the screen"),
			mcp.WithString("owner", mcp.Description("Only forget icons of this owner (default: all)")),
		),
		s.handleInvalidateCache,
	)

	// cache_stats
	s.mcp.AddTool(
		mcp.NewTool("cache_stats",
			mcp.WithDescription("Report icon cache entries, hits, misses and memory"),
		),
		s.handleCacheStats,
	)

	// refresh
	s.mcp.AddTool(
		mcp.NewTool("refresh",
			mcp.WithDescription("Forget all captured icons and rescan the menu bar now"),
		),
		s.handleRefresh,
	)

	// permissions
	s.mcp.AddTool(
		mcp.NewTool("permissions",
			mcp.WithDescription("Report whether accessibility and screen recording access are granted"),
		),
		s.handlePermissions,
	)

	if !s.opts.ShelfTools || s.rt.Overlay == nil {
		return
	}

	s.mcp.AddTool(
		mcp.NewTool("show_shelf",
			mcp.WithDescription("Show the shelf window under the menu bar"),
		),
		s.handleShowShelf,
	)
	s.mcp.AddTool(
		mcp.NewTool("hide_shelf",
			mcp.WithDescription("Hide the shelf window"),
		),
		s.handleHideShelf,
	)
	s.mcp.AddTool(
		mcp.NewTool("toggle_shelf",
			mcp.WithDescription("Show the shelf if hidden, hide it if visible"),
		),
		s.handleToggleShelf,
	)
}
