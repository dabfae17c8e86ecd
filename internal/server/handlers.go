package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/menubar-shelf/internal/capture"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/shelf"
)

// currentItems returns the published items, scanning first when nothing has
// been published yet.
func (s *Server) currentItems(ctx context.Context) []model.MenuBarItem {
	if s.rt.Store.Current().Seq == 0 {
		return s.rt.Scanner.Scan(ctx)
	}
	return s.rt.Items()
}

func selectorFrom(params map[string]interface{}) shelf.Selector {
	return shelf.Selector{
		ID:    stringParam(params, "id", ""),
		Owner: stringParam(params, "owner", ""),
		Index: intParam(params, "index", 0),
	}
}

func (s *Server) handleListItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	owner := stringParam(params, "owner", "")
	pid := intParam(params, "pid", 0)

	var items []model.MenuBarItem
	if boolParam(params, "cached", false) {
		items = s.currentItems(ctx)
	} else {
		items = s.rt.Scanner.Scan(ctx)
	}

	res := output.NewItemsResult(time.Now().Unix(), shelf.Filter(items, owner, pid))
	return mcp.NewToolResultText(output.YAMLText(res)), nil
}

func (s *Server) handleClickItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	button, err := platform.ParseMouseButton(stringParam(params, "button", "left"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := shelf.Select(s.currentItems(ctx), selectorFrom(params))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.clickMu.Lock()
	err = s.rt.Click(item, button)
	s.clickMu.Unlock()

	center := item.Frame.Center()
	res := output.ActionResult{
		OK:     err == nil,
		Action: "click",
		Owner:  item.Owner,
		Key:    item.Key,
		Button: button.String(),
		X:      int(center.X),
		Y:      int(center.Y),
	}
	if err != nil {
		res.Error = err.Error()
		return mcp.NewToolResultError(output.YAMLText(res)), nil
	}
	return mcp.NewToolResultText(output.YAMLText(res)), nil
}

func (s *Server) handleCaptureItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	size := intParam(params, "size", 0)
	if size < 0 {
		return mcp.NewToolResultError("size must not be negative"), nil
	}
	item, err := shelf.Select(s.currentItems(ctx), selectorFrom(params))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	th, ok := s.rt.Capture(item)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("could not capture %s: screen recording permission missing or capture failed", item.Owner)), nil
	}
	img := th.Image
	if size > 0 {
		img = capture.Scale(img, size, size)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode png: %v", err)), nil
	}
	b := img.Bounds()
	res := output.CaptureResult{
		Owner:  item.Owner,
		Key:    item.Key,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  humanize.Bytes(uint64(buf.Len())),
	}
	return mcp.NewToolResultImage(output.YAMLText(res), base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png"), nil
}

func (s *Server) handleInvalidateCache(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.rt.Cache == nil {
		return mcp.NewToolResultError(platform.ErrUnsupported.Error()), nil
	}
	owner := stringParam(request.GetArguments(), "owner", "")
	before := s.rt.Cache.Len()
	if owner == "" {
		s.rt.Cache.InvalidateAll()
	} else {
		s.rt.Cache.Invalidate(owner)
	}
	dropped := before - s.rt.Cache.Len()
	return mcp.NewToolResultText(fmt.Sprintf("ok: true\ndropped: %d\n", dropped)), nil
}

func (s *Server) handleCacheStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.rt.Cache == nil {
		return mcp.NewToolResultError(platform.ErrUnsupported.Error()), nil
	}
	st := s.rt.Cache.Stats()
	text := output.YAMLText(map[string]interface{}{
		"entries": st.Entries,
		"hits":    humanize.Comma(int64(st.Hits)),
		"misses":  humanize.Comma(int64(st.Misses)),
		"memory":  humanize.Bytes(uint64(st.Bytes)),
	})
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleRefresh(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.rt.Refresh(ctx)
	res := output.NewItemsResult(time.Now().Unix(), items)
	return mcp.NewToolResultText(output.YAMLText(res)), nil
}

func (s *Server) handlePermissions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.rt.Provider.Permissions == nil {
		return mcp.NewToolResultError(platform.ErrUnsupported.Error()), nil
	}
	return mcp.NewToolResultText(output.YAMLText(s.rt.Provider.Permissions.Snapshot())), nil
}

func (s *Server) shelfState() string {
	return fmt.Sprintf("state: %s\n", s.rt.Overlay.State())
}

// onMain runs fn on the native main thread and waits for it.
func (s *Server) onMain(fn func() error) error {
	done := make(chan error, 1)
	s.rt.Provider.App.DispatchToMain(func() { done <- fn() })
	return <-done
}

func (s *Server) handleShowShelf(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.onMain(s.rt.Overlay.Show); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.shelfState()), nil
}

func (s *Server) handleHideShelf(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.onMain(func() error {
		s.rt.Overlay.Hide()
		return nil
	})
	return mcp.NewToolResultText(s.shelfState()), nil
}

func (s *Server) handleToggleShelf(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.onMain(s.rt.Overlay.Toggle); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.shelfState()), nil
}
