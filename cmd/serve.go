package cmd

import (
	"fmt"

	"github.com/mj1618/menubar-shelf/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing menu bar tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes list, click and
capture of menu bar status items as tools.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

The shelf window tools (show_shelf, hide_shelf, toggle_shelf) are only
available from 'menubar-shelf run --mcp-port'.

Examples:
  menubar-shelf serve
  menubar-shelf serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	rt, err := newRuntime()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer rt.Close()

	return server.New(rt, server.Options{}).Serve(transport, port)
}
