package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mj1618/menubar-shelf/internal/server"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the shelf in the menu bar",
	Long: `Install the status item, scan the menu bar periodically and show the shelf
when 'Toggle Shelf' is chosen from the status item menu. Clicking an icon on
the shelf hides it and forwards the click to the real item.

With --mcp-port, an MCP server is served over streamable HTTP alongside,
including tools to show, hide and toggle the shelf.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("mcp-port", 0, "Serve MCP over streamable HTTP on this port (0 = off)")
}

func runRun(cmd *cobra.Command, args []string) error {
	mcpPort, _ := cmd.Flags().GetInt("mcp-port")

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		srv := server.New(rt, server.Options{ShelfTools: true})
		go func() {
			slog.Info("mcp: serving", "transport", "streamable-http", "port", mcpPort)
			if err := srv.Serve("streamable-http", mcpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("mcp: server stopped", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	return rt.Run()
}
