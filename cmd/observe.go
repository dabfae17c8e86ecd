package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/scanner"
	"github.com/spf13/cobra"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Watch the menu bar and stream item changes as JSONL",
	Long: `Rescan the menu bar periodically and emit changes (added, removed, resized
status items) as JSONL to stdout. Items are matched across scans by their
stable key, so an icon that moves shows up as removed plus added.

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop observing.`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	observeCmd.Flags().Int("interval", 0, "Polling interval in milliseconds (default: scan.interval from config)")
	observeCmd.Flags().Int("duration", 0, "Max seconds to observe (0 = until Ctrl+C)")
}

func runObserve(cmd *cobra.Command, args []string) error {
	intervalMs, _ := cmd.Flags().GetInt("interval")
	durationSec, _ := cmd.Flags().GetInt("duration")

	interval := cfg.Scan.Interval
	if intervalMs > 0 {
		interval = time.Duration(intervalMs) * time.Millisecond
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	return observe(ctx, rt.Scanner, interval, os.Stdout)
}

// observe emits a snapshot event, then one event per change on every scan
// until ctx is done, then a done event.
func observe(ctx context.Context, s *scanner.Scanner, interval time.Duration, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	start := time.Now()

	prev := s.Scan(ctx)
	enc.Encode(map[string]interface{}{
		"type":  "snapshot",
		"ts":    time.Now().Unix(),
		"count": len(prev),
	})

	eventCount := 0
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}

		curr := s.Scan(ctx)
		if ctx.Err() != nil {
			break loop
		}
		eventCount += emitChanges(enc, prev, curr)
		prev = curr
	}

	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      time.Now().Unix(),
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  eventCount,
	})
	return nil
}

// emitChanges writes one JSON line per change and returns how many it wrote.
func emitChanges(enc *json.Encoder, prev, curr []model.MenuBarItem) int {
	changes := model.DiffItems(prev, curr)
	for _, change := range changes {
		enc.Encode(change)
	}
	return len(changes)
}
