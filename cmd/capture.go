package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mj1618/menubar-shelf/internal/capture"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/shelf"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Save a menu bar status item's icon as PNG",
	Long: `Capture the on-screen icon of one status item and write it as a PNG file.
Requires screen recording permission (see 'menubar-shelf permissions').

Examples:
  menubar-shelf capture --owner "Battery"
  menubar-shelf capture --owner "Control Center" --index 1 --size 64 --output cc.png`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	addSelectorFlags(captureCmd)
	captureCmd.Flags().StringP("output", "o", "", "Output file (default: <owner>.png)")
	captureCmd.Flags().Int("size", 0, "Scale to fit a square of this many pixels (0 = original)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	sel, err := getSelector(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("output")
	size, _ := cmd.Flags().GetInt("size")
	if size < 0 {
		return fmt.Errorf("--size must not be negative")
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	item, err := shelf.Select(rt.Scanner.Scan(context.Background()), sel)
	if err != nil {
		return err
	}
	th, ok := rt.Capture(item)
	if !ok {
		return fmt.Errorf("could not capture %s: grant screen recording with 'menubar-shelf permissions --request'", item.Owner)
	}

	var img image.Image = th.Image
	if size > 0 {
		img = capture.Scale(th.Image, size, size)
	}
	if path == "" {
		path = defaultCapturePath(item)
	}
	written, err := writePNG(path, img)
	if err != nil {
		return err
	}

	b := img.Bounds()
	return output.Print(output.CaptureResult{
		Owner:  item.Owner,
		Key:    item.Key,
		Path:   path,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  humanize.Bytes(uint64(written)),
	})
}

// defaultCapturePath derives a file name from the owner.
func defaultCapturePath(item model.MenuBarItem) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '.':
			return '-'
		default:
			return -1
		}
	}, item.Owner)
	if name == "" {
		name = "item"
	}
	return name + ".png"
}

func writePNG(path string, img image.Image) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return 0, fmt.Errorf("encode png: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	return info.Size(), f.Close()
}
