package cmd

import (
	"context"

	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/shelf"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click a menu bar status item",
	Long: `Forward a click to a status item by posting a button press and release at
the center of its frame. The item is picked by --id, or by --owner and --index.

Examples:
  menubar-shelf click --owner "Wi-Fi"
  menubar-shelf click --owner "Control Center" --index 1 --button right`,
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addSelectorFlags(clickCmd)
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
}

func runClick(cmd *cobra.Command, args []string) error {
	sel, err := getSelector(cmd)
	if err != nil {
		return err
	}
	buttonStr, _ := cmd.Flags().GetString("button")
	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
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
	if err := rt.Click(item, button); err != nil {
		return err
	}

	center := item.Frame.Center()
	return output.Print(output.ActionResult{
		OK:     true,
		Action: "click",
		Owner:  item.Owner,
		Key:    item.Key,
		Button: button.String(),
		X:      int(center.X),
		Y:      int(center.Y),
	})
}
