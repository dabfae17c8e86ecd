package cmd

import (
	"fmt"

	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/shelf"
	"github.com/spf13/cobra"
)

// newRuntime builds a shelf runtime on the native platform provider.
func newRuntime() (*shelf.Runtime, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	return shelf.New(provider, cfg, clock.Real{})
}

// addSelectorFlags registers the flags that pick one menu bar item.
func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().String("id", "", "Item id or stable key (from list)")
	cmd.Flags().String("owner", "", "Owning application name (case-insensitive)")
	cmd.Flags().Int("index", 0, "Index among items matching --owner, left to right")
}

func getSelector(cmd *cobra.Command) (shelf.Selector, error) {
	id, _ := cmd.Flags().GetString("id")
	owner, _ := cmd.Flags().GetString("owner")
	index, _ := cmd.Flags().GetInt("index")
	if id == "" && owner == "" {
		return shelf.Selector{}, fmt.Errorf("--id or --owner is required")
	}
	return shelf.Selector{ID: id, Owner: owner, Index: index}, nil
}
