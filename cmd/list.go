package cmd

import (
	"context"
	"time"

	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/shelf"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu bar status items",
	Long:  "Scan the menu bar once and print every status item with its owner, role, stable key and frame, sorted left to right.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("owner", "", "Filter by owning application name")
	listCmd.Flags().Int("pid", 0, "Filter by owning process ID")
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	owner, _ := cmd.Flags().GetString("owner")
	pid, _ := cmd.Flags().GetInt("pid")

	items := rt.Scanner.Scan(context.Background())
	return output.Print(output.NewItemsResult(time.Now().Unix(), shelf.Filter(items, owner, pid)))
}
