package cmd

import (
	"fmt"

	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/spf13/cobra"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Show or request accessibility and screen recording access",
	Long: `Print whether this process is trusted for accessibility (needed to find and
click status items) and allowed to record the screen (needed for icons).

With --request, show the macOS consent prompts for anything not yet granted.`,
	RunE: runPermissions,
}

func init() {
	rootCmd.AddCommand(permissionsCmd)
	permissionsCmd.Flags().Bool("request", false, "Prompt for missing permissions")
}

func runPermissions(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Permissions == nil {
		return fmt.Errorf("permission checks not available on this platform")
	}

	request, _ := cmd.Flags().GetBool("request")
	if request {
		perms := provider.Permissions.Snapshot()
		if !perms.AccessibilityTrusted {
			provider.Permissions.RequestAccessibility()
		}
		if !perms.ScreenRecordingAllowed {
			provider.Permissions.RequestScreenRecording()
		}
	}
	return output.Print(provider.Permissions.Snapshot())
}
