package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/menubar-shelf/internal/config"
	"github.com/mj1618/menubar-shelf/internal/output"
	"github.com/mj1618/menubar-shelf/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "menubar-shelf",
	Short: "Mirror macOS menu bar status items into a floating shelf",
	Long: `A menu bar utility that finds status items through the accessibility API,
shows them in a shelf window below the menu bar, and forwards clicks on the
shelf to the real items. Hidden icons (behind the notch or crowded out) stay
reachable.

Run 'menubar-shelf run' to start the shelf, or use the one-shot commands to
list, capture and click items from scripts and agents.`,
}

// cfg is loaded by the root command before any subcommand runs.
var cfg = config.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json (default: yaml on a terminal, json when piped)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		levelName, _ := rootCmd.PersistentFlags().GetString("log-level")
		if levelName == "" {
			levelName = cfg.Logging.Level
		}
		level, err := config.ParseLevel(levelName)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		// Piped output (scripts, agents) gets JSON; terminals get YAML.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.DetectFormat(format, term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
