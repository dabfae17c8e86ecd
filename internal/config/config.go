// Package config loads the shelf's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/overlay"
	"github.com/mj1618/menubar-shelf/internal/pointer"
	"github.com/mj1618/menubar-shelf/internal/scanner"
	"gopkg.in/yaml.v3"
)

// AppDir is the directory name under the user config dir.
const AppDir = "menubar-shelf"

// Config is the complete shelf configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Capture CaptureConfig `yaml:"capture"`
	Pointer PointerConfig `yaml:"pointer"`
	Overlay OverlayConfig `yaml:"overlay"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig controls the accessibility scanner.
type ScanConfig struct {
	Interval         time.Duration `yaml:"interval"`
	MaxDepth         int           `yaml:"max_depth"`
	MenuBarThreshold float64       `yaml:"menu_bar_threshold"` // points from the top of the screen
}

// CaptureConfig controls thumbnails.
type CaptureConfig struct {
	EntryIconSize int `yaml:"entry_icon_size"` // pixels, square
}

// PointerConfig controls click synthesis.
type PointerConfig struct {
	Settle time.Duration `yaml:"settle"` // between button down and up
}

// OverlayConfig controls the shelf window.
type OverlayConfig struct {
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Margin       float64       `yaml:"margin"`
	NotchOffset  float64       `yaml:"notch_offset"`
	Fade         time.Duration `yaml:"fade"`
	ForwardDelay time.Duration `yaml:"forward_delay"`
	MaxEntries   int           `yaml:"max_entries"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Interval:         2 * time.Second,
			MaxDepth:         scanner.DefaultMaxDepth,
			MenuBarThreshold: scanner.DefaultMenuBarThreshold,
		},
		Capture: CaptureConfig{EntryIconSize: overlay.DefaultIconSize},
		Pointer: PointerConfig{Settle: pointer.DefaultSettle},
		Overlay: OverlayConfig{
			Width:        overlay.DefaultWidth,
			Height:       overlay.DefaultHeight,
			Margin:       overlay.DefaultMargin,
			NotchOffset:  overlay.DefaultNotchOffset,
			Fade:         overlay.DefaultFade,
			ForwardDelay: overlay.DefaultForwardDelay,
			MaxEntries:   overlay.DefaultMaxEntries,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath returns config.yaml inside the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, AppDir, "config.yaml")
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.Scan.Interval <= 0 {
		errs = append(errs, fmt.Errorf("scan.interval must be positive, got %s", c.Scan.Interval))
	}
	if c.Scan.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("scan.max_depth must not be negative, got %d", c.Scan.MaxDepth))
	}
	if c.Scan.MenuBarThreshold <= 0 {
		errs = append(errs, fmt.Errorf("scan.menu_bar_threshold must be positive, got %g", c.Scan.MenuBarThreshold))
	}
	if c.Capture.EntryIconSize <= 0 {
		errs = append(errs, fmt.Errorf("capture.entry_icon_size must be positive, got %d", c.Capture.EntryIconSize))
	}
	if c.Pointer.Settle < 0 {
		errs = append(errs, fmt.Errorf("pointer.settle must not be negative, got %s", c.Pointer.Settle))
	}
	if c.Overlay.Width <= 0 || c.Overlay.Height <= 0 {
		errs = append(errs, fmt.Errorf("overlay size must be positive, got %gx%g", c.Overlay.Width, c.Overlay.Height))
	}
	if c.Overlay.Margin < 0 || c.Overlay.NotchOffset < 0 {
		errs = append(errs, errors.New("overlay.margin and overlay.notch_offset must not be negative"))
	}
	if c.Overlay.Fade < 0 || c.Overlay.ForwardDelay < 0 {
		errs = append(errs, errors.New("overlay.fade and overlay.forward_delay must not be negative"))
	}
	if c.Overlay.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("overlay.max_entries must be positive, got %d", c.Overlay.MaxEntries))
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ScannerOptions converts the scan section.
func (c Config) ScannerOptions() scanner.Options {
	return scanner.Options{MaxDepth: c.Scan.MaxDepth, MenuBarThreshold: c.Scan.MenuBarThreshold}
}

// OverlayOptions converts the overlay and capture sections.
func (c Config) OverlayOptions() overlay.Options {
	return overlay.Options{
		Size:         model.Size{Width: c.Overlay.Width, Height: c.Overlay.Height},
		Margin:       c.Overlay.Margin,
		NotchOffset:  c.Overlay.NotchOffset,
		Fade:         c.Overlay.Fade,
		ForwardDelay: c.Overlay.ForwardDelay,
		MaxEntries:   c.Overlay.MaxEntries,
		IconSize:     c.Capture.EntryIconSize,
	}
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: unknown level %q", s)
	}
	return lvl, nil
}
