package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Scan.Interval != 2*time.Second {
		t.Errorf("scan.interval = %v, want 2s", cfg.Scan.Interval)
	}
	if cfg.Scan.MaxDepth != 2 || cfg.Scan.MenuBarThreshold != 50 {
		t.Errorf("scan = %+v", cfg.Scan)
	}
	if cfg.Pointer.Settle != 50*time.Millisecond {
		t.Errorf("pointer.settle = %v, want 50ms", cfg.Pointer.Settle)
	}
	o := cfg.Overlay
	if o.Width != 400 || o.Height != 70 || o.Margin != 8 || o.NotchOffset != 8 || o.MaxEntries != 10 {
		t.Errorf("overlay = %+v", o)
	}
	if o.Fade != 150*time.Millisecond || o.ForwardDelay != 200*time.Millisecond {
		t.Errorf("overlay timing = %v / %v", o.Fade, o.ForwardDelay)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
scan:
  interval: 5s
overlay:
  width: 480
  forward_delay: 300ms
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Interval != 5*time.Second {
		t.Errorf("scan.interval = %v, want 5s", cfg.Scan.Interval)
	}
	if cfg.Scan.MaxDepth != 2 {
		t.Errorf("scan.max_depth = %d, want default 2", cfg.Scan.MaxDepth)
	}
	if cfg.Overlay.Width != 480 || cfg.Overlay.Height != 70 {
		t.Errorf("overlay size = %vx%v, want 480x70", cfg.Overlay.Width, cfg.Overlay.Height)
	}
	if cfg.Overlay.ForwardDelay != 300*time.Millisecond {
		t.Errorf("overlay.forward_delay = %v, want 300ms", cfg.Overlay.ForwardDelay)
	}
	if lvl, _ := ParseLevel(cfg.Logging.Level); lvl != slog.LevelDebug {
		t.Errorf("level = %v, want debug", lvl)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{"zero interval", "scan:\n  interval: 0s\n", "scan.interval"},
		{"bad duration", "scan:\n  interval: soon\n", "parse config"},
		{"negative width", "overlay:\n  width: -1\n", "overlay size"},
		{"no entries", "overlay:\n  max_entries: 0\n", "overlay.max_entries"},
		{"unknown level", "logging:\n  level: chatty\n", "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tt.contents))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected error for missing explicit path")
	}
}

func TestLoad_MissingDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Interval != Default().Scan.Interval {
		t.Errorf("expected defaults")
	}
}

func TestOptionsConversion(t *testing.T) {
	cfg := Default()
	cfg.Capture.EntryIconSize = 24
	o := cfg.OverlayOptions()
	if o.Size.Width != 400 || o.Size.Height != 70 || o.IconSize != 24 {
		t.Errorf("overlay options = %+v", o)
	}
	s := cfg.ScannerOptions()
	if s.MaxDepth != 2 || s.MenuBarThreshold != 50 {
		t.Errorf("scanner options = %+v", s)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
