package platform

import (
	"fmt"
	"image"
	"strings"

	"github.com/mj1618/menubar-shelf/internal/model"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left", "":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// KeyCodeEscape is the macOS virtual key code of the Escape key.
const KeyCodeEscape uint16 = 0x35

// Process is one running application.
type Process struct {
	PID      int
	BundleID string // empty when the process has no application identifier
	Name     string // localized display name, falls back to BundleID
}

// Permissions is a snapshot of the OS privacy grants.
type Permissions struct {
	AccessibilityTrusted   bool `yaml:"accessibility_trusted"    json:"accessibility_trusted"`
	ScreenRecordingAllowed bool `yaml:"screen_recording_allowed" json:"screen_recording_allowed"`
}

// Screen describes the primary display in window coordinates (bottom-left origin).
type Screen struct {
	Frame    model.Rect // full display
	Visible  model.Rect // excludes menu bar and Dock
	TopInset float64    // safe-area top inset; > 0 when a camera housing is present
}

// MonitorID identifies a registered global input monitor.
type MonitorID int

// StatusAction is a status item menu choice.
type StatusAction int

const (
	StatusToggleShelf StatusAction = iota + 1
	StatusRefresh
	StatusQuit
)

// ShelfEntry is one rendered item on the shelf.
type ShelfEntry struct {
	Label string
	Image *image.RGBA // placeholder until the captured thumbnail arrives
}
