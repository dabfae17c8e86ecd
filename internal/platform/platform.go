package platform

import (
	"image"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
)

// Accessibility enumerates processes and exposes their accessibility trees.
type Accessibility interface {
	// RunningProcesses returns every process the OS registry exposes.
	RunningProcesses() ([]Process, error)

	// ApplicationRoot returns the accessibility root of a process.
	// The caller must Release the returned node.
	ApplicationRoot(pid int) (AXNode, error)
}

// AXNode is an opaque handle to one accessibility element. Attribute reads
// report ok=false when the attribute is missing or unreadable; they never fail
// harder than that.
type AXNode interface {
	Role() (string, bool)
	Subrole() (string, bool)
	Position() (model.Point, bool)
	Size() (model.Size, bool)

	// Children returns the node's children. The caller must Release each one.
	Children() ([]AXNode, error)

	Release()
}

// ScreenCapturer reads pixels from the live display.
type ScreenCapturer interface {
	// CaptureRect captures a top-left origin screen rectangle into a bitmap
	// whose pixel size equals the rectangle's size in points.
	CaptureRect(r model.Rect) (*image.RGBA, error)
}

// EventPoster injects synthetic input into the system-wide event stream.
type EventPoster interface {
	PostMouseEvent(p model.Point, button MouseButton, down bool) error
}

// PermissionChecker reads and requests the OS privacy grants the shelf needs.
type PermissionChecker interface {
	Snapshot() Permissions

	// RequestAccessibility shows the OS accessibility prompt if the process
	// is not yet trusted.
	RequestAccessibility()

	// RequestScreenRecording asks for screen capture access. It may show an
	// OS consent prompt once and reports whether access is granted now.
	RequestScreenRecording() bool
}

// Display reports the geometry of the primary display.
type Display interface {
	MainScreen() (Screen, error)
}

// InputMonitors registers global (other-application) input observers.
type InputMonitors interface {
	AddPointerDownMonitor(fn func()) (MonitorID, error)
	AddKeyDownMonitor(fn func(keyCode uint16)) (MonitorID, error)
	RemoveMonitor(id MonitorID)

	// MouseLocation returns the pointer position in window coordinates
	// (bottom-left origin).
	MouseLocation() model.Point
}

// ShelfHandler receives user interaction from a shelf window.
type ShelfHandler interface {
	EntryActivated(index int, button MouseButton)
	EntryHovered(index int, inside bool)
}

// ShelfWindow is the floating overlay panel. Implementations must be safe to
// call from any goroutine.
type ShelfWindow interface {
	// SetFrame moves and resizes the window (bottom-left origin).
	SetFrame(r model.Rect)
	SetEntries(entries []ShelfEntry)
	SetEntryImage(index int, img *image.RGBA)
	SetHighlighted(index int)

	// FadeIn orders the window front at zero opacity and animates to opaque.
	FadeIn(d time.Duration)

	// FadeOut animates to transparent, orders the window out, then calls done
	// (which may be nil).
	FadeOut(d time.Duration, done func())
}

// Application is the native UI host: run loop, status item and shelf windows.
type Application interface {
	InputMonitors

	// Run blocks on the native event loop. It must be called on the main thread.
	Run()
	Quit()
	DispatchToMain(fn func())
	SetupStatusItem(title string, onAction func(StatusAction))
	NewShelfWindow(size model.Size, handler ShelfHandler) (ShelfWindow, error)
}
