package overlay

import (
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// MenuBarHeight is the strip between the top of the visible area and the top
// of the screen.
func MenuBarHeight(screen platform.Screen) float64 {
	return screen.Frame.Y + screen.Frame.Height - (screen.Visible.Y + screen.Visible.Height)
}

// ShelfFrame anchors a shelf of the given size to the top-right corner of
// the screen, just below the menu bar. Screens with a camera housing push it
// down by notchOffset. All values use the bottom-left origin.
func ShelfFrame(screen platform.Screen, size model.Size, margin, notchOffset float64) model.Rect {
	notch := 0.0
	if screen.TopInset > 0 {
		notch = notchOffset
	}
	return model.Rect{
		X:      screen.Frame.X + screen.Frame.Width - size.Width - margin,
		Y:      screen.Frame.Y + screen.Frame.Height - MenuBarHeight(screen) - size.Height - margin - notch,
		Width:  size.Width,
		Height: size.Height,
	}
}
