// Package pointer synthesizes clicks on menu bar items.
package pointer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// DefaultSettle is the pause between the button-down and button-up events.
const DefaultSettle = 50 * time.Millisecond

// ErrDegenerateFrame is returned for frames without positive width and height.
var ErrDegenerateFrame = errors.New("frame has no area")

// Synthesizer posts button-down then button-up at the center of a frame.
type Synthesizer struct {
	poster platform.EventPoster
	clk    clock.Clock
	settle time.Duration
}

// New creates a synthesizer. A non-positive settle takes the default.
func New(poster platform.EventPoster, clk clock.Clock, settle time.Duration) *Synthesizer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Synthesizer{poster: poster, clk: clk, settle: settle}
}

// Click presses and releases button at the center of frame. It returns after
// the release has been posted. Failures are logged and returned but never
// retried.
func (s *Synthesizer) Click(frame model.Rect, button platform.MouseButton) error {
	if frame.Empty() {
		return ErrDegenerateFrame
	}
	at := frame.Center()

	if err := s.poster.PostMouseEvent(at, button, true); err != nil {
		slog.Warn("pointer: button down failed", "button", button, "x", at.X, "y", at.Y, "err", err)
		return fmt.Errorf("post %s down: %w", button, err)
	}
	s.clk.Sleep(s.settle)
	if err := s.poster.PostMouseEvent(at, button, false); err != nil {
		slog.Warn("pointer: button up failed", "button", button, "x", at.X, "y", at.Y, "err", err)
		return fmt.Errorf("post %s up: %w", button, err)
	}

	slog.Debug("pointer: clicked", "button", button, "x", at.X, "y", at.Y)
	return nil
}
