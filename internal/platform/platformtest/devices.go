package platformtest

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Capturer returns solid bitmaps and counts display reads.
type Capturer struct {
	mu    sync.Mutex
	Calls []model.Rect
	Err   error

	// Block, when set, is received from before each capture returns.
	Block chan struct{}

	// NoImage makes captures succeed with a nil image.
	NoImage bool
}

func (c *Capturer) CaptureRect(r model.Rect) (*image.RGBA, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, r)
	err := c.Err
	block := c.Block
	noImage := c.NoImage
	c.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if noImage {
		return nil, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, int(r.Width), int(r.Height)))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-1] = 0xff
		img.Pix[i] = 0xff
	}
	return img, nil
}

// CallCount returns the number of CaptureRect calls.
func (c *Capturer) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// MouseEvent is one recorded synthetic event.
type MouseEvent struct {
	Point  model.Point
	Button platform.MouseButton
	Down   bool
	At     time.Time
}

// Poster records posted events. Now stamps each event; nil leaves At zero.
type Poster struct {
	mu     sync.Mutex
	Events []MouseEvent
	Now    func() time.Time
	FailOn func(down bool) bool
}

func (p *Poster) PostMouseEvent(pt model.Point, button platform.MouseButton, down bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailOn != nil && p.FailOn(down) {
		return fmt.Errorf("event creation refused")
	}
	ev := MouseEvent{Point: pt, Button: button, Down: down}
	if p.Now != nil {
		ev.At = p.Now()
	}
	p.Events = append(p.Events, ev)
	return nil
}

// Recorded returns a copy of the events posted so far.
func (p *Poster) Recorded() []MouseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]MouseEvent(nil), p.Events...)
}

// Permissions is a settable permission snapshot.
type Permissions struct {
	mu                 sync.Mutex
	State              platform.Permissions
	AccessibilityAsked int
	ScreenAsked        int
	GrantOnRequest     bool
}

func (p *Permissions) Snapshot() platform.Permissions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State
}

func (p *Permissions) Set(s platform.Permissions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = s
}

func (p *Permissions) RequestAccessibility() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AccessibilityAsked++
}

func (p *Permissions) RequestScreenRecording() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ScreenAsked++
	if p.GrantOnRequest {
		p.State.ScreenRecordingAllowed = true
	}
	return p.State.ScreenRecordingAllowed
}

// Display reports a fixed screen.
type Display struct {
	Screen platform.Screen
	Err    error
	Calls  int
}

func (d *Display) MainScreen() (platform.Screen, error) {
	d.Calls++
	return d.Screen, d.Err
}

// LaptopScreen is a 1512x982 display with a 37pt menu bar, a 70pt Dock and a
// camera housing.
func LaptopScreen() platform.Screen {
	return platform.Screen{
		Frame:    model.Rect{X: 0, Y: 0, Width: 1512, Height: 982},
		Visible:  model.Rect{X: 0, Y: 70, Width: 1512, Height: 875},
		TopInset: 32,
	}
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
