// Package overlay drives the floating shelf window that mirrors menu bar
// items below the menu bar.
package overlay

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/menubar-shelf/internal/capture"
	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// State is the shelf visibility.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// ForwardState tracks a click being forwarded from the shelf to the real
// menu bar item.
type ForwardState int

const (
	ForwardIdle ForwardState = iota
	DismissRequested
	Dismissed
	ClickForwarded
)

func (f ForwardState) String() string {
	switch f {
	case DismissRequested:
		return "dismiss_requested"
	case Dismissed:
		return "dismissed"
	case ClickForwarded:
		return "click_forwarded"
	default:
		return "idle"
	}
}

// Defaults for Options.
const (
	DefaultWidth        = 400
	DefaultHeight       = 70
	DefaultMargin       = 8
	DefaultNotchOffset  = 8
	DefaultFade         = 150 * time.Millisecond
	DefaultForwardDelay = 200 * time.Millisecond
	DefaultMaxEntries   = 10
	DefaultIconSize     = 32
)

// Options controls shelf geometry and timing. Zero values take defaults.
type Options struct {
	Size         model.Size
	Margin       float64
	NotchOffset  float64
	Fade         time.Duration
	ForwardDelay time.Duration
	MaxEntries   int
	IconSize     int
}

func (o Options) withDefaults() Options {
	if o.Size.Width <= 0 {
		o.Size.Width = DefaultWidth
	}
	if o.Size.Height <= 0 {
		o.Size.Height = DefaultHeight
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.NotchOffset <= 0 {
		o.NotchOffset = DefaultNotchOffset
	}
	if o.Fade <= 0 {
		o.Fade = DefaultFade
	}
	if o.ForwardDelay <= 0 {
		o.ForwardDelay = DefaultForwardDelay
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.IconSize <= 0 {
		o.IconSize = DefaultIconSize
	}
	return o
}

// DefaultOptions returns the stock shelf layout.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// ItemSource supplies the latest scanned items.
type ItemSource interface {
	Items() []model.MenuBarItem
}

// Thumbnailer captures item icons.
type Thumbnailer interface {
	Capture(frame model.Rect, owner string) (*capture.Thumbnail, bool)
}

// Clicker forwards a click to a screen frame.
type Clicker interface {
	Click(frame model.Rect, button platform.MouseButton) error
}

// Deps are the collaborators of a Controller.
type Deps struct {
	App     platform.Application
	Display platform.Display
	Items   ItemSource
	Thumbs  Thumbnailer
	Clicker Clicker
	Clock   clock.Clock
}

// Controller owns the shelf window, its visibility and the global monitors
// that dismiss it. The shelf is Visible exactly when both monitors are
// registered.
type Controller struct {
	deps     Deps
	opts     Options
	runAsync func(func())

	mu         sync.Mutex
	window     platform.ShelfWindow
	state      State
	frame      model.Rect
	pointerMon platform.MonitorID
	keyMon     platform.MonitorID
	session    uint64
	rendered   []model.MenuBarItem
	hoveredKey string
	forward    ForwardState
	pending    clock.Stopper
	pendingTok uint64
}

// New creates a hidden controller. The window is created on first Show.
func New(deps Deps, opts Options) *Controller {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	return &Controller{
		deps:     deps,
		opts:     opts.withDefaults(),
		runAsync: func(fn func()) { go fn() },
	}
}

// State returns the current visibility.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ForwardState returns the progress of the last forwarded click.
func (c *Controller) ForwardState() ForwardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward
}

// Frame returns the last frame assigned to the window.
func (c *Controller) Frame() model.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Rendered returns the items currently shown.
func (c *Controller) Rendered() []model.MenuBarItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.MenuBarItem(nil), c.rendered...)
}

// Show positions the shelf under the menu bar, renders the latest items and
// registers the dismiss monitors. Showing an already visible shelf only
// repositions it. A pending forwarded click is cancelled.
func (c *Controller) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelForwardLocked()

	if c.window == nil {
		w, err := c.deps.App.NewShelfWindow(c.opts.Size, c)
		if err != nil {
			return fmt.Errorf("create shelf window: %w", err)
		}
		c.window = w
	}

	screen, err := c.deps.Display.MainScreen()
	if err != nil {
		return fmt.Errorf("read main screen: %w", err)
	}
	c.frame = ShelfFrame(screen, c.opts.Size, c.opts.Margin, c.opts.NotchOffset)
	c.window.SetFrame(c.frame)

	if c.state == Visible {
		return nil
	}

	pid, err := c.deps.App.AddPointerDownMonitor(c.onPointerDown)
	if err != nil {
		return fmt.Errorf("register pointer monitor: %w", err)
	}
	kid, err := c.deps.App.AddKeyDownMonitor(c.onKeyDown)
	if err != nil {
		c.deps.App.RemoveMonitor(pid)
		return fmt.Errorf("register key monitor: %w", err)
	}
	c.pointerMon, c.keyMon = pid, kid

	c.hoveredKey = ""
	c.renderLocked(c.deps.Items.Items())
	c.state = Visible
	c.window.FadeIn(c.opts.Fade)

	slog.Debug("overlay: shown", "entries", len(c.rendered), "frame", c.frame)
	return nil
}

// Hide removes the monitors and fades the shelf out. Hiding a hidden shelf
// does nothing.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideLocked()
}

// Toggle hides a visible shelf and shows a hidden one.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	visible := c.state == Visible
	c.mu.Unlock()
	if visible {
		c.Hide()
		return nil
	}
	return c.Show()
}

func (c *Controller) hideLocked() {
	if c.state != Visible {
		return
	}
	c.deps.App.RemoveMonitor(c.pointerMon)
	c.deps.App.RemoveMonitor(c.keyMon)
	c.pointerMon, c.keyMon = 0, 0
	c.state = Hidden
	c.session++
	c.window.FadeOut(c.opts.Fade, nil)
	slog.Debug("overlay: hidden")
}

// Activate dismisses the shelf and, after the forward delay, clicks the real
// item behind entry index. It reports false when the shelf is not visible or
// the index is out of range.
func (c *Controller) Activate(index int, button platform.MouseButton) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Visible {
		slog.Debug("overlay: activation ignored while hidden", "index", index)
		return false
	}
	if index < 0 || index >= len(c.rendered) {
		slog.Debug("overlay: activation out of range", "index", index, "entries", len(c.rendered))
		return false
	}
	item := c.rendered[index]

	c.cancelForwardLocked()
	c.forward = DismissRequested
	c.hideLocked()
	c.forward = Dismissed

	c.pendingTok++
	tok := c.pendingTok
	c.pending = c.deps.Clock.AfterFunc(c.opts.ForwardDelay, func() {
		c.forwardClick(tok, item, button)
	})
	return true
}

func (c *Controller) forwardClick(tok uint64, item model.MenuBarItem, button platform.MouseButton) {
	c.mu.Lock()
	if tok != c.pendingTok || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	if err := c.deps.Clicker.Click(item.Frame, button); err != nil {
		slog.Warn("overlay: click forward failed", "owner", item.Owner, "button", button, "err", err)
	} else {
		slog.Debug("overlay: click forwarded", "owner", item.Owner, "button", button)
	}

	c.mu.Lock()
	if tok == c.pendingTok {
		c.forward = ClickForwarded
	}
	c.mu.Unlock()
}

func (c *Controller) cancelForwardLocked() {
	if c.pending == nil {
		return
	}
	c.pending.Stop()
	c.pending = nil
	c.pendingTok++
	c.forward = ForwardIdle
}

// Refresh reconciles a visible shelf with a newer item list. It re-renders
// only when the lists differ by stable key and keeps the hovered entry
// highlighted if it survived. It reports whether anything was re-rendered.
func (c *Controller) Refresh(items []model.MenuBarItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Visible {
		return false
	}
	if len(items) > c.opts.MaxEntries {
		items = items[:c.opts.MaxEntries]
	}
	if len(model.DiffItems(c.rendered, items)) == 0 {
		return false
	}

	c.session++
	c.renderLocked(items)
	idx := model.IndexOfKey(c.rendered, c.hoveredKey)
	if idx < 0 {
		c.hoveredKey = ""
	}
	c.window.SetHighlighted(idx)
	return true
}

// renderLocked shows placeholders for items and starts their captures.
func (c *Controller) renderLocked(items []model.MenuBarItem) {
	if len(items) > c.opts.MaxEntries {
		items = items[:c.opts.MaxEntries]
	}
	c.rendered = append([]model.MenuBarItem(nil), items...)

	size := c.opts.IconSize
	entries := make([]platform.ShelfEntry, len(c.rendered))
	for i, it := range c.rendered {
		entries[i] = platform.ShelfEntry{
			Label: model.ShortName(it.Owner),
			Image: capture.Placeholder(it.Owner, size, size),
		}
	}
	c.window.SetEntries(entries)

	session := c.session
	for i, it := range c.rendered {
		c.runAsync(func() { c.loadThumbnail(session, i, it) })
	}
}

func (c *Controller) loadThumbnail(session uint64, index int, item model.MenuBarItem) {
	th, ok := c.deps.Thumbs.Capture(item.Frame, item.Owner)
	if !ok {
		return
	}
	img := capture.Scale(th.Image, c.opts.IconSize, c.opts.IconSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if session != c.session || c.state != Visible {
		return
	}
	c.window.SetEntryImage(index, img)
}

func (c *Controller) onPointerDown() {
	at := c.deps.App.MouseLocation()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Visible && !c.frame.Contains(at) {
		c.hideLocked()
	}
}

func (c *Controller) onKeyDown(code uint16) {
	if code != platform.KeyCodeEscape {
		return
	}
	c.Hide()
}

// EntryActivated implements platform.ShelfHandler.
func (c *Controller) EntryActivated(index int, button platform.MouseButton) {
	c.Activate(index, button)
}

// EntryHovered implements platform.ShelfHandler.
func (c *Controller) EntryHovered(index int, inside bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Visible || index < 0 || index >= len(c.rendered) {
		return
	}
	key := c.rendered[index].Key
	switch {
	case inside:
		c.hoveredKey = key
		c.window.SetHighlighted(index)
	case c.hoveredKey == key:
		c.hoveredKey = ""
		c.window.SetHighlighted(-1)
	}
}
