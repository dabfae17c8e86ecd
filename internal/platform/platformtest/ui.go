package platformtest

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

// Monitors records global monitor registrations and lets tests fire events.
type Monitors struct {
	mu      sync.Mutex
	next    platform.MonitorID
	pointer map[platform.MonitorID]func()
	key     map[platform.MonitorID]func(uint16)
	Mouse   model.Point
	AddErr  error
	Added   int
	Removed int
}

func (m *Monitors) init() {
	if m.pointer == nil {
		m.pointer = make(map[platform.MonitorID]func())
		m.key = make(map[platform.MonitorID]func(uint16))
	}
}

func (m *Monitors) AddPointerDownMonitor(fn func()) (platform.MonitorID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	m.init()
	m.next++
	m.pointer[m.next] = fn
	m.Added++
	return m.next, nil
}

func (m *Monitors) AddKeyDownMonitor(fn func(uint16)) (platform.MonitorID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	m.init()
	m.next++
	m.key[m.next] = fn
	m.Added++
	return m.next, nil
}

func (m *Monitors) RemoveMonitor(id platform.MonitorID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	if _, ok := m.pointer[id]; ok {
		delete(m.pointer, id)
		m.Removed++
	}
	if _, ok := m.key[id]; ok {
		delete(m.key, id)
		m.Removed++
	}
}

func (m *Monitors) MouseLocation() model.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Mouse
}

// Active returns the number of registered pointer and key monitors.
func (m *Monitors) Active() (pointer, key int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pointer), len(m.key)
}

// ClickAt moves the pointer and fires every pointer-down monitor.
func (m *Monitors) ClickAt(p model.Point) {
	m.mu.Lock()
	m.Mouse = p
	fns := make([]func(), 0, len(m.pointer))
	for _, fn := range m.pointer {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// PressKey fires every key-down monitor.
func (m *Monitors) PressKey(code uint16) {
	m.mu.Lock()
	fns := make([]func(uint16), 0, len(m.key))
	for _, fn := range m.key {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(code)
	}
}

// Window records every call made on a shelf window.
type Window struct {
	mu          sync.Mutex
	Frame       model.Rect
	Entries     []platform.ShelfEntry
	Images      map[int]*image.RGBA
	Highlighted int
	OnScreen    bool
	Alpha       float64
	FadeIns     int
	FadeOuts    int
	SetEntriesN int
	Handler     platform.ShelfHandler
}

func (w *Window) SetFrame(r model.Rect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Frame = r
}

func (w *Window) SetEntries(entries []platform.ShelfEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Entries = append([]platform.ShelfEntry(nil), entries...)
	w.Images = make(map[int]*image.RGBA)
	w.Highlighted = -1
	w.SetEntriesN++
}

func (w *Window) SetEntryImage(index int, img *image.RGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Images == nil {
		w.Images = make(map[int]*image.RGBA)
	}
	w.Images[index] = img
}

func (w *Window) SetHighlighted(index int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Highlighted = index
}

func (w *Window) FadeIn(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.OnScreen = true
	w.Alpha = 1
	w.FadeIns++
}

func (w *Window) FadeOut(d time.Duration, done func()) {
	w.mu.Lock()
	w.Alpha = 0
	w.OnScreen = false
	w.FadeOuts++
	w.mu.Unlock()
	if done != nil {
		done()
	}
}

// Image returns the image set for an entry, if any.
func (w *Window) Image(index int) *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Images[index]
}

// Visible reports whether the window is on screen.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.OnScreen
}

// UIApp is an in-memory Application.
type UIApp struct {
	Monitors
	Windows     []*Window
	WindowErr   error
	StatusTitle string
	OnStatus    func(platform.StatusAction)
	Dispatched  int
	Quitting    bool
}

func (a *UIApp) Run()  {}
func (a *UIApp) Quit() { a.Quitting = true }

func (a *UIApp) DispatchToMain(fn func()) {
	a.Dispatched++
	fn()
}

func (a *UIApp) SetupStatusItem(title string, onAction func(platform.StatusAction)) {
	a.StatusTitle = title
	a.OnStatus = onAction
}

func (a *UIApp) NewShelfWindow(size model.Size, handler platform.ShelfHandler) (platform.ShelfWindow, error) {
	if a.WindowErr != nil {
		return nil, a.WindowErr
	}
	w := &Window{Frame: model.Rect{Width: size.Width, Height: size.Height}, Highlighted: -1, Handler: handler}
	a.Windows = append(a.Windows, w)
	return w, nil
}

// Provider returns a Provider backed entirely by fakes.
func Provider() (*platform.Provider, *Fakes) {
	f := &Fakes{
		Accessibility: &Accessibility{},
		Capturer:      &Capturer{},
		Poster:        &Poster{},
		Permissions:   &Permissions{State: platform.Permissions{AccessibilityTrusted: true, ScreenRecordingAllowed: true}},
		Display:       &Display{Screen: LaptopScreen()},
		App:           &UIApp{},
	}
	return &platform.Provider{
		Accessibility: f.Accessibility,
		Capturer:      f.Capturer,
		Poster:        f.Poster,
		Permissions:   f.Permissions,
		Display:       f.Display,
		App:           f.App,
	}, f
}

// Fakes gives tests typed access to the fakes behind a Provider.
type Fakes struct {
	Accessibility *Accessibility
	Capturer      *Capturer
	Poster        *Poster
	Permissions   *Permissions
	Display       *Display
	App           *UIApp
}

// ErrRefused is a generic backend failure.
var ErrRefused = fmt.Errorf("refused by fake backend")
