//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework QuartzCore
#include "app_darwin.h"
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

func init() {
	// AppKit requires all UI work on the main thread.
	runtime.LockOSThread()
}

// ---------------------------------------------------------------------------
// Callback registry for DispatchToMain and fade completions
// ---------------------------------------------------------------------------

var (
	cbMu   sync.Mutex
	cbMap  = make(map[uintptr]func())
	cbNext uintptr
)

func storeCallback(fn func()) uintptr {
	cbMu.Lock()
	defer cbMu.Unlock()
	cbNext++
	id := cbNext
	cbMap[id] = fn
	return id
}

func loadCallback(id uintptr) func() {
	cbMu.Lock()
	defer cbMu.Unlock()
	fn := cbMap[id]
	delete(cbMap, id)
	return fn
}

// ---------------------------------------------------------------------------
// Application
// ---------------------------------------------------------------------------

var errKeyMonitorUntrusted = errors.New("global key monitor requires accessibility permission")

// App implements platform.Application on NSApplication. Every UI call is
// queued asynchronously onto the main dispatch queue, so methods are safe to
// call from any goroutine, including from inside native callbacks.
type App struct {
	mu       sync.Mutex
	onStatus func(platform.StatusAction)
	nextWin  int
	windows  map[int]*shelfWindow
	nextMon  platform.MonitorID
	pointer  map[platform.MonitorID]func()
	key      map[platform.MonitorID]func(uint16)
}

var (
	appOnce     sync.Once
	appInstance *App
)

// NewApp returns the process-wide application host. Native callbacks are
// routed through a single instance.
func NewApp() *App {
	appOnce.Do(func() {
		appInstance = &App{
			windows: make(map[int]*shelfWindow),
			pointer: make(map[platform.MonitorID]func()),
			key:     make(map[platform.MonitorID]func(uint16)),
		}
	})
	return appInstance
}

func (a *App) Run() {
	C.shelf_app_init()
	C.shelf_app_run()
}

func (a *App) Quit() {
	C.shelf_app_quit()
}

func (a *App) DispatchToMain(fn func()) {
	id := storeCallback(fn)
	C.shelf_dispatch_main(C.uintptr_t(id))
}

func (a *App) SetupStatusItem(title string, onAction func(platform.StatusAction)) {
	a.mu.Lock()
	a.onStatus = onAction
	a.mu.Unlock()

	cs := C.CString(title)
	defer C.free(unsafe.Pointer(cs))
	C.shelf_status_item_setup(cs)
}

func (a *App) NewShelfWindow(size model.Size, handler platform.ShelfHandler) (platform.ShelfWindow, error) {
	a.mu.Lock()
	a.nextWin++
	w := &shelfWindow{handle: a.nextWin, handler: handler}
	a.windows[w.handle] = w
	a.mu.Unlock()

	C.shelf_window_create(C.int(w.handle), C.double(size.Width), C.double(size.Height))
	return w, nil
}

func (a *App) AddPointerDownMonitor(fn func()) (platform.MonitorID, error) {
	a.mu.Lock()
	a.nextMon++
	id := a.nextMon
	a.pointer[id] = fn
	a.mu.Unlock()

	C.shelf_monitor_add_pointer(C.int(id))
	return id, nil
}

func (a *App) AddKeyDownMonitor(fn func(keyCode uint16)) (platform.MonitorID, error) {
	if !IsAccessibilityTrusted() {
		return 0, errKeyMonitorUntrusted
	}
	a.mu.Lock()
	a.nextMon++
	id := a.nextMon
	a.key[id] = fn
	a.mu.Unlock()

	C.shelf_monitor_add_key(C.int(id))
	return id, nil
}

func (a *App) RemoveMonitor(id platform.MonitorID) {
	a.mu.Lock()
	delete(a.pointer, id)
	delete(a.key, id)
	a.mu.Unlock()

	C.shelf_monitor_remove(C.int(id))
}

func (a *App) MouseLocation() model.Point {
	var x, y C.double
	C.shelf_mouse_location(&x, &y)
	return model.Point{X: float64(x), Y: float64(y)}
}

// fadeOutCurrent reports whether a finished fade-out may order its panel out.
// A superseded fade-out discards its done callback.
func (a *App) fadeOutCurrent(handle int, gen uint64, doneID uintptr) bool {
	w := a.window(handle)
	if w == nil || w.fadeOutCurrent(gen) {
		return true
	}
	if doneID != 0 {
		loadCallback(doneID)
	}
	return false
}

func (a *App) window(handle int) *shelfWindow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.windows[handle]
}

// ---------------------------------------------------------------------------
// Shelf window
// ---------------------------------------------------------------------------

type shelfWindow struct {
	handle  int
	handler platform.ShelfHandler
	fadeGen atomic.Uint64 // bumped by every fade-in
}

func (w *shelfWindow) beginFadeIn() { w.fadeGen.Add(1) }

func (w *shelfWindow) beginFadeOut() uint64 { return w.fadeGen.Load() }

// fadeOutCurrent reports whether no fade-in started since the fade-out that
// captured gen.
func (w *shelfWindow) fadeOutCurrent(gen uint64) bool { return w.fadeGen.Load() == gen }

func (w *shelfWindow) SetFrame(r model.Rect) {
	C.shelf_window_set_frame(C.int(w.handle),
		C.double(r.X), C.double(r.Y), C.double(r.Width), C.double(r.Height))
}

func (w *shelfWindow) SetEntries(entries []platform.ShelfEntry) {
	C.shelf_window_reset_entries(C.int(w.handle), C.int(len(entries)))
	for i, e := range entries {
		label := C.CString(e.Label)
		pix, iw, ih := packedPixels(e.Image)
		C.shelf_window_set_entry(C.int(w.handle), C.int(i), label, pixPtr(pix), C.int(iw), C.int(ih))
		C.free(unsafe.Pointer(label))
	}
}

func (w *shelfWindow) SetEntryImage(index int, img *image.RGBA) {
	pix, iw, ih := packedPixels(img)
	if pix == nil {
		return
	}
	C.shelf_window_set_entry_image(C.int(w.handle), C.int(index), pixPtr(pix), C.int(iw), C.int(ih))
}

func (w *shelfWindow) SetHighlighted(index int) {
	C.shelf_window_set_highlighted(C.int(w.handle), C.int(index))
}

func (w *shelfWindow) FadeIn(d time.Duration) {
	w.beginFadeIn()
	C.shelf_window_fade_in(C.int(w.handle), C.double(d.Seconds()))
}

func (w *shelfWindow) FadeOut(d time.Duration, done func()) {
	var id uintptr
	if done != nil {
		id = storeCallback(done)
	}
	gen := w.beginFadeOut()
	C.shelf_window_fade_out(C.int(w.handle), C.double(d.Seconds()), C.uint64_t(gen), C.uintptr_t(id))
}

// packedPixels returns img's pixels with no row padding.
func packedPixels(img *image.RGBA) ([]byte, int, int) {
	if img == nil {
		return nil, 0, 0
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	if img.Stride == w*4 && b.Min == (image.Point{}) {
		return img.Pix[:w*h*4], w, h
	}
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[off:off+w*4])
	}
	return pix, w, h
}

func pixPtr(pix []byte) *C.uchar {
	if len(pix) == 0 {
		return nil
	}
	return (*C.uchar)(unsafe.Pointer(&pix[0]))
}

// ---------------------------------------------------------------------------
// Callbacks from Objective-C
// ---------------------------------------------------------------------------

//export goOnStatusMenu
func goOnStatusMenu(tag C.int) {
	if appInstance == nil {
		return
	}
	appInstance.mu.Lock()
	fn := appInstance.onStatus
	appInstance.mu.Unlock()
	if fn != nil {
		fn(platform.StatusAction(tag))
	}
}

//export goOnShelfEntry
func goOnShelfEntry(handle, index, button C.int) {
	if appInstance == nil {
		return
	}
	if w := appInstance.window(int(handle)); w != nil && w.handler != nil {
		w.handler.EntryActivated(int(index), platform.MouseButton(button))
	}
}

//export goOnShelfHover
func goOnShelfHover(handle, index, inside C.int) {
	if appInstance == nil {
		return
	}
	if w := appInstance.window(int(handle)); w != nil && w.handler != nil {
		w.handler.EntryHovered(int(index), inside != 0)
	}
}

//export goOnPointerDown
func goOnPointerDown(id C.int) {
	if appInstance == nil {
		return
	}
	appInstance.mu.Lock()
	fn := appInstance.pointer[platform.MonitorID(id)]
	appInstance.mu.Unlock()
	if fn != nil {
		fn()
	}
}

//export goOnKeyDown
func goOnKeyDown(id C.int, keyCode C.ushort) {
	if appInstance == nil {
		return
	}
	appInstance.mu.Lock()
	fn := appInstance.key[platform.MonitorID(id)]
	appInstance.mu.Unlock()
	if fn != nil {
		fn(uint16(keyCode))
	}
}

//export goShelfFadeOutCurrent
func goShelfFadeOutCurrent(handle C.int, gen C.uint64_t, done unsafe.Pointer) C.int {
	if appInstance == nil || appInstance.fadeOutCurrent(int(handle), uint64(gen), uintptr(done)) {
		return 1
	}
	return 0
}

//export goDispatchCallback
func goDispatchCallback(ctx unsafe.Pointer) {
	id := uintptr(ctx)
	fn := loadCallback(id)
	if fn != nil {
		fn()
	}
}
