package overlay

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mj1618/menubar-shelf/internal/capture"
	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/platform/platformtest"
	"github.com/mj1618/menubar-shelf/internal/pointer"
)

type staticItems struct {
	items []model.MenuBarItem
}

func (s *staticItems) Items() []model.MenuBarItem { return s.items }

type fixture struct {
	ctrl   *Controller
	app    *platformtest.UIApp
	disp   *platformtest.Display
	perms  *platformtest.Permissions
	poster *platformtest.Poster
	items  *staticItems
	clk    *clock.Fake
	jobs   []func()
}

func newFixture(t *testing.T, items ...model.MenuBarItem) *fixture {
	t.Helper()
	f := &fixture{
		app:   &platformtest.UIApp{},
		disp:  &platformtest.Display{Screen: platformtest.LaptopScreen()},
		perms: &platformtest.Permissions{State: platform.Permissions{AccessibilityTrusted: true, ScreenRecordingAllowed: true}},
		items: &staticItems{items: items},
		clk:   clock.NewFake(),
	}
	f.poster = &platformtest.Poster{Now: f.clk.Now}
	f.ctrl = New(Deps{
		App:     f.app,
		Display: f.disp,
		Items:   f.items,
		Thumbs:  capture.NewCache(&platformtest.Capturer{}, f.perms),
		Clicker: pointer.New(f.poster, f.clk, 0),
		Clock:   f.clk,
	}, DefaultOptions())
	f.ctrl.runAsync = func(fn func()) { f.jobs = append(f.jobs, fn) }
	return f
}

func (f *fixture) runJobs() {
	jobs := f.jobs
	f.jobs = nil
	for _, fn := range jobs {
		fn()
	}
}

func (f *fixture) window(t *testing.T) *platformtest.Window {
	t.Helper()
	if len(f.app.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(f.app.Windows))
	}
	return f.app.Windows[0]
}

func (f *fixture) assertMonitorInvariant(t *testing.T) {
	t.Helper()
	p, k := f.app.Active()
	visible := f.ctrl.State() == Visible
	if visible && (p != 1 || k != 1) {
		t.Errorf("visible with %d pointer and %d key monitors", p, k)
	}
	if !visible && (p != 0 || k != 0) {
		t.Errorf("hidden with %d pointer and %d key monitors", p, k)
	}
}

func statusItem(owner string, x float64) model.MenuBarItem {
	frame := model.Rect{X: x, Y: 0, Width: 22, Height: 22}
	return model.MenuBarItem{
		ID:    owner,
		Key:   model.StableKey(owner, model.RoleMenuExtra, frame),
		Owner: owner,
		Role:  model.RoleMenuExtra,
		Frame: frame,
	}
}

func TestShow_RendersAndRegistersMonitors(t *testing.T) {
	f := newFixture(t, statusItem("Battery", 750), statusItem("Wi-Fi", 800))
	if err := f.ctrl.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	w := f.window(t)

	if f.ctrl.State() != Visible {
		t.Errorf("state = %v, want visible", f.ctrl.State())
	}
	f.assertMonitorInvariant(t)
	if want := (model.Rect{X: 1104, Y: 859, Width: 400, Height: 70}); w.Frame != want {
		t.Errorf("frame = %v, want %v", w.Frame, want)
	}
	if !w.Visible() || w.FadeIns != 1 {
		t.Errorf("expected one fade in, got %d (on screen %v)", w.FadeIns, w.Visible())
	}
	if len(w.Entries) != 2 || w.Entries[0].Label != "Batte…" || w.Entries[1].Label != "Wi-Fi" {
		t.Errorf("entries = %+v", w.Entries)
	}
	for i, e := range w.Entries {
		if e.Image == nil {
			t.Errorf("entry %d has no placeholder", i)
		}
	}

	if len(f.jobs) != 2 {
		t.Fatalf("expected 2 capture jobs, got %d", len(f.jobs))
	}
	f.runJobs()
	for i := range w.Entries {
		img := w.Image(i)
		if img == nil {
			t.Errorf("entry %d has no thumbnail", i)
			continue
		}
		if b := img.Bounds(); b.Dx() != DefaultIconSize || b.Dy() != DefaultIconSize {
			t.Errorf("thumbnail %d is %dx%d", i, b.Dx(), b.Dy())
		}
	}
}

func TestShow_WhileVisibleOnlyRepositions(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()
	f.disp.Screen.TopInset = 0
	if err := f.ctrl.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	w := f.window(t)
	if f.app.Added != 2 {
		t.Errorf("monitors added = %d, want 2", f.app.Added)
	}
	if w.SetEntriesN != 1 || w.FadeIns != 1 {
		t.Errorf("re-rendered on second show: entries %d, fades %d", w.SetEntriesN, w.FadeIns)
	}
	if w.Frame.Y != 867 {
		t.Errorf("frame y = %v, want 867", w.Frame.Y)
	}
	if f.disp.Calls != 2 {
		t.Errorf("screen reads = %d, want 2", f.disp.Calls)
	}
}

func TestShow_CapsEntries(t *testing.T) {
	var items []model.MenuBarItem
	for i := 0; i < 12; i++ {
		items = append(items, statusItem(fmt.Sprintf("App%d", i), float64(100+30*i)))
	}
	f := newFixture(t, items...)
	f.ctrl.Show()
	if n := len(f.window(t).Entries); n != DefaultMaxEntries {
		t.Errorf("entries = %d, want %d", n, DefaultMaxEntries)
	}
}

func TestShow_MonitorFailureStaysHidden(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.app.AddErr = platformtest.ErrRefused
	if err := f.ctrl.Show(); !errors.Is(err, platformtest.ErrRefused) {
		t.Fatalf("Show error = %v, want ErrRefused", err)
	}
	if f.ctrl.State() != Hidden {
		t.Errorf("state = %v, want hidden", f.ctrl.State())
	}
	f.assertMonitorInvariant(t)
	if f.window(t).Visible() {
		t.Errorf("window should not be on screen")
	}
}

func TestShow_BackendFailures(t *testing.T) {
	f := newFixture(t)
	f.app.WindowErr = platformtest.ErrRefused
	if err := f.ctrl.Show(); err == nil {
		t.Errorf("expected window creation error")
	}

	f = newFixture(t)
	f.disp.Err = platformtest.ErrRefused
	if err := f.ctrl.Show(); err == nil {
		t.Errorf("expected screen error")
	}
	f.assertMonitorInvariant(t)
}

func TestHide(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Hide()
	if len(f.app.Windows) != 0 {
		t.Errorf("hide before show should not create a window")
	}

	f.ctrl.Show()
	f.ctrl.Hide()
	w := f.window(t)
	if f.ctrl.State() != Hidden || w.Visible() {
		t.Errorf("expected hidden shelf")
	}
	f.assertMonitorInvariant(t)

	f.ctrl.Hide()
	if w.FadeOuts != 1 || f.app.Removed != 2 {
		t.Errorf("second hide was not a no-op: fades %d, removed %d", w.FadeOuts, f.app.Removed)
	}
}

func TestToggle_KeepsMonitorInvariant(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	for i := 0; i < 5; i++ {
		if err := f.ctrl.Toggle(); err != nil {
			t.Fatalf("Toggle %d: %v", i, err)
		}
		f.assertMonitorInvariant(t)
	}
	if f.ctrl.State() != Visible {
		t.Errorf("state after 5 toggles = %v, want visible", f.ctrl.State())
	}
}

func TestOutsideClickHides(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()

	f.app.ClickAt(model.Point{X: 1200, Y: 890})
	if f.ctrl.State() != Visible {
		t.Fatalf("click inside the shelf hid it")
	}
	f.app.ClickAt(model.Point{X: 100, Y: 500})
	if f.ctrl.State() != Hidden {
		t.Errorf("click outside did not hide the shelf")
	}
	f.assertMonitorInvariant(t)
}

func TestEscapeHides(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()

	f.app.PressKey(0x00)
	if f.ctrl.State() != Visible {
		t.Fatalf("non-escape key hid the shelf")
	}
	f.app.PressKey(platform.KeyCodeEscape)
	if f.ctrl.State() != Hidden {
		t.Errorf("escape did not hide the shelf")
	}
	f.assertMonitorInvariant(t)
}

func TestActivate_ForwardsAfterDelay(t *testing.T) {
	f := newFixture(t, statusItem("Battery", 750), statusItem("Wi-Fi", 800))
	f.ctrl.Show()

	if !f.ctrl.Activate(1, platform.MouseRight) {
		t.Fatal("Activate rejected")
	}
	if f.ctrl.State() != Hidden {
		t.Errorf("shelf not dismissed before forwarding")
	}
	f.assertMonitorInvariant(t)
	if got := f.ctrl.ForwardState(); got != Dismissed {
		t.Errorf("forward state = %v, want dismissed", got)
	}

	f.clk.Advance(DefaultForwardDelay - time.Millisecond)
	if n := len(f.poster.Recorded()); n != 0 {
		t.Fatalf("posted %d events before the forward delay", n)
	}
	f.clk.Advance(time.Millisecond)

	events := f.poster.Recorded()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	want := model.Point{X: 811, Y: 11}
	for _, ev := range events {
		if ev.Point != want || ev.Button != platform.MouseRight {
			t.Errorf("event = %+v, want right button at %v", ev, want)
		}
	}
	if got := f.ctrl.ForwardState(); got != ClickForwarded {
		t.Errorf("forward state = %v, want click_forwarded", got)
	}
}

func TestActivate_ViaWindowHandler(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()
	f.window(t).Handler.EntryActivated(0, platform.MouseLeft)
	f.clk.Advance(time.Second)
	if n := len(f.poster.Recorded()); n != 2 {
		t.Errorf("posted %d events, want 2", n)
	}
}

func TestActivate_Rejected(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	if f.ctrl.Activate(0, platform.MouseLeft) {
		t.Errorf("activate while hidden should be rejected")
	}
	f.ctrl.Show()
	if f.ctrl.Activate(5, platform.MouseLeft) {
		t.Errorf("activate out of range should be rejected")
	}
	if f.ctrl.State() != Visible || f.ctrl.ForwardState() != ForwardIdle {
		t.Errorf("rejected activation changed state")
	}
	if f.clk.Pending() != 0 {
		t.Errorf("rejected activation scheduled a timer")
	}
}

func TestShow_CancelsPendingForward(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()
	f.ctrl.Activate(0, platform.MouseLeft)
	if err := f.ctrl.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	f.clk.Advance(time.Second)
	if n := len(f.poster.Recorded()); n != 0 {
		t.Errorf("posted %d events after cancellation", n)
	}
	if got := f.ctrl.ForwardState(); got != ForwardIdle {
		t.Errorf("forward state = %v, want idle", got)
	}
}

func TestThumbnails_StaleSessionDiscarded(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.ctrl.Show()
	stale := f.jobs
	f.jobs = nil
	f.ctrl.Hide()
	f.ctrl.Show()

	for _, fn := range stale {
		fn()
	}
	w := f.window(t)
	if w.Image(0) != nil {
		t.Errorf("stale capture reached the window")
	}
	f.runJobs()
	if w.Image(0) == nil {
		t.Errorf("current capture did not reach the window")
	}
}

func TestThumbnails_PermissionDeniedKeepsPlaceholders(t *testing.T) {
	f := newFixture(t, statusItem("Wi-Fi", 800))
	f.perms.Set(platform.Permissions{AccessibilityTrusted: true})
	f.ctrl.Show()
	f.runJobs()
	w := f.window(t)
	if w.Image(0) != nil {
		t.Errorf("expected no thumbnail without screen recording")
	}
	if w.Entries[0].Image == nil {
		t.Errorf("expected placeholder")
	}
}

func TestHover(t *testing.T) {
	f := newFixture(t, statusItem("Battery", 750), statusItem("Wi-Fi", 800))
	f.ctrl.Show()
	w := f.window(t)

	f.ctrl.EntryHovered(1, true)
	if w.Highlighted != 1 {
		t.Errorf("highlighted = %d, want 1", w.Highlighted)
	}
	f.ctrl.EntryHovered(0, false)
	if w.Highlighted != 1 {
		t.Errorf("leaving another entry cleared the highlight")
	}
	f.ctrl.EntryHovered(1, false)
	if w.Highlighted != -1 {
		t.Errorf("highlighted = %d, want -1", w.Highlighted)
	}
}

func TestRefresh(t *testing.T) {
	battery, wifi := statusItem("Battery", 750), statusItem("Wi-Fi", 800)
	f := newFixture(t, battery, wifi)
	if f.ctrl.Refresh([]model.MenuBarItem{wifi}) {
		t.Errorf("refresh while hidden should do nothing")
	}

	f.ctrl.Show()
	w := f.window(t)
	f.ctrl.EntryHovered(1, true)

	if f.ctrl.Refresh([]model.MenuBarItem{battery, wifi}) {
		t.Errorf("refresh with identical items re-rendered")
	}

	clockItem := statusItem("Clock", 700)
	if !f.ctrl.Refresh([]model.MenuBarItem{clockItem, battery, wifi}) {
		t.Fatal("refresh with a new item did not re-render")
	}
	if w.SetEntriesN != 2 || len(w.Entries) != 3 {
		t.Errorf("entries = %d after %d renders", len(w.Entries), w.SetEntriesN)
	}
	if w.Highlighted != 2 {
		t.Errorf("highlighted = %d, want 2 (hover follows Wi-Fi)", w.Highlighted)
	}

	f.ctrl.Refresh([]model.MenuBarItem{clockItem, battery})
	if w.Highlighted != -1 {
		t.Errorf("highlighted = %d, want -1 after Wi-Fi disappeared", w.Highlighted)
	}
}
