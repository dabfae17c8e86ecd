package shelf

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/config"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/overlay"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/platform/platformtest"
)

func extraAt(x float64) *platformtest.Node {
	return platformtest.StatusItem(model.RoleMenuExtra, "", model.Rect{X: x, Y: 0, Width: 22, Height: 22})
}

func appWith(pid int, name string, kids ...*platformtest.Node) platformtest.App {
	return platformtest.App{
		Process: platform.Process{PID: pid, Name: name, BundleID: "com.example." + name},
		Root:    platformtest.Group("AXApplication", platformtest.Group("AXMenuBar", kids...)),
	}
}

func newTestRuntime(t *testing.T) (*Runtime, *platformtest.Fakes, *clock.Fake) {
	t.Helper()
	p, f := platformtest.Provider()
	f.Accessibility.Apps = []platformtest.App{
		appWith(1, "Battery", extraAt(750)),
		appWith(2, "Clock", extraAt(900)),
	}
	clk := clock.NewFake()
	r, err := New(p, config.Default(), clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(r.Close)
	return r, f, clk
}

func TestNew_RequiresAccessibility(t *testing.T) {
	if _, err := New(&platform.Provider{}, config.Default(), nil); !errors.Is(err, platform.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestNew_WithoutAppHasNoOverlay(t *testing.T) {
	p, _ := platformtest.Provider()
	p.App = nil
	r, err := New(p, config.Default(), clock.NewFake())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Overlay != nil {
		t.Errorf("expected no overlay")
	}
	if err := r.Run(); err == nil {
		t.Errorf("expected Run to fail without an app host")
	}
}

func TestStart_ScansPeriodically(t *testing.T) {
	r, _, clk := newTestRuntime(t)
	r.Start()
	if n := len(r.Items()); n != 2 {
		t.Fatalf("items = %d, want 2", n)
	}
	clk.Advance(2 * time.Second)
	if seq := r.Store.Current().Seq; seq != 2 {
		t.Errorf("seq = %d, want 2", seq)
	}
	r.Stop()
	clk.Advance(10 * time.Second)
	if seq := r.Store.Current().Seq; seq != 2 {
		t.Errorf("seq after stop = %d, want 2", seq)
	}
}

func TestPublish_InvalidatesChangedOwners(t *testing.T) {
	r, f, _ := newTestRuntime(t)
	items := r.Refresh(context.Background())
	for _, it := range items {
		if _, ok := r.Capture(it); !ok {
			t.Fatalf("capture %s failed", it.Owner)
		}
	}
	if n := r.Cache.Len(); n != 2 {
		t.Fatalf("cache len = %d, want 2", n)
	}

	f.Accessibility.Apps[1] = appWith(2, "Clock", extraAt(880))
	r.Scanner.Scan(context.Background())

	if n := r.Cache.Len(); n != 1 {
		t.Errorf("cache len = %d, want 1", n)
	}
	battery := model.ItemsByOwner(r.Items(), "Battery")[0]
	before := f.Capturer.CallCount()
	r.Capture(battery)
	if f.Capturer.CallCount() != before {
		t.Errorf("unchanged owner was recaptured")
	}
}

func TestRefresh_InvalidatesEverything(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	for _, it := range r.Refresh(context.Background()) {
		r.Capture(it)
	}
	r.Refresh(context.Background())
	if n := r.Cache.Len(); n != 0 {
		t.Errorf("cache len = %d, want 0", n)
	}
}

func TestPublish_RefreshesVisibleShelf(t *testing.T) {
	r, f, _ := newTestRuntime(t)
	r.Refresh(context.Background())
	if err := r.Overlay.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	w := f.App.Windows[0]
	if len(w.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(w.Entries))
	}

	f.Accessibility.Apps = append(f.Accessibility.Apps, appWith(3, "Wi-Fi", extraAt(800)))
	r.Scanner.Scan(context.Background())
	if len(w.Entries) != 3 || w.Entries[1].Label != "Wi-Fi" {
		t.Errorf("entries after rescan = %+v", w.Entries)
	}
}

func TestHandleStatus(t *testing.T) {
	r, f, _ := newTestRuntime(t)

	r.HandleStatus(platform.StatusToggleShelf)
	if r.Overlay.State() != overlay.Visible {
		t.Errorf("toggle did not show the shelf")
	}
	r.HandleStatus(platform.StatusToggleShelf)
	if r.Overlay.State() != overlay.Hidden {
		t.Errorf("toggle did not hide the shelf")
	}

	r.HandleStatus(platform.StatusRefresh)
	if seq := r.Store.Current().Seq; seq != 1 {
		t.Errorf("refresh did not scan, seq %d", seq)
	}

	r.HandleStatus(platform.StatusQuit)
	if !f.App.Quitting {
		t.Errorf("quit did not stop the app")
	}
}

func TestRun_SetsUpStatusItemAndAsksForAccess(t *testing.T) {
	r, f, clk := newTestRuntime(t)
	f.Permissions.Set(platform.Permissions{})

	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.App.StatusTitle != StatusTitle || f.App.OnStatus == nil {
		t.Errorf("status item = %q", f.App.StatusTitle)
	}
	if f.Permissions.AccessibilityAsked != 1 {
		t.Errorf("accessibility asked %d times, want 1", f.Permissions.AccessibilityAsked)
	}
	if r.Store.Current().Seq != 1 {
		t.Errorf("expected an initial scan")
	}
	if n := clk.Pending(); n != 0 {
		t.Errorf("pending timers after run = %d, want 0", n)
	}
}

func TestClick_UsesItemCenter(t *testing.T) {
	r, f, _ := newTestRuntime(t)
	items := r.Refresh(context.Background())
	if err := r.Click(items[0], platform.MouseLeft); err != nil {
		t.Fatalf("Click: %v", err)
	}
	events := f.Poster.Recorded()
	if len(events) != 2 || events[0].Point != (model.Point{X: 761, Y: 11}) {
		t.Errorf("events = %+v", events)
	}
}
