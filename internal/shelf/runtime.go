// Package shelf assembles the scanner, capture cache, pointer synthesizer
// and overlay into one running shelf.
package shelf

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/mj1618/menubar-shelf/internal/capture"
	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/config"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/overlay"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/pointer"
	"github.com/mj1618/menubar-shelf/internal/scanner"
)

// StatusTitle is the status item's menu bar title.
const StatusTitle = "☰ OB"

// Runtime owns every shelf component. Overlay is nil when the provider has
// no native application host.
type Runtime struct {
	Provider *platform.Provider
	Config   config.Config
	Clock    clock.Clock

	Store   *scanner.Store
	Scanner *scanner.Scanner
	Cache   *capture.Cache
	Pointer *pointer.Synthesizer
	Overlay *overlay.Controller

	stopScan    clock.Stopper
	unsubscribe func()
}

// New wires the components. Nothing runs until Start or Run.
func New(p *platform.Provider, cfg config.Config, clk clock.Clock) (*Runtime, error) {
	if p == nil || p.Accessibility == nil {
		return nil, platform.ErrUnsupported
	}
	if clk == nil {
		clk = clock.Real{}
	}

	r := &Runtime{Provider: p, Config: cfg, Clock: clk, Store: scanner.NewStore()}
	r.Scanner = scanner.New(p.Accessibility, r.Store, cfg.ScannerOptions())
	if p.Capturer != nil && p.Permissions != nil {
		r.Cache = capture.NewCache(p.Capturer, p.Permissions)
	}
	if p.Poster != nil {
		r.Pointer = pointer.New(p.Poster, clk, cfg.Pointer.Settle)
	}
	if p.App != nil && p.Display != nil && r.Cache != nil && r.Pointer != nil {
		r.Overlay = overlay.New(overlay.Deps{
			App:     p.App,
			Display: p.Display,
			Items:   r.Store,
			Thumbs:  r.Cache,
			Clicker: r.Pointer,
			Clock:   clk,
		}, cfg.OverlayOptions())
	}
	r.unsubscribe = r.Store.Subscribe(r.onPublish)
	return r, nil
}

// onPublish drops cached thumbnails of owners whose items changed and lets a
// visible shelf catch up.
func (r *Runtime) onPublish(prev, next scanner.Snapshot) {
	changes := model.DiffItems(prev.Items, next.Items)
	if len(changes) == 0 {
		return
	}
	owners := model.ChangedOwners(changes)
	if r.Cache != nil {
		for _, owner := range owners {
			r.Cache.Invalidate(owner)
		}
	}
	slog.Info("shelf: menu bar changed", "changes", len(changes), "owners", owners, "items", len(next.Items))
	if r.Overlay != nil {
		r.Overlay.Refresh(next.Items)
	}
}

// Items returns the latest published items.
func (r *Runtime) Items() []model.MenuBarItem {
	return r.Store.Items()
}

// Start begins periodic scanning.
func (r *Runtime) Start() {
	if r.stopScan != nil {
		return
	}
	r.stopScan = r.Scanner.Start(r.Clock, r.Config.Scan.Interval)
	slog.Info("shelf: scanning", "interval", r.Config.Scan.Interval)
}

// Stop ends scanning and hides the shelf.
func (r *Runtime) Stop() {
	if r.stopScan != nil {
		r.stopScan.Stop()
		r.stopScan = nil
	}
	if r.Overlay != nil {
		r.Overlay.Hide()
	}
}

// Close stops the runtime and detaches from the store.
func (r *Runtime) Close() {
	r.Stop()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Refresh forgets every thumbnail and rescans now.
func (r *Runtime) Refresh(ctx context.Context) []model.MenuBarItem {
	if r.Cache != nil {
		r.Cache.InvalidateAll()
	}
	return r.Scanner.Scan(ctx)
}

// Click forwards a click to item through the pointer synthesizer.
func (r *Runtime) Click(item model.MenuBarItem, button platform.MouseButton) error {
	if r.Pointer == nil {
		return platform.ErrUnsupported
	}
	return r.Pointer.Click(item.Frame, button)
}

// Capture returns item's thumbnail through the cache.
func (r *Runtime) Capture(item model.MenuBarItem) (*capture.Thumbnail, bool) {
	if r.Cache == nil {
		return nil, false
	}
	return r.Cache.Capture(item.Frame, item.Owner)
}

// HandleStatus reacts to the status item menu.
func (r *Runtime) HandleStatus(action platform.StatusAction) {
	switch action {
	case platform.StatusToggleShelf:
		if r.Overlay == nil {
			return
		}
		if err := r.Overlay.Toggle(); err != nil {
			slog.Warn("shelf: toggle failed", "err", err)
		}
	case platform.StatusRefresh:
		items := r.Refresh(context.Background())
		slog.Info("shelf: refreshed", "items", len(items))
	case platform.StatusQuit:
		r.Provider.App.Quit()
	}
}

// Run installs the status item, asks for missing permissions, starts
// scanning and blocks on the native event loop.
func (r *Runtime) Run() error {
	if r.Provider.App == nil || r.Overlay == nil {
		return errors.New("shelf: no native application host on this platform")
	}

	perms := r.Provider.Permissions.Snapshot()
	if !perms.AccessibilityTrusted {
		slog.Warn("shelf: accessibility access not granted, asking")
		r.Provider.Permissions.RequestAccessibility()
	}
	if !perms.ScreenRecordingAllowed {
		slog.Info("shelf: screen recording not granted, icons will show placeholders")
	}

	r.Provider.App.SetupStatusItem(StatusTitle, r.HandleStatus)
	r.Start()
	r.Provider.App.Run()
	r.Close()

	if r.Cache != nil {
		st := r.Cache.Stats()
		slog.Info("shelf: stopped",
			"thumbnails", st.Entries,
			"hits", humanize.Comma(int64(st.Hits)),
			"misses", humanize.Comma(int64(st.Misses)),
			"memory", humanize.Bytes(uint64(st.Bytes)))
	}
	return nil
}
