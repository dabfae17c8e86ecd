// Package scanner discovers menu bar status items by walking the
// accessibility tree of every running application.
package scanner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
)

const (
	// DefaultMaxDepth bounds how far below an application root the walk goes.
	DefaultMaxDepth = 2

	// DefaultMenuBarThreshold rejects nodes whose top edge is below the
	// physical menu bar strip.
	DefaultMenuBarThreshold = 50.0
)

// Options controls traversal and filtering.
type Options struct {
	MaxDepth         int
	MenuBarThreshold float64
}

// Scanner walks the accessibility trees and publishes status items to a Store.
type Scanner struct {
	ax    platform.Accessibility
	store *Store
	opts  Options
	now   func() time.Time
	newID func() string
}

// New creates a scanner publishing into store. Zero option values take defaults.
func New(ax platform.Accessibility, store *Store, opts Options) *Scanner {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MenuBarThreshold <= 0 {
		opts.MenuBarThreshold = DefaultMenuBarThreshold
	}
	return &Scanner{
		ax:    ax,
		store: store,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Store returns the store the scanner publishes to.
func (s *Scanner) Store() *Store {
	return s.store
}

// Scan enumerates status items across all processes, publishes them and
// returns the published list. Failures for a single process or node only
// drop that contribution. If ctx is cancelled mid-scan nothing is published
// and the current snapshot is returned.
func (s *Scanner) Scan(ctx context.Context) []model.MenuBarItem {
	start := s.now()
	procs, err := s.ax.RunningProcesses()
	if err != nil {
		slog.Warn("scanner: cannot enumerate processes", "err", err)
		return s.store.Items()
	}

	var found []model.MenuBarItem
	for _, p := range procs {
		if ctx.Err() != nil {
			slog.Debug("scanner: scan cancelled", "err", ctx.Err())
			return s.store.Items()
		}
		if p.BundleID == "" {
			continue
		}
		found = append(found, s.scanProcess(p)...)
	}

	items := found[:0]
	for _, it := range found {
		if it.Frame.Y < s.opts.MenuBarThreshold {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Frame.X < items[j].Frame.X
	})

	snap := s.store.Publish(items, start)
	slog.Debug("scanner: published", "seq", snap.Seq, "items", len(snap.Items),
		"owners", owners(snap.Items), "elapsed", s.now().Sub(start))
	return snap.Items
}

// Start scans immediately and then every interval until the returned
// Stopper is stopped.
func (s *Scanner) Start(clk clock.Clock, interval time.Duration) clock.Stopper {
	ctx, cancel := context.WithCancel(context.Background())
	s.Scan(ctx)
	ticker := clk.Every(interval, func() { s.Scan(ctx) })
	return stopFunc(func() {
		cancel()
		ticker.Stop()
	})
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

type frame struct {
	node  platform.AXNode
	depth int
}

// scanProcess walks one application's tree with an explicit stack. Nodes
// deeper than MaxDepth are still classified by their parent but never
// expanded.
func (s *Scanner) scanProcess(p platform.Process) []model.MenuBarItem {
	root, err := s.ax.ApplicationRoot(p.PID)
	if err != nil {
		slog.Debug("scanner: no accessibility root", "pid", p.PID, "app", p.Name, "err", err)
		return nil
	}

	owner := p.Name
	if owner == "" {
		owner = p.BundleID
	}

	var items []model.MenuBarItem
	stack := []frame{{node: root, depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth > s.opts.MaxDepth {
			top.node.Release()
			continue
		}

		children, err := top.node.Children()
		top.node.Release()
		if err != nil {
			if top.depth == 0 {
				slog.Debug("scanner: children unreadable", "pid", p.PID, "app", owner, "err", err)
			}
			continue
		}

		// Push in reverse so children pop in document order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: top.depth + 1})
		}
		for _, child := range children {
			if it, ok := s.extract(child, p, owner); ok {
				items = append(items, it)
			}
		}
	}
	return items
}

// extract builds an item from a node classified as a status item with
// usable geometry.
func (s *Scanner) extract(n platform.AXNode, p platform.Process, owner string) (model.MenuBarItem, bool) {
	role, ok := n.Role()
	if !ok {
		return model.MenuBarItem{}, false
	}
	subrole, _ := n.Subrole()
	if !model.IsStatusItem(role, subrole) {
		return model.MenuBarItem{}, false
	}

	pos, okPos := n.Position()
	size, okSize := n.Size()
	if !okPos || !okSize || size.Width <= 0 || size.Height <= 0 {
		return model.MenuBarItem{}, false
	}

	frame := model.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
	return model.MenuBarItem{
		ID:       s.newID(),
		Key:      model.StableKey(owner, role, frame),
		Owner:    owner,
		Role:     role,
		Frame:    frame,
		PID:      p.PID,
		BundleID: p.BundleID,
	}, true
}

func owners(items []model.MenuBarItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Owner
	}
	return names
}
