package scanner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
)

// Snapshot is one published scan result. Items must not be modified.
type Snapshot struct {
	Seq       uint64
	ScannedAt time.Time
	Items     []model.MenuBarItem
}

// Store holds the latest published item list. Publishing swaps the whole
// snapshot, so readers never observe a partially built list.
type Store struct {
	current atomic.Pointer[Snapshot]

	publishMu sync.Mutex // serializes Publish, including notification
	mu        sync.Mutex // guards subs
	subs      map[int]func(prev, next Snapshot)
	next      int
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{subs: make(map[int]func(prev, next Snapshot))}
	s.current.Store(&Snapshot{})
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	return *s.current.Load()
}

// Items returns the latest published items.
func (s *Store) Items() []model.MenuBarItem {
	return s.current.Load().Items
}

// Publish copies items into a new snapshot, makes it current and notifies
// subscribers synchronously. Subscribers see snapshots in sequence order and
// must not call Publish themselves.
func (s *Store) Publish(items []model.MenuBarItem, at time.Time) Snapshot {
	owned := make([]model.MenuBarItem, len(items))
	copy(owned, items)

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	prev := *s.current.Load()
	snap := &Snapshot{Seq: prev.Seq + 1, ScannedAt: at, Items: owned}
	s.current.Store(snap)
	fns := make([]func(prev, next Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(prev, *snap)
	}
	return *snap
}

// Subscribe registers fn to run after every Publish. The returned function
// cancels the subscription.
func (s *Store) Subscribe(fn func(prev, next Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := s.next
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
