// Package clock abstracts timers so periodic scans and delayed actions can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled task. Stop is idempotent.
type Stopper interface {
	Stop()
}

// Clock schedules work.
type Clock interface {
	Now() time.Time

	// Every runs fn every d until stopped. The first run happens after d.
	Every(d time.Duration, fn func()) Stopper

	// AfterFunc runs fn once after d unless stopped first.
	AfterFunc(d time.Duration, fn func()) Stopper

	Sleep(d time.Duration)
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time        { return time.Now() }
func (Real) Sleep(d time.Duration) { time.Sleep(d) }

func (Real) AfterFunc(d time.Duration, fn func()) Stopper {
	return timerStopper{time.AfterFunc(d, fn)}
}

func (Real) Every(d time.Duration, fn func()) Stopper {
	t := &ticker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go t.loop(fn)
	return t
}

type timerStopper struct{ t *time.Timer }

func (s timerStopper) Stop() { s.t.Stop() }

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(fn func()) {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *ticker) Stop() {
	t.once.Do(func() { close(t.done) })
}
