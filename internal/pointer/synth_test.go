package pointer

import (
	"errors"
	"testing"
	"time"

	"github.com/mj1618/menubar-shelf/internal/clock"
	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/platform/platformtest"
)

func TestClick_DownThenUpAtCenter(t *testing.T) {
	tests := []struct {
		name   string
		button platform.MouseButton
	}{
		{"left", platform.MouseLeft},
		{"right", platform.MouseRight},
		{"middle", platform.MouseMiddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := clock.NewFake()
			poster := &platformtest.Poster{Now: clk.Now}
			s := New(poster, clk, 0)

			if err := s.Click(model.Rect{X: 800, Y: 10, Width: 20, Height: 20}, tt.button); err != nil {
				t.Fatalf("Click: %v", err)
			}
			events := poster.Recorded()
			if len(events) != 2 {
				t.Fatalf("expected 2 events, got %d", len(events))
			}
			want := model.Point{X: 810, Y: 20}
			if !events[0].Down || events[1].Down {
				t.Errorf("expected down then up, got %+v", events)
			}
			for i, ev := range events {
				if ev.Point != want {
					t.Errorf("event %d at %v, want %v", i, ev.Point, want)
				}
				if ev.Button != tt.button {
					t.Errorf("event %d button = %v, want %v", i, ev.Button, tt.button)
				}
			}
			if gap := events[1].At.Sub(events[0].At); gap != DefaultSettle {
				t.Errorf("settle = %v, want %v", gap, DefaultSettle)
			}
		})
	}
}

func TestClick_CustomSettle(t *testing.T) {
	clk := clock.NewFake()
	s := New(&platformtest.Poster{}, clk, 120*time.Millisecond)
	if err := s.Click(model.Rect{X: 1, Y: 1, Width: 2, Height: 2}, platform.MouseLeft); err != nil {
		t.Fatalf("Click: %v", err)
	}
	sleeps := clk.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 120*time.Millisecond {
		t.Errorf("sleeps = %v, want [120ms]", sleeps)
	}
}

func TestClick_DegenerateFrame(t *testing.T) {
	poster := &platformtest.Poster{}
	s := New(poster, clock.NewFake(), 0)
	for _, r := range []model.Rect{
		{X: 10, Y: 0, Width: 0, Height: 22},
		{X: 10, Y: 0, Width: 20, Height: -1},
	} {
		if err := s.Click(r, platform.MouseLeft); !errors.Is(err, ErrDegenerateFrame) {
			t.Errorf("Click(%v) error = %v, want ErrDegenerateFrame", r, err)
		}
	}
	if n := len(poster.Recorded()); n != 0 {
		t.Errorf("posted %d events, want 0", n)
	}
}

func TestClick_DownFailureStops(t *testing.T) {
	clk := clock.NewFake()
	poster := &platformtest.Poster{FailOn: func(down bool) bool { return down }}
	s := New(poster, clk, 0)
	if err := s.Click(model.Rect{X: 0, Y: 0, Width: 10, Height: 10}, platform.MouseLeft); err == nil {
		t.Fatal("expected error")
	}
	if n := len(poster.Recorded()); n != 0 {
		t.Errorf("posted %d events, want 0", n)
	}
	if n := len(clk.Sleeps()); n != 0 {
		t.Errorf("slept %d times, want 0", n)
	}
}

func TestClick_UpFailureReported(t *testing.T) {
	poster := &platformtest.Poster{FailOn: func(down bool) bool { return !down }}
	s := New(poster, clock.NewFake(), 0)
	if err := s.Click(model.Rect{X: 0, Y: 0, Width: 10, Height: 10}, platform.MouseRight); err == nil {
		t.Fatal("expected error")
	}
	if events := poster.Recorded(); len(events) != 1 || !events[0].Down {
		t.Errorf("expected only the down event, got %+v", events)
	}
}
