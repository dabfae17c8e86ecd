package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"github.com/mj1618/menubar-shelf/internal/platform/platformtest"
	"github.com/mj1618/menubar-shelf/internal/scanner"
)

func TestEmitChanges(t *testing.T) {
	frame := model.Rect{X: 800, Y: 0, Width: 20, Height: 22}
	wifi := model.MenuBarItem{Owner: "Wi-Fi", Frame: frame, Key: model.StableKey("Wi-Fi", model.RoleMenuExtra, frame)}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if n := emitChanges(enc, nil, []model.MenuBarItem{wifi}); n != 1 {
		t.Fatalf("events = %d, want 1", n)
	}
	var ev map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if ev["type"] != "added" || ev["owner"] != "Wi-Fi" {
		t.Errorf("event = %v", ev)
	}

	buf.Reset()
	if n := emitChanges(enc, []model.MenuBarItem{wifi}, []model.MenuBarItem{wifi}); n != 0 || buf.Len() != 0 {
		t.Errorf("stable menu bar emitted %d events: %s", n, buf.String())
	}
}

func TestObserve_SnapshotAndDone(t *testing.T) {
	ax := &platformtest.Accessibility{Apps: []platformtest.App{{
		Process: platform.Process{PID: 1, Name: "Wi-Fi", BundleID: "com.apple.wifi"},
		Root: platformtest.Group("AXApplication", platformtest.Group("AXMenuBar",
			platformtest.StatusItem(model.RoleMenuExtra, "", model.Rect{X: 800, Y: 0, Width: 20, Height: 22}))),
	}}}
	s := scanner.New(ax, scanner.NewStore(), scanner.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	if err := observe(ctx, s, 10*time.Millisecond, &buf); err != nil {
		t.Fatalf("observe: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected snapshot and done only, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"type":"snapshot"`) || !strings.Contains(lines[0], `"count":1`) {
		t.Errorf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"type":"done"`) || !strings.Contains(lines[1], `"events":0`) {
		t.Errorf("last line = %s", lines[1])
	}
}
