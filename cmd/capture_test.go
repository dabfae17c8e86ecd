package cmd

import (
	"testing"

	"github.com/mj1618/menubar-shelf/internal/model"
)

func TestDefaultCapturePath(t *testing.T) {
	tests := []struct {
		owner string
		want  string
	}{
		{"Wi-Fi", "wi-fi.png"},
		{"Control Center", "control-center.png"},
		{"com.example.agent", "com-example-agent.png"},
		{"控制中心", "item.png"},
	}
	for _, tt := range tests {
		if got := defaultCapturePath(model.MenuBarItem{Owner: tt.owner}); got != tt.want {
			t.Errorf("defaultCapturePath(%q) = %q, want %q", tt.owner, got, tt.want)
		}
	}
}
