package model

import "testing"

func TestIsStatusItem(t *testing.T) {
	tests := []struct {
		role    string
		subrole string
		want    bool
	}{
		{"AXMenuExtra", "", true},
		{"AXMenuExtra", "AXMenuExtra", true},
		{"AXMenuBarItem", "AXMenuExtra", true},
		{"AXMenuBarItem", "", false},
		{"AXMenuBar", "AXMenuExtra", false},
		{"AXButton", "AXMenuExtra", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.subrole, func(t *testing.T) {
			if got := IsStatusItem(tt.role, tt.subrole); got != tt.want {
				t.Errorf("IsStatusItem(%q, %q) = %v, want %v", tt.role, tt.subrole, got, tt.want)
			}
		})
	}
}
