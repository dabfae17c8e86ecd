package model

import "testing"

func TestStableKey_SameIconSameKey(t *testing.T) {
	a := StableKey("Wi-Fi", RoleMenuExtra, Rect{X: 800.2, Y: 0, Width: 20, Height: 22})
	b := StableKey("Wi-Fi", RoleMenuExtra, Rect{X: 800.9, Y: 1, Width: 21, Height: 22})
	if a != b {
		t.Errorf("sub-pixel jitter changed key: %q vs %q", a, b)
	}
}

func TestStableKey_Distinguishes(t *testing.T) {
	base := StableKey("Wi-Fi", RoleMenuExtra, Rect{X: 800, Width: 20, Height: 22})
	others := []string{
		StableKey("Battery", RoleMenuExtra, Rect{X: 800, Width: 20, Height: 22}),
		StableKey("Wi-Fi", RoleMenuBarItem, Rect{X: 800, Width: 20, Height: 22}),
		StableKey("Wi-Fi", RoleMenuExtra, Rect{X: 801, Width: 20, Height: 22}),
	}
	for i, k := range others {
		if k == base {
			t.Errorf("case %d: key collides with base %q", i, base)
		}
	}
}

func TestStableKey_NoFieldBleed(t *testing.T) {
	a := StableKey("ab", "c", Rect{X: 1, Width: 1, Height: 1})
	b := StableKey("a", "bc", Rect{X: 1, Width: 1, Height: 1})
	if a == b {
		t.Error("owner/role boundary not separated in key")
	}
}

func TestItemsByOwner(t *testing.T) {
	items := []MenuBarItem{{Owner: "Dropbox"}, {Owner: "Slack"}, {Owner: "Dropbox"}}
	if got := ItemsByOwner(items, "Dropbox"); len(got) != 2 {
		t.Errorf("ItemsByOwner(Dropbox) = %d items, want 2", len(got))
	}
	if got := ItemsByOwner(items, "dropbox"); len(got) != 0 {
		t.Errorf("ItemsByOwner is case-sensitive, got %d items", len(got))
	}
}
