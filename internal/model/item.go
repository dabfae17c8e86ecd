package model

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// MenuBarItem is one status item discovered in the menu bar.
type MenuBarItem struct {
	ID       string `yaml:"id"                  json:"id"`                  // Unique within one scan only
	Key      string `yaml:"key"                 json:"key"`                 // Stable across scans while the icon stays put
	Owner    string `yaml:"owner"               json:"owner"`               // Display name of the owning process
	Role     string `yaml:"role"                json:"role"`                // Raw accessibility role
	Frame    Rect   `yaml:"frame"               json:"frame"`               // Top-left origin screen coordinates
	PID      int    `yaml:"pid,omitempty"       json:"pid,omitempty"`       // Owning process
	BundleID string `yaml:"bundle_id,omitempty" json:"bundle_id,omitempty"` // Owning application identifier
}

// StableKey derives an identity for a status item that survives rescans:
// the owner, the role and the integer-truncated horizontal origin.
func StableKey(owner, role string, frame Rect) string {
	buf := make([]byte, 0, len(owner)+len(role)+24)
	buf = append(buf, owner...)
	buf = append(buf, 0)
	buf = append(buf, role...)
	buf = append(buf, 0)
	buf = strconv.AppendInt(buf, int64(frame.X), 10)
	return strconv.FormatUint(xxh3.Hash(buf), 16)
}

// ItemsByOwner returns the items whose owner equals name (case-sensitive).
func ItemsByOwner(items []MenuBarItem, name string) []MenuBarItem {
	var out []MenuBarItem
	for _, it := range items {
		if it.Owner == name {
			out = append(out, it)
		}
	}
	return out
}
