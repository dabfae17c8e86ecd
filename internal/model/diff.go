package model

import (
	"fmt"
	"time"
)

// ChangeType represents the kind of menu bar change detected between scans.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeResized ChangeType = "resized"
)

// ItemChange represents a single change between two scans.
type ItemChange struct {
	Type    ChangeType           `json:"type"              yaml:"type"`
	TS      int64                `json:"ts"                yaml:"ts"`
	Key     string               `json:"key"               yaml:"key"`
	Owner   string               `json:"owner"             yaml:"owner"`
	Item    *MenuBarItem         `json:"item,omitempty"    yaml:"item,omitempty"`    // For added: the new item
	Changes map[string][2]string `json:"changes,omitempty" yaml:"changes,omitempty"` // For resized: field diffs
}

// DiffItems compares two scans and returns the changes. Items are matched
// by their stable key, so a moved icon shows up as removed + added.
// Added and resized changes follow curr's order, removals follow prev's.
func DiffItems(prev, curr []MenuBarItem) []ItemChange {
	prevMap := make(map[string]MenuBarItem, len(prev))
	for _, it := range prev {
		prevMap[it.Key] = it
	}
	currMap := make(map[string]MenuBarItem, len(curr))
	for _, it := range curr {
		currMap[it.Key] = it
	}

	var changes []ItemChange
	now := time.Now().Unix()

	for _, it := range curr {
		prevIt, existed := prevMap[it.Key]
		if !existed {
			itCopy := it
			changes = append(changes, ItemChange{
				Type:  ChangeAdded,
				TS:    now,
				Key:   it.Key,
				Owner: it.Owner,
				Item:  &itCopy,
			})
			continue
		}
		if diffs := diffFrames(prevIt.Frame, it.Frame); len(diffs) > 0 {
			changes = append(changes, ItemChange{
				Type:    ChangeResized,
				TS:      now,
				Key:     it.Key,
				Owner:   it.Owner,
				Changes: diffs,
			})
		}
	}

	for _, it := range prev {
		if _, exists := currMap[it.Key]; !exists {
			changes = append(changes, ItemChange{
				Type:  ChangeRemoved,
				TS:    now,
				Key:   it.Key,
				Owner: it.Owner,
			})
		}
	}

	return changes
}

// ChangedOwners returns the distinct owners touched by changes, in first-seen order.
func ChangedOwners(changes []ItemChange) []string {
	seen := make(map[string]bool, len(changes))
	var owners []string
	for _, c := range changes {
		if !seen[c.Owner] {
			seen[c.Owner] = true
			owners = append(owners, c.Owner)
		}
	}
	return owners
}

// IndexOfKey returns the index of the item with the given key, or -1.
func IndexOfKey(items []MenuBarItem, key string) int {
	if key == "" {
		return -1
	}
	for i := range items {
		if items[i].Key == key {
			return i
		}
	}
	return -1
}

// diffFrames compares the parts of a frame that can change without the
// stable key changing: the fractional x, y and the size.
func diffFrames(prev, curr Rect) map[string][2]string {
	diffs := make(map[string][2]string)
	if prev.X != curr.X {
		diffs["x"] = [2]string{fmt.Sprintf("%g", prev.X), fmt.Sprintf("%g", curr.X)}
	}
	if prev.Y != curr.Y {
		diffs["y"] = [2]string{fmt.Sprintf("%g", prev.Y), fmt.Sprintf("%g", curr.Y)}
	}
	if prev.Width != curr.Width {
		diffs["w"] = [2]string{fmt.Sprintf("%g", prev.Width), fmt.Sprintf("%g", curr.Width)}
	}
	if prev.Height != curr.Height {
		diffs["h"] = [2]string{fmt.Sprintf("%g", prev.Height), fmt.Sprintf("%g", curr.Height)}
	}
	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
