package shelf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mj1618/menubar-shelf/internal/model"
)

// ErrNoMatch is returned when no item satisfies a Selector.
var ErrNoMatch = errors.New("no matching menu bar item")

// Selector picks menu bar items. ID wins over the other fields. Owner is
// matched case-insensitively. Index counts from zero among the items left
// after the Owner and PID filters.
type Selector struct {
	ID    string
	Owner string
	PID   int
	Index int
}

// Filter returns the items matching owner and pid. Zero values match all.
func Filter(items []model.MenuBarItem, owner string, pid int) []model.MenuBarItem {
	out := []model.MenuBarItem{}
	for _, it := range items {
		if owner != "" && !strings.EqualFold(it.Owner, owner) {
			continue
		}
		if pid != 0 && it.PID != pid {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Select returns the single item sel describes.
func Select(items []model.MenuBarItem, sel Selector) (model.MenuBarItem, error) {
	if sel.ID != "" {
		for _, it := range items {
			if it.ID == sel.ID || it.Key == sel.ID {
				return it, nil
			}
		}
		return model.MenuBarItem{}, fmt.Errorf("%w: id %q", ErrNoMatch, sel.ID)
	}

	matches := Filter(items, sel.Owner, sel.PID)
	if sel.Index < 0 || sel.Index >= len(matches) {
		desc := "any owner"
		if sel.Owner != "" {
			desc = fmt.Sprintf("owner %q", sel.Owner)
		}
		return model.MenuBarItem{}, fmt.Errorf("%w: index %d of %d for %s", ErrNoMatch, sel.Index, len(matches), desc)
	}
	return matches[sel.Index], nil
}
