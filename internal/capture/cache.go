// Package capture grabs and caches thumbnails of menu bar icons.
package capture

import (
	"errors"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mj1618/menubar-shelf/internal/model"
	"github.com/mj1618/menubar-shelf/internal/platform"
	"golang.org/x/sync/singleflight"
)

// Thumbnail is a captured icon bitmap sized to the item's frame in points.
type Thumbnail struct {
	Key   string
	Image *image.RGBA
}

// Stats describes the cache contents.
type Stats struct {
	Entries int    `yaml:"entries" json:"entries"`
	Hits    uint64 `yaml:"hits"    json:"hits"`
	Misses  uint64 `yaml:"misses"  json:"misses"`
	Bytes   int    `yaml:"bytes"   json:"bytes"`
}

// CacheKey is the owner name joined to the integer-truncated x origin.
// Two items of one owner at the same truncated x share an entry.
func CacheKey(owner string, frame model.Rect) string {
	return owner + "_" + strconv.Itoa(int(frame.X))
}

var errNoImage = errors.New("capturer returned no image")

// Cache captures icon thumbnails from the screen and keeps them until
// invalidated. It is safe for concurrent use.
type Cache struct {
	capturer platform.ScreenCapturer
	perms    platform.PermissionChecker

	mu      sync.Mutex
	entries map[string]*Thumbnail
	epoch   uint64
	hits    uint64
	misses  uint64

	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache(capturer platform.ScreenCapturer, perms platform.PermissionChecker) *Cache {
	return &Cache{
		capturer: capturer,
		perms:    perms,
		entries:  make(map[string]*Thumbnail),
	}
}

// Capture returns the thumbnail for the item at frame. Without screen
// recording permission it returns false and touches neither the display nor
// the cache. A cache hit returns the stored instance.
func (c *Cache) Capture(frame model.Rect, owner string) (*Thumbnail, bool) {
	if !c.perms.Snapshot().ScreenRecordingAllowed {
		return nil, false
	}
	if frame.Empty() {
		return nil, false
	}

	key := CacheKey(owner, frame)
	c.mu.Lock()
	if th, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return th, true
	}
	c.misses++
	epoch := c.epoch
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		img, err := c.capturer.CaptureRect(frame)
		if err != nil {
			return nil, err
		}
		if img == nil {
			return nil, errNoImage
		}
		th := &Thumbnail{Key: key, Image: img}

		c.mu.Lock()
		if c.epoch == epoch {
			if existing, ok := c.entries[key]; ok {
				th = existing
			} else {
				c.entries[key] = th
			}
		}
		c.mu.Unlock()
		return th, nil
	})
	if err != nil {
		slog.Debug("capture: screen read failed", "owner", owner, "key", key, "err", err)
		return nil, false
	}
	return v.(*Thumbnail), true
}

// Invalidate drops every entry whose key starts with owner.
func (c *Cache) Invalidate(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for k := range c.entries {
		if strings.HasPrefix(k, owner) {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[string]*Thumbnail)
}

// Len returns the number of cached thumbnails.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns counters and the approximate pixel memory held.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
	for _, th := range c.entries {
		b := th.Image.Bounds()
		s.Bytes += b.Dx() * b.Dy() * 4
	}
	return s
}
