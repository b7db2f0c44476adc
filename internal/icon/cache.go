package icon

import (
	"container/list"
	"sync"

	"github.com/shelepuginivan/headset-tray/internal/battery"
	"github.com/shelepuginivan/headset-tray/systray"
)

// DefaultCacheSize is the default capacity of [Cache].
const DefaultCacheSize = 8

type cacheEntry struct {
	reading battery.Reading
	icon    *systray.Icon
}

// Cache memoizes icons rendered by the wrapped [Renderer]. It holds at most
// Cap entries and evicts the least recently used entry first.
//
// Cached icons are shared between callers and must not be modified.
type Cache struct {
	renderer Renderer
	capacity int

	mu      sync.Mutex
	entries map[battery.Reading]*list.Element
	recency *list.List // front is the most recently used
}

var _ Renderer = (*Cache)(nil)

// NewCache returns a new [Cache] of the given capacity. Capacity less than 1
// is replaced with [DefaultCacheSize].
func NewCache(renderer Renderer, capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCacheSize
	}

	return &Cache{
		renderer: renderer,
		capacity: capacity,
		entries:  make(map[battery.Reading]*list.Element, capacity),
		recency:  list.New(),
	}
}

// Get returns icon of the reading. On a miss the icon is rendered and
// stored. Render errors are returned and not cached.
func (c *Cache) Get(r battery.Reading) (*systray.Icon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[r]; ok {
		c.recency.MoveToFront(elem)
		return elem.Value.(*cacheEntry).icon, nil
	}

	icon, err := c.renderer.Render(r)
	if err != nil {
		return nil, err
	}

	c.entries[r] = c.recency.PushFront(&cacheEntry{reading: r, icon: icon})

	if c.recency.Len() > c.capacity {
		oldest := c.recency.Back()
		c.recency.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).reading)
	}

	return icon, nil
}

// Render implements [Renderer], it is equivalent to [Cache.Get].
func (c *Cache) Render(r battery.Reading) (*systray.Icon, error) {
	return c.Get(r)
}

// Contains reports whether icon of the reading is cached, without updating
// its recency.
func (c *Cache) Contains(r battery.Reading) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[r]
	return ok
}

// Len returns the number of cached icons.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.recency.Len()
}

// Cap returns capacity of the cache.
func (c *Cache) Cap() int {
	return c.capacity
}
