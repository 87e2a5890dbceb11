package feedcache

import (
	"context"
	"sync"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/domain"
)

// KeyHome is the cache key for the home timeline page.
const KeyHome = "home"

// Cache holds fetched timeline pages keyed by feed. The submission
// pipeline invalidates affected keys after a successful post so the next
// fetch reflects the new or edited status. tea.Cmd callbacks run off the
// UI goroutine, hence the mutex.
type Cache struct {
	mu    sync.Mutex
	pages map[string][]domain.Status
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{pages: make(map[string][]domain.Status)}
}

// Get returns the cached page for key, if present.
func (c *Cache) Get(key string) ([]domain.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.pages[key]
	return page, ok
}

// Put stores a page under key.
func (c *Cache) Put(key string, statuses []domain.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = statuses
}

// Invalidate drops the pages under the given keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.pages, key)
	}
}

// Timeline wraps a TimelineService with the cache: hits skip the network,
// misses fetch and fill.
type Timeline struct {
	svc   app.TimelineService
	cache *Cache
}

// NewTimeline creates a cached timeline over svc.
func NewTimeline(svc app.TimelineService, cache *Cache) *Timeline {
	return &Timeline{svc: svc, cache: cache}
}

// FetchHome returns the cached home page when present, fetching otherwise.
func (t *Timeline) FetchHome(ctx context.Context, limit int) ([]domain.Status, error) {
	if page, ok := t.cache.Get(KeyHome); ok {
		return page, nil
	}
	page, err := t.svc.FetchHome(ctx, limit)
	if err != nil {
		return nil, err
	}
	t.cache.Put(KeyHome, page)
	return page, nil
}
