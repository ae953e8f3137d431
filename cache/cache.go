// Package cache keeps recent previews in memory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/mediascout/models"
)

// entry holds a cached preview with its creation timestamp.
type entry struct {
	preview   *models.Preview
	createdAt time.Time
}

// Cache is a simple in-memory cache for previews.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Cache holding at most maxEntries previews. A background
// goroutine evicts entries older than ttl every ttl/12 (at least a minute).
func New(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	go c.cleanupLoop(max(ttl/12, time.Minute))
	return c
}

// Key generates a cache key from the page URL. Surrounding whitespace is
// ignored so equivalent requests share an entry.
func Key(url string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(h[:])
}

// Get retrieves a cached preview if it exists and is younger than maxAge.
// maxAge is in milliseconds. If maxAge <= 0, no cache lookup is performed.
func (c *Cache) Get(key string, maxAgeMs int) (*models.Preview, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}

	return e.preview, true
}

// Set stores a preview. If the cache is at capacity, a random entry is
// evicted to make room.
func (c *Cache) Set(key string, p *models.Preview) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Map iteration order is random.
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		preview:   p,
		createdAt: c.now(),
	}
}

// Len returns the number of cached previews.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stop ends the background sweeper.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Cache) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
	c.mu.Unlock()
}
