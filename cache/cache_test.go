package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/mediascout/models"
)

func newTestCache(t *testing.T, maxEntries int) (*Cache, *time.Time) {
	t.Helper()
	c := New(maxEntries, time.Hour)
	t.Cleanup(c.Stop)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestGetRespectsMaxAge(t *testing.T) {
	c, now := newTestCache(t, 10)
	p := &models.Preview{Metadata: models.Metadata{Title: "Solo Leveling"}}
	key := Key("https://anime.example.com/series/solo-leveling/")
	c.Set(key, p)

	got, ok := c.Get(key, 60_000)
	require.True(t, ok)
	assert.Same(t, p, got)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get(key, 60_000)
	assert.False(t, ok)

	got, ok = c.Get(key, 300_000)
	assert.True(t, ok)
	assert.Same(t, p, got)
}

func TestGetDisabledWithoutMaxAge(t *testing.T) {
	c, _ := newTestCache(t, 10)
	key := Key("https://a.example.com/")
	c.Set(key, &models.Preview{})

	_, ok := c.Get(key, 0)
	assert.False(t, ok)
	_, ok = c.Get(key, -5)
	assert.False(t, ok)
}

func TestSetEvictsAtCapacity(t *testing.T) {
	c, _ := newTestCache(t, 3)
	for i := range 5 {
		c.Set(Key(fmt.Sprintf("https://example.com/%d", i)), &models.Preview{})
	}
	assert.Equal(t, 3, c.Len())

	k := Key("https://example.com/4")
	c.Set(k, &models.Preview{})
	assert.Equal(t, 3, c.Len())
}

func TestSweepDropsExpired(t *testing.T) {
	c, now := newTestCache(t, 10)
	c.Set(Key("https://old.example.com/"), &models.Preview{})
	*now = now.Add(90 * time.Minute)
	c.Set(Key("https://new.example.com/"), &models.Preview{})

	c.sweep()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(Key("https://new.example.com/"), 1000)
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("https://a.example.com/"), Key("  https://a.example.com/ "))
	assert.NotEqual(t, Key("https://a.example.com/"), Key("https://b.example.com/"))
	assert.Len(t, Key("x"), 64)
}
