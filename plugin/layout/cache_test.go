package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCache_PutGetEvict(t *testing.T) {
	cache := NewPositionCache()

	_, ok := cache.Get("005930")
	assert.False(t, ok)

	cache.Put("005930", CachedPosition{X: 120, Y: 240})
	entry, ok := cache.Get("005930")
	assert.True(t, ok)
	assert.Equal(t, 120.0, entry.X)
	assert.Equal(t, 240.0, entry.Y)
	assert.False(t, entry.Pinned)

	cache.Put("005930", CachedPosition{X: 10, Y: 20, Pinned: true, FX: 10, FY: 20})
	entry, _ = cache.Get("005930")
	assert.True(t, entry.Pinned)
	assert.Equal(t, 10.0, entry.FX)

	cache.Evict("005930")
	_, ok = cache.Get("005930")
	assert.False(t, ok)
}

func TestPositionCache_Prune(t *testing.T) {
	cache := NewPositionCache()
	cache.Put("005930", CachedPosition{X: 1})
	cache.Put("000660", CachedPosition{X: 2})
	cache.Put("035420", CachedPosition{X: 3})

	cache.Prune(map[string]bool{"005930": true, "000660": true})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("035420")
	assert.False(t, ok)
	_, ok = cache.Get("005930")
	assert.True(t, ok)
}
