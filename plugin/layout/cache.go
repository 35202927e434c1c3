package layout

// CachedPosition is the last-known state of one node, keyed by node id.
type CachedPosition struct {
	X, Y   float64
	Pinned bool
	FX, FY float64
}

// PositionCache preserves node coordinates and pin state across snapshot
// changes so surviving nodes never visibly jump. It is owned by one view
// session and outlives individual engine runs. It is not safe for concurrent
// use; the owning session serializes access.
type PositionCache struct {
	entries map[string]CachedPosition
}

// NewPositionCache creates an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{entries: make(map[string]CachedPosition)}
}

// Get returns the cached position for id, if any.
func (c *PositionCache) Get(id string) (CachedPosition, bool) {
	entry, ok := c.entries[id]
	return entry, ok
}

// Put records the position and pin state for id.
func (c *PositionCache) Put(id string, entry CachedPosition) {
	c.entries[id] = entry
}

// Evict removes the entry for id.
func (c *PositionCache) Evict(id string) {
	delete(c.entries, id)
}

// Prune drops every entry whose id is not in the live set. Called when a new
// snapshot arrives so removed nodes do not leak stale positions.
func (c *PositionCache) Prune(live map[string]bool) {
	for id := range c.entries {
		if !live[id] {
			delete(c.entries, id)
		}
	}
}

// Len returns the number of cached entries.
func (c *PositionCache) Len() int {
	return len(c.entries)
}
