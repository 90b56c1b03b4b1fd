package container

import "sync"

// cache maps (contract, service id) keys to constructed instances. Lookups
// and insertions are guarded by a mutex held only for map access, never
// across service construction.
type cache struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newCache() *cache {
	return &cache{entries: make(map[string]any)}
}

func (c *cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// getOrStore inserts value unless another construction already won the race
// for the key. The surviving instance is returned either way; a losing value
// is simply discarded by the caller.
func (c *cache) getOrStore(key string, value any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v
	}
	c.entries[key] = value
	return value
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

func (c *cache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
