package pes

import "sync"

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]float64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]float64)}
}

func (c *MemoryCache) Get(key string) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	return e, ok, nil
}

func (c *MemoryCache) Put(key string, energy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = energy
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
