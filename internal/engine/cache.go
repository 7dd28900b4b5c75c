package engine

import (
	"slices"
	"sync"

	"github.com/llm-d/liquid-extraction/pkg/solver"
)

// ResultCache keeps the results of successful runs by plan fingerprint.
// Results are copied on the way in and out so callers never share stage
// records with the cache. It is safe for concurrent use.
type ResultCache struct {
	mu    sync.RWMutex
	items map[string]*solver.Result
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{items: make(map[string]*solver.Result)}
}

// Get returns the cached result for fingerprint.
func (c *ResultCache) Get(fingerprint string) (*solver.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.items[fingerprint]
	if !ok {
		return nil, false
	}
	return cloneResult(r), true
}

// Set stores a result for fingerprint.
func (c *ResultCache) Set(fingerprint string, r *solver.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[fingerprint] = cloneResult(r)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func cloneResult(r *solver.Result) *solver.Result {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Stages = slices.Clone(r.Stages)
	return &cp
}
