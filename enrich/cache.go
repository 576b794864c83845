package enrich

import "sync"

// Cache memoizes parsed LLM responses keyed by product page URL. Entries are
// written once per URL on the first successful parse and never evicted; a
// hit skips the network call entirely. It is safe for concurrent use.
//
// The cache stores the parsed object as returned by the model, before
// reconciliation, so precedence changes never pollute cached entries.
type Cache struct {
	mu    sync.RWMutex
	store map[string]map[string]any
}

// NewCache creates an empty enrichment cache.
func NewCache() *Cache {
	return &Cache{store: make(map[string]map[string]any)}
}

// Get returns the cached parsed object for the URL, if present.
func (c *Cache) Get(url string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obj, ok := c.store[url]
	return obj, ok
}

// Put stores the parsed object for the URL.
func (c *Cache) Put(url string, obj map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[url] = obj
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
