// Package cache keeps operation results in fixed-size LRU caches, one per
// namespace (usually "<service>.<operation>").
package cache

import (
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/valpere/polytran/internal/cachekey"
)

// DefaultSize is the per-namespace entry limit used when none is given.
const DefaultSize = 1024

// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu     sync.RWMutex
	size   int
	spaces map[string]*lru.Cache[cachekey.Key, any]
}

// New returns an empty cache whose namespaces hold at most size entries each.
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		size:   size,
		spaces: make(map[string]*lru.Cache[cachekey.Key, any]),
	}
}

// Size returns the per-namespace capacity.
func (c *Cache) Size() int {
	return c.size
}

// Get returns the value stored under key in namespace ns and marks it as
// recently used.
func (c *Cache) Get(ns string, key cachekey.Key) (any, bool) {
	c.mu.RLock()
	space, ok := c.spaces[ns]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return space.Get(key)
}

// Put stores value under key, evicting the least recently used entry of the
// namespace when it is full.
func (c *Cache) Put(ns string, key cachekey.Key, value any) {
	c.namespace(ns).Add(key, value)
}

// Len reports the number of entries in namespace ns.
func (c *Cache) Len(ns string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if space, ok := c.spaces[ns]; ok {
		return space.Len()
	}
	return 0
}

// Namespaces lists the namespaces created so far, sorted.
func (c *Cache) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.spaces))
	for name := range c.spaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear empties every namespace.
func (c *Cache) Clear() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, space := range c.spaces {
		space.Purge()
	}
}

func (c *Cache) namespace(ns string) *lru.Cache[cachekey.Key, any] {
	c.mu.RLock()
	space, ok := c.spaces[ns]
	c.mu.RUnlock()
	if ok {
		return space
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if space, ok := c.spaces[ns]; ok {
		return space
	}
	// lru.New only fails on a non-positive size, which New rules out.
	space, _ = lru.New[cachekey.Key, any](c.size)
	c.spaces[ns] = space
	return space
}
