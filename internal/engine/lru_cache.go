package engine

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lruCache bounds a query's memo table to a fixed capacity, evicting the
// least recently used entry once full (github.com/hashicorp/golang-
// lru/v2), mirroring original_source's per-query LRU sizing in
// src/query_driver/memory.rs (FEW=32 for the "heavy" intersection-style
// queries, MANY=256 for cheap per-source lookups).
type lruCache[K comparable, V any] struct {
	mu sync.Mutex
	c  *lru.Cache[K, *entry[V]]
}

func newLRUCache[K comparable, V any](capacity int) *lruCache[K, V] {
	c, err := lru.New[K, *entry[V]](capacity)
	if err != nil {
		// Only returns an error for a non-positive capacity, which is a
		// programmer error in how queries are wired up.
		panic(err)
	}
	return &lruCache[K, V]{c: c}
}

func (c *lruCache[K, V]) get(key K) (*entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.Get(key)
}

func (c *lruCache[K, V]) put(key K, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Add(key, e)
}

func (c *lruCache[K, V]) delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Remove(key)
}

func (c *lruCache[K, V]) forEach(fn func(key K, e *entry[V]) bool) {
	c.mu.Lock()
	keys := c.c.Keys()
	snapshot := make(map[K]*entry[V], len(keys))
	for _, k := range keys {
		if v, ok := c.c.Peek(k); ok {
			snapshot[k] = v
		}
	}
	c.mu.Unlock()
	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
