package engine

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryCtx accumulates the dependency closures and maximum observed
// changed-revision for one in-flight query computation. A nil *QueryCtx
// is valid and simply disables dependency tracking (used for top-level
// reads that are not themselves part of another query's computation).
type QueryCtx struct {
	deps         []func() Revision
	maxChangedAt Revision
}

func (c *QueryCtx) depend(f func() Revision) Revision {
	r := f()
	if c != nil {
		c.deps = append(c.deps, f)
		if r > c.maxChangedAt {
			c.maxChangedAt = r
		}
	}
	return r
}

// ComputeFunc is a query's pure derivation function. It must only read
// its inputs through db/ctx so that dependency tracking stays accurate;
// it must not itself call Database.Writer or Input.Set.
type ComputeFunc[K comparable, V any] func(db *Database, ctx *QueryCtx, key K) (V, error)

type entry[V any] struct {
	value      V
	err        error
	changedAt  Revision
	verifiedAt Revision
	deps       []func() Revision
}

// Query is a memoized, durability-aware derived computation (C8's
// "derived query"). It is safe for concurrent use: concurrent Read calls
// for distinct keys run independently, and concurrent Read calls for the
// same key that both miss cache share a single computation via
// golang.org/x/sync/singleflight.
type Query[K comparable, V any] struct {
	name    string
	compute ComputeFunc[K, V]
	cache   queryCache[K, V]
	group   singleflight.Group
}

type queryCache[K comparable, V any] interface {
	get(key K) (*entry[V], bool)
	put(key K, e *entry[V])
	delete(key K)
	forEach(fn func(key K, e *entry[V]) bool)
}

// NewQuery creates an unbounded memoized query.
func NewQuery[K comparable, V any](name string, compute ComputeFunc[K, V]) *Query[K, V] {
	return &Query[K, V]{
		name:    name,
		compute: compute,
		cache:   newMapCache[K, V](),
	}
}

// NewBoundedQuery creates an LRU-bounded memoized query with the given
// per-query capacity (see spec's FEW=32/MANY=256 sizing in
// original_source's memory.rs).
func NewBoundedQuery[K comparable, V any](name string, capacity int, compute ComputeFunc[K, V]) *Query[K, V] {
	return &Query[K, V]{
		name:    name,
		compute: compute,
		cache:   newLRUCache[K, V](capacity),
	}
}

// Read evaluates the query at key, returning a cached result if still
// valid or recomputing it otherwise. If parent is non-nil, Read
// registers key's result as a dependency of the enclosing computation.
func (q *Query[K, V]) Read(db *Database, parent *QueryCtx, key K) (V, error) {
	value, changedAt, err := q.readWithRevision(db, key)
	if parent != nil {
		parent.deps = append(parent.deps, func() Revision {
			_, c, _ := q.readWithRevision(db, key)
			return c
		})
		if changedAt > parent.maxChangedAt {
			parent.maxChangedAt = changedAt
		}
	}
	return value, err
}

func (q *Query[K, V]) readWithRevision(db *Database, key K) (V, Revision, error) {
	if e, ok := q.cache.get(key); ok {
		if q.validate(db, e) {
			return e.value, e.changedAt, e.err
		}
	}
	return q.recompute(db, key)
}

// validate checks a cached entry against db's current revision without
// recomputing the query itself, recursively validating (and, if
// necessary, recomputing) every recorded dependency.
func (q *Query[K, V]) validate(db *Database, e *entry[V]) bool {
	if e.verifiedAt == db.currentRevision() {
		return true
	}
	var maxDep Revision
	for _, dep := range e.deps {
		if r := dep(); r > maxDep {
			maxDep = r
		}
	}
	if maxDep > e.changedAt {
		return false
	}
	e.verifiedAt = db.currentRevision()
	return true
}

func (q *Query[K, V]) recompute(db *Database, key K) (V, Revision, error) {
	shared, err, _ := q.group.Do(fmt.Sprintf("%v", key), func() (interface{}, error) {
		ctx := &QueryCtx{}
		value, computeErr := q.compute(db, ctx, key)
		e := &entry[V]{
			value:      value,
			err:        computeErr,
			changedAt:  ctx.maxChangedAt,
			verifiedAt: db.currentRevision(),
			deps:       ctx.deps,
		}
		// A failed computation is returned to the caller but never
		// published to the cache, so the next read retries it.
		if computeErr == nil {
			q.cache.put(key, e)
		}
		return e, nil
	})
	if err != nil {
		var zero V
		return zero, 0, err
	}
	e := shared.(*entry[V])
	return e.value, e.changedAt, e.err
}

// Sweep drops every cached entry that fails validation against db's
// current state. A dropped entry is simply recomputed, deterministically,
// the next time it is read — sweeping never changes observable results.
func (q *Query[K, V]) Sweep(db *Database) (evicted int) {
	var stale []K
	q.cache.forEach(func(key K, e *entry[V]) bool {
		if !q.validate(db, e) {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		q.cache.delete(key)
	}
	return len(stale)
}

// SweepAll drops every cached entry unconditionally (used by deep
// sweep, which follows a HIGH-durability synthetic write that is assumed
// to invalidate everything).
func (q *Query[K, V]) SweepAll() {
	var all []K
	q.cache.forEach(func(key K, _ *entry[V]) bool {
		all = append(all, key)
		return true
	})
	for _, key := range all {
		q.cache.delete(key)
	}
}

type mapCache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]*entry[V]
}

func newMapCache[K comparable, V any]() *mapCache[K, V] {
	return &mapCache[K, V]{items: make(map[K]*entry[V])}
}

func (c *mapCache[K, V]) get(key K) (*entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	return e, ok
}

func (c *mapCache[K, V]) put(key K, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e
}

func (c *mapCache[K, V]) delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *mapCache[K, V]) forEach(fn func(key K, e *entry[V]) bool) {
	c.mu.Lock()
	snapshot := make(map[K]*entry[V], len(c.items))
	for k, v := range c.items {
		snapshot[k] = v
	}
	c.mu.Unlock()
	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
