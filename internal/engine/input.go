package engine

import "sync"

// Input is a durability-tagged map of externally-set values (spec C8's
// "input cells"). Values are only ever changed through Set, which must
// run inside a Database.Writer call.
type Input[K comparable, V any] struct {
	durability Durability

	mu    sync.RWMutex
	cells map[K]inputCell[V]
}

type inputCell[V any] struct {
	value     V
	changedAt Revision
	set       bool
}

// NewInput creates an Input cell map at the given durability.
func NewInput[K comparable, V any](d Durability) *Input[K, V] {
	return &Input[K, V]{
		durability: d,
		cells:      make(map[K]inputCell[V]),
	}
}

// Set stores value for key. Must be called from within a Database.Writer.
func (in *Input[K, V]) Set(db *Database, key K, value V) {
	rev := db.bump()
	in.mu.Lock()
	in.cells[key] = inputCell[V]{value: value, changedAt: rev, set: true}
	in.mu.Unlock()
}

// effectiveChangedAt returns the revision at which key last changed,
// accounting for synthetic writes at this input's durability level.
func (in *Input[K, V]) effectiveChangedAt(db *Database, key K) Revision {
	in.mu.RLock()
	cell := in.cells[key]
	in.mu.RUnlock()

	changedAt := cell.changedAt
	if touched := db.syntheticTouchAt(in.durability); touched > changedAt {
		changedAt = touched
	}
	return changedAt
}

// Get reads key's current value. If ctx is non-nil (i.e. this read
// happens inside a Query's compute function), a dependency on key is
// recorded so the enclosing query is correctly invalidated whenever key
// changes, directly or via a synthetic write at this input's durability.
func (in *Input[K, V]) Get(db *Database, ctx *QueryCtx, key K) (V, bool) {
	in.mu.RLock()
	cell, ok := in.cells[key]
	in.mu.RUnlock()

	if ctx != nil {
		ctx.depend(func() Revision {
			return in.effectiveChangedAt(db, key)
		})
	}

	return cell.value, ok
}

// MustGet is Get without the ok flag, for callers that have already
// established the key exists (e.g. reading an input set unconditionally
// at load time).
func (in *Input[K, V]) MustGet(db *Database, ctx *QueryCtx, key K) V {
	v, _ := in.Get(db, ctx, key)
	return v
}
