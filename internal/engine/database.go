// Package engine implements a generic, domain-agnostic incremental
// derived-query engine (C8): durability-tiered inputs, memoized queries
// with precise dependency tracking, LRU-bounded caches, snapshot
// isolation, and garbage sweep. It mirrors the incremental-computation
// model original_source builds on top of the Rust "salsa" crate,
// reimplemented from first principles since no Go library in this
// module's dependency pack provides an equivalent (see DESIGN.md).
package engine

import (
	"sync"
	"sync/atomic"
)

// Revision is a monotonically increasing logical clock. Revision 0 is
// never observed as a "changed at" value; it is reserved to mean
// "never written."
type Revision uint64

// Database is the shared root of an engine instance: a revision
// counter, one synthetic-touch mark per durability level, and the write
// barrier every Input write and every Writer call passes through.
//
// The concurrency contract is: any number of readers (via Snapshot) may
// run concurrently, but a writer excludes every reader and waits for
// every live snapshot to release before proceeding (sync.RWMutex gives
// us exactly this for free).
type Database struct {
	barrier sync.RWMutex

	revision       atomic.Uint64
	syntheticTouch [numDurabilities]atomic.Uint64
}

// New creates a fresh Database at revision 0.
func New() *Database {
	return &Database{}
}

// currentRevision returns the database's current revision.
func (db *Database) currentRevision() Revision {
	return Revision(db.revision.Load())
}

// bump advances the revision counter and returns the new value. Callers
// must hold the write barrier.
func (db *Database) bump() Revision {
	return Revision(db.revision.Add(1))
}

// SyntheticWrite advances the revision and marks every durability level
// at or below d as "touched" at the new revision, without touching any
// actual Input cell. This is what lets a Sweep at Medium durability
// invalidate Low/Medium inputs network-wide while leaving High-durability
// inputs (the source registry, interned paths, ...) untouched, per the
// engine's durability contract. Must be called from within a Writer.
func (db *Database) SyntheticWrite(d Durability) Revision {
	rev := db.bump()
	for level := Low; level <= d; level++ {
		db.syntheticTouch[level].Store(uint64(rev))
	}
	return rev
}

// syntheticTouchAt returns the last revision at which a synthetic write
// touched durability level d.
func (db *Database) syntheticTouchAt(d Durability) Revision {
	return Revision(db.syntheticTouch[d].Load())
}

// Writer runs fn while holding the database's write lock, excluding all
// concurrent readers (Snapshot holders) and any other writer. Use it for
// Input.Set calls, SyntheticWrite, and Query.Sweep/SweepAll.
func (db *Database) Writer(fn func()) {
	db.barrier.Lock()
	defer db.barrier.Unlock()
	fn()
}

// Snapshot is a read-isolated view of the database: it holds the read
// side of the write barrier for its lifetime, guaranteeing the revision
// counter and every synthetic-touch mark stay fixed until Release is
// called.
type Snapshot struct {
	db       *Database
	released bool
}

// Snapshot acquires a read-isolated view of db. The caller must call
// Release exactly once.
func (db *Database) Snapshot() *Snapshot {
	db.barrier.RLock()
	return &Snapshot{db: db}
}

// DB returns the underlying database. Queries and inputs are read
// through it; the isolation guarantee comes from s having taken the
// read lock, not from any method on Database itself.
func (s *Snapshot) DB() *Database { return s.db }

// Release ends the snapshot's isolation window. It is safe to call at
// most once; calling it twice panics, mirroring sync.RWMutex's own
// double-unlock panic, which this thinly wraps.
func (s *Snapshot) Release() {
	if s.released {
		panic("engine: Snapshot released twice")
	}
	s.released = true
	s.db.barrier.RUnlock()
}
