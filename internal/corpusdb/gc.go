package corpusdb

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/latindb/corpusdb/internal/engine"
)

// This file implements C11's garbage-collection discipline, grounded on
// original_source's src/query_driver/memory.rs: a periodic sweep that
// discards only stale entries, and a deep sweep that discards
// everything after a HIGH-durability synthetic write. Each query's
// cache is independent of the others, so the per-query sweeps run
// concurrently via errgroup rather than one at a time.

// Sweep performs a periodic garbage sweep: it issues a MEDIUM-durability
// synthetic write (invalidating Low/Medium-durability dependents, but
// leaving High-durability ones such as the source registry untouched)
// and then evicts every cache entry across all queries that fails
// revalidation.
func (db *Database) Sweep() {
	db.eng.Writer(func() {
		db.eng.SyntheticWrite(engine.Medium)
		var total atomic.Int64
		var g errgroup.Group
		for _, q := range db.lruQueries {
			q := q
			g.Go(func() error {
				total.Add(int64(q.Sweep(db.eng)))
				return nil
			})
		}
		_ = g.Wait()
		db.log.Debug("garbage sweep complete", "evicted", total.Load())
	})
}

// DeepSweep issues a HIGH-durability synthetic write and unconditionally
// discards every cached query entry network-wide. Use sparingly: it
// forces every subsequent read to recompute from scratch.
func (db *Database) DeepSweep() {
	db.eng.Writer(func() {
		db.eng.SyntheticWrite(engine.High)
		var g errgroup.Group
		for _, q := range db.lruQueries {
			q := q
			g.Go(func() error {
				if sweeper, ok := q.(interface{ SweepAll() }); ok {
					sweeper.SweepAll()
				}
				return nil
			})
		}
		_ = g.Wait()
		db.log.Debug("deep sweep complete")
	})
}
