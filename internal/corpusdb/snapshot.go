package corpusdb

import "github.com/latindb/corpusdb/internal/engine"

// Snapshot is a read-isolated view of a Database (C11): every query run
// against it observes a fixed revision for its whole lifetime, and a
// concurrent Load/Sweep/DeepSweep call blocks until the snapshot is
// released.
type Snapshot struct {
	db  *Database
	es  *engine.Snapshot
	eng *engine.Database
}

// Snapshot acquires a read-isolated view of db. The caller must call
// Release exactly once.
func (db *Database) Snapshot() *Snapshot {
	es := db.eng.Snapshot()
	return &Snapshot{db: db, es: es, eng: es.DB()}
}

// Release ends the snapshot's isolation window.
func (s *Snapshot) Release() {
	s.es.Release()
}
