package author

import (
	"sync"

	"github.com/latindb/corpusdb/internal/intern"
)

// Registry assigns dense, never-reused ids to author names (C3 applied
// to authors) and separately tracks each author's known span, which may
// be attached after the author is first interned (directory walking
// discovers author names before an optional dates file supplies their
// floruit, mirroring original_source's driver_init two-pass load).
type Registry struct {
	names *intern.Table[string]

	mu   sync.RWMutex
	span map[ID]*Span
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		names: intern.New[string](),
		span:  make(map[ID]*Span),
	}
}

// Intern returns name's id, minting one if needed.
func (r *Registry) Intern(name string) ID {
	return r.names.Intern(name)
}

// SetSpan replaces id's known floruit span. A nil span marks the
// author's dates as unknown.
func (r *Registry) SetSpan(id ID, span *Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.span[id] = span
}

// Lookup returns the Author for id.
func (r *Registry) Lookup(id ID) (Author, bool) {
	name, ok := r.names.Lookup(id)
	if !ok {
		return Author{}, false
	}
	r.mu.RLock()
	span := r.span[id]
	r.mu.RUnlock()
	return Author{Name: name, Span: span}, true
}

// ByName returns the id already assigned to name, if any.
func (r *Registry) ByName(name string) (ID, bool) {
	return r.names.TryID(name)
}

// Len reports how many authors have been interned.
func (r *Registry) Len() int {
	return r.names.Len()
}

// All returns every known author id.
func (r *Registry) All() []ID {
	n := r.names.Len()
	out := make([]ID, n)
	for i := 0; i < n; i++ {
		out[i] = ID(i + 1)
	}
	return out
}
