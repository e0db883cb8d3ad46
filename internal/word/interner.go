package word

import (
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

// ID is a dense, never-reused word identifier (C2).
type ID uint32

// Interner is the bidirectional word<->id table. The word->id half is
// backed by a persistent radix tree (github.com/hashicorp/go-immutable-
// radix/v2): Latin vocabulary shares long prefixes across declension and
// conjugation families, which a radix tree exploits, and its copy-on-
// write semantics mean a reader holding an old tree snapshot is never
// disturbed by a concurrent insert. The id->word half is a plain
// append-only slice guarded by the same mutex.
type Interner struct {
	mu   sync.Mutex
	tree *iradix.Tree[ID]
	byID []Word
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		tree: iradix.New[ID](),
	}
}

// Intern returns w's id, minting one if w has not been seen before.
func (n *Interner) Intern(w Word) ID {
	key := []byte(w.text)

	n.mu.Lock()
	defer n.mu.Unlock()

	if id, ok := n.tree.Get(key); ok {
		return id
	}

	id := ID(len(n.byID) + 1)
	n.byID = append(n.byID, w)
	tree, _, _ := n.tree.Insert(key, id)
	n.tree = tree
	return id
}

// InternString canonicalizes raw and interns the result.
func (n *Interner) InternString(raw string) ID {
	return n.Intern(Canonicalize(raw))
}

// Lookup returns the Word for id.
func (n *Interner) Lookup(id ID) (Word, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if id == 0 || int(id) > len(n.byID) {
		return Word{}, false
	}
	return n.byID[id-1], true
}

// TryID returns the id already assigned to w, without interning it.
func (n *Interner) TryID(w Word) (ID, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tree.Get([]byte(w.text))
}

// Len reports how many distinct words have been interned.
func (n *Interner) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.byID)
}
