package corpus

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Subset is an immutable, ordered set of source ids (spec.md §3's "C6
// Subset value"). Two Subsets with equal contents are always the exact
// same Go value (same backing pointer), guaranteed by SubsetInterner's
// content-addressed construction, so Subset can be used directly as a
// map key or query cache key and "cheap to clone" is literal: copying
// the single-pointer struct.
type Subset struct {
	data *subsetData
}

type subsetData struct {
	sources []SourceID // sorted ascending, deduplicated
}

// Sources returns the subset's member ids in ascending order. The
// returned slice must not be mutated; it is the interner's own backing
// array.
func (s Subset) Sources() []SourceID {
	if s.data == nil {
		return nil
	}
	return s.data.sources
}

// Len reports the subset's cardinality.
func (s Subset) Len() int {
	if s.data == nil {
		return 0
	}
	return len(s.data.sources)
}

// Contains reports whether id is a member of s.
func (s Subset) Contains(id SourceID) bool {
	if s.data == nil {
		return false
	}
	sources := s.data.sources
	i := sort.Search(len(sources), func(i int) bool { return sources[i] >= id })
	return i < len(sources) && sources[i] == id
}

// SubsetInterner canonicalizes and content-addresses Subset values, the
// mechanism that makes Subset equality and hashing behave correctly as a
// plain Go comparable.
type SubsetInterner struct {
	mu    sync.Mutex
	byKey map[string]*subsetData
}

// NewSubsetInterner creates an empty SubsetInterner.
func NewSubsetInterner() *SubsetInterner {
	return &SubsetInterner{byKey: make(map[string]*subsetData)}
}

// FromSources builds the Subset containing exactly the given ids,
// deduplicated and order-normalized.
func (si *SubsetInterner) FromSources(ids []SourceID) Subset {
	sorted := append([]SourceID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	deduped := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			deduped = append(deduped, id)
		}
	}
	return si.intern(deduped)
}

func (si *SubsetInterner) intern(sorted []SourceID) Subset {
	key := encodeKey(sorted)

	si.mu.Lock()
	defer si.mu.Unlock()
	if d, ok := si.byKey[key]; ok {
		return Subset{data: d}
	}
	d := &subsetData{sources: sorted}
	si.byKey[key] = d
	return Subset{data: d}
}

func encodeKey(sorted []SourceID) string {
	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		b.WriteByte(',')
	}
	return b.String()
}

// Union returns the subset containing every id present in a or b.
func (si *SubsetInterner) Union(a, b Subset) Subset {
	merged := append([]SourceID(nil), a.Sources()...)
	merged = append(merged, b.Sources()...)
	return si.FromSources(merged)
}

// Difference returns the subset containing every id in a that is not
// also in b.
func (si *SubsetInterner) Difference(a, b Subset) Subset {
	var out []SourceID
	for _, id := range a.Sources() {
		if !b.Contains(id) {
			out = append(out, id)
		}
	}
	return si.FromSources(out)
}

// Intersect returns the subset containing every id present in both a
// and b.
func (si *SubsetInterner) Intersect(a, b Subset) Subset {
	var out []SourceID
	for _, id := range a.Sources() {
		if b.Contains(id) {
			out = append(out, id)
		}
	}
	return si.FromSources(out)
}
