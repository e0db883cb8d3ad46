package corpus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/latindb/corpusdb/internal/lemma"
	"github.com/stretchr/testify/require"
)

func TestSourceRegistryIntern(t *testing.T) {
	reg := NewSourceRegistry()
	id1 := reg.Intern("cicero/de_oratore.txt")
	id2 := reg.Intern("cicero/de_oratore.txt")
	require.Equal(t, id1, id2)

	path, ok := reg.Path(id1)
	require.True(t, ok)
	require.Equal(t, "cicero/de_oratore.txt", path)
}

func TestMapTextLoader(t *testing.T) {
	loader := MapTextLoader{"a.txt": "arma virumque cano"}
	text, err := loader.LoadText("a.txt")
	require.NoError(t, err)
	require.Equal(t, "arma virumque cano", text)

	_, err = loader.LoadText("missing.txt")
	require.Error(t, err)
}

func TestFormDataInternerContentAddressed(t *testing.T) {
	interner := NewFormDataInterner()
	fd := FormData{Source: 1, Line: 3, Form: lemma.FormID(7)}
	id1 := interner.Intern(fd)
	id2 := interner.Intern(fd)
	require.Equal(t, id1, id2)

	got, ok := interner.Lookup(id1)
	require.True(t, ok)
	require.Equal(t, fd, got)
}

func TestSubsetContentAddressedEquality(t *testing.T) {
	si := NewSubsetInterner()
	a := si.FromSources([]SourceID{3, 1, 2})
	b := si.FromSources([]SourceID{1, 2, 3})
	require.Equal(t, a, b, "equal-content subsets must be the identical value")
	require.Equal(t, []SourceID{1, 2, 3}, a.Sources())
}

func TestSubsetDeduplicates(t *testing.T) {
	si := NewSubsetInterner()
	s := si.FromSources([]SourceID{1, 1, 2, 2, 3})
	require.Equal(t, 3, s.Len())
}

func TestSubsetContains(t *testing.T) {
	si := NewSubsetInterner()
	s := si.FromSources([]SourceID{5, 10, 15})
	require.True(t, s.Contains(10))
	require.False(t, s.Contains(11))
}

func TestSubsetUnionDifferenceIntersect(t *testing.T) {
	si := NewSubsetInterner()
	a := si.FromSources([]SourceID{1, 2, 3})
	b := si.FromSources([]SourceID{2, 3, 4})

	union := si.Union(a, b)
	require.Equal(t, []SourceID{1, 2, 3, 4}, union.Sources())

	diff := si.Difference(a, b)
	require.Equal(t, []SourceID{1}, diff.Sources())

	inter := si.Intersect(a, b)
	require.Equal(t, []SourceID{2, 3}, inter.Sources())
}

func TestSubsetEmpty(t *testing.T) {
	var s Subset
	require.Equal(t, 0, s.Len())
	require.False(t, s.Contains(1))
	require.Nil(t, s.Sources())
}

// TestSubsetSetAlgebraIsOrderIndependent builds the same three subsets
// from differently-ordered input slices and checks the set-algebra
// results agree regardless of construction order, ignoring element
// order in the comparison itself (the thing cmp.Diff with
// cmpopts.SortSlices is suited for; a plain require.Equal would force
// this test to also pin down Sources()'s sort order).
func TestSubsetSetAlgebraIsOrderIndependent(t *testing.T) {
	si := NewSubsetInterner()
	byID := func(a, b SourceID) bool { return a < b }

	a1 := si.FromSources([]SourceID{3, 1, 2})
	a2 := si.FromSources([]SourceID{2, 3, 1})
	b1 := si.FromSources([]SourceID{4, 2})
	b2 := si.FromSources([]SourceID{2, 4})

	if diff := cmp.Diff(si.Union(a1, b1).Sources(), si.Union(a2, b2).Sources(), cmpopts.SortSlices(byID)); diff != "" {
		t.Errorf("union mismatch across construction orders (-got1 +got2):\n%s", diff)
	}
	if diff := cmp.Diff(si.Intersect(a1, b1).Sources(), si.Intersect(a2, b2).Sources(), cmpopts.SortSlices(byID)); diff != "" {
		t.Errorf("intersect mismatch across construction orders (-got1 +got2):\n%s", diff)
	}
}
