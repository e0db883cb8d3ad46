package author

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCenturyLatestVariant(t *testing.T) {
	require.Equal(t, 1, Century(1))
	require.Equal(t, 1, Century(99))
	require.Equal(t, 2, Century(100))
	require.Equal(t, -1, Century(-1))
	require.Equal(t, -1, Century(-99))
	require.Equal(t, -2, Century(-100))
}

func TestCenturyZeroYearIsCenturyOne(t *testing.T) {
	// year 0 under the "latest" formula: 0/100 + 1 = 1.
	require.Equal(t, 1, Century(0))
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: -99, End: 0}
	require.True(t, s.Contains(-50))
	require.True(t, s.Contains(-99))
	require.True(t, s.Contains(0))
	require.False(t, s.Contains(1))
}

func TestRegistryInternAndLookup(t *testing.T) {
	reg := NewRegistry()
	id := reg.Intern("Cicero")
	same := reg.Intern("Cicero")
	require.Equal(t, id, same)

	reg.SetSpan(id, &Span{Start: -106, End: -43})
	a, ok := reg.Lookup(id)
	require.True(t, ok)
	require.Equal(t, "Cicero", a.Name)
	require.NotNil(t, a.Span)
	require.Equal(t, Span{Start: -106, End: -43}, *a.Span)
}

func TestParseDatesFileBasic(t *testing.T) {
	input := `Cicero#(1a)
Seneca#(1d)
Unknown#?
`
	authors, err := ParseDatesFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, authors, 3)

	require.Equal(t, "Cicero", authors[0].Name)
	require.NotNil(t, authors[0].Span)
	require.True(t, authors[0].Span.Start < 0, "ante century must produce a negative span")

	require.Equal(t, "Seneca", authors[1].Name)
	require.True(t, authors[1].Span.Start >= 0, "CE century must produce a non-negative span")

	require.Equal(t, "Unknown", authors[2].Name)
	require.Nil(t, authors[2].Span)
}

func TestParseDatesFileSkipsTildeLines(t *testing.T) {
	input := "Ghost#~unknown~\nCicero#(1a)\n"
	authors, err := ParseDatesFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, authors, 1)
	require.Equal(t, "Cicero", authors[0].Name)
}

func TestParseDatesFileAggregatesMultipleErrors(t *testing.T) {
	input := "onlyonefield\nCicero#(xb)\nGood#(1d)\n"
	authors, err := ParseDatesFile(strings.NewReader(input))
	require.Error(t, err)
	require.Len(t, authors, 1, "well-formed lines still parse despite earlier errors")

	msg := err.Error()
	require.Contains(t, msg, "invalid number of chunks")
	require.Contains(t, msg, "invalid number of dates")
}

func TestParseDatesFileMultiSegmentSpan(t *testing.T) {
	// "(1a,1d)" spans from century -1 through century 1: a single
	// continuous span, not two disjoint point spans.
	authors, err := ParseDatesFile(strings.NewReader("Livy#(1a,1d)\n"))
	require.NoError(t, err)
	require.NotNil(t, authors[0].Span)

	wantStart, _ := centuryBounds(-1)
	_, wantEnd := centuryBounds(1)
	require.Equal(t, Span{Start: wantStart, End: wantEnd}, *authors[0].Span)

	require.Equal(t, []int{-1, 1}, authors[0].Span.Centuries(), "must include every century from -1 through 1, skipping 0")
}

func TestCenturyBoundsRoundTripsThroughCentury(t *testing.T) {
	for c := -5; c <= 5; c++ {
		if c == 0 {
			continue
		}
		start, end := centuryBounds(c)
		require.Equal(t, c, Century(start), "start of century %d bounds", c)
		require.Equal(t, c, Century(end), "end of century %d bounds", c)
	}
}
