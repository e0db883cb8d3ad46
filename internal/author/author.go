// Package author implements the author/time-span model (C5): an
// author's floruit expressed as an optional year span, and the century
// bucketing used by the top-level temporal queries.
package author

import "github.com/latindb/corpusdb/internal/intern"

// ID identifies an author, minted by a Registry.
type ID = intern.ID

// Span is an inclusive year range. Years are signed integers: negative
// years are BCE, and year 0 counts as the first year of century 1 (see
// Century).
type Span struct {
	Start, End int
}

// Contains reports whether year falls within the span, inclusive.
func (s Span) Contains(year int) bool {
	return year >= s.Start && year <= s.End
}

// Author is a name plus an optional floruit span (spec.md C5: "(name,
// optional date span)"). A nil Span means the author's dates are
// unknown, matching original_source's Author.time_span: Option<TimeSpan>.
type Author struct {
	Name string
	Span *Span
}

// Century buckets a year into a century number using the "latest"
// variant required by spec.md: positive/zero years map to (y/100)+1,
// negative years map to (y/100)-1; year ranges straddling century 0
// contribute no bucket for that century (there is no "century 0").
// Go's integer division truncates toward zero, which is exactly the
// semantics this formula wants for both signs.
func Century(year int) int {
	if year >= 0 {
		return year/100 + 1
	}
	return year/100 - 1
}

// Centuries returns every distinct century touched by s, in ascending
// order. There is no century 0, so a span straddling year 0 skips
// straight from -1 to 1, matching original_source's split_by_century
// (which explicitly skips i == 0).
func (s Span) Centuries() []int {
	if s.Start > s.End {
		return nil
	}
	first, last := Century(s.Start), Century(s.End)
	out := make([]int, 0, last-first+1)
	for c := first; c <= last; c++ {
		if c == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}
