package author

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind classifies a single malformed line in a dates file.
type ErrorKind int

const (
	// InvalidNumberOfChunks means the line's name#span separator
	// produced something other than exactly two fields.
	InvalidNumberOfChunks ErrorKind = iota
	// InvalidNumberOfDates means the span has more than two
	// comma-separated segments, or a segment did not match the
	// single-digit-century (\d)(a|d) pattern.
	InvalidNumberOfDates
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidNumberOfChunks:
		return "invalid number of chunks"
	case InvalidNumberOfDates:
		return "invalid number of dates"
	default:
		return "unknown error"
	}
}

// ParseError reports one malformed line of a dates file.
type ParseError struct {
	Kind ErrorKind
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dates file line %d: %s: %q", e.Line, e.Kind, e.Text)
}

var dateSegmentRe = regexp.MustCompile(`(\d)(a|d)`)

// ParseDatesFile parses the author-dates file format described in
// spec.md §6: each non-skipped line is "name#span", where span is "?"
// (unknown, producing a nil Span) or a parenthesized span of one or two
// single-digit-century segments matching (\d)(a|d) — 'a' (ante, BCE)
// negates the century, 'd' (CE) leaves it positive. The first segment is
// the span's start century and the second (if present) its end century;
// a single segment is a point span with the same start and end,
// matching original_source's read_line (segments[0] -> start,
// segments[1] or segments[0] -> end, then one TimeSpan::new(start,
// end)). A line containing '~' is skipped entirely.
//
// original_source's WeirdParser (src/authors_chrono/src/parsers.rs) maps
// 'a' to a positive century and 'd' to negative, which is inverted
// relative to spec.md's documented semantics; this parser follows
// spec.md, not that file (see DESIGN.md).
//
// Every malformed line is collected into the returned error via
// hashicorp/go-multierror rather than stopping at the first, so a
// single call reports the full set of problems in one pass.
func ParseDatesFile(r io.Reader) ([]Author, error) {
	var authors []Author
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, "~") {
			continue
		}

		chunks := strings.Split(line, "#")
		if len(chunks) != 2 {
			errs = multierror.Append(errs, &ParseError{
				Kind: InvalidNumberOfChunks,
				Line: lineNo,
				Text: line,
			})
			continue
		}
		name := strings.TrimSpace(chunks[0])
		spanText := strings.TrimSpace(chunks[1])

		if spanText == "?" {
			authors = append(authors, Author{Name: name})
			continue
		}

		spanText = strings.TrimPrefix(spanText, "(")
		spanText = strings.TrimSuffix(spanText, ")")

		segs := strings.Split(spanText, ",")
		if len(segs) == 0 || len(segs) > 2 {
			errs = multierror.Append(errs, &ParseError{
				Kind: InvalidNumberOfDates,
				Line: lineNo,
				Text: line,
			})
			continue
		}

		centuries := make([]int, 0, len(segs))
		segErr := false
		for _, seg := range segs {
			century, ok := parseCenturySegment(seg)
			if !ok {
				errs = multierror.Append(errs, &ParseError{
					Kind: InvalidNumberOfDates,
					Line: lineNo,
					Text: line,
				})
				segErr = true
				break
			}
			centuries = append(centuries, century)
		}
		if segErr {
			continue
		}

		startCentury := centuries[0]
		endCentury := centuries[0]
		if len(centuries) == 2 {
			endCentury = centuries[1]
		}

		start, _ := centuryBounds(startCentury)
		_, end := centuryBounds(endCentury)
		authors = append(authors, Author{Name: name, Span: &Span{Start: start, End: end}})
	}

	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("reading dates file: %w", err))
	}

	return authors, errs.ErrorOrNil()
}

// parseCenturySegment parses one (\d)(a|d) segment into a signed
// century number.
func parseCenturySegment(seg string) (century int, ok bool) {
	m := dateSegmentRe.FindStringSubmatch(strings.TrimSpace(seg))
	if m == nil {
		return 0, false
	}
	digit, _ := strconv.Atoi(m[1])
	century = digit
	if m[2] == "a" {
		century = -century
	}
	return century, true
}

// centuryBounds returns the inclusive year range for a century number as
// produced by Century, inverting that formula. Century truncates toward
// zero, so century -1 covers [-99,-1] rather than the naive [-100,-1]
// (Century(-100) is -2, not -1).
func centuryBounds(century int) (start, end int) {
	if century >= 1 {
		return (century - 1) * 100, century*100 - 1
	}
	end = (century + 1) * 100
	if century == -1 {
		end = -1
	}
	return century*100 + 1, end
}
