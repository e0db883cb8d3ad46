// Package parsers implements the two lemmatizer input formats named in
// spec.md §6, grounded on original_source's
// src/latin_lemmatizer/src/parsers/{csv_format,lemlat_format}.rs.
package parsers

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/latindb/corpusdb/internal/lemma"
	"github.com/latindb/corpusdb/internal/word"
)

// ParseCSV reads a comma-separated lemmatizer file where each line's
// third field (index 2) is the lemma and first field (index 0) is the
// surface form. Both are canonicalized through interner before being
// recorded. Every malformed line is collected rather than aborting the
// whole parse.
func ParseCSV(r io.Reader, interner *word.Interner) (*lemma.Builder, error) {
	b := lemma.NewBuilder()
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		segments := strings.Split(line, ",")
		if len(segments) < 3 {
			errs = multierror.Append(errs, fmt.Errorf("csv lemmatizer line %d: want at least 3 fields, got %d: %q", lineNo, len(segments), line))
			continue
		}
		formWord := word.Canonicalize(segments[0])
		lemmaWord := word.Canonicalize(segments[2])

		formID := lemma.FormFromWord(interner.Intern(formWord))
		lemmaID := lemma.LemmaFromWord(interner.Intern(lemmaWord))
		b.Add(formID, lemmaID)
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("reading csv lemmatizer file: %w", err))
	}
	return b, errs.ErrorOrNil()
}

// ParseLemlat reads a tab-separated Lemlat-format lemmatizer file: the
// first field is the lemma, the second is an id to discard, and every
// remaining field is a "form (description)" record whose form is the
// token before the first space.
func ParseLemlat(r io.Reader, interner *word.Interner) (*lemma.Builder, error) {
	b := lemma.NewBuilder()
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		headerBody := strings.Split(line, "\t")
		if len(headerBody) < 2 {
			errs = multierror.Append(errs, fmt.Errorf("lemlat lemmatizer line %d: want at least 2 fields, got %d: %q", lineNo, len(headerBody), line))
			continue
		}
		lemmaWord := word.Canonicalize(headerBody[0])
		lemmaID := lemma.LemmaFromWord(interner.Intern(lemmaWord))

		for _, record := range headerBody[2:] {
			form, _, _ := strings.Cut(record, " ")
			if form == "" {
				continue
			}
			formID := lemma.FormFromWord(interner.Intern(word.Canonicalize(form)))
			b.Add(formID, lemmaID)
		}
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("reading lemlat lemmatizer file: %w", err))
	}
	return b, errs.ErrorOrNil()
}
