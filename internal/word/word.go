// Package word implements Latin word canonicalization (C1) and the word
// interner (C2). Canonicalization follows original_source's
// StandardLatinConverter (src/latin_utilities/src/lib.rs): NFD
// decomposition, an allow-list filter, lowercasing, and j/v folding.
package word

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Word is a canonicalized Latin word or form. The zero value is the
// canonical empty word. Only Canonicalize constructs non-trivial Words,
// so two Words are equal iff their underlying text is equal.
type Word struct {
	text string
}

// String returns the word's canonical text.
func (w Word) String() string { return w.text }

// IsZero reports whether w is the canonical empty word.
func (w Word) IsZero() bool { return w.text == "" }

// Canonicalize reduces raw to its canonical form:
//  1. Unicode canonical decomposition (NFD), splitting precomposed
//     accented letters into base rune + combining marks.
//  2. Keep letters, whitespace, '/' and '#'; drop everything else
//     (combining marks, digits, brackets, other punctuation).
//  3. Lowercase.
//  4. Fold j->i and v->u.
func Canonicalize(raw string) Word {
	decomposed := norm.NFD.String(raw)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.IsLetter(r), unicode.IsSpace(r), r == '/', r == '#':
			b.WriteRune(r)
		}
	}

	lowered := strings.ToLower(b.String())
	lowered = strings.ReplaceAll(lowered, "j", "i")
	lowered = strings.ReplaceAll(lowered, "v", "u")

	return Word{text: lowered}
}

// Fields splits line on literal ASCII spaces only (not unicode.IsSpace),
// so runs of spaces yield empty tokens. This matches the tokenization
// contract required when parsing source lines into forms (spec's
// "runs of whitespace produce empty canonical words" edge case).
func Fields(line string) []string {
	return strings.Split(line, " ")
}
