// Package lemma implements the lemmatizer index (C4): a bidirectional
// mapping between word forms and the lemma(s) they realize, built over
// the shared word interner so that form/lemma ids collide correctly with
// ids minted while parsing source texts.
package lemma

import "github.com/latindb/corpusdb/internal/word"

// FormID identifies an inflected form. It is a distinct type over
// word.ID (not a separate interner) so a FormID can never be silently
// passed where a LemmaID is expected, even though both ultimately name
// the same canonicalized word.
type FormID word.ID

// LemmaID identifies a lemma (dictionary headword).
type LemmaID word.ID

// FormFromWord and LemmaFromWord convert a canonicalized word's id into
// the corresponding domain-specific id type.
func FormFromWord(id word.ID) FormID   { return FormID(id) }
func LemmaFromWord(id word.ID) LemmaID { return LemmaID(id) }

// Index is the immutable, mutual-inverse form<->lemma mapping (spec.md
// C4). It is built once via Builder.Build and never mutated afterward,
// matching original_source's NaiveLemmatizer (invert_mapping is run once
// at construction).
type Index struct {
	formToLemmas map[FormID][]LemmaID
	lemmaToForms map[LemmaID][]FormID
}

// Lemmas returns every lemma a form can realize, or false if the form is
// unknown to the index.
func (idx *Index) Lemmas(form FormID) ([]LemmaID, bool) {
	v, ok := idx.formToLemmas[form]
	return v, ok
}

// Forms returns every surface form a lemma can realize, or false if the
// lemma is unknown to the index.
func (idx *Index) Forms(lemma LemmaID) ([]FormID, bool) {
	v, ok := idx.lemmaToForms[lemma]
	return v, ok
}

// IsAmbiguous reports whether form maps to more than one lemma.
func (idx *Index) IsAmbiguous(form FormID) bool {
	return len(idx.formToLemmas[form]) > 1
}

// IsForm reports whether form is known to the index.
func (idx *Index) IsForm(form FormID) bool {
	_, ok := idx.formToLemmas[form]
	return ok
}

// IsLemma reports whether lemma is known to the index.
func (idx *Index) IsLemma(lemma LemmaID) bool {
	_, ok := idx.lemmaToForms[lemma]
	return ok
}

// Builder accumulates form/lemma pairs before a single Build call
// constructs both directions of the Index together, so the mutual-
// inverse invariant holds by construction rather than by later upkeep.
type Builder struct {
	pairs []pair
	seen  map[pair]bool
}

type pair struct {
	form  FormID
	lemma LemmaID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[pair]bool)}
}

// Add records that form realizes lemma. Duplicate pairs are ignored.
func (b *Builder) Add(form FormID, lemma LemmaID) {
	p := pair{form, lemma}
	if b.seen[p] {
		return
	}
	b.seen[p] = true
	b.pairs = append(b.pairs, p)
}

// Build constructs the finished Index from every pair recorded so far.
func (b *Builder) Build() *Index {
	idx := &Index{
		formToLemmas: make(map[FormID][]LemmaID, len(b.pairs)),
		lemmaToForms: make(map[LemmaID][]FormID, len(b.pairs)),
	}
	for _, p := range b.pairs {
		idx.formToLemmas[p.form] = append(idx.formToLemmas[p.form], p.lemma)
		idx.lemmaToForms[p.lemma] = append(idx.lemmaToForms[p.lemma], p.form)
	}
	return idx
}
