package corpusdb

import (
	"github.com/latindb/corpusdb/internal/author"
	"github.com/latindb/corpusdb/internal/corpus"
	"github.com/latindb/corpusdb/internal/lemma"
)

// This file implements the top-level analytical queries (C10), grounded
// on original_source's src/query_system/mod.rs. These are thin
// snapshot-scoped wrappers over the C9 middle queries rather than memoized
// queries of their own, matching the original's own implementations.

// CountLemmaOccurrences reports how many times lemma occurs within
// subset.
func (db *Database) CountLemmaOccurrences(snap *Snapshot, l lemma.LemmaID, subset corpus.Subset) (int, error) {
	fds, err := db.lemmaOccSubQ.Read(snap.eng, nil, lemmaSubsetKey{Lemma: l, Subset: subset})
	if err != nil {
		return 0, err
	}
	return len(fds), nil
}

// CountFormOccurrences reports how many times form occurs within subset.
func (db *Database) CountFormOccurrences(snap *Snapshot, f lemma.FormID, subset corpus.Subset) (int, error) {
	fds, err := db.formOccSubQ.Read(snap.eng, nil, formSubsetKey{Form: f, Subset: subset})
	if err != nil {
		return 0, err
	}
	return len(fds), nil
}

// IntersectSources computes the lemmas unique to the authors whose
// sources appear in focus, within universe, excluding any lemma that
// also occurs in universe outside of focus (spec.md's "lemmas unique to
// an author within a period" query). Grounded on mod.rs's
// intersect_sources: group focus's sources by author, intersect each
// author's lemmas_in_subset, then subtract lemmas_in_subset of the rest
// of universe.
func (db *Database) IntersectSources(snap *Snapshot, focus, universe corpus.Subset) (lemmaSet, error) {
	byAuthor := make(map[author.ID][]corpus.SourceID)
	for _, source := range focus.Sources() {
		auth, ok := db.associatedAuthor.Get(snap.eng, nil, source)
		if !ok {
			continue
		}
		byAuthor[auth] = append(byAuthor[auth], source)
	}

	if len(byAuthor) == 0 {
		return lemmaSet{}, nil
	}

	var lemmaLists []lemmaSet
	for _, sources := range byAuthor {
		sub := db.Subsets.FromSources(sources)
		lemmas, err := db.lemmasInSubQ.Read(snap.eng, nil, sub)
		if err != nil {
			return nil, err
		}
		lemmaLists = append(lemmaLists, lemmas)
	}

	intersection := make(lemmaSet)
	for l := range lemmaLists[0] {
		inAll := true
		for _, other := range lemmaLists[1:] {
			if _, ok := other[l]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			intersection[l] = struct{}{}
		}
	}

	restOfLiterature := db.Subsets.Difference(universe, focus)
	restLemmas, err := db.lemmasInSubQ.Read(snap.eng, nil, restOfLiterature)
	if err != nil {
		return nil, err
	}

	result := make(lemmaSet)
	for l := range intersection {
		if _, ok := restLemmas[l]; !ok {
			result[l] = struct{}{}
		}
	}
	return result, nil
}

// AuthorsCount tabulates, per author, the form-data entries of sub's
// subset_tree, attributing each to its source's associated author
// (grounded on mod.rs's authors_count). Occurrences of forms with no
// lemma are not in the tree and are not counted; an occurrence of a form
// with several lemmas is counted once per lemma.
func (db *Database) AuthorsCount(snap *Snapshot, sub corpus.Subset) (map[author.ID]int, error) {
	t, err := db.subsetTreeQ.Read(snap.eng, nil, sub)
	if err != nil {
		return nil, err
	}

	res := make(map[author.ID]int)
	for _, forms := range t {
		for _, fdIDs := range forms {
			for _, fdID := range fdIDs {
				fd, ok := db.FormData.Lookup(fdID)
				if !ok {
					continue
				}
				auth, ok := db.associatedAuthor.Get(snap.eng, nil, fd.Source)
				if !ok {
					continue
				}
				res[auth]++
			}
		}
	}
	return res, nil
}
