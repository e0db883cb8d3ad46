package corpusdb

import (
	"github.com/latindb/corpusdb/internal/author"
	"github.com/latindb/corpusdb/internal/corpus"
	"github.com/latindb/corpusdb/internal/lemma"
)

// Load populates db from an already-resolved corpus: authorSources maps
// each author to the paths of its sources, and lemm is a prebuilt
// lemmatizer index. This mirrors original_source's
// src/query_driver/utils.rs's load_database, which likewise takes
// pre-resolved author/source associations and an already-constructed
// NaiveLemmatizer rather than performing directory walking itself (that
// stays the external collaborator's job, per spec.md §1).
func Load(db *Database, authorSources map[string][]string, authorDates []author.Author, lemm *lemma.Index) {
	datesByName := make(map[string]*author.Span, len(authorDates))
	for _, a := range authorDates {
		datesByName[a.Name] = a.Span
	}

	db.eng.Writer(func() {
		for authorName, paths := range authorSources {
			authorID := db.Authors.Intern(authorName)
			if span, ok := datesByName[authorName]; ok {
				db.Authors.SetSpan(authorID, span)
			}

			sourceIDs := make([]corpus.SourceID, 0, len(paths))
			for _, path := range paths {
				sourceID := db.Sources.Intern(path)
				db.sourcePath.Set(db.eng, sourceID, path)
				db.sourceEpoch.Set(db.eng, sourceID, 0)
				db.associatedAuthor.Set(db.eng, sourceID, authorID)
				sourceIDs = append(sourceIDs, sourceID)
			}
			db.associatedSource.Set(db.eng, authorID, db.Subsets.FromSources(sourceIDs))
		}

		db.lemmatizer.Set(db.eng, struct{}{}, lemm)
	})
}

// Touch bumps a source's low-durability epoch cell without changing its
// path, forcing source_text (and everything derived from it) to be
// re-read on next access — the out-of-band invalidation signal of the
// lazy source_text design described in DESIGN.md, for a source whose file changed
// on disk without the process noticing.
func Touch(db *Database, source corpus.SourceID) {
	db.eng.Writer(func() {
		current, _ := db.sourceEpoch.Get(db.eng, nil, source)
		db.sourceEpoch.Set(db.eng, source, current+1)
	})
}

// AllSources returns every interned source id.
func (db *Database) AllSources() []corpus.SourceID {
	return db.Sources.All()
}

// AllAuthors returns every interned author id.
func (db *Database) AllAuthors() []author.ID {
	return db.Authors.All()
}

// SourcesOfAuthor returns the subset of sources associated with an
// author.
func (db *Database) SourcesOfAuthor(snap *Snapshot, a author.ID) corpus.Subset {
	sub, _ := db.associatedSource.Get(snap.eng, nil, a)
	return sub
}

// Universe returns the subset containing every source known to db.
func (db *Database) Universe() corpus.Subset {
	return db.Subsets.FromSources(db.AllSources())
}
