package corpusdb

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/latindb/corpusdb/internal/corpus"
	"github.com/latindb/corpusdb/internal/lemma"
	"github.com/latindb/corpusdb/internal/word"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, texts map[string]string) *Database {
	t.Helper()
	loader := corpus.MapTextLoader(texts)
	return New(loader, hclog.NewNullLogger())
}

func loadSimpleCorpus(t *testing.T, db *Database) {
	t.Helper()
	Load(db, map[string][]string{
		"cicero": {"cicero/1.txt", "cicero/2.txt"},
		"ovid":   {"ovid/1.txt"},
	}, nil, lemmaIndexFromDB(t, db))
}

// lemmaIndexFromDB builds the small lemmatizer index the tests load
// (puella/puellae -> puella, amat/amant -> amo), interning its words
// through db's own word interner.
func lemmaIndexFromDB(t *testing.T, db *Database) *lemma.Index {
	t.Helper()
	lb := lemma.NewBuilder()
	addPair := func(form, l string) {
		f := lemma.FormFromWord(db.Words.InternString(form))
		lm := lemma.LemmaFromWord(db.Words.InternString(l))
		lb.Add(f, lm)
	}
	addPair("puella", "puella")
	addPair("puellae", "puella")
	addPair("amat", "amo")
	addPair("amant", "amo")
	return lb.Build()
}

func TestLoadAndParseSource(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat\npuellae amant",
		"cicero/2.txt": "amat",
		"ovid/1.txt":   "puella",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	var ciceroSource corpus.SourceID
	for _, s := range db.AllSources() {
		path, _ := db.Sources.Path(s)
		if path == "cicero/1.txt" {
			ciceroSource = s
		}
	}
	require.NotZero(t, ciceroSource)

	forms, err := db.formsInSrcQ.Read(snap.eng, nil, ciceroSource)
	require.NoError(t, err)
	require.Len(t, forms, 4, "puella, amat, puellae, amant are each distinct forms")
}

func TestLemmasInSubsetAggregatesAcrossSources(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat",
		"cicero/2.txt": "amat",
		"ovid/1.txt":   "puellae",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	universe := db.Universe()
	lemmas, err := db.lemmasInSubQ.Read(snap.eng, nil, universe)
	require.NoError(t, err)
	require.Len(t, lemmas, 2, "expect lemmas puella and amo")
}

func TestCountLemmaOccurrences(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "amat amat",
		"cicero/2.txt": "",
		"ovid/1.txt":   "amant",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	amoID := lemma.LemmaFromWord(db.Words.InternString("amo"))
	count, err := db.CountLemmaOccurrences(snap, amoID, db.Universe())
	require.NoError(t, err)
	// Both "amat" tokens sit on line 0 of the same source, so they are one
	// (source, line, form) occurrence; with "amant" that makes 2.
	require.Equal(t, 2, count)
}

func TestIntersectSourcesFindsAuthorUniqueLemmas(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat",
		"cicero/2.txt": "",
		"ovid/1.txt":   "puella",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	var ciceroSource corpus.SourceID
	for _, s := range db.AllSources() {
		path, _ := db.Sources.Path(s)
		if path == "cicero/1.txt" {
			ciceroSource = s
		}
	}
	focus := db.Subsets.FromSources([]corpus.SourceID{ciceroSource})
	universe := db.Universe()

	unique, err := db.IntersectSources(snap, focus, universe)
	require.NoError(t, err)

	amoID := lemma.LemmaFromWord(db.Words.InternString("amo"))
	_, hasAmo := unique[amoID]
	require.True(t, hasAmo, "amo only occurs in cicero's source, so it should be unique to cicero")

	puellaID := lemma.LemmaFromWord(db.Words.InternString("puella"))
	_, hasPuella := unique[puellaID]
	require.False(t, hasPuella, "puella occurs in both authors, so it must not be unique to cicero")
}

func TestAuthorsCountTabulatesOccurrences(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat",
		"cicero/2.txt": "",
		"ovid/1.txt":   "puella",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	counts, err := db.AuthorsCount(snap, db.Universe())
	require.NoError(t, err)

	total := 0
	for _, c := range counts {
		total += c
	}
	require.Equal(t, 3, total, "3 total form occurrences across both sources")
}

func TestSweepDoesNotChangeObservableResults(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat",
		"cicero/2.txt": "",
		"ovid/1.txt":   "",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	universe := db.Universe()
	before, err := db.lemmasInSubQ.Read(snap.eng, nil, universe)
	require.NoError(t, err)
	snap.Release()

	db.Sweep()

	snap2 := db.Snapshot()
	defer snap2.Release()
	after, err := db.lemmasInSubQ.Read(snap2.eng, nil, universe)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestGetLine(t *testing.T) {
	texts := map[string]string{
		"cicero/1.txt": "puella amat\npuellae amant",
	}
	db := newTestDB(t, texts)
	loadSimpleCorpus(t, db)

	snap := db.Snapshot()
	defer snap.Release()

	var ciceroSource corpus.SourceID
	for _, s := range db.AllSources() {
		path, _ := db.Sources.Path(s)
		if path == "cicero/1.txt" {
			ciceroSource = s
		}
	}
	require.NotZero(t, ciceroSource)

	line0, ok, err := db.GetLine(snap, ciceroSource, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "puella amat", line0)

	line1, ok, err := db.GetLine(snap, ciceroSource, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "puellae amant", line1)

	_, ok, err = db.GetLine(snap, ciceroSource, 2)
	require.NoError(t, err)
	require.False(t, ok, "source only has two lines")
}

func TestWordCanonicalizationIsSharedAcrossLoadAndLemmatizer(t *testing.T) {
	// Regression guard for the single-word-id-space design: a form
	// interned while parsing a source must produce the same id as the
	// same form interned while building the lemmatizer index.
	db := New(corpus.MapTextLoader{}, hclog.NewNullLogger())
	fromParse := lemma.FormFromWord(db.Words.Intern(word.Canonicalize("Amat")))
	fromLemm := lemma.FormFromWord(db.Words.InternString("amat"))
	require.Equal(t, fromLemm, fromParse)
}
