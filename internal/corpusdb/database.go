// Package corpusdb wires the engine, author, lemma, word, and corpus
// packages together into the complete incremental query system (C8-C11):
// the middle aggregation queries, the top-level analytical queries, and
// the snapshot/sweep discipline that keeps the memo tables bounded.
package corpusdb

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/latindb/corpusdb/internal/author"
	"github.com/latindb/corpusdb/internal/corpus"
	"github.com/latindb/corpusdb/internal/engine"
	"github.com/latindb/corpusdb/internal/lemma"
	"github.com/latindb/corpusdb/internal/word"
)

// Per-query LRU capacities, mirroring original_source's FEW/MANY sizing
// in src/query_driver/memory.rs.
const (
	lruFew  = 32
	lruMany = 256
)

// Database is the top-level facade: it owns the engine.Database, every
// registry/interner, every input cell, and every middle/top-level query.
type Database struct {
	log hclog.Logger

	eng *engine.Database

	Words    *word.Interner
	Authors  *author.Registry
	Sources  *corpus.SourceRegistry
	Subsets  *corpus.SubsetInterner
	FormData *corpus.FormDataInterner

	loader corpus.TextLoader

	// inputs
	sourcePath       *engine.Input[corpus.SourceID, string]
	sourceEpoch      *engine.Input[corpus.SourceID, int]
	associatedSource *engine.Input[author.ID, corpus.Subset]
	associatedAuthor *engine.Input[corpus.SourceID, author.ID]
	lemmatizer       *engine.Input[struct{}, *lemma.Index]

	// middle queries (C9)
	sourceTextQ   *engine.Query[corpus.SourceID, string]
	getLineQ      *engine.Query[lineKey, string]
	parseSourceQ  *engine.Query[corpus.SourceID, subsetOfFormData]
	parseSubsetQ  *engine.Query[corpus.Subset, subsetOfFormData]
	formsInSrcQ   *engine.Query[corpus.SourceID, formSet]
	formsInSubQ   *engine.Query[corpus.Subset, formSet]
	lemmasInSrcQ  *engine.Query[corpus.SourceID, lemmaSet]
	lemmasInSubQ  *engine.Query[corpus.Subset, lemmaSet]
	sourceTreeQ   *engine.Query[corpus.SourceID, tree]
	subsetTreeQ   *engine.Query[corpus.Subset, tree]
	formOccSubQ   *engine.Query[formSubsetKey, subsetOfFormData]
	lemmaOccSubQ  *engine.Query[lemmaSubsetKey, subsetOfFormData]

	lruQueries []interface{ Sweep(*engine.Database) int }
}

type subsetOfFormData map[corpus.FormDataID]struct{}
type formSet map[lemma.FormID]struct{}
type lemmaSet map[lemma.LemmaID]struct{}

// tree mirrors original_source's lemma -> form -> []FormDataId nesting
// produced by source_tree/subset_tree.
type tree map[lemma.LemmaID]map[lemma.FormID][]corpus.FormDataID

// lineKey is get_line's key: a specific, zero-indexed line of a source.
type lineKey struct {
	Source corpus.SourceID
	Line   int
}

type formSubsetKey struct {
	Form   lemma.FormID
	Subset corpus.Subset
}

type lemmaSubsetKey struct {
	Lemma  lemma.LemmaID
	Subset corpus.Subset
}

// New constructs an empty Database, wiring every input and query. Load
// populates it from a corpus.
func New(loader corpus.TextLoader, logger hclog.Logger) *Database {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	db := &Database{
		log:      logger,
		eng:      engine.New(),
		Words:    word.NewInterner(),
		Authors:  author.NewRegistry(),
		Sources:  corpus.NewSourceRegistry(),
		Subsets:  corpus.NewSubsetInterner(),
		FormData: corpus.NewFormDataInterner(),
		loader:   loader,

		sourcePath:       engine.NewInput[corpus.SourceID, string](engine.High),
		sourceEpoch:      engine.NewInput[corpus.SourceID, int](engine.Low),
		associatedSource: engine.NewInput[author.ID, corpus.Subset](engine.Medium),
		associatedAuthor: engine.NewInput[corpus.SourceID, author.ID](engine.Medium),
		lemmatizer:       engine.NewInput[struct{}, *lemma.Index](engine.Medium),
	}

	db.wireQueries()
	return db
}

func (db *Database) wireQueries() {
	db.sourceTextQ = engine.NewBoundedQuery[corpus.SourceID, string]("source_text", lruMany, db.computeSourceText)
	db.getLineQ = engine.NewBoundedQuery[lineKey, string]("get_line", lruMany, db.computeGetLine)
	db.parseSourceQ = engine.NewBoundedQuery[corpus.SourceID, subsetOfFormData]("parse_source", lruFew, db.computeParseSource)
	db.parseSubsetQ = engine.NewBoundedQuery[corpus.Subset, subsetOfFormData]("parse_subset", lruFew, db.computeParseSubset)
	db.formsInSrcQ = engine.NewBoundedQuery[corpus.SourceID, formSet]("forms_in_source", lruFew, db.computeFormsInSource)
	db.formsInSubQ = engine.NewBoundedQuery[corpus.Subset, formSet]("forms_in_subset", lruFew, db.computeFormsInSubset)
	db.lemmasInSrcQ = engine.NewBoundedQuery[corpus.SourceID, lemmaSet]("lemmas_in_source", lruFew, db.computeLemmasInSource)
	db.lemmasInSubQ = engine.NewBoundedQuery[corpus.Subset, lemmaSet]("lemmas_in_subset", lruFew, db.computeLemmasInSubset)
	db.sourceTreeQ = engine.NewBoundedQuery[corpus.SourceID, tree]("source_tree", lruFew, db.computeSourceTree)
	db.subsetTreeQ = engine.NewBoundedQuery[corpus.Subset, tree]("subset_tree", lruFew, db.computeSubsetTree)
	db.formOccSubQ = engine.NewBoundedQuery[formSubsetKey, subsetOfFormData]("form_occurrences_subset", lruFew, db.computeFormOccurrencesSubset)
	db.lemmaOccSubQ = engine.NewBoundedQuery[lemmaSubsetKey, subsetOfFormData]("lemma_occurrences_subset", lruFew, db.computeLemmaOccurrencesSubset)

	db.lruQueries = []interface{ Sweep(*engine.Database) int }{
		db.sourceTextQ, db.getLineQ, db.parseSourceQ, db.parseSubsetQ,
		db.formsInSrcQ, db.formsInSubQ, db.lemmasInSrcQ, db.lemmasInSubQ,
		db.sourceTreeQ, db.subsetTreeQ, db.formOccSubQ, db.lemmaOccSubQ,
	}
}

// GCDaemon periodically runs Sweep on a ticker, a supplemented feature:
// original_source's GC loop lives in its CLI driver rather than the core
// query system, but C11 names periodic sweep as a core responsibility,
// so this lifts it into the core as an optional, explicitly-started
// daemon.
type GCDaemon struct {
	db     *Database
	ticker *time.Ticker
	done   chan struct{}
}

// StartGCDaemon begins sweeping db every interval until Stop is called.
func StartGCDaemon(db *Database, interval time.Duration) *GCDaemon {
	g := &GCDaemon{db: db, ticker: time.NewTicker(interval), done: make(chan struct{})}
	go g.loop()
	return g
}

func (g *GCDaemon) loop() {
	for {
		select {
		case <-g.ticker.C:
			g.db.Sweep()
		case <-g.done:
			return
		}
	}
}

// Stop halts the daemon. Safe to call once.
func (g *GCDaemon) Stop() {
	g.ticker.Stop()
	close(g.done)
}
