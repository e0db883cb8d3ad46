// Command corpusdb walks a corpus directory, loads it into an
// incremental query database, and exposes a small JSON/HTTP surface over
// the analytical queries. Directory walking, lemmatizer-format
// selection, and the HTTP transport are the external-collaborator layer
// named out of core scope: the core is internal/corpusdb.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	flags "github.com/jessevdk/go-flags"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/latindb/corpusdb/internal/author"
	"github.com/latindb/corpusdb/internal/corpus"
	"github.com/latindb/corpusdb/internal/corpusdb"
	"github.com/latindb/corpusdb/internal/lemma"
	"github.com/latindb/corpusdb/internal/lemma/parsers"
	"github.com/latindb/corpusdb/internal/word"
)

const gcInterval = 5 * time.Minute

type options struct {
	DataDir       string `long:"data" description:"corpus directory; first-level subdirectories are authors" required:"true"`
	LemmatizerPath string `long:"lemmatizer" description:"path to the lemmatizer file" required:"true"`
	LemmFormat    string `long:"lemm-format" description:"csv or lemlat" default:"csv" choice:"csv" choice:"lemlat"`
	AuthorDates   string `long:"author-dates" description:"optional author-dates file (spec's name#span format)"`
	Addr          string `long:"addr" description:"listen address" default:":8080"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{Name: "corpusdb", Level: hclog.Info})

	db := corpusdb.New(corpus.FileTextLoader{}, logger)

	lemm, err := loadLemmatizer(db, opts.LemmatizerPath, opts.LemmFormat)
	if err != nil {
		logger.Error("failed to load lemmatizer", "error", err)
		os.Exit(1)
	}

	var dates []author.Author
	if opts.AuthorDates != "" {
		dates, err = loadAuthorDates(opts.AuthorDates)
		if err != nil {
			logger.Error("failed to load author dates", "error", err)
			os.Exit(1)
		}
	}

	authorSources, err := walkCorpus(opts.DataDir)
	if err != nil {
		logger.Error("failed to walk corpus directory", "error", err)
		os.Exit(1)
	}

	corpusdb.Load(db, authorSources, dates, lemm)
	logger.Info("corpus loaded", "authors", db.Authors.Len(), "sources", db.Sources.Len())

	gc := corpusdb.StartGCDaemon(db, gcInterval)
	defer gc.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/count", handleCount(db))
	mux.HandleFunc("/api/intersect", handleIntersect(db))
	mux.HandleFunc("/api/authors", handleAuthorsCount(db))

	handler := cors.Default().Handler(mux)

	logger.Info("listening", "addr", opts.Addr)
	if err := http.ListenAndServe(opts.Addr, handler); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func loadLemmatizer(db *corpusdb.Database, path, format string) (*lemma.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lemmatizer file: %w", err)
	}
	defer f.Close()

	var b *lemma.Builder
	switch format {
	case "lemlat":
		b, err = parsers.ParseLemlat(f, db.Words)
	default:
		b, err = parsers.ParseCSV(f, db.Words)
	}
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func loadAuthorDates(path string) ([]author.Author, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening author-dates file: %w", err)
	}
	defer f.Close()
	return author.ParseDatesFile(f)
}

// walkCorpus performs the two-level directory walk: immediate
// subdirectories of root are authors, and files within them are
// sources. This mirrors original_source's driver_init WalkDir(root,
// max_depth=2) loop. Each author's subdirectory is read concurrently
// via errgroup, since the per-author os.ReadDir calls are independent.
func walkCorpus(root string) (map[string][]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := make(map[string][]string)

	var g errgroup.Group
	for _, authorEntry := range entries {
		if !authorEntry.IsDir() {
			continue
		}
		authorName := authorEntry.Name()
		authorDir := filepath.Join(root, authorName)

		g.Go(func() error {
			sourceEntries, err := os.ReadDir(authorDir)
			if err != nil {
				return err
			}
			var paths []string
			for _, sourceEntry := range sourceEntries {
				if sourceEntry.IsDir() {
					continue
				}
				paths = append(paths, filepath.Join(authorDir, sourceEntry.Name()))
			}
			mu.Lock()
			result[authorName] = paths
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ---- HTTP handlers --------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type countResponse struct {
	Lemma string `json:"lemma"`
	Count int    `json:"count"`
}

func handleCount(db *corpusdb.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lemmaText := r.URL.Query().Get("lemma")
		if lemmaText == "" {
			writeError(w, http.StatusBadRequest, "missing 'lemma' query parameter")
			return
		}

		snap := db.Snapshot()
		defer snap.Release()

		id := lemma.LemmaFromWord(db.Words.InternString(lemmaText))
		count, err := db.CountLemmaOccurrences(snap, id, db.Universe())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, countResponse{Lemma: lemmaText, Count: count})
	}
}

type intersectResponse struct {
	Author string   `json:"author"`
	Lemmas []string `json:"lemmas"`
}

func handleIntersect(db *corpusdb.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorName := r.URL.Query().Get("author")
		if authorName == "" {
			writeError(w, http.StatusBadRequest, "missing 'author' query parameter")
			return
		}

		authorID, ok := db.Authors.ByName(authorName)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown author %q", authorName))
			return
		}

		snap := db.Snapshot()
		defer snap.Release()

		focus := db.SourcesOfAuthor(snap, authorID)
		lemmas, err := db.IntersectSources(snap, focus, db.Universe())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		out := make([]string, 0, len(lemmas))
		for l := range lemmas {
			lw, ok := db.Words.Lookup(word.ID(l))
			if ok {
				out = append(out, lw.String())
			}
		}
		sort.Strings(out)
		writeJSON(w, http.StatusOK, intersectResponse{Author: authorName, Lemmas: out})
	}
}

type authorCountResponse struct {
	Authors map[string]int `json:"authors"`
}

func handleAuthorsCount(db *corpusdb.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := db.Snapshot()
		defer snap.Release()

		counts, err := db.AuthorsCount(snap, db.Universe())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		out := make(map[string]int, len(counts))
		for id, n := range counts {
			a, ok := db.Authors.Lookup(id)
			if !ok {
				continue
			}
			out[a.Name] = n
		}
		writeJSON(w, http.StatusOK, authorCountResponse{Authors: out})
	}
}

