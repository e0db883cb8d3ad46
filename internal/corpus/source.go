// Package corpus implements the subset value, source registry, source
// text access, and FormData interning (C6/C7).
package corpus

import (
	"os"

	"github.com/latindb/corpusdb/internal/intern"
)

// SourceID identifies a source text, minted by a SourceRegistry.
type SourceID = intern.ID

// SourceRegistry assigns dense ids to source paths.
type SourceRegistry struct {
	paths *intern.Table[string]
}

// NewSourceRegistry creates an empty SourceRegistry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{paths: intern.New[string]()}
}

// Intern returns path's id, minting one if needed.
func (r *SourceRegistry) Intern(path string) SourceID {
	return r.paths.Intern(path)
}

// Path returns the path associated with id.
func (r *SourceRegistry) Path(id SourceID) (string, bool) {
	return r.paths.Lookup(id)
}

// Len reports how many sources have been interned.
func (r *SourceRegistry) Len() int {
	return r.paths.Len()
}

// All returns every known source id.
func (r *SourceRegistry) All() []SourceID {
	n := r.paths.Len()
	out := make([]SourceID, n)
	for i := 0; i < n; i++ {
		out[i] = SourceID(i + 1)
	}
	return out
}

// TextLoader is the seam between the engine and actual file I/O,
// mirroring original_source's FileSystem trait
// (src/filesystem/mod.rs): a real implementation reads the
// filesystem, a fake implementation serves in-memory strings for tests.
type TextLoader interface {
	LoadText(path string) (string, error)
}

// FileTextLoader reads source text from the local filesystem.
type FileTextLoader struct{}

func (FileTextLoader) LoadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MapTextLoader is an in-memory TextLoader fake for tests, mirroring
// original_source's MockFileSystem.
type MapTextLoader map[string]string

func (m MapTextLoader) LoadText(path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}
