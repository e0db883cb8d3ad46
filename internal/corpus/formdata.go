package corpus

import (
	"github.com/latindb/corpusdb/internal/intern"
	"github.com/latindb/corpusdb/internal/lemma"
)

// FormData is one occurrence of a form at a specific line of a specific
// source (spec.md §3's "C7 FormData (source_id, line_number, form_id)").
type FormData struct {
	Source SourceID
	Line   int
	Form   lemma.FormID
}

// FormDataID identifies an interned FormData value.
type FormDataID = intern.ID

// FormDataInterner content-addresses FormData values, the same pattern
// used by the word and author/source registries.
type FormDataInterner struct {
	table *intern.Table[FormData]
}

// NewFormDataInterner creates an empty FormDataInterner.
func NewFormDataInterner() *FormDataInterner {
	return &FormDataInterner{table: intern.New[FormData]()}
}

// Intern returns fd's id, minting one if this exact (source, line, form)
// triple has not been seen before.
func (f *FormDataInterner) Intern(fd FormData) FormDataID {
	return f.table.Intern(fd)
}

// Lookup returns the FormData for id.
func (f *FormDataInterner) Lookup(id FormDataID) (FormData, bool) {
	return f.table.Lookup(id)
}
