package document

import (
	"path/filepath"
	"strings"
	"time"
)

// Metadata describes the source file of a document.
type Metadata struct {
	FileName         string `json:"fileName"`
	FileExt          string `json:"fileExt"`
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	CreationDate     string `json:"creationDate,omitempty"`
	ModificationDate string `json:"modificationDate,omitempty"`
}

// Bundle is the text, tables, entities and metadata of one processed
// document. It is built once at ingestion and only read afterwards.
type Bundle struct {
	ID          string    `json:"id"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Text     string   `json:"text"`
	Tables   []Table  `json:"tables"`
	Entities []Entity `json:"entities"`
	Metadata Metadata `json:"metadata"`
}

// Normalize returns a copy of b with absent collections defaulted to empty
// and the file extension derived from the file name when missing. A nil
// bundle yields an empty one.
func (b *Bundle) Normalize() Bundle {
	if b == nil {
		return Bundle{Tables: []Table{}, Entities: []Entity{}}
	}
	out := *b
	if out.Tables == nil {
		out.Tables = []Table{}
	}
	if out.Entities == nil {
		out.Entities = []Entity{}
	}
	if out.Metadata.FileExt == "" && out.Metadata.FileName != "" {
		out.Metadata.FileExt = strings.TrimPrefix(filepath.Ext(out.Metadata.FileName), ".")
	}
	return out
}

// RestoreKinds re-applies column types to every table's records after the
// bundle has been decoded from JSON.
func (b *Bundle) RestoreKinds() {
	for i := range b.Tables {
		b.Tables[i].RestoreKinds()
	}
}

// Summary is the listing view of a stored bundle.
type Summary struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Title     string    `json:"title,omitempty"`
	Tables    int       `json:"tables"`
	Entities  int       `json:"entities"`
	CreatedAt time.Time `json:"created_at"`
}

// Summarize returns the listing view of b.
func (b *Bundle) Summarize() Summary {
	return Summary{
		ID:        b.ID,
		FileName:  b.Metadata.FileName,
		Title:     b.Metadata.Title,
		Tables:    len(b.Tables),
		Entities:  len(b.Entities),
		CreatedAt: b.CreatedAt,
	}
}
