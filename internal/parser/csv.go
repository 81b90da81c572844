package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/findoc/internal/doctree"
)

// CSVParser handles CSV exports. The whole file is one table, rendered as
// pipe rows under a heading named after the file.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := baseTitle(filename)
	b := doctree.NewBuilder(title)

	var rows []string
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, doctree.PipeRow(rec))
	}
	if len(rows) > 0 {
		b.Heading(1, title)
		b.Text(strings.Join(rows, "\n"))
	}
	return b.Tree(), nil
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
