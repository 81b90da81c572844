package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/findoc/internal/doctree"
)

// Parser converts raw document bytes into a DocTree. Tables are rendered
// into node text as pipe-delimited rows so later stages can segment them.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// registry maps a lowercased extension to a constructor.
var registry = map[string]func() Parser{
	".txt":      func() Parser { return &TextParser{} },
	".md":       func() Parser { return &MarkdownParser{} },
	".markdown": func() Parser { return &MarkdownParser{} },
	".csv":      func() Parser { return &CSVParser{} },
	".html":     func() Parser { return &HTMLParser{} },
	".htm":      func() Parser { return &HTMLParser{} },
	".docx":     func() Parser { return &DOCXParser{} },
}

// ForFile picks a parser by the extension of filename.
func ForFile(filename string) (Parser, error) {
	ext := Ext(filename)
	mk, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
	return mk(), nil
}

// IsSupportedExtension reports whether ForFile would accept filename.
func IsSupportedExtension(filename string) bool {
	_, ok := registry[Ext(filename)]
	return ok
}

// Ext returns the lowercased extension of filename, dot included.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// baseTitle strips the extension from filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
