// Package chunker packs document sections into token-bounded chunks for
// LLM entity extraction.
package chunker

import (
	"strings"

	"github.com/dgallion1/findoc/internal/doctree"
)

// Config controls chunking behavior. Sizes are in estimated tokens.
type Config struct {
	ChunkSize    int // Target chunk size.
	ChunkOverlap int // Words carried from the end of one split piece into the next.
	MinChunk     int // Chunks smaller than this are dropped.
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    1200,
		ChunkOverlap: 100,
		MinChunk:     1,
	}
}

// Chunk is a piece of document text together with the heading path of the
// section it starts in.
type Chunk struct {
	Text       string
	Index      int
	Breadcrumb []string
}

type section struct {
	path []string
	text string
}

// Split walks tree depth-first. Consecutive small sections are packed into
// one chunk; a section larger than ChunkSize is split on paragraphs, then
// sentences, with overlap between pieces.
func Split(tree *doctree.DocTree, cfg Config) []Chunk {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = def.MinChunk
	}

	var sections []section
	var walk func(n *doctree.DocNode, path []string)
	walk = func(n *doctree.DocNode, path []string) {
		if n.Title != "" {
			path = append(path[:len(path):len(path)], n.Title)
		}
		if t := strings.TrimSpace(n.Text); t != "" {
			sections = append(sections, section{path: path, text: t})
		}
		for _, c := range n.Children {
			walk(c, path)
		}
	}
	for _, c := range tree.Children {
		walk(c, nil)
	}

	var chunks []Chunk
	emit := func(text string, path []string) {
		if EstimateTokens(text) < cfg.MinChunk {
			return
		}
		chunks = append(chunks, Chunk{Text: text, Index: len(chunks), Breadcrumb: path})
	}

	var buf strings.Builder
	var bufPath []string
	bufTokens := 0
	flush := func() {
		if buf.Len() > 0 {
			emit(buf.String(), bufPath)
		}
		buf.Reset()
		bufPath = nil
		bufTokens = 0
	}

	for _, s := range sections {
		tokens := EstimateTokens(s.text)
		if tokens > cfg.ChunkSize {
			flush()
			for _, piece := range splitLarge(s.text, cfg) {
				emit(piece, s.path)
			}
			continue
		}
		if bufTokens+tokens > cfg.ChunkSize {
			flush()
		}
		if buf.Len() == 0 {
			bufPath = s.path
		} else {
			buf.WriteString("\n\n")
		}
		buf.WriteString(s.text)
		bufTokens += tokens
	}
	flush()
	return chunks
}

// splitLarge packs paragraphs, and the sentences of any paragraph that is
// itself too large.
func splitLarge(text string, cfg Config) []string {
	var units []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if EstimateTokens(p) > cfg.ChunkSize {
			var sentences []string
			for _, sent := range splitSentences(p) {
				if EstimateTokens(sent) > cfg.ChunkSize {
					sentences = append(sentences, splitWords(sent, cfg.ChunkSize)...)
					continue
				}
				sentences = append(sentences, sent)
			}
			units = append(units, pack(sentences, " ", cfg)...)
			continue
		}
		units = append(units, p)
	}
	return pack(units, "\n\n", cfg)
}

// pack greedily joins units with sep up to cfg.ChunkSize. Each new piece
// starts with the last ChunkOverlap words of the previous one.
func pack(units []string, sep string, cfg Config) []string {
	var out []string
	var cur strings.Builder
	curTokens := 0
	for _, u := range units {
		ut := EstimateTokens(u)
		if curTokens > 0 && curTokens+ut > cfg.ChunkSize {
			prev := cur.String()
			out = append(out, prev)
			cur.Reset()
			curTokens = 0
			if tail := tailWords(prev, cfg.ChunkOverlap); tail != "" {
				cur.WriteString(tail)
				curTokens = EstimateTokens(tail)
			}
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(u)
		curTokens += ut
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') && text[i+1] == ' ' {
			out = append(out, strings.TrimSpace(text[start:i+1]))
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// splitWords cuts text with no usable sentence breaks into word windows.
func splitWords(text string, tokens int) []string {
	words := strings.Fields(text)
	size := max(1, int(float64(tokens)/tokensPerWord))
	var out []string
	for i := 0; i < len(words); i += size {
		out = append(out, strings.Join(words[i:min(i+size, len(words))], " "))
	}
	return out
}

// tailWords returns roughly the last n tokens of text as whole words.
func tailWords(text string, n int) string {
	words := strings.Fields(text)
	want := int(float64(n) / tokensPerWord)
	if want <= 0 || len(words) <= want {
		return ""
	}
	return strings.Join(words[len(words)-want:], " ")
}
