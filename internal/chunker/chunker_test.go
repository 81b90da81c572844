package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/findoc/internal/doctree"
)

func TestSplit_SmallSectionsArePacked(t *testing.T) {
	tree := &doctree.DocTree{
		Title: "Statement",
		Children: []*doctree.DocNode{
			{Title: "Summary", Text: "Total assets: $1,250,000."},
			{Title: "Holdings", Text: "ISIN | Name\nUS0378331005 | Apple Inc."},
		},
	}
	chunks := Split(tree, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "Total assets") || !strings.Contains(chunks[0].Text, "Apple Inc.") {
		t.Errorf("expected both sections in the chunk, got %q", chunks[0].Text)
	}
	if len(chunks[0].Breadcrumb) != 1 || chunks[0].Breadcrumb[0] != "Summary" {
		t.Errorf("expected breadcrumb [Summary], got %v", chunks[0].Breadcrumb)
	}
}

func TestSplit_LargeSectionRequiresSplitting(t *testing.T) {
	// ~2700 words -> ~3600 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The fund holds equities across many markets. ", 300)
	tree := &doctree.DocTree{
		Children: []*doctree.DocNode{{Title: "Commentary", Text: largeText}},
	}
	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := Split(tree, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if tokens := EstimateTokens(c.Text); tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
		if len(c.Breadcrumb) != 1 || c.Breadcrumb[0] != "Commentary" {
			t.Errorf("chunk %d: expected breadcrumb [Commentary], got %v", i, c.Breadcrumb)
		}
	}
}

func TestSplit_SectionBoundaryFlushes(t *testing.T) {
	tree := &doctree.DocTree{
		Children: []*doctree.DocNode{
			{Title: "A", Text: strings.Repeat("alpha ", 300)},
			{Title: "B", Text: strings.Repeat("beta ", 300)},
		},
	}
	chunks := Split(tree, Config{ChunkSize: 500})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Breadcrumb[0] != "A" || chunks[1].Breadcrumb[0] != "B" {
		t.Errorf("unexpected breadcrumbs %v %v", chunks[0].Breadcrumb, chunks[1].Breadcrumb)
	}
}

func TestSplit_BreadcrumbPath(t *testing.T) {
	tree := &doctree.DocTree{
		Children: []*doctree.DocNode{
			{Title: "Chapter 1", Children: []*doctree.DocNode{
				{Title: "Section 1.1", Text: "content"},
			}},
			{Title: "Chapter 2", Text: strings.Repeat("more ", 2000)},
		},
	}
	chunks := Split(tree, DefaultConfig())
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	want := []string{"Chapter 1", "Section 1.1"}
	bc := chunks[0].Breadcrumb
	if len(bc) != len(want) || bc[0] != want[0] || bc[1] != want[1] {
		t.Errorf("expected breadcrumb %v, got %v", want, bc)
	}
}

func TestSplit_MinChunkFiltering(t *testing.T) {
	tree := &doctree.DocTree{
		Children: []*doctree.DocNode{{Title: "Short", Text: "Hi"}},
	}
	chunks := Split(tree, Config{ChunkSize: 1500, MinChunk: 100})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestSplit_EmptyTree(t *testing.T) {
	if chunks := Split(&doctree.DocTree{Title: "Empty"}, DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{strings.Repeat("w ", 100), 133},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
