package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Quarterly Report

Prepared for account 4471.

## Holdings

Positions at quarter end.

### Equities

Listed shares only.

## Transactions

No trades this quarter.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "q3-report.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "q3-report" {
		t.Errorf("expected title %q, got %q", "q3-report", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Children))
	}

	report := tree.Children[0]
	if report.Title != "Quarterly Report" {
		t.Errorf("expected %q, got %q", "Quarterly Report", report.Title)
	}
	if report.Text != "Prepared for account 4471." {
		t.Errorf("unexpected report text %q", report.Text)
	}
	if len(report.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(report.Children))
	}

	holdings, txns := report.Children[0], report.Children[1]
	if holdings.Title != "Holdings" || txns.Title != "Transactions" {
		t.Errorf("unexpected subsection titles %q, %q", holdings.Title, txns.Title)
	}
	if len(holdings.Children) != 1 || holdings.Children[0].Title != "Equities" {
		t.Fatalf("expected Equities under Holdings, got %+v", holdings.Children)
	}
	if holdings.Children[0].Text != "Listed shares only." {
		t.Errorf("unexpected equities text %q", holdings.Children[0].Text)
	}
	if len(txns.Children) != 0 {
		t.Errorf("expected no children under Transactions, got %d", len(txns.Children))
	}
}

func TestMarkdownParser_TextBeforeFirstHeading(t *testing.T) {
	input := "Statement period: July to September.\n\nAll figures in USD.\n\n# Summary\n\nTotal assets rose.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "statement.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected preamble plus one section, got %d", len(tree.Children))
	}
	preamble := tree.Children[0]
	if preamble.Title != "" {
		t.Errorf("expected untitled preamble, got %q", preamble.Title)
	}
	want := "Statement period: July to September.\n\nAll figures in USD."
	if preamble.Text != want {
		t.Errorf("expected %q, got %q", want, preamble.Text)
	}
	if tree.Children[1].Title != "Summary" {
		t.Errorf("expected Summary section, got %q", tree.Children[1].Title)
	}
}

func TestMarkdownParser_CodeBlockKeptVerbatim(t *testing.T) {
	input := "# Fees\n\nSchedule:\n\n```\nCustody  0.10%\nTrading  0.25%\n```\n\nBilled quarterly.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "fees.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 section, got %d", len(tree.Children))
	}
	fees := tree.Children[0].Text
	if !strings.Contains(fees, "Custody  0.10%\nTrading  0.25%") {
		t.Errorf("expected code block lines untouched, got %q", fees)
	}
	if !strings.HasSuffix(fees, "Billed quarterly.") {
		t.Errorf("expected trailing paragraph, got %q", fees)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"holdings.md", "holdings"},
		{"q3.summary.markdown", "q3.summary"},
		{"reports/annual.md", "annual"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		tree, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if tree.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, tree.Title)
		}
	}
}

func TestMarkdownParser_TableRenderedAsPipeRows(t *testing.T) {
	input := "# Portfolio\n\n## Holdings\n\n| ISIN | Name | Quantity |\n|------|------|---------:|\n| US0378331005 | Apple Inc. | 100 |\n| US5949181045 | **Microsoft** | 50 |\n\nPrices as of close.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "portfolio.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	holdings := tree.Children[0].Children[0]
	if holdings.Title != "Holdings" {
		t.Fatalf("expected %q, got %q", "Holdings", holdings.Title)
	}
	want := "ISIN | Name | Quantity\nUS0378331005 | Apple Inc. | 100\nUS5949181045 | Microsoft | 50\n\nPrices as of close."
	if holdings.Text != want {
		t.Errorf("expected %q, got %q", want, holdings.Text)
	}

	plain := tree.PlainText()
	if !strings.Contains(plain, "Holdings\nISIN | Name | Quantity") {
		t.Errorf("expected heading directly above table, got %q", plain)
	}
}
