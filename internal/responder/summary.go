package responder

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/findoc/internal/document"
)

var summaryTriggers = []string{
	"what is this document about",
	"summarize",
	"summary",
	"overview",
	"what does this document contain",
}

// domainGuesses are checked in order against the lowercased text.
var domainGuesses = []struct {
	words    []string
	sentence string
}{
	{
		[]string{"portfolio", "investment", "security", "asset"},
		"It appears to be a portfolio or investment report listing holdings and their values.",
	},
	{
		[]string{"balance sheet", "income statement", "cash flow"},
		"It appears to be a financial statement.",
	},
	{
		[]string{"account", "transaction", "deposit", "withdrawal"},
		"It appears to be an account statement showing transactions and balances.",
	},
}

func (r *Responder) answerSummary(q string, doc *document.Bundle) (string, bool) {
	if !containsAny(q, summaryTriggers...) {
		return "", false
	}
	md := doc.Metadata

	var sb strings.Builder
	if md.FileName != "" {
		fmt.Fprintf(&sb, "This document is %s", docName(md.FileName))
		if md.FileExt != "" {
			fmt.Fprintf(&sb, ", a %s file", strings.ToUpper(md.FileExt))
		}
		sb.WriteString(".")
	}
	if md.Title != "" && md.Title != md.FileName {
		fmt.Fprintf(&sb, " Its title is %q.", md.Title)
	}
	if md.Author != "" && md.Author != md.FileName {
		fmt.Fprintf(&sb, " It was written by %s.", md.Author)
	}
	fmt.Fprintf(&sb, " It contains %s of text and %s.",
		plural(utf8.RuneCountInString(doc.Text), "character", "characters"),
		plural(len(doc.Tables), "table", "tables"))

	if counts := entityCounts(doc.Entities); len(counts) > 0 {
		fmt.Fprintf(&sb, " I identified %s.", joinList(counts))
	}

	lower := strings.ToLower(doc.Text)
	for _, g := range domainGuesses {
		if containsAny(lower, g.words...) {
			sb.WriteString(" ")
			sb.WriteString(g.sentence)
			break
		}
	}
	return strings.TrimSpace(sb.String()), true
}

// entityCounts returns "N label" per entity type in order of first
// appearance.
func entityCounts(entities []document.Entity) []string {
	var order []document.EntityType
	counts := make(map[document.EntityType]int)
	for _, e := range entities {
		if counts[e.Type] == 0 {
			order = append(order, e.Type)
		}
		counts[e.Type]++
	}
	out := make([]string, 0, len(order))
	for _, t := range order {
		out = append(out, fmt.Sprintf("%d %s", counts[t], t.Label(counts[t])))
	}
	return out
}
