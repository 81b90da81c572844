package responder

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/findoc/internal/document"
)

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "of": true, "in": true, "on": true, "at": true,
	"for": true, "to": true, "from": true, "by": true, "with": true, "and": true,
	"or": true, "as": true, "about": true, "what": true, "which": true, "who": true,
	"how": true, "why": true, "where": true, "do": true, "does": true, "did": true,
	"can": true, "could": true, "would": true, "should": true, "i": true, "me": true,
	"my": true, "you": true, "your": true, "we": true, "our": true, "please": true,
	"tell": true, "give": true, "there": true, "any": true, "document": true,
}

func (r *Responder) answerGeneral(q string, doc *document.Bundle) (string, bool) {
	tokens := questionTokens(q)

	best, bestScore := "", 0.0
	for _, p := range paragraphs(doc.Text) {
		if s := r.scoreParagraph(p, tokens); s > bestScore {
			best, bestScore = p, s
		}
	}
	if best != "" && bestScore >= r.limits.MinParagraphScore {
		return "Here is the most relevant passage I found:\n\n\"" + best + "\"", true
	}
	return genericAnswer(doc), true
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphSplitRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func questionTokens(q string) []string {
	var tokens []string
	for _, f := range strings.Fields(q) {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f == "" || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func (r *Responder) scoreParagraph(p string, tokens []string) float64 {
	lower := strings.ToLower(p)
	score := 0.0
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			score++
		}
	}
	if n := len(p); n > r.limits.ParagraphBonusMin && n < r.limits.ParagraphBonusMax {
		score += r.limits.ParagraphBonus
	}
	return score
}

func genericAnswer(doc *document.Bundle) string {
	return fmt.Sprintf(
		"I couldn't find a specific answer to that question in %s. It contains %s and %s. Try asking about a specific table, entity or date.",
		docName(doc.Metadata.FileName),
		plural(len(doc.Entities), "extracted entity", "extracted entities"),
		plural(len(doc.Tables), "table", "tables"))
}
