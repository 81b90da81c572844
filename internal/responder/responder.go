// Package responder answers free-text questions about a processed document
// by matching the question against an ordered cascade of intents.
package responder

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/findoc/internal/document"
)

// Intent names the rule that produced an answer.
type Intent string

const (
	IntentSummary Intent = "summary"
	IntentTable   Intent = "table"
	IntentEntity  Intent = "entity"
	IntentMetric  Intent = "metric"
	IntentDate    Intent = "date"
	IntentGeneral Intent = "general"
	IntentError   Intent = "error"
)

// Limits are the display caps and scoring weights of the cascade.
type Limits struct {
	TablePreviewRows        int     `yaml:"table_preview_rows"`
	EntitiesPerType         int     `yaml:"entities_per_type"`
	EntitiesPerFilteredType int     `yaml:"entities_per_filtered_type"`
	ParagraphBonusMin       int     `yaml:"paragraph_bonus_min"`
	ParagraphBonusMax       int     `yaml:"paragraph_bonus_max"`
	ParagraphBonus          float64 `yaml:"paragraph_bonus"`
	MinParagraphScore       float64 `yaml:"min_paragraph_score"`
	MaxContextLine          int     `yaml:"max_context_line"`
}

func DefaultLimits() Limits {
	return Limits{
		TablePreviewRows:        5,
		EntitiesPerType:         5,
		EntitiesPerFilteredType: 10,
		ParagraphBonusMin:       50,
		ParagraphBonusMax:       500,
		ParagraphBonus:          0.5,
		MinParagraphScore:       2,
		MaxContextLine:          200,
	}
}

// withDefaults fills zero fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.TablePreviewRows <= 0 {
		l.TablePreviewRows = d.TablePreviewRows
	}
	if l.EntitiesPerType <= 0 {
		l.EntitiesPerType = d.EntitiesPerType
	}
	if l.EntitiesPerFilteredType <= 0 {
		l.EntitiesPerFilteredType = d.EntitiesPerFilteredType
	}
	if l.ParagraphBonusMin <= 0 {
		l.ParagraphBonusMin = d.ParagraphBonusMin
	}
	if l.ParagraphBonusMax <= 0 {
		l.ParagraphBonusMax = d.ParagraphBonusMax
	}
	if l.ParagraphBonus <= 0 {
		l.ParagraphBonus = d.ParagraphBonus
	}
	if l.MinParagraphScore <= 0 {
		l.MinParagraphScore = d.MinParagraphScore
	}
	if l.MaxContextLine <= 0 {
		l.MaxContextLine = d.MaxContextLine
	}
	return l
}

// Reply is an answer together with the intent that produced it.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"answer"`
}

// A rule answers q if it recognizes it. Rules are tried in order and the
// first one that answers wins.
type rule struct {
	intent Intent
	answer func(r *Responder, q string, doc *document.Bundle) (string, bool)
}

var cascade = []rule{
	{IntentSummary, (*Responder).answerSummary},
	{IntentTable, (*Responder).answerTable},
	{IntentEntity, (*Responder).answerEntity},
	{IntentMetric, (*Responder).answerMetric},
	{IntentDate, (*Responder).answerDate},
	{IntentGeneral, (*Responder).answerGeneral},
}

// Responder is stateless between calls and safe for concurrent use.
type Responder struct {
	limits Limits
	log    *slog.Logger
	rules  []rule
}

// Option configures a Responder.
type Option func(*Responder)

func WithLimits(l Limits) Option {
	return func(r *Responder) { r.limits = l.withDefaults() }
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Responder) { r.log = log }
}

func New(opts ...Option) *Responder {
	r := &Responder{
		limits: DefaultLimits(),
		log:    slog.Default(),
		rules:  cascade,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Answer returns the answer text for question.
func (r *Responder) Answer(question string, doc *document.Bundle) string {
	return r.Respond(question, doc).Text
}

// Respond runs the intent cascade. It never panics: a failing rule yields
// an apology naming the document. doc is not modified.
func (r *Responder) Respond(question string, doc *document.Bundle) (reply Reply) {
	d := doc.Normalize()
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("responder failed", "panic", fmt.Sprint(p), "file", d.Metadata.FileName)
			reply = Reply{Intent: IntentError, Text: apology(d.Metadata.FileName)}
		}
	}()

	q := strings.ToLower(strings.TrimSpace(question))
	for _, rl := range r.rules {
		if text, ok := rl.answer(r, q, &d); ok {
			return Reply{Intent: rl.intent, Text: text}
		}
	}
	return Reply{Intent: IntentGeneral, Text: genericAnswer(&d)}
}

func apology(fileName string) string {
	return fmt.Sprintf("I'm sorry, I ran into a problem while analyzing %s. Please try rephrasing your question.", docName(fileName))
}

// docName quotes the file name, or falls back to a neutral reference.
func docName(fileName string) string {
	if fileName == "" {
		return "this document"
	}
	return fmt.Sprintf("%q", fileName)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in s with no letter or digit on
// either side.
func containsWord(s, w string) bool {
	if w == "" {
		return false
	}
	for from := 0; from <= len(s)-len(w); {
		i := strings.Index(s[from:], w)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(w)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// plural formats n with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// joinList joins items as "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
