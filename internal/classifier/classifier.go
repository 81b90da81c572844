// Package classifier turns segmented table text into typed document.Table
// values. Type and column detection try the configured LLM first and always
// fall back to deterministic rules, so results never depend on the network.
package classifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgallion1/findoc/internal/document"
	"github.com/dgallion1/findoc/internal/llm"
	"github.com/dgallion1/findoc/internal/segment"
)

// Classifier is safe for concurrent use; it holds no per-call state.
type Classifier struct {
	gen      llm.Generator
	log      *slog.Logger
	keywords []typeKeywords
	context  int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithGenerator enables the LLM-backed stages. A nil generator leaves only
// the deterministic rules.
func WithGenerator(g llm.Generator) Option {
	return func(c *Classifier) { c.gen = g }
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Classifier) { c.log = log }
}

// WithSettings applies keyword overrides and the context window size.
func WithSettings(s Settings) Option {
	return func(c *Classifier) {
		c.keywords = s.keywordTable()
		if s.ContextLines > 0 {
			c.context = s.ContextLines
		}
	}
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		log:      slog.Default(),
		keywords: DefaultSettings().keywordTable(),
		context:  DefaultSettings().ContextLines,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify builds a Table from tableText. documentText, startLine and
// endLine (0-based, inclusive) locate the table in its document for context
// extraction. The LLM stages are best-effort: any error or malformed reply
// is logged and replaced by the rule-based result.
func (c *Classifier) Classify(ctx context.Context, tableText, documentText string, startLine, endLine int) document.Table {
	header, body := splitHeader(tableText)

	headers := segment.SplitCells(header)
	if headers == nil {
		headers = []string{}
	}

	t := document.Table{
		Headers: headers,
		Rows:    [][]string{},
		Records: []document.Record{},
		Context: c.extractContext(documentText, startLine, endLine),
	}
	t.Title = t.Context.Title

	if strings.TrimSpace(tableText) == "" {
		t.Type = document.TableUnknown
		t.Columns = []document.Column{}
		return t
	}

	t.Type = c.identifyType(ctx, tableText)
	t.Columns = c.identifyColumns(ctx, tableText, headers)

	for _, line := range body {
		cells := segment.SplitCells(line)
		if len(cells) == 0 {
			continue
		}
		t.Rows = append(t.Rows, cells)
		t.Records = append(t.Records, parseRecord(t.Columns, cells))
	}
	return t
}

func (c *Classifier) identifyType(ctx context.Context, tableText string) document.TableType {
	if c.gen != nil {
		reply, err := c.gen.Generate(ctx, buildTypePrompt(tableText))
		if err == nil {
			if tt, ok := document.ParseTableType(reply); ok {
				return tt
			}
			c.log.Debug("llm table type rejected, using keyword rules", "reply", llm.Truncate(reply, 80))
		} else {
			c.log.Debug("llm table type failed, using keyword rules", "error", err)
		}
	}
	return scoreType(c.keywords, tableText)
}

func (c *Classifier) identifyColumns(ctx context.Context, tableText string, headers []string) []document.Column {
	if c.gen != nil {
		reply, err := c.gen.Generate(ctx, buildColumnsPrompt(tableText))
		if err == nil {
			cols, perr := parseColumns(reply)
			if perr == nil {
				return cols
			}
			c.log.Debug("llm columns rejected, using header rules", "error", perr)
		} else {
			c.log.Debug("llm columns failed, using header rules", "error", err)
		}
	}
	return inferColumns(headers)
}

// splitHeader returns the first non-blank line and every later non-blank,
// non-rule line.
func splitHeader(text string) (string, []string) {
	var header string
	var body []string
	found := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !found {
			header = line
			found = true
			continue
		}
		if segment.IsRule(line) {
			continue
		}
		body = append(body, line)
	}
	return header, body
}
