// Package extract produces the entities of a document: securities found
// deterministically by ISIN, merged with whatever an optional LLM pass
// extracts from the document's prose.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/findoc/internal/chunker"
	"github.com/dgallion1/findoc/internal/doctree"
	"github.com/dgallion1/findoc/internal/document"
	"github.com/dgallion1/findoc/internal/llm"
)

// Extractor is safe for concurrent use.
type Extractor struct {
	gen         llm.Generator
	log         *slog.Logger
	chunks      chunker.Config
	concurrency int
}

// Option configures an Extractor.
type Option func(*Extractor)

func WithGenerator(g llm.Generator) Option { return func(e *Extractor) { e.gen = g } }

func WithLogger(log *slog.Logger) Option { return func(e *Extractor) { e.log = log } }

// WithChunking sets how documents are split for the LLM. A zero chunk size
// keeps the default.
func WithChunking(cfg chunker.Config) Option {
	return func(e *Extractor) {
		if cfg.ChunkSize > 0 {
			e.chunks = cfg
		}
	}
}

// WithConcurrency bounds the number of chunks sent to the LLM at once.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		log:         slog.Default(),
		chunks:      chunker.DefaultConfig(),
		concurrency: 2,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract returns the merged entities of a document. LLM failures are
// logged per chunk and never fail the call; the result then holds only the
// scanned securities. The only error is ctx cancellation.
func (e *Extractor) Extract(ctx context.Context, tree *doctree.DocTree, text string, tables []document.Table) ([]document.Entity, error) {
	entities := ScanSecurities(text, tables)
	if e.gen == nil || tree == nil {
		return entities, nil
	}

	chunks := chunker.Split(tree, e.chunks)
	results := make([][]document.Entity, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, c := range chunks {
		g.Go(func() error {
			found, err := e.extractChunk(gctx, tree.Title, c)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.log.Warn("entity extraction failed for chunk", "chunk", c.Index, "error", err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	for _, found := range results {
		entities = Merge(entities, found)
	}
	return entities, nil
}

func (e *Extractor) extractChunk(ctx context.Context, title string, c chunker.Chunk) ([]document.Entity, error) {
	reply, err := e.gen.Generate(ctx, BuildChunkPrompt(title, c.Breadcrumb, c.Text))
	if err != nil {
		return nil, err
	}
	return ParseEntities(reply)
}

// ParseEntities decodes a model reply and keeps only valid entities.
func ParseEntities(reply string) ([]document.Entity, error) {
	var raw []rawEntity
	if err := json.Unmarshal([]byte(llm.StripCodeBlock(reply)), &raw); err != nil {
		return nil, fmt.Errorf("parse entities json: %w (raw: %s)", err, llm.Truncate(reply, 200))
	}
	out := make([]document.Entity, 0, len(raw))
	for _, r := range raw {
		ent := r.entity()
		if ValidateEntity(&ent) {
			out = append(out, ent)
		}
	}
	return out, nil
}

// rawEntity accepts numbers where strings are expected, since models often
// emit "value": 1000.
type rawEntity struct {
	Type        string     `json:"type"`
	Name        flexString `json:"name"`
	ISIN        flexString `json:"isin"`
	Ticker      flexString `json:"ticker"`
	Value       flexString `json:"value"`
	Price       flexString `json:"price"`
	Quantity    flexString `json:"quantity"`
	MarketValue flexString `json:"marketValue"`
}

func (r rawEntity) entity() document.Entity {
	return document.Entity{
		Type:        document.EntityType(strings.TrimSpace(r.Type)),
		Name:        string(r.Name),
		ISIN:        string(r.ISIN),
		Ticker:      string(r.Ticker),
		Value:       string(r.Value),
		Price:       string(r.Price),
		Quantity:    string(r.Quantity),
		MarketValue: string(r.MarketValue),
	}
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

// Merge appends the entities of add that base does not already hold.
// Entities match on ISIN, else on type and case-folded name. A match fills
// the empty fields of the existing entity.
func Merge(base, add []document.Entity) []document.Entity {
	out := append([]document.Entity(nil), base...)
	index := make(map[string]int, len(out))
	for i, e := range out {
		for _, k := range mergeKeys(e) {
			index[k] = i
		}
	}
	for _, e := range add {
		pos := -1
		for _, k := range mergeKeys(e) {
			if i, ok := index[k]; ok {
				pos = i
				break
			}
		}
		if pos < 0 {
			out = append(out, e)
			pos = len(out) - 1
		} else {
			fillEmpty(&out[pos], e)
		}
		for _, k := range mergeKeys(out[pos]) {
			index[k] = pos
		}
	}
	return out
}

func mergeKeys(e document.Entity) []string {
	var keys []string
	if e.ISIN != "" {
		keys = append(keys, "isin:"+e.ISIN)
	}
	if e.Name != "" {
		keys = append(keys, string(e.Type)+":"+strings.ToLower(e.Name))
	}
	return keys
}

func fillEmpty(dst *document.Entity, src document.Entity) {
	fill(&dst.Name, src.Name)
	fill(&dst.ISIN, src.ISIN)
	fill(&dst.Ticker, src.Ticker)
	fill(&dst.Value, src.Value)
	fill(&dst.Price, src.Price)
	fill(&dst.Quantity, src.Quantity)
	fill(&dst.MarketValue, src.MarketValue)
}

func fill(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}
