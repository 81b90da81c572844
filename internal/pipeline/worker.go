package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/findoc/internal/archive"
	"github.com/dgallion1/findoc/internal/classifier"
	"github.com/dgallion1/findoc/internal/doctree"
	"github.com/dgallion1/findoc/internal/document"
	"github.com/dgallion1/findoc/internal/extract"
	"github.com/dgallion1/findoc/internal/parser"
	"github.com/dgallion1/findoc/internal/segment"
	"github.com/dgallion1/findoc/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	classifier *classifier.Classifier
	extractor  *extract.Extractor
	store      store.Store
	archive    archive.Archiver
	log        *slog.Logger

	maxConcurrentClassify int
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithStore enables dedup and persistence. Without a store, Build is the
// only useful entry point.
func WithStore(s store.Store) WorkerOption { return func(w *Worker) { w.store = s } }

// WithArchive keeps raw uploads. Archive failures never fail a job.
func WithArchive(a archive.Archiver) WorkerOption { return func(w *Worker) { w.archive = a } }

// WithClassifyConcurrency bounds how many tables of one document are
// classified at once.
func WithClassifyConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.maxConcurrentClassify = n
		}
	}
}

func NewWorker(c *classifier.Classifier, e *extract.Extractor, log *slog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		classifier:            c,
		extractor:             e,
		log:                   log,
		maxConcurrentClassify: 4,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// sweeper is implemented by stores that evict expired entries on demand.
type sweeper interface {
	Cleanup()
}

// sweepStore evicts expired bundles when the store needs it. Redis and
// Postgres expire on their own.
func (w *Worker) sweepStore() {
	if s, ok := w.store.(sweeper); ok {
		s.Cleanup()
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	defer job.releaseFileData()

	// Phase 1: Parse
	tree, err := w.parse(job)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", err)
		return
	}
	text := tree.PlainText()
	job.setHash(ContentHashHex([]byte(text)))

	// Phase 1.5: Dedup check
	if w.store != nil {
		existing, err := w.store.FindByHash(ctx, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if existing != "" {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.markDuplicate(existing)
			return
		}
	}

	// Phases 2-4: Segment, classify, extract
	b, err := w.analyze(ctx, job, tree, text)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.Fail(job.Snapshot().Phase, err)
		return
	}

	// Phase 5: Store
	job.SetStatus(StatusStoring, "storing")
	if w.store != nil {
		if err := w.store.Put(ctx, b); err != nil {
			log.Error("store failed", "error", err)
			job.Fail("storing", err)
			return
		}
	}
	if w.archive != nil {
		key, err := w.archive.Store(ctx, job.DocID, job.Filename, job.FileData())
		if err != nil {
			log.Warn("archive failed", "error", err)
			job.AddError(fmt.Sprintf("archive: %s", err))
		} else {
			log.Debug("archived upload", "key", key)
		}
	}

	log.Info("document processed", "tables", len(b.Tables), "entities", len(b.Entities))
	job.SetStatus(StatusCompleted, "done")
}

// Build parses and analyzes a job without dedup or persistence.
func (w *Worker) Build(ctx context.Context, job *Job) (*document.Bundle, error) {
	tree, err := w.parse(job)
	if err != nil {
		job.Fail("parsing", err)
		return nil, err
	}
	text := tree.PlainText()
	job.setHash(ContentHashHex([]byte(text)))

	b, err := w.analyze(ctx, job, tree, text)
	if err != nil {
		job.Fail(job.Snapshot().Phase, err)
		return nil, err
	}
	job.SetStatus(StatusCompleted, "done")
	return b, nil
}

func (w *Worker) parse(job *Job) (*doctree.DocTree, error) {
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, err
	}
	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", job.Filename, err)
	}
	if job.Title != "" {
		tree.Title = job.Title
	}
	return tree, nil
}

func (w *Worker) analyze(ctx context.Context, job *Job, tree *doctree.DocTree, text string) (*document.Bundle, error) {
	job.SetStatus(StatusSegmenting, "segmenting")
	segments := segment.Find(text)
	job.SetTablesFound(len(segments))

	job.SetStatus(StatusClassifying, "classifying")
	tables, err := w.classifyAll(ctx, job, segments, text)
	if err != nil {
		return nil, err
	}

	job.SetStatus(StatusExtracting, "extracting")
	entities, err := w.extractor.Extract(ctx, tree, text, tables)
	if err != nil {
		return nil, err
	}
	job.SetEntities(len(entities))

	b := &document.Bundle{
		ID:          job.DocID,
		ContentHash: job.ContentHash,
		CreatedAt:   time.Now().UTC(),
		Text:        text,
		Tables:      tables,
		Entities:    entities,
		Metadata: document.Metadata{
			FileName:         filepath.Base(job.Filename),
			FileExt:          strings.TrimPrefix(parser.Ext(job.Filename), "."),
			Title:            tree.Title,
			Author:           tree.Author,
			CreationDate:     tree.Created,
			ModificationDate: tree.Modified,
		},
	}
	nb := b.Normalize()
	return &nb, nil
}

// classifyAll classifies every segment, keeping document order.
func (w *Worker) classifyAll(ctx context.Context, job *Job, segments []segment.Segment, text string) ([]document.Table, error) {
	tables := make([]document.Table, len(segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxConcurrentClassify)
	for i, seg := range segments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i] = w.classifier.Classify(gctx, seg.Text, text, seg.StartLine, seg.EndLine)
			job.IncrTablesClassified()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify tables: %w", err)
	}
	return tables, nil
}
