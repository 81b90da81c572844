package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/findoc/internal/archive"
	"github.com/dgallion1/findoc/internal/classifier"
	"github.com/dgallion1/findoc/internal/config"
	"github.com/dgallion1/findoc/internal/llm"
	"github.com/dgallion1/findoc/internal/pipeline"
	"github.com/dgallion1/findoc/internal/responder"
	"github.com/dgallion1/findoc/internal/store"
)

// Deps are the services the API serves. Archive, Stats and Model are
// optional.
type Deps struct {
	Orchestrator *pipeline.Orchestrator
	Store        store.Store
	Archive      archive.Archiver
	Classifier   *classifier.Classifier
	Responder    *responder.Responder
	Stats        *llm.Stats
	Model        string
}

// Server is the HTTP API server for findoc.
type Server struct {
	router chi.Router
	deps   Deps
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		deps: deps,
		log:  log,
		cfg:  cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents", s.handleIngest)
		r.Post("/api/documents/batch", s.handleBatchIngest)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Post("/api/documents/{docID}/chat", s.handleChat)

		r.Post("/api/tables/classify", s.handleClassifyTable)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.deps.Orchestrator.QueueDepth(),
		"llm_enabled": s.deps.Stats != nil,
	})
}
