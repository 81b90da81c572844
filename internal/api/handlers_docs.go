package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/findoc/internal/responder"
	"github.com/dgallion1/findoc/internal/store"
)

const maxJSONBody = 1 << 20

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.log.Error("list documents failed", "error", err)
		jsonError(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	b, err := s.deps.Store.Get(r.Context(), docID)
	if err != nil {
		s.storeError(w, docID, err)
		return
	}
	writeJSON(w, http.StatusOK, b.Normalize())
}

// handleDeleteDocument deletes a document and its archived upload.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	ctx := r.Context()

	if err := s.deps.Store.Delete(ctx, docID); err != nil {
		s.storeError(w, docID, err)
		return
	}

	archived := false
	if s.deps.Archive != nil {
		if err := s.deps.Archive.Delete(ctx, docID); err != nil {
			s.log.Warn("archive delete failed", "doc_id", docID, "error", err)
		} else {
			archived = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":         docID,
		"archive_deleted": archived,
	})
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer     string           `json:"answer"`
	Intent     responder.Intent `json:"intent"`
	DocumentID string           `json:"document_id"`
	Timestamp  time.Time        `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	b, err := s.deps.Store.Get(r.Context(), docID)
	if err != nil {
		s.storeError(w, docID, err)
		return
	}

	reply := s.deps.Responder.Respond(req.Question, b)
	s.log.Debug("answered question", "doc_id", docID, "intent", reply.Intent)
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:     reply.Text,
		Intent:     reply.Intent,
		DocumentID: docID,
		Timestamp:  time.Now().UTC(),
	})
}

func (s *Server) storeError(w http.ResponseWriter, docID string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	s.log.Error("store failed", "doc_id", docID, "error", err)
	jsonError(w, "storage error", http.StatusInternalServerError)
}
