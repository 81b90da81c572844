package api

import (
	"encoding/json"
	"net/http"
)

type classifyRequest struct {
	TableText    string `json:"table_text"`
	DocumentText string `json:"document_text"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
}

// handleClassifyTable classifies one table outside the ingest pipeline.
func (s *Server) handleClassifyTable(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	t := s.deps.Classifier.Classify(r.Context(), req.TableText, req.DocumentText, req.StartLine, req.EndLine)
	writeJSON(w, http.StatusOK, t)
}
