package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	snap := s.deps.Stats.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"model":        s.deps.Model,
		"stats":        snap,
		"failure_rate": snap.FailureRate(),
	})
}
