package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sozercan/chart-mole/apimodels"
	"github.com/sozercan/chart-mole/internal/analyzer"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	slog.Debug("Received analysis request", "records", len(req.Data))

	result, err := s.analyzer.Analyze(r.Context(), req)
	switch {
	case analyzer.IsSkipped(err):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, analyzer.ErrInvalidOptions):
		writeError(w, http.StatusBadRequest, analyzer.UserMessage(err))
		return
	case err != nil && r.Context().Err() != nil:
		writeError(w, http.StatusGatewayTimeout, analyzer.UserMessage(err))
		return
	case err != nil:
		slog.Error("Analysis request failed", "error", err)
		writeError(w, http.StatusBadGateway, analyzer.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apimodels.ErrorResponse{Error: msg})
}
