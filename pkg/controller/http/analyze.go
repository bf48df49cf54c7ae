package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/types"
	"github.com/secmon-lab/kiken/pkg/repository/dataset"
	"github.com/secmon-lab/kiken/pkg/usecase"
	"github.com/secmon-lab/kiken/pkg/utils/errutil"
)

type analyzeRequest struct {
	Description string `json:"description"`
	Industry    string `json:"industry,omitempty"`
	Debug       bool   `json:"debug,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode analyze request"), http.StatusBadRequest)
		return
	}

	result, err := s.uc.Analyze.Analyze(ctx, usecase.AnalyzeInput{
		Description: req.Description,
		Industry:    req.Industry,
		Debug:       req.Debug,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, analyzeStatusCode(err))
		return
	}

	writeJSON(w, r, result)
}

// analyzeStatusCode maps analysis failures to HTTP status codes
func analyzeStatusCode(err error) int {
	switch {
	case errors.Is(err, usecase.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoClassificationResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dataset.ErrLoadFailed):
		return http.StatusServiceUnavailable
	default:
		// Remaining failures come from the classification call
		return http.StatusBadGateway
	}
}

func (s *Server) handleAccidentTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := s.loader.AccidentTypes(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, r, catalog)
}

func (s *Server) handleDatasetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := s.loader.Load(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusServiceUnavailable)
		return
	}

	stats := map[string]int{
		"relationships": data.RelationshipCount(),
	}
	for _, t := range types.AllTables() {
		stats[t.String()] = data.Table(t).Len()
	}

	writeJSON(w, r, stats)
}
