package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"resumatch/internal/observability"
	"resumatch/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// defaultExportLimit bounds export queries when no limit is given
const defaultExportLimit = 1000

// requireStore rejects history requests when no store is configured
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeErrorResponse(w, "Store disabled",
			"analysis history requires a configured store (set RESUMATCH_STORE_DSN)",
			http.StatusServiceUnavailable)
		return false
	}
	return true
}

// createListAnalysesHandler lists recent analyses, newest first
func (s *Server) createListAnalysesHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeErrorResponse(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		analyses, err := s.Store.List(r.Context(), limit)
		if err != nil {
			s.handleStoreError(w, r, om, "list", err)
			return
		}

		response := map[string]any{
			"analyses": analyses,
			"count":    len(analyses),
		}

		s.writeJSON(w, response)
	}
}

// createGetAnalysisHandler fetches one stored analysis by ID
func (s *Server) createGetAnalysisHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		analysis, err := s.Store.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			s.handleStoreError(w, r, om, "get", err)
			return
		}

		s.writeJSON(w, analysis)
	}
}

// createDeleteAnalysisHandler removes one stored analysis by ID
func (s *Server) createDeleteAnalysisHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		id := r.PathValue("id")
		if err := s.Store.Delete(r.Context(), id); err != nil {
			s.handleStoreError(w, r, om, "delete", err)
			return
		}

		s.Logger.Info("Analysis deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// createExportHandler exports stored analyses as CSV or JSON
func (s *Server) createExportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "json" {
			writeErrorResponse(w, "Invalid format", "format must be csv or json", http.StatusBadRequest)
			return
		}

		analyses, err := s.Store.List(r.Context(), defaultExportLimit)
		if err != nil {
			s.handleStoreError(w, r, om, "export", err)
			return
		}

		var out string
		var contentType, fileName string
		switch format {
		case "csv":
			out, err = store.ExportCSV(analyses)
			contentType = "text/csv"
			fileName = "analyses.csv"
		case "json":
			out, err = store.ExportJSON(analyses)
			contentType = "application/json"
			fileName = "analyses.json"
		}
		if err != nil {
			writeErrorResponse(w, "Export failed", err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
		if _, err := w.Write([]byte(out)); err != nil {
			s.Logger.LogError(err, "Failed to write export response")
		}
	}
}

// createCompareHandler diffs two stored analyses
func (s *Server) createCompareHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		firstID := r.URL.Query().Get("a")
		secondID := r.URL.Query().Get("b")
		if firstID == "" || secondID == "" {
			writeErrorResponse(w, "Missing analysis IDs", "both a and b query parameters are required", http.StatusBadRequest)
			return
		}

		first, err := s.Store.Get(r.Context(), firstID)
		if err != nil {
			s.handleStoreError(w, r, om, "compare", err)
			return
		}
		second, err := s.Store.Get(r.Context(), secondID)
		if err != nil {
			s.handleStoreError(w, r, om, "compare", err)
			return
		}

		s.writeJSON(w, store.Compare(first, second))
	}
}

// createDashboardHandler returns aggregate statistics over stored analyses
func (s *Server) createDashboardHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireStore(w) {
			return
		}

		recentLimit := 0
		if raw := r.URL.Query().Get("recent"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeErrorResponse(w, "Invalid recent limit", "recent must be a positive integer", http.StatusBadRequest)
				return
			}
			recentLimit = parsed
		}

		summary, err := s.Store.Summary(r.Context(), recentLimit)
		if err != nil {
			s.handleStoreError(w, r, om, "dashboard", err)
			return
		}

		s.writeJSON(w, summary)
	}
}

// handleStoreError records infrastructure failures and maps the error to an
// HTTP status. Business outcomes like NOT_FOUND are not counted as store
// failures.
func (s *Server) handleStoreError(w http.ResponseWriter, r *http.Request, om *observability.ObservabilityManager, operation string, err error) {
	if !store.IsBusinessError(err) {
		metrics := om.GetMetrics()
		metrics.RecordStoreError(r.Context(), om, attribute.String("operation", operation))
		s.Logger.LogError(err, "Store operation failed", "operation", operation)
	}
	writeAppError(w, err)
}

// writeJSON encodes a response body, falling back to a 500 on encoder failure
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.LogError(err, "Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
