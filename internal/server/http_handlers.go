package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resumatch/internal/errors"
	"resumatch/internal/store"
)

// getStorePingTimeout returns the configured store health check timeout
func (s *Server) getStorePingTimeout() time.Duration {
	timeout := s.AppConfig.Observability.HealthCheck.StorePingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return timeout
}

// healthHandler provides a health check endpoint covering the engine and the
// analysis store
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumatch",
		"version": s.Version,
	}

	overallHealthy := true

	response["engine"] = s.checkEngineHealth()

	storeStatus := s.checkStoreHealth(r.Context())
	response["store"] = storeStatus
	if healthy, ok := storeStatus["healthy"].(bool); ok && !healthy {
		overallHealthy = false
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkEngineHealth reports the analysis engine and taxonomy watcher status
func (s *Server) checkEngineHealth() map[string]any {
	engineStatus := map[string]any{
		"ready": s.Engine() != nil,
	}

	if s.TaxonomyWatcher != nil {
		engineStatus["taxonomy_watcher"] = map[string]any{
			"running":      s.TaxonomyWatcher.IsRunning(),
			"watched_file": s.TaxonomyWatcher.WatchedFile(),
			"reload_count": s.TaxonomyWatcher.ReloadCount(),
		}
	}

	return engineStatus
}

// checkStoreHealth pings the analysis store and reports circuit breaker state
func (s *Server) checkStoreHealth(ctx context.Context) map[string]any {
	if s.Store == nil {
		return map[string]any{
			"enabled": false,
			"healthy": true,
		}
	}

	storeStatus := map[string]any{
		"enabled": true,
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.getStorePingTimeout())
	defer cancel()

	if err := s.Store.Ping(pingCtx); err != nil {
		storeStatus["healthy"] = false
		storeStatus["error"] = err.Error()
	} else {
		storeStatus["healthy"] = true
	}

	if bs, ok := s.Store.(*store.BreakerStore); ok {
		storeStatus["circuit_breaker"] = bs.BreakerStats()
	}

	return storeStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumatch",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"store_enabled":          s.Store != nil,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error to the appropriate HTTP status.
// Validation problems are the caller's fault, a missing row is 404, and an
// unavailable store is 503 so clients know to retry.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case appErr.Type == errors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case appErr.Code == errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case appErr.Code == errors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: appErr.Message,
		Code:    appErr.Code,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
