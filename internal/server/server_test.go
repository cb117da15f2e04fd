package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumatch/internal/config"
	"resumatch/internal/engine"
	"resumatch/internal/errors"
	"resumatch/internal/observability"
	"resumatch/internal/types"
)

const testJobDescription = `We are hiring a backend engineer with strong Python and Go experience.
You will build REST APIs with Django and PostgreSQL, deploy services to AWS
with Docker and Kubernetes, and collaborate with the data team on analytics.`

const testResume = `Jane Doe
Experienced backend engineer. Built REST APIs in Python and Django backed by
PostgreSQL. Deployed microservices to AWS using Docker. Led the migration of
the analytics pipeline and mentored two junior engineers.`

// memStore is an in-memory AnalysisStore for handler tests
type memStore struct {
	items    map[string]*types.AnalysisResult
	order    []string
	nextID   int
	failPing bool
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*types.AnalysisResult)}
}

func (m *memStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	m.nextID++
	result.ID = fmt.Sprintf("mem-%d", m.nextID)
	m.items[result.ID] = result
	m.order = append(m.order, result.ID)
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	result, ok := m.items[id]
	if !ok {
		return nil, errors.NewStoreError(errors.ErrCodeNotFound, "analysis not found", nil)
	}
	return result, nil
}

func (m *memStore) List(ctx context.Context, limit int) ([]*types.AnalysisResult, error) {
	results := make([]*types.AnalysisResult, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, m.items[m.order[i]])
	}
	return results, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return errors.NewStoreError(errors.ErrCodeNotFound, "analysis not found", nil)
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) Summary(ctx context.Context, recentLimit int) (*types.DashboardSummary, error) {
	summary := &types.DashboardSummary{Recent: []types.RecentAnalysis{}}
	total := 0
	for _, result := range m.items {
		summary.Total++
		total += result.Score
		switch {
		case result.Score >= 80:
			summary.HighCount++
		case result.Score >= 50:
			summary.MidCount++
		default:
			summary.LowCount++
		}
	}
	if summary.Total > 0 {
		summary.AverageScore = total / summary.Total
	}
	return summary, nil
}

func (m *memStore) Ping(ctx context.Context) error {
	if m.failPing {
		return errors.NewStoreError(errors.ErrCodeStoreUnavailable, "database unreachable", nil)
	}
	return nil
}

func (m *memStore) Close() {}

type testServerOptions struct {
	apiKeys   []string
	store     *memStore
	rateLimit *config.RateLimitConfig
}

func newTestServer(t *testing.T, opts testServerOptions) (*Server, *http.ServeMux) {
	t.Helper()

	eng, err := engine.New(engine.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	appCfg := &config.Config{}

	srv := NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		Version:        "test",
		APIKeys:        opts.apiKeys,
		MaxRequestSize: 1 << 20,
		RateLimit:      opts.rateLimit,
	}, eng, nil, logger)
	if opts.store != nil {
		srv.Store = opts.store
	}

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, appCfg)
	if err != nil {
		t.Fatalf("failed to build observability manager: %v", err)
	}

	return srv, srv.setupRoutes(om)
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	rec := postJSON(t, mux, "/analyze", types.AnalyzeResumeInput{
		ResumeText:     testResume,
		JobDescription: testJobDescription,
		JobTitle:       "Backend Engineer",
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("expected score in [0,100], got %d", result.Score)
	}
	if result.JobTitle != "Backend Engineer" {
		t.Errorf("expected job title round-trip, got %q", result.JobTitle)
	}
	if len(result.MatchedKeywords) == 0 {
		t.Error("expected matched keywords for an on-target resume")
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	tests := []struct {
		name     string
		body     types.AnalyzeResumeInput
		wantCode int
	}{
		{
			name:     "missing resume",
			body:     types.AnalyzeResumeInput{JobDescription: testJobDescription},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing job description",
			body:     types.AnalyzeResumeInput{ResumeText: testResume},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "job description too short",
			body:     types.AnalyzeResumeInput{ResumeText: testResume, JobDescription: "short"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/analyze", tt.body, nil)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeEndpointRejectsNonJSON(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("resume"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-JSON content type, got %d", rec.Code)
	}
}

func TestAnalyzePersistsWhenStoreEnabled(t *testing.T) {
	st := newMemStore()
	_, mux := newTestServer(t, testServerOptions{store: st})

	rec := postJSON(t, mux, "/analyze", types.AnalyzeResumeInput{
		ResumeText:     testResume,
		JobDescription: testJobDescription,
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ID == "" {
		t.Error("expected persisted analysis to carry an ID")
	}
	if len(st.items) != 1 {
		t.Errorf("expected 1 stored analysis, got %d", len(st.items))
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	rec := postJSON(t, mux, "/keywords", types.ExtractKeywordsInput{
		JobDescription: testJobDescription,
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.KeywordResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Keywords) == 0 {
		t.Error("expected extracted keywords")
	}
}

func TestCheckEndpoint(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	rec := postJSON(t, mux, "/check", types.CheckFormatInput{
		ResumeText: testResume,
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.FormatResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Checks) == 0 {
		t.Error("expected format checks in the response")
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{apiKeys: []string{"secret-key-123456"}})

	body := types.ExtractKeywordsInput{JobDescription: testJobDescription}

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
	}{
		{
			name:     "missing key",
			headers:  nil,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid key",
			headers:  map[string]string{"X-API-Key": "wrong"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "valid header key",
			headers:  map[string]string{"X-API-Key": "secret-key-123456"},
			wantCode: http.StatusOK,
		},
		{
			name:     "valid bearer token",
			headers:  map[string]string{"Authorization": "Bearer secret-key-123456"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/keywords", body, tt.headers)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("store disabled", func(t *testing.T) {
		_, mux := newTestServer(t, testServerOptions{})

		rec := get(t, mux, "/health")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var response map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("expected healthy status, got %v", response["status"])
		}
	})

	t.Run("store unreachable", func(t *testing.T) {
		st := newMemStore()
		st.failPing = true
		_, mux := newTestServer(t, testServerOptions{store: st})

		rec := get(t, mux, "/health")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}

		var response map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "degraded" {
			t.Errorf("expected degraded status, got %v", response["status"])
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	rec := get(t, mux, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["service"] != "resumatch" {
		t.Errorf("unexpected service name: %v", response["service"])
	}
}

func TestHistoryEndpoints(t *testing.T) {
	st := newMemStore()
	_, mux := newTestServer(t, testServerOptions{store: st})

	// Seed two analyses through the API
	for range 2 {
		rec := postJSON(t, mux, "/analyze", types.AnalyzeResumeInput{
			ResumeText:     testResume,
			JobDescription: testJobDescription,
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("seed analyze failed: %d", rec.Code)
		}
	}

	t.Run("list", func(t *testing.T) {
		rec := get(t, mux, "/analyses")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var response struct {
			Analyses []*types.AnalysisResult `json:"analyses"`
			Count    int                     `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Count != 2 {
			t.Errorf("expected 2 analyses, got %d", response.Count)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		rec := get(t, mux, "/analyses/mem-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("get missing id", func(t *testing.T) {
		rec := get(t, mux, "/analyses/nope")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("compare", func(t *testing.T) {
		rec := get(t, mux, "/compare?a=mem-1&b=mem-2")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result types.ComparisonResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if result.BetterSide != 0 {
			t.Errorf("expected a tie for identical analyses, got side %d", result.BetterSide)
		}
	})

	t.Run("compare missing params", func(t *testing.T) {
		rec := get(t, mux, "/compare?a=mem-1")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := get(t, mux, "/dashboard")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var summary types.DashboardSummary
		if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if summary.Total != 2 {
			t.Errorf("expected 2 total analyses, got %d", summary.Total)
		}
	})

	t.Run("export csv", func(t *testing.T) {
		rec := get(t, mux, "/analyses/export?format=csv")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("expected text/csv content type, got %s", ct)
		}
		if lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n"); len(lines) != 3 {
			t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
		}
	})

	t.Run("export invalid format", func(t *testing.T) {
		rec := get(t, mux, "/analyses/export?format=xml")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/analyses/mem-1", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		if rec := get(t, mux, "/analyses/mem-1"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rec.Code)
		}
	})
}

func TestHistoryEndpointsWithoutStore(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{})

	paths := []string{"/analyses", "/analyses/abc", "/dashboard", "/compare?a=x&b=y", "/analyses/export"}
	for _, path := range paths {
		if rec := get(t, mux, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503 for %s without a store, got %d", path, rec.Code)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	_, mux := newTestServer(t, testServerOptions{
		rateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 1,
			BurstCapacity:  1,
			ByIP:           true,
		},
	})

	body := types.ExtractKeywordsInput{JobDescription: testJobDescription}

	first := postJSON(t, mux, "/keywords", body, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := postJSON(t, mux, "/keywords", body, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected second request to be rate limited, got %d", second.Code)
	}
}
