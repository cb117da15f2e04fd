package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// fakeStore is an in-memory AnalysisStore test double
type fakeStore struct {
	failing bool
	pings   int
	closed  bool
}

var errDatabaseDown = stderrors.New("connection refused")

func (f *fakeStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	if f.failing {
		return errDatabaseDown
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	if f.failing {
		return nil, errDatabaseDown
	}
	if id == "missing" {
		return nil, errors.NewStoreError(errors.ErrCodeNotFound, "analysis not found", nil)
	}
	return &types.AnalysisResult{ID: id}, nil
}

func (f *fakeStore) List(ctx context.Context, limit int) ([]*types.AnalysisResult, error) {
	if f.failing {
		return nil, errDatabaseDown
	}
	return []*types.AnalysisResult{}, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.failing {
		return errDatabaseDown
	}
	return nil
}

func (f *fakeStore) Summary(ctx context.Context, recentLimit int) (*types.DashboardSummary, error) {
	if f.failing {
		return nil, errDatabaseDown
	}
	return &types.DashboardSummary{}, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	f.pings++
	if f.failing {
		return errDatabaseDown
	}
	return nil
}

func (f *fakeStore) Close() {
	f.closed = true
}

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestBreakerStoreDisabledReturnsInner(t *testing.T) {
	inner := &fakeStore{}
	cfg := breakerConfig()
	cfg.Enabled = false

	wrapped := NewBreakerStore(inner, cfg, nil)

	if wrapped != AnalysisStore(inner) {
		t.Error("expected the inner store back when the breaker is disabled")
	}
}

func TestBreakerStorePassesThroughWhenHealthy(t *testing.T) {
	inner := &fakeStore{}
	wrapped := NewBreakerStore(inner, breakerConfig(), nil)

	result, err := wrapped.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "abc" {
		t.Errorf("expected passthrough result, got %+v", result)
	}

	bs, ok := wrapped.(*BreakerStore)
	if !ok {
		t.Fatal("expected a *BreakerStore")
	}
	if !bs.Healthy() {
		t.Error("expected a healthy breaker")
	}
}

func TestBreakerStoreTripsOnRepeatedFailures(t *testing.T) {
	inner := &fakeStore{failing: true}
	wrapped := NewBreakerStore(inner, breakerConfig(), nil)

	// Drive the breaker past MinRequests failures
	for range 5 {
		_ = wrapped.Ping(context.Background())
	}

	pingsBefore := inner.pings
	err := wrapped.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error from open breaker")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeStoreUnavailable {
		t.Errorf("expected code %s, got %s", errors.ErrCodeStoreUnavailable, appErr.Code)
	}
	if inner.pings != pingsBefore {
		t.Error("expected open breaker to short-circuit without calling the store")
	}

	bs := wrapped.(*BreakerStore)
	if bs.Healthy() {
		t.Error("expected an unhealthy breaker")
	}
	stats := bs.BreakerStats()
	if stats["state"] != "open" {
		t.Errorf("expected open state in stats, got %v", stats["state"])
	}
}

func TestBreakerStoreIgnoresBusinessErrors(t *testing.T) {
	inner := &fakeStore{}
	wrapped := NewBreakerStore(inner, breakerConfig(), nil)

	// Not-found responses are business outcomes, not store failures
	for range 10 {
		_, err := wrapped.Get(context.Background(), "missing")
		appErr, ok := err.(*errors.AppError)
		if !ok || appErr.Code != errors.ErrCodeNotFound {
			t.Fatalf("expected NOT_FOUND passthrough, got %v", err)
		}
	}

	bs := wrapped.(*BreakerStore)
	if !bs.Healthy() {
		t.Error("expected breaker to stay closed through not-found responses")
	}
}

func TestBreakerStoreClosePropagates(t *testing.T) {
	inner := &fakeStore{}
	wrapped := NewBreakerStore(inner, breakerConfig(), nil)

	wrapped.Close()

	if !inner.closed {
		t.Error("expected Close to reach the inner store")
	}
}
