package store

import (
	"context"
	stderrors "errors"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/sony/gobreaker/v2"
)

// BreakerStore wraps an AnalysisStore with circuit breaker protection so a
// failing database sheds load quickly instead of stalling every request
type BreakerStore struct {
	inner AnalysisStore
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore decorates a store with a circuit breaker. With the breaker
// disabled the inner store is returned unchanged.
func NewBreakerStore(inner AnalysisStore, cfg config.CircuitBreakerConfig, logger *errors.Logger) AnalysisStore {
	if !cfg.Enabled {
		return inner
	}

	settings := gobreaker.Settings{
		Name:        "analysis-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		// Business outcomes are not infrastructure failures: a missing row or
		// a bad ID must never trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || IsBusinessError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (s *BreakerStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Save(ctx, result)
	})
	return wrapBreakerErr(err)
}

func (s *BreakerStore) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.inner.Get(ctx, id)
	})
	if err != nil {
		return nil, wrapBreakerErr(err)
	}
	return v.(*types.AnalysisResult), nil
}

func (s *BreakerStore) List(ctx context.Context, limit int) ([]*types.AnalysisResult, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.inner.List(ctx, limit)
	})
	if err != nil {
		return nil, wrapBreakerErr(err)
	}
	return v.([]*types.AnalysisResult), nil
}

func (s *BreakerStore) Delete(ctx context.Context, id string) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Delete(ctx, id)
	})
	return wrapBreakerErr(err)
}

func (s *BreakerStore) Summary(ctx context.Context, recentLimit int) (*types.DashboardSummary, error) {
	v, err := s.cb.Execute(func() (any, error) {
		return s.inner.Summary(ctx, recentLimit)
	})
	if err != nil {
		return nil, wrapBreakerErr(err)
	}
	return v.(*types.DashboardSummary), nil
}

func (s *BreakerStore) Ping(ctx context.Context) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Ping(ctx)
	})
	return wrapBreakerErr(err)
}

func (s *BreakerStore) Close() {
	s.inner.Close()
}

// BreakerStats returns circuit breaker statistics for /stats and /health
func (s *BreakerStore) BreakerStats() map[string]any {
	return map[string]any{
		"name":    s.cb.Name(),
		"state":   s.cb.State().String(),
		"counts":  s.cb.Counts(),
		"enabled": true,
	}
}

// Healthy returns true while the breaker is closed
func (s *BreakerStore) Healthy() bool {
	return s.cb.State() == gobreaker.StateClosed
}

// IsBusinessError reports whether an error describes a normal business
// outcome rather than a store failure. Missing rows and bad IDs fall here.
func IsBusinessError(err error) bool {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == errors.ErrCodeNotFound ||
			appErr.Type == errors.ErrorTypeValidation
	}
	return false
}

// wrapBreakerErr maps breaker rejections onto the store error taxonomy
func wrapBreakerErr(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) ||
		stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"analysis store temporarily unavailable", err)
	}
	return err
}
