package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumatch/internal/observability"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the full analysis pipeline with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumatch.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req types.AnalyzeResumeInput
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if s.MaxRequestSize > 0 && len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if s.MaxRequestSize > 0 && len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()
		var result *types.AnalysisResult
		err := metrics.TrackAnalysis(ctx, "analyze", om, func(ctx context.Context) observability.AnalysisOutcome {
			output, engineErr := s.Engine().Analyze(req)
			result = output
			outcome := observability.AnalysisOutcome{Score: -1, Err: engineErr}
			if output != nil {
				outcome.Score = output.Score
			}
			return outcome
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine"))
			writeAppError(w, err)
			return
		}

		if s.Store != nil {
			if saveErr := s.Store.Save(ctx, result); saveErr != nil {
				// The analysis is still good; persistence failure only costs
				// the history entry
				span.RecordError(saveErr)
				metrics.RecordStoreError(ctx, om, attribute.String("operation", "save"))
				s.Logger.LogError(saveErr, "Failed to persist analysis")
			}
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("analysis.score", result.Score),
			attribute.Int("analysis.keyword_score", result.KeywordScore),
			attribute.Int("analysis.skills_score", result.SkillsScore),
			attribute.Int("analysis.format_score", result.FormatScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createKeywordsHandler wraps job-description keyword extraction with observability
func (s *Server) createKeywordsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumatch.api")
		ctx, span := tracer.Start(ctx, "api.keywords")
		defer span.End()

		var req types.ExtractKeywordsInput
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "keywords"),
		)

		metrics := om.GetMetrics()
		var result *types.KeywordResult
		err := metrics.TrackAnalysis(ctx, "keywords", om, func(ctx context.Context) observability.AnalysisOutcome {
			output, engineErr := s.Engine().Keywords(req)
			result = output
			return observability.AnalysisOutcome{Score: -1, Err: engineErr}
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine"))
			writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("keywords.count", len(result.Keywords)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createCheckHandler wraps the ATS format check with observability
func (s *Server) createCheckHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumatch.api")
		ctx, span := tracer.Start(ctx, "api.check")
		defer span.End()

		var req types.CheckFormatInput
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "check"),
		)

		metrics := om.GetMetrics()
		var result *types.FormatResult
		err := metrics.TrackAnalysis(ctx, "check", om, func(ctx context.Context) observability.AnalysisOutcome {
			output, engineErr := s.Engine().CheckFormat(req)
			result = output
			outcome := observability.AnalysisOutcome{Score: -1, Err: engineErr}
			if output != nil {
				outcome.Score = output.Score
			}
			return outcome
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine"))
			writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("format.score", result.Score),
			attribute.Int("format.issues", len(result.Issues)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordRateLimitHit(r.Context(), om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
