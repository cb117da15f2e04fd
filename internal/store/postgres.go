package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// List columns hold JSON-encoded string arrays. TEXT rather than a native
// array type keeps the schema portable and the scan code trivial; nothing
// queries inside the lists.
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	file_name TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	score INT NOT NULL,
	keyword_score INT NOT NULL,
	skills_score INT NOT NULL,
	format_score INT NOT NULL,
	matched_keywords TEXT NOT NULL DEFAULT '[]',
	missing_keywords TEXT NOT NULL DEFAULT '[]',
	matched_skills TEXT NOT NULL DEFAULT '[]',
	missing_skills TEXT NOT NULL DEFAULT '[]',
	suggestions TEXT NOT NULL DEFAULT '[]',
	ats_issues TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

const analysisColumns = `id, file_name, job_title,
	score, keyword_score, skills_score, format_score,
	matched_keywords, missing_keywords, matched_skills, missing_skills,
	suggestions, ats_issues, created_at`

// PostgresStore is the pgx-backed AnalysisStore implementation
type PostgresStore struct {
	pool   *pgxpool.Pool
	cfg    config.StoreConfig
	logger *errors.Logger
}

// NewPostgresStore connects, pings, and runs the idempotent schema migration.
// Any failure here is fatal for the store; callers decide whether to run
// stateless instead.
func NewPostgresStore(ctx context.Context, cfg config.StoreConfig, logger *errors.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"invalid store DSN", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"failed to create connection pool", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"failed to reach the database", err)
	}

	s := &PostgresStore{pool: pool, cfg: cfg, logger: logger}
	if err := s.migrate(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Analysis store connected",
			"max_conns", poolCfg.MaxConns,
			"min_conns", poolCfg.MinConns)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to run schema migration", err)
	}
	return nil
}

// Save persists one analysis, assigning an ID and timestamp when missing
func (s *PostgresStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	createdAt := time.Now().UTC()
	result.CreatedAt = createdAt.Format(time.RFC3339)

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO analyses (
			id, file_name, job_title,
			score, keyword_score, skills_score, format_score,
			matched_keywords, missing_keywords, matched_skills, missing_skills,
			suggestions, ats_issues, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		result.ID, result.FileName, result.JobTitle,
		result.Score, result.KeywordScore, result.SkillsScore, result.FormatScore,
		encodeList(result.MatchedKeywords), encodeList(result.MissingKeywords),
		encodeList(result.MatchedSkills), encodeList(result.MissingSkills),
		encodeList(result.Suggestions), encodeList(result.ATSIssues),
		createdAt,
	)
	if err != nil {
		return errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to save analysis", err).WithContext("id", result.ID)
	}
	return nil
}

// Get fetches one analysis by ID
func (s *PostgresStore) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid analysis id: %s", id), err)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)

	result, err := scanAnalysis(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.NewStoreError(errors.ErrCodeNotFound,
				"analysis not found", nil).WithContext("id", id)
		}
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to fetch analysis", err).WithContext("id", id)
	}
	return result, nil
}

// List returns the most recent analyses, newest first
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*types.AnalysisResult, error) {
	if limit <= 0 {
		limit = s.cfg.ListLimit
	}
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to list analyses", err)
	}
	defer rows.Close()

	results := []*types.AnalysisResult{}
	for rows.Next() {
		result, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
				"failed to scan analysis row", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to iterate analyses", err)
	}
	return results, nil
}

// Delete removes one analysis by ID
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid analysis id: %s", id), err)
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to delete analysis", err).WithContext("id", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewStoreError(errors.ErrCodeNotFound,
			"analysis not found", nil).WithContext("id", id)
	}
	return nil
}

// Summary computes dashboard aggregates in two queries
func (s *PostgresStore) Summary(ctx context.Context, recentLimit int) (*types.DashboardSummary, error) {
	if recentLimit <= 0 {
		recentLimit = 10
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	summary := &types.DashboardSummary{Recent: []types.RecentAnalysis{}}

	var avg float64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(score), 0),
			COUNT(*) FILTER (WHERE score >= 80),
			COUNT(*) FILTER (WHERE score >= 50 AND score < 80),
			COUNT(*) FILTER (WHERE score < 50)
		FROM analyses`).
		Scan(&summary.Total, &avg, &summary.HighCount, &summary.MidCount, &summary.LowCount)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to compute summary", err)
	}
	summary.AverageScore = int(math.Round(avg))

	rows, err := s.pool.Query(ctx, `
		SELECT id, file_name, job_title, score, created_at
		FROM analyses ORDER BY created_at DESC, id LIMIT $1`, recentLimit)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to fetch recent analyses", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recent types.RecentAnalysis
		var createdAt time.Time
		if err := rows.Scan(&recent.ID, &recent.FileName, &recent.JobTitle,
			&recent.Score, &createdAt); err != nil {
			return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
				"failed to scan recent analysis", err)
		}
		recent.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		summary.Recent = append(summary.Recent, recent)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreQueryFailed,
			"failed to iterate recent analyses", err)
	}
	return summary, nil
}

// Ping verifies database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		return errors.NewStoreError(errors.ErrCodeStoreUnavailable,
			"database ping failed", err)
	}
	return nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func scanAnalysis(row pgx.Row) (*types.AnalysisResult, error) {
	var r types.AnalysisResult
	var matchedKw, missingKw, matchedSk, missingSk, suggestions, atsIssues string
	var createdAt time.Time

	err := row.Scan(&r.ID, &r.FileName, &r.JobTitle,
		&r.Score, &r.KeywordScore, &r.SkillsScore, &r.FormatScore,
		&matchedKw, &missingKw, &matchedSk, &missingSk,
		&suggestions, &atsIssues, &createdAt)
	if err != nil {
		return nil, err
	}

	r.MatchedKeywords = decodeList(matchedKw)
	r.MissingKeywords = decodeList(missingKw)
	r.MatchedSkills = decodeList(matchedSk)
	r.MissingSkills = decodeList(missingSk)
	r.Suggestions = decodeList(suggestions)
	r.ATSIssues = decodeList(atsIssues)
	r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &r, nil
}

func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeList(s string) []string {
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}
