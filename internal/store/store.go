package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"resumatch/internal/types"
)

// AnalysisStore persists analysis history. The server runs stateless when no
// store is configured; history endpoints then report the store as unavailable.
type AnalysisStore interface {
	Save(ctx context.Context, result *types.AnalysisResult) error
	Get(ctx context.Context, id string) (*types.AnalysisResult, error)
	List(ctx context.Context, limit int) ([]*types.AnalysisResult, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, recentLimit int) (*types.DashboardSummary, error)
	Ping(ctx context.Context) error
	Close()
}

// Compare diffs two stored analyses: score delta, which side scored better,
// and the common/unique matched keywords and skills of each side.
func Compare(first, second *types.AnalysisResult) *types.ComparisonResult {
	scoreDiff := first.Score - second.Score

	betterSide := 0
	switch {
	case scoreDiff > 0:
		betterSide = 1
	case scoreDiff < 0:
		betterSide = 2
	}

	commonKw, uniqueKw1, uniqueKw2 := diffSets(first.MatchedKeywords, second.MatchedKeywords)
	commonSk, uniqueSk1, uniqueSk2 := diffSets(first.MatchedSkills, second.MatchedSkills)

	return &types.ComparisonResult{
		First:           first,
		Second:          second,
		ScoreDiff:       scoreDiff,
		BetterSide:      betterSide,
		CommonKeywords:  commonKw,
		UniqueKeywords1: uniqueKw1,
		UniqueKeywords2: uniqueKw2,
		CommonSkills:    commonSk,
		UniqueSkills1:   uniqueSk1,
		UniqueSkills2:   uniqueSk2,
	}
}

// diffSets splits two lists into common and side-only entries. Common and
// onlyA keep a's order, onlyB keeps b's order.
func diffSets(a, b []string) (common, onlyA, onlyB []string) {
	common = []string{}
	onlyA = []string{}
	onlyB = []string{}

	inB := make(map[string]bool, len(b))
	for _, item := range b {
		inB[item] = true
	}
	inA := make(map[string]bool, len(a))
	for _, item := range a {
		inA[item] = true
	}

	for _, item := range a {
		if inB[item] {
			common = append(common, item)
		} else {
			onlyA = append(onlyA, item)
		}
	}
	for _, item := range b {
		if !inA[item] {
			onlyB = append(onlyB, item)
		}
	}
	return common, onlyA, onlyB
}

// csvHeader is the stable column order of the CSV export
var csvHeader = []string{
	"id", "file_name", "job_title",
	"score", "keyword_score", "skills_score", "format_score",
	"matched_keywords", "missing_keywords",
	"matched_skills", "missing_skills",
	"created_at",
}

// ExportCSV renders analyses as CSV with one row per analysis. List columns
// are joined with "; ".
func ExportCSV(analyses []*types.AnalysisResult) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, a := range analyses {
		record := []string{
			a.ID, a.FileName, a.JobTitle,
			strconv.Itoa(a.Score), strconv.Itoa(a.KeywordScore),
			strconv.Itoa(a.SkillsScore), strconv.Itoa(a.FormatScore),
			strings.Join(a.MatchedKeywords, "; "),
			strings.Join(a.MissingKeywords, "; "),
			strings.Join(a.MatchedSkills, "; "),
			strings.Join(a.MissingSkills, "; "),
			a.CreatedAt,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExportJSON renders analyses as an indented JSON array
func ExportJSON(analyses []*types.AnalysisResult) (string, error) {
	if analyses == nil {
		analyses = []*types.AnalysisResult{}
	}
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
