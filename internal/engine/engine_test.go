package engine

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"resumatch/internal/errors"
	"resumatch/internal/types"
)

const (
	janeResume = "Experienced Python developer skilled in Django, PostgreSQL, and AWS. " +
		"Contact: jane@example.com, 555-123-4567."
	janeJobDescription = "Looking for a Python developer with Django and AWS experience, 2+ years."
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return e
}

func TestAnalyzeScoresInRange(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze(types.AnalyzeResumeInput{
		ResumeText:     janeResume,
		JobDescription: janeJobDescription,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, score := range map[string]int{
		"score":         result.Score,
		"keyword_score": result.KeywordScore,
		"skills_score":  result.SkillsScore,
		"format_score":  result.FormatScore,
	} {
		if score < 0 || score > 100 {
			t.Errorf("%s = %d, out of [0,100]", name, score)
		}
	}

	expected := int(math.Round(0.6*float64(result.KeywordScore) +
		0.2*float64(result.SkillsScore) + 0.2*float64(result.FormatScore)))
	if result.Score != expected {
		t.Errorf("score %d does not equal weighted sum %d", result.Score, expected)
	}
}

func TestAnalyzePythonDeveloperScenario(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze(types.AnalyzeResumeInput{
		ResumeText:     janeResume,
		JobDescription: janeJobDescription,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, kw := range []string{"python", "developer", "django", "aws"} {
		if !contains(result.MatchedKeywords, kw) {
			t.Errorf("expected %q in matched keywords, got %v", kw, result.MatchedKeywords)
		}
	}

	// Python, Django and AWS are all taxonomy skills the job asks for and the
	// resume covers, so skill coverage is complete.
	if result.SkillsScore != 100 {
		t.Errorf("expected skills score 100, got %d (matched %v, missing %v)",
			result.SkillsScore, result.MatchedSkills, result.MissingSkills)
	}

	for _, issue := range result.ATSIssues {
		if strings.Contains(issue, "email") || strings.Contains(issue, "phone") {
			t.Errorf("contact info is present but flagged: %q", issue)
		}
		if strings.Contains(issue, "action verb") {
			t.Errorf("action-verb check should pass, got issue %q", issue)
		}
	}
}

func TestAnalyzeDegenerateResume(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze(types.AnalyzeResumeInput{
		ResumeText:     "I am a hard worker and I want this job very much indeed.",
		JobDescription: janeJobDescription,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FormatScore >= 50 {
		t.Errorf("expected low format score, got %d", result.FormatScore)
	}
	if len(result.ATSIssues) == 0 {
		t.Error("expected ATS issues for degenerate resume")
	}

	hasFormatSuggestion := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "heading") || strings.Contains(s, "date") ||
			strings.Contains(s, "email") || strings.Contains(s, "page") {
			hasFormatSuggestion = true
		}
	}
	if !hasFormatSuggestion {
		t.Errorf("expected at least one format-related suggestion, got %v", result.Suggestions)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	e := newTestEngine(t)
	input := types.AnalyzeResumeInput{
		ResumeText:     janeResume,
		JobDescription: janeJobDescription,
	}

	first, err := e.Analyze(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Analyze(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("analysis is not deterministic:\n%s\nvs\n%s", firstJSON, secondJSON)
	}
}

func TestAnalyzeIdenticalDocuments(t *testing.T) {
	e := newTestEngine(t)
	text := "Senior platform engineer with Kubernetes, Terraform, and AWS experience " +
		"building deployment tooling for large engineering organizations."

	result, err := e.Analyze(types.AnalyzeResumeInput{
		ResumeText:     text,
		JobDescription: text,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.KeywordScore != 100 {
		t.Errorf("expected keyword score 100 for identical documents, got %d", result.KeywordScore)
	}
}

func TestAnalyzeNeutralSkillsScore(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze(types.AnalyzeResumeInput{
		ResumeText:     janeResume,
		JobDescription: "We want a motivated person who enjoys working on interesting problems every day.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SkillsScore != 100 {
		t.Errorf("expected neutral skills score 100 when the job mentions no taxonomy skills, got %d",
			result.SkillsScore)
	}
}

func TestAnalyzeValidation(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name         string
		resume       string
		jd           string
		expectedCode string
	}{
		{
			name:         "empty resume",
			resume:       "",
			jd:           janeJobDescription,
			expectedCode: errors.ErrCodeEmptyResume,
		},
		{
			name:         "whitespace resume",
			resume:       "   \n\t ",
			jd:           janeJobDescription,
			expectedCode: errors.ErrCodeEmptyResume,
		},
		{
			name:         "empty job description",
			resume:       janeResume,
			jd:           "",
			expectedCode: errors.ErrCodeEmptyJobDesc,
		},
		{
			name:         "job description too short",
			resume:       janeResume,
			jd:           "Python developer wanted",
			expectedCode: errors.ErrCodeJobDescTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Analyze(types.AnalyzeResumeInput{
				ResumeText:     tt.resume,
				JobDescription: tt.jd,
			})
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *errors.AppError, got %T", err)
			}
			if appErr.Code != tt.expectedCode {
				t.Errorf("expected error code %s, got %s", tt.expectedCode, appErr.Code)
			}
			if appErr.Type != errors.ErrorTypeValidation {
				t.Errorf("expected validation error type, got %s", appErr.Type)
			}
		})
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	badWeights := DefaultConfig()
	badWeights.Weights = Weights{Keywords: 0.9, Skills: 0.9, Format: 0.9}
	if _, err := New(badWeights, nil, nil); err == nil {
		t.Error("expected error for weights not summing to 1")
	}

	badTaxonomy := &Taxonomy{Categories: []Category{{Name: "x"}}}
	if _, err := New(DefaultConfig(), badTaxonomy, nil); err == nil {
		t.Error("expected error for invalid taxonomy")
	}
}

func TestKeywordsOperation(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Keywords(types.ExtractKeywordsInput{JobDescription: janeJobDescription})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Keywords) == 0 {
		t.Error("expected extracted keywords")
	}
	if !contains(result.Keywords, "python") {
		t.Errorf("expected python among keywords, got %v", result.Keywords)
	}

	if _, err := e.Keywords(types.ExtractKeywordsInput{JobDescription: "too short"}); err == nil {
		t.Error("expected validation error for short job description")
	}
}

func TestCheckFormatOperation(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.CheckFormat(types.CheckFormatInput{ResumeText: janeResume})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Checks) != 7 {
		t.Errorf("expected 7 checks, got %d", len(result.Checks))
	}

	if _, err := e.CheckFormat(types.CheckFormatInput{ResumeText: " "}); err == nil {
		t.Error("expected validation error for empty resume")
	}
}

func BenchmarkAnalyze(b *testing.B) {
	e, err := New(DefaultConfig(), nil, nil)
	if err != nil {
		b.Fatalf("failed to build engine: %v", err)
	}
	input := types.AnalyzeResumeInput{
		ResumeText:     janeResume,
		JobDescription: janeJobDescription,
	}

	for b.Loop() {
		if _, err := e.Analyze(input); err != nil {
			b.Fatal(err)
		}
	}
}
