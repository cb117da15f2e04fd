package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestKeywordScorerIdenticalDocuments(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, true), 25)
	text := "Backend engineer building distributed systems with Go and PostgreSQL"

	result := scorer.Score(text, text)

	if math.Abs(result.Similarity-1.0) > 1e-9 {
		t.Errorf("expected similarity 1.0 for identical documents, got %f", result.Similarity)
	}
	if result.Score != 100 {
		t.Errorf("expected score 100 for identical documents, got %d", result.Score)
	}
	if len(result.Missing) != 0 {
		t.Errorf("expected no missing keywords for identical documents, got %v", result.Missing)
	}
}

func TestKeywordScorerDisjointDocuments(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, true), 25)

	result := scorer.Score(
		"alpha bravo charlie delta echo foxtrot",
		"golf hotel india juliet kilo lima november",
	)

	if result.Similarity != 0 {
		t.Errorf("expected similarity 0 for disjoint vocabularies, got %f", result.Similarity)
	}
	if result.Score != 0 {
		t.Errorf("expected score 0 for disjoint vocabularies, got %d", result.Score)
	}
	if len(result.Matched) != 0 {
		t.Errorf("expected no matched keywords, got %v", result.Matched)
	}
}

func TestKeywordScorerEmptyDocuments(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, true), 25)

	tests := []struct {
		name   string
		resume string
		jd     string
	}{
		{name: "empty resume", resume: "", jd: "backend engineer wanted"},
		{name: "empty job description", resume: "backend engineer", jd: ""},
		{name: "both empty", resume: "", jd: ""},
		{name: "stopwords only", resume: "the and of", jd: "is are was"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(tt.resume, tt.jd)
			if result.Similarity != 0 {
				t.Errorf("expected similarity 0, got %f", result.Similarity)
			}
			if result.Score != 0 {
				t.Errorf("expected score 0, got %d", result.Score)
			}
		})
	}
}

func TestKeywordScorerPartition(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, true), 25)

	result := scorer.Score(
		"Python developer with Django experience and strong testing habits",
		"Looking for a Python developer with Django and AWS experience",
	)

	inMatched := make(map[string]bool, len(result.Matched))
	for _, kw := range result.Matched {
		inMatched[kw] = true
	}
	for _, kw := range result.Missing {
		if inMatched[kw] {
			t.Errorf("keyword %q appears in both matched and missing", kw)
		}
	}
	if len(result.Matched)+len(result.Missing) != len(result.Keywords) {
		t.Errorf("matched (%d) + missing (%d) != extracted keywords (%d)",
			len(result.Matched), len(result.Missing), len(result.Keywords))
	}

	for _, expected := range []string{"python", "developer", "django"} {
		if !inMatched[expected] {
			t.Errorf("expected %q in matched keywords, got %v", expected, result.Matched)
		}
	}
	if !contains(result.Missing, "aws") {
		t.Errorf("expected aws in missing keywords, got %v", result.Missing)
	}
}

func TestTopKeywordsLimit(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, false), 3)

	keywords := scorer.ExtractKeywords(
		"kubernetes kubernetes kubernetes docker docker terraform ansible jenkins",
	)

	if len(keywords) != 3 {
		t.Fatalf("expected 3 keywords, got %d: %v", len(keywords), keywords)
	}
	if keywords[0] != "kubernetes" {
		t.Errorf("expected most frequent term first, got %v", keywords)
	}
}

func TestTopKeywordsTieOrder(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, false), 10)

	// Every term occurs exactly once, so all weights tie and first-occurrence
	// order must be preserved.
	keywords := scorer.ExtractKeywords("zeppelin aardvark mango banana")

	expected := []string{"zeppelin", "aardvark", "mango", "banana"}
	if !reflect.DeepEqual(keywords, expected) {
		t.Errorf("expected first-occurrence order %v, got %v", expected, keywords)
	}
}

func TestTopKeywordsFewerThanLimit(t *testing.T) {
	scorer := NewKeywordScorer(NewNormalizer(nil, false), 25)

	keywords := scorer.ExtractKeywords("terraform ansible")

	if len(keywords) != 2 {
		t.Errorf("expected all available terms when below the limit, got %v", keywords)
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func BenchmarkKeywordScore(b *testing.B) {
	scorer := NewKeywordScorer(NewNormalizer(nil, true), 25)
	resume := "Experienced Python developer skilled in Django, PostgreSQL, and AWS. " +
		"Built data pipelines processing millions of events per day."
	jd := "Looking for a Python developer with Django and AWS experience to join " +
		"our platform team working on large scale data infrastructure."

	for b.Loop() {
		scorer.Score(resume, jd)
	}
}
