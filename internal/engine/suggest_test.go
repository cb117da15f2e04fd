package engine

import (
	"reflect"
	"strings"
	"testing"

	"resumatch/internal/types"
)

func failedChecks(names ...string) *types.FormatResult {
	all := []string{"contact-email", "contact-phone", "section-headings",
		"word-count", "action-verbs", "dates", "ats-layout"}
	failed := make(map[string]bool, len(names))
	for _, n := range names {
		failed[n] = true
	}

	result := &types.FormatResult{}
	for _, name := range all {
		check := types.FormatCheck{Name: name, Passed: !failed[name]}
		if failed[name] {
			check.Issue = name + " failed"
			result.Issues = append(result.Issues, check.Issue)
		}
		result.Checks = append(result.Checks, check)
	}
	return result
}

func TestSuggestionPriorityOrder(t *testing.T) {
	gen := NewSuggestionGenerator(8)

	suggestions := gen.Generate(
		&types.KeywordResult{Score: 30, Missing: []string{"kubernetes", "terraform"}},
		&types.SkillsResult{Score: 40, Missing: []string{"docker"}},
		failedChecks("section-headings"),
	)

	categories := make([]string, len(suggestions))
	for i, s := range suggestions {
		categories[i] = s.Category
	}

	// Keyword advice first, then skills, then format
	expected := []string{"keywords", "keywords", "skills", "skills", "format"}
	if !reflect.DeepEqual(categories, expected) {
		t.Errorf("expected category order %v, got %v", expected, categories)
	}
}

func TestSuggestionCap(t *testing.T) {
	gen := NewSuggestionGenerator(3)

	suggestions := gen.Generate(
		&types.KeywordResult{Score: 10, Missing: []string{"kubernetes"}},
		&types.SkillsResult{Score: 10, Missing: []string{"docker"}},
		failedChecks("contact-email", "section-headings", "word-count", "dates", "ats-layout"),
	)

	if len(suggestions) != 3 {
		t.Errorf("expected suggestions capped at 3, got %d", len(suggestions))
	}
}

func TestSuggestionNoAdviceForPassingChecks(t *testing.T) {
	gen := NewSuggestionGenerator(8)

	suggestions := gen.Generate(
		&types.KeywordResult{Score: 90},
		&types.SkillsResult{Score: 100},
		failedChecks(),
	)

	for _, s := range suggestions {
		if s.Category == "format" {
			t.Errorf("unexpected format suggestion with all checks passing: %q", s.Text)
		}
		if s.Category == "skills" {
			t.Errorf("unexpected skills suggestion with full coverage: %q", s.Text)
		}
	}
	// A strong match still gets the fine-tuning nudge
	if len(suggestions) != 1 {
		t.Errorf("expected exactly one suggestion for a strong match, got %v", suggestions)
	}
}

func TestSuggestionMentionsMissingItems(t *testing.T) {
	gen := NewSuggestionGenerator(8)

	suggestions := gen.Generate(
		&types.KeywordResult{Score: 80, Missing: []string{"terraform", "ansible"}},
		&types.SkillsResult{Score: 50, Missing: []string{"docker", "kubernetes"}},
		failedChecks(),
	)

	var keywordText, skillText string
	for _, s := range suggestions {
		switch s.Category {
		case "keywords":
			if keywordText == "" {
				keywordText = s.Text
			}
		case "skills":
			if skillText == "" {
				skillText = s.Text
			}
		}
	}

	if !strings.Contains(keywordText, "terraform") || !strings.Contains(keywordText, "ansible") {
		t.Errorf("keyword suggestion should name the missing keywords, got %q", keywordText)
	}
	if !strings.Contains(skillText, "docker") || !strings.Contains(skillText, "kubernetes") {
		t.Errorf("skill suggestion should name the missing skills, got %q", skillText)
	}
}

func TestSuggestionListsTruncated(t *testing.T) {
	gen := NewSuggestionGenerator(8)

	missing := []string{"one", "two", "three", "four", "five", "six", "seven"}
	suggestions := gen.Generate(
		&types.KeywordResult{Score: 80, Missing: missing},
		&types.SkillsResult{Score: 100},
		failedChecks(),
	)

	if len(suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if strings.Contains(suggestions[0].Text, "six") || strings.Contains(suggestions[0].Text, "seven") {
		t.Errorf("expected missing-keyword list truncated to five items, got %q", suggestions[0].Text)
	}
}

func TestSuggestionDeterminism(t *testing.T) {
	gen := NewSuggestionGenerator(8)
	keywords := &types.KeywordResult{Score: 45, Missing: []string{"spark", "airflow"}}
	skills := &types.SkillsResult{Score: 60, Missing: []string{"kafka"}}
	format := failedChecks("dates", "word-count")

	first := gen.Generate(keywords, skills, format)
	second := gen.Generate(keywords, skills, format)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("suggestions are not deterministic:\n%v\nvs\n%v", first, second)
	}
}
