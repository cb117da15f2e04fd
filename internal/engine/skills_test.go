package engine

import (
	"strings"
	"testing"
)

func testTaxonomy() *Taxonomy {
	return &Taxonomy{
		Categories: []Category{
			{Name: "languages", Skills: []string{"python", "go", "c++", "java", "node.js"}},
			{Name: "databases", Skills: []string{"postgresql", "redis"}},
			{Name: "data", Skills: []string{"machine learning"}},
		},
		Aliases: map[string]string{
			"golang":   "go",
			"postgres": "postgresql",
		},
	}
}

func TestSkillsMatcher(t *testing.T) {
	matcher := NewSkillsMatcher(testTaxonomy(), 100)

	tests := []struct {
		name            string
		resume          string
		jd              string
		expectedScore   int
		expectedMatched []string
		expectedMissing []string
	}{
		{
			name:            "full coverage",
			resume:          "Python and Go services backed by PostgreSQL",
			jd:              "Requires Python, Go, and PostgreSQL",
			expectedScore:   100,
			expectedMatched: []string{"python", "go", "postgresql"},
			expectedMissing: []string{},
		},
		{
			name:            "partial coverage",
			resume:          "Python developer",
			jd:              "Requires Python and Redis experience",
			expectedScore:   50,
			expectedMatched: []string{"python"},
			expectedMissing: []string{"redis"},
		},
		{
			name:            "no relevant skills yields neutral score",
			resume:          "Python developer",
			jd:              "Looking for a motivated self starter",
			expectedScore:   100,
			expectedMatched: []string{},
			expectedMissing: []string{},
		},
		{
			name:            "irrelevant resume skills are not counted",
			resume:          "Expert in Python, Go, Redis, and machine learning",
			jd:              "Requires Python",
			expectedScore:   100,
			expectedMatched: []string{"python"},
			expectedMissing: []string{},
		},
		{
			name:            "alias matches canonical skill",
			resume:          "Golang services on Postgres",
			jd:              "Requires Go and PostgreSQL",
			expectedScore:   100,
			expectedMatched: []string{"go", "postgresql"},
			expectedMissing: []string{},
		},
		{
			name:            "multi-word skill phrase",
			resume:          "Applied machine learning to fraud detection",
			jd:              "Background in machine learning required",
			expectedScore:   100,
			expectedMatched: []string{"machine learning"},
			expectedMissing: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Match(tt.resume, tt.jd)

			if result.Score != tt.expectedScore {
				t.Errorf("expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if !sameStrings(result.Matched, tt.expectedMatched) {
				t.Errorf("expected matched %v, got %v", tt.expectedMatched, result.Matched)
			}
			if !sameStrings(result.Missing, tt.expectedMissing) {
				t.Errorf("expected missing %v, got %v", tt.expectedMissing, result.Missing)
			}
		})
	}
}

func TestSkillsMatcherWholeWord(t *testing.T) {
	matcher := NewSkillsMatcher(testTaxonomy(), 100)

	tests := []struct {
		name      string
		resume    string
		jd        string
		wantMatch bool
	}{
		{
			name:      "go does not match inside words",
			resume:    "Gopher mascot on an ongoing goal",
			jd:        "Requires Go",
			wantMatch: false,
		},
		{
			name:      "java does not match javascript",
			resume:    "JavaScript frontend work",
			jd:        "Requires Java",
			wantMatch: false,
		},
		{
			name:      "c++ matches literally",
			resume:    "Systems programming in C++ since 2015",
			jd:        "Requires C++",
			wantMatch: true,
		},
		{
			name:      "punctuation delimits skills",
			resume:    "Python, Go, and Redis.",
			jd:        "Requires Go",
			wantMatch: true,
		},
		{
			name:      "skill at end of sentence",
			resume:    "Deployed Django applications on AWS and PostgreSQL.",
			jd:        "Experience with PostgreSQL.",
			wantMatch: true,
		},
		{
			name:      "dotted skill with trailing period",
			resume:    "Built backend services in Node.js.",
			jd:        "Requires Node.js",
			wantMatch: true,
		},
		{
			name:      "dotted skill does not match partial term",
			resume:    "Worked with node tooling",
			jd:        "Requires Node.js",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Match(tt.resume, tt.jd)
			if got := len(result.Matched) > 0; got != tt.wantMatch {
				t.Errorf("expected match=%v, got matched=%v missing=%v",
					tt.wantMatch, result.Matched, result.Missing)
			}
		})
	}
}

func TestSkillsMatcherCategories(t *testing.T) {
	matcher := NewSkillsMatcher(testTaxonomy(), 100)

	result := matcher.Match(
		"Python services with PostgreSQL",
		"Requires Python, Go, and PostgreSQL",
	)

	if len(result.Categories) != 2 {
		t.Fatalf("expected 2 categories with relevant skills, got %d", len(result.Categories))
	}
	if result.Categories[0].Category != "languages" {
		t.Errorf("expected taxonomy category order, got %q first", result.Categories[0].Category)
	}
	if !sameStrings(result.Categories[0].Missing, []string{"go"}) {
		t.Errorf("expected go missing in languages, got %v", result.Categories[0].Missing)
	}
}

func TestSkillsMatcherCustomNeutralScore(t *testing.T) {
	matcher := NewSkillsMatcher(testTaxonomy(), 70)

	result := matcher.Match("Python developer", "No technology mentioned here")

	if result.Score != 70 {
		t.Errorf("expected configured neutral score 70, got %d", result.Score)
	}
}

func TestTaxonomyValidate(t *testing.T) {
	tests := []struct {
		name        string
		taxonomy    *Taxonomy
		expectError bool
	}{
		{
			name:     "valid taxonomy",
			taxonomy: testTaxonomy(),
		},
		{
			name:        "no categories",
			taxonomy:    &Taxonomy{},
			expectError: true,
		},
		{
			name: "empty category name",
			taxonomy: &Taxonomy{
				Categories: []Category{{Name: " ", Skills: []string{"python"}}},
			},
			expectError: true,
		},
		{
			name: "category without skills",
			taxonomy: &Taxonomy{
				Categories: []Category{{Name: "languages"}},
			},
			expectError: true,
		},
		{
			name: "duplicate skill across categories",
			taxonomy: &Taxonomy{
				Categories: []Category{
					{Name: "languages", Skills: []string{"python"}},
					{Name: "data", Skills: []string{"python"}},
				},
			},
			expectError: true,
		},
		{
			name: "alias to unknown skill",
			taxonomy: &Taxonomy{
				Categories: []Category{{Name: "languages", Skills: []string{"python"}}},
				Aliases:    map[string]string{"py": "perl"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.taxonomy.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestDefaultTaxonomy(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	if err := taxonomy.Validate(); err != nil {
		t.Fatalf("default taxonomy failed validation: %v", err)
	}
	if len(taxonomy.Categories) != 8 {
		t.Errorf("expected 8 categories, got %d", len(taxonomy.Categories))
	}
	if count := taxonomy.SkillCount(); count < 150 {
		t.Errorf("expected at least 150 skills, got %d", count)
	}
}

func sameStrings(got, expected []string) bool {
	if len(got) != len(expected) {
		return false
	}
	for i := range got {
		if got[i] != expected[i] {
			return false
		}
	}
	return true
}

func BenchmarkSkillsMatch(b *testing.B) {
	matcher := NewSkillsMatcher(DefaultTaxonomy(), 100)
	resume := strings.Repeat("Python developer building Django services on PostgreSQL and AWS. ", 10)
	jd := "Looking for a Python developer with Django, PostgreSQL, Docker, and Kubernetes experience."

	for b.Loop() {
		matcher.Match(resume, jd)
	}
}
