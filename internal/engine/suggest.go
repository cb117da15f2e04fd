package engine

import (
	"strings"

	"resumatch/internal/types"
)

// suggestionRule maps one deficiency condition to a canned, parameterized
// piece of advice. Rules live in a fixed table ordered by priority; each rule
// fires at most once per analysis.
type suggestionRule struct {
	category string
	applies  func(ctx *suggestionContext) bool
	render   func(ctx *suggestionContext) string
}

type suggestionContext struct {
	keywords *types.KeywordResult
	skills   *types.SkillsResult
	format   *types.FormatResult
	failed   map[string]bool
}

// SuggestionGenerator produces ordered improvement advice from the component
// results. Output is deterministic: same inputs, same suggestions.
type SuggestionGenerator struct {
	rules []suggestionRule
	cap   int
}

// NewSuggestionGenerator creates a generator capped at maxSuggestions.
// Values below 1 fall back to 8.
func NewSuggestionGenerator(maxSuggestions int) *SuggestionGenerator {
	if maxSuggestions < 1 {
		maxSuggestions = 8
	}
	return &SuggestionGenerator{rules: suggestionRules, cap: maxSuggestions}
}

// Generate evaluates the rule table in priority order: keyword gaps first,
// then skill gaps, then format issues. No suggestion is emitted for a
// passing check; the result is capped.
func (g *SuggestionGenerator) Generate(keywords *types.KeywordResult, skills *types.SkillsResult, format *types.FormatResult) []types.Suggestion {
	ctx := &suggestionContext{
		keywords: keywords,
		skills:   skills,
		format:   format,
		failed:   make(map[string]bool, len(format.Checks)),
	}
	for _, c := range format.Checks {
		if !c.Passed {
			ctx.failed[c.Name] = true
		}
	}

	suggestions := []types.Suggestion{}
	for _, rule := range g.rules {
		if len(suggestions) == g.cap {
			break
		}
		if !rule.applies(ctx) {
			continue
		}
		suggestions = append(suggestions, types.Suggestion{
			Text:     rule.render(ctx),
			Category: rule.category,
		})
	}
	return suggestions
}

// topJoined renders up to n items as a comma-separated list
func topJoined(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

var suggestionRules = []suggestionRule{
	{
		category: "keywords",
		applies:  func(ctx *suggestionContext) bool { return len(ctx.keywords.Missing) > 0 },
		render: func(ctx *suggestionContext) string {
			return "Incorporate these job-description keywords naturally: " + topJoined(ctx.keywords.Missing, 5) + "."
		},
	},
	{
		category: "keywords",
		applies:  func(ctx *suggestionContext) bool { return ctx.keywords.Score < 50 },
		render: func(ctx *suggestionContext) string {
			return "Your resume needs significant tailoring for this role. Review the job description carefully."
		},
	},
	{
		category: "keywords",
		applies:  func(ctx *suggestionContext) bool { return ctx.keywords.Score >= 50 && ctx.keywords.Score < 70 },
		render: func(ctx *suggestionContext) string {
			return "Good foundation. Focus on keyword alignment and quantified achievements."
		},
	},
	{
		category: "keywords",
		applies:  func(ctx *suggestionContext) bool { return ctx.keywords.Score >= 70 },
		render: func(ctx *suggestionContext) string {
			return "Strong match. Fine-tune language to mirror the exact phrasing in the job description."
		},
	},
	{
		category: "skills",
		applies:  func(ctx *suggestionContext) bool { return len(ctx.skills.Missing) > 0 },
		render: func(ctx *suggestionContext) string {
			return "Add these missing skills if you have them: " + topJoined(ctx.skills.Missing, 5) + "."
		},
	},
	{
		category: "skills",
		applies:  func(ctx *suggestionContext) bool { return ctx.skills.Score < 50 && len(ctx.skills.Missing) > 0 },
		render: func(ctx *suggestionContext) string {
			return "The job asks for several skills your resume never mentions. Use the exact skill names from the posting."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["contact-email"] || ctx.failed["contact-phone"] },
		render: func(ctx *suggestionContext) string {
			return "Put your email address and phone number in plain text near the top."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["section-headings"] },
		render: func(ctx *suggestionContext) string {
			return "Use standard section headings such as Experience, Education and Skills."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["word-count"] },
		render: func(ctx *suggestionContext) string {
			return "Aim for one to two pages of focused, relevant content."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["action-verbs"] },
		render: func(ctx *suggestionContext) string {
			return "Start bullet points with strong action verbs and quantify the impact of your work."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["dates"] },
		render: func(ctx *suggestionContext) string {
			return "Use consistent date formatting throughout (e.g. Jan 2022 - Mar 2024)."
		},
	},
	{
		category: "format",
		applies:  func(ctx *suggestionContext) bool { return ctx.failed["ats-layout"] },
		render: func(ctx *suggestionContext) string {
			return "Use a clean single-column layout without tables or decorative characters."
		},
	},
}
