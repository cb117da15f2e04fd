package engine

import (
	"math"
	"regexp"
	"strings"

	"resumatch/internal/types"
)

// skillPattern holds the compiled whole-word patterns for one canonical
// skill: the skill name itself plus any aliases that resolve to it.
type skillPattern struct {
	name     string
	patterns []*regexp.Regexp
}

// SkillsMatcher checks which taxonomy skills a document mentions. Matching is
// case-insensitive, whole-word and alias-aware, and supports multi-word skill
// phrases, so it runs against raw text rather than the token stream.
type SkillsMatcher struct {
	categories   []string
	byCategory   map[string][]skillPattern
	neutralScore int
}

// '+' and '#' are part of skill names ("c++", "c#"), so they count as word
// characters when deciding boundaries. This keeps "c" from matching inside
// "c++" and "java" inside "javascript". '.' stays a boundary so a skill at
// the end of a sentence ("...and aws.") still matches; dotted terms like
// "node.js" are unaffected because the dot is quoted into the term itself.
const boundaryClass = `[^a-z0-9+#]`

func compileSkillPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|` + boundaryClass + `)` +
		regexp.QuoteMeta(term) + `(?:` + boundaryClass + `|$)`)
}

// NewSkillsMatcher compiles matchers for every skill in the taxonomy.
// The taxonomy must already be validated.
func NewSkillsMatcher(taxonomy *Taxonomy, neutralScore int) *SkillsMatcher {
	aliasesFor := make(map[string][]string, len(taxonomy.Aliases))
	for alias, canonical := range taxonomy.Aliases {
		key := strings.ToLower(canonical)
		aliasesFor[key] = append(aliasesFor[key], strings.ToLower(alias))
	}

	m := &SkillsMatcher{
		categories:   make([]string, 0, len(taxonomy.Categories)),
		byCategory:   make(map[string][]skillPattern, len(taxonomy.Categories)),
		neutralScore: neutralScore,
	}

	for _, cat := range taxonomy.Categories {
		m.categories = append(m.categories, cat.Name)
		patterns := make([]skillPattern, 0, len(cat.Skills))
		for _, skill := range cat.Skills {
			name := strings.ToLower(strings.TrimSpace(skill))
			sp := skillPattern{
				name:     name,
				patterns: []*regexp.Regexp{compileSkillPattern(name)},
			}
			for _, alias := range aliasesFor[name] {
				sp.patterns = append(sp.patterns, compileSkillPattern(alias))
			}
			patterns = append(patterns, sp)
		}
		m.byCategory[cat.Name] = patterns
	}

	return m
}

// mentions reports whether the skill or any of its aliases appears in text
func (sp *skillPattern) mentions(text string) bool {
	for _, p := range sp.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Match determines per category which job-description skills the resume
// covers. Skills the job never mentions are excluded from scoring, so a
// resume is not penalized for expertise the job does not ask for. A job
// description mentioning zero taxonomy skills yields the neutral score.
func (m *SkillsMatcher) Match(resumeText, jdText string) *types.SkillsResult {
	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jdText)

	result := &types.SkillsResult{
		Matched: []string{},
		Missing: []string{},
	}
	relevant := 0
	matched := 0

	for _, category := range m.categories {
		cs := types.CategorySkills{Category: category}
		for i := range m.byCategory[category] {
			sp := &m.byCategory[category][i]
			if !sp.mentions(jdLower) {
				continue
			}
			relevant++
			if sp.mentions(resumeLower) {
				matched++
				cs.Matched = append(cs.Matched, sp.name)
				result.Matched = append(result.Matched, sp.name)
			} else {
				cs.Missing = append(cs.Missing, sp.name)
				result.Missing = append(result.Missing, sp.name)
			}
		}
		if len(cs.Matched) > 0 || len(cs.Missing) > 0 {
			result.Categories = append(result.Categories, cs)
		}
	}

	if relevant == 0 {
		result.Score = m.neutralScore
	} else {
		result.Score = int(math.Round(100 * float64(matched) / float64(relevant)))
	}

	return result
}
