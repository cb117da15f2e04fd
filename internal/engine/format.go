package engine

import (
	"math"
	"regexp"
	"strings"

	"resumatch/internal/types"
)

var (
	emailPattern       = regexp.MustCompile(`(?i)\b[\w.+-]+@[\w-]+\.[a-z]{2,}\b`)
	phonePattern       = regexp.MustCompile(`\+?[\d\s()\-]{7,15}`)
	yearPattern        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthYearPattern   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`)
	numericDatePattern = regexp.MustCompile(`\b\d{1,2}/\d{4}\b`)
	tableRowPattern    = regexp.MustCompile(`\|.+\|`)
	glyphPattern       = regexp.MustCompile(`[★✓✔➤►●▪▸]`)
	columnGapPattern   = regexp.MustCompile(`\S {5,}\S`)
)

var sectionHeadings = []string{
	"experience", "education", "skills", "summary", "objective",
	"projects", "certifications", "achievements",
}

var actionVerbs = []string{
	"led", "built", "designed", "managed", "developed", "implemented",
	"improved", "reduced", "increased", "achieved", "created", "delivered",
	"launched", "optimized", "automated", "migrated",
}

// FormatChecker runs a fixed battery of independent ATS formatting
// heuristics against raw resume text. Checks always run in the same order,
// so issue lists are stable across calls.
type FormatChecker struct {
	minWords int
	maxWords int
	verbs    map[string]struct{}
}

// NewFormatChecker creates a checker with the given acceptable word-count
// range. Non-positive bounds fall back to 150 and 1200.
func NewFormatChecker(minWords, maxWords int) *FormatChecker {
	if minWords <= 0 {
		minWords = 150
	}
	if maxWords <= 0 {
		maxWords = 1200
	}
	verbs := make(map[string]struct{}, len(actionVerbs))
	for _, v := range actionVerbs {
		verbs[v] = struct{}{}
	}
	return &FormatChecker{minWords: minWords, maxWords: maxWords, verbs: verbs}
}

// Check runs every heuristic and reports per-check outcomes, the collected
// issue texts in check order, and the proportional score.
func (f *FormatChecker) Check(resumeText string) *types.FormatResult {
	checks := []types.FormatCheck{
		f.checkEmail(resumeText),
		f.checkPhone(resumeText),
		f.checkHeadings(resumeText),
		f.checkWordCount(resumeText),
		f.checkActionVerbs(resumeText),
		f.checkDates(resumeText),
		f.checkATSHostile(resumeText),
	}

	passed := 0
	issues := []string{}
	for _, c := range checks {
		if c.Passed {
			passed++
		} else {
			issues = append(issues, c.Issue)
		}
	}

	return &types.FormatResult{
		Checks: checks,
		Issues: issues,
		Score:  int(math.Round(100 * float64(passed) / float64(len(checks)))),
	}
}

func (f *FormatChecker) checkEmail(text string) types.FormatCheck {
	c := types.FormatCheck{Name: "contact-email", Passed: emailPattern.MatchString(text)}
	if !c.Passed {
		c.Issue = "No email address detected. Make sure your contact info is in plain text."
	}
	return c
}

func (f *FormatChecker) checkPhone(text string) types.FormatCheck {
	c := types.FormatCheck{Name: "contact-phone", Passed: phonePattern.MatchString(text)}
	if !c.Passed {
		c.Issue = "No phone number detected. Ensure contact details are ATS-readable."
	}
	return c
}

func (f *FormatChecker) checkHeadings(text string) types.FormatCheck {
	lower := strings.ToLower(text)
	found := 0
	for _, h := range sectionHeadings {
		if strings.Contains(lower, h) {
			found++
		}
	}
	c := types.FormatCheck{Name: "section-headings", Passed: found >= 2}
	if !c.Passed {
		c.Issue = "Key sections (Experience, Education, Skills) not detected. Use standard headings."
	}
	return c
}

func (f *FormatChecker) checkWordCount(text string) types.FormatCheck {
	words := len(strings.Fields(text))
	c := types.FormatCheck{Name: "word-count", Passed: words >= f.minWords && words <= f.maxWords}
	if !c.Passed {
		if words < f.minWords {
			c.Issue = "Resume seems very short. Consider adding more detail to relevant sections."
		} else {
			c.Issue = "Resume is very long and likely exceeds the recommended length. Trim to the most relevant content."
		}
	}
	return c
}

// checkActionVerbs looks at bullet-like lines and requires at least one of
// them to open with a strong action verb. A resume without bullet lines
// passes; prose resumes are judged by the other checks.
func (f *FormatChecker) checkActionVerbs(text string) types.FormatCheck {
	bullets := 0
	withVerb := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, isBullet := strings.CutPrefix(trimmed, "-")
		if !isBullet {
			rest, isBullet = strings.CutPrefix(trimmed, "*")
		}
		if !isBullet {
			rest, isBullet = strings.CutPrefix(trimmed, "•")
		}
		if !isBullet {
			continue
		}
		bullets++
		fields := strings.Fields(strings.ToLower(rest))
		if len(fields) == 0 {
			continue
		}
		if _, ok := f.verbs[fields[0]]; ok {
			withVerb++
		}
	}

	c := types.FormatCheck{Name: "action-verbs", Passed: bullets == 0 || withVerb > 0}
	if !c.Passed {
		c.Issue = "Start bullet points with strong action verbs: led, built, designed, reduced, delivered."
	}
	return c
}

// checkDates requires at least one four-digit year and flags resumes that
// mix textual (Jan 2022) and numeric (01/2022) date styles.
func (f *FormatChecker) checkDates(text string) types.FormatCheck {
	hasYear := yearPattern.MatchString(text)
	mixedStyles := monthYearPattern.MatchString(text) && numericDatePattern.MatchString(text)

	c := types.FormatCheck{Name: "dates", Passed: hasYear && !mixedStyles}
	if !c.Passed {
		if !hasYear {
			c.Issue = "No employment dates detected. Include years for each role."
		} else {
			c.Issue = "Inconsistent date formatting detected. Use one style throughout (e.g. Jan 2022 - Mar 2024)."
		}
	}
	return c
}

func (f *FormatChecker) checkATSHostile(text string) types.FormatCheck {
	var issue string
	switch {
	case tableRowPattern.MatchString(text):
		issue = "Avoid tables. ATS parsers may skip content inside them."
	case glyphPattern.MatchString(text):
		issue = "Replace special bullet characters with plain hyphens or asterisks."
	case columnGapPattern.MatchString(text):
		issue = "Wide gaps suggest a multi-column layout. Use a clean single-column layout for better ATS compatibility."
	}

	c := types.FormatCheck{Name: "ats-layout", Passed: issue == ""}
	c.Issue = issue
	return c
}
