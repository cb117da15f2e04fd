package types

// AnalyzeResumeInput represents the input for a full resume analysis
type AnalyzeResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle,omitempty"`
	FileName       string `json:"fileName,omitempty"`
}

// ExtractKeywordsInput represents the input for job-description keyword extraction
type ExtractKeywordsInput struct {
	JobDescription string `json:"jobDescription"`
}

// CheckFormatInput represents the input for an ATS format check
type CheckFormatInput struct {
	ResumeText string `json:"resumeText"`
}

// KeywordResult represents the keyword comparison between a resume and a job
// description: the top job-description terms split into matched and missing,
// plus the raw cosine similarity in [0,1]
type KeywordResult struct {
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Keywords   []string `json:"keywords"`
	Similarity float64  `json:"similarity"`
	Score      int      `json:"score"`
}

// CategorySkills represents matched/missing skills for one taxonomy category
type CategorySkills struct {
	Category string   `json:"category"`
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
}

// SkillsResult represents taxonomy coverage of a resume against the skills
// the job description mentions. Skills the job never asks for are excluded
// so candidates are not penalized for unrelated expertise.
type SkillsResult struct {
	Categories []CategorySkills `json:"categories,omitempty"`
	Matched    []string         `json:"matched"`
	Missing    []string         `json:"missing"`
	Score      int              `json:"score"`
}

// FormatCheck represents the outcome of a single ATS formatting heuristic
type FormatCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Issue  string `json:"issue,omitempty"`
}

// FormatResult represents the ATS formatting verdict for a resume
type FormatResult struct {
	Checks []FormatCheck `json:"checks"`
	Issues []string      `json:"issues"`
	Score  int           `json:"score"`
}

// Suggestion represents one piece of improvement advice tied to the gap that
// produced it
type Suggestion struct {
	Text     string `json:"text"`
	Category string `json:"category"` // "keywords", "skills", or "format"
}

// AnalysisResult represents the complete output of one analysis. All scores
// are integers in [0,100]; Score is the weighted combination of the three
// component scores.
type AnalysisResult struct {
	ID              string   `json:"id,omitempty"`
	FileName        string   `json:"fileName,omitempty"`
	JobTitle        string   `json:"jobTitle,omitempty"`
	Score           int      `json:"score"`
	KeywordScore    int      `json:"keywordScore"`
	SkillsScore     int      `json:"skillsScore"`
	FormatScore     int      `json:"formatScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	Suggestions     []string `json:"suggestions"`
	ATSIssues       []string `json:"atsIssues"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

// ComparisonResult represents the diff between two stored analyses
type ComparisonResult struct {
	First           *AnalysisResult `json:"first"`
	Second          *AnalysisResult `json:"second"`
	ScoreDiff       int             `json:"scoreDiff"`
	BetterSide      int             `json:"betterSide"` // 1, 2, or 0 for a tie
	CommonKeywords  []string        `json:"commonKeywords"`
	UniqueKeywords1 []string        `json:"uniqueKeywords1"`
	UniqueKeywords2 []string        `json:"uniqueKeywords2"`
	CommonSkills    []string        `json:"commonSkills"`
	UniqueSkills1   []string        `json:"uniqueSkills1"`
	UniqueSkills2   []string        `json:"uniqueSkills2"`
}

// RecentAnalysis represents one entry in the dashboard's recent list
type RecentAnalysis struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
	Score     int    `json:"score"`
	CreatedAt string `json:"createdAt"`
}

// DashboardSummary represents aggregate statistics over stored analyses
type DashboardSummary struct {
	Total        int              `json:"total"`
	AverageScore int              `json:"averageScore"`
	HighCount    int              `json:"highCount"` // score >= 80
	MidCount     int              `json:"midCount"`  // 50 <= score < 80
	LowCount     int              `json:"lowCount"`  // score < 50
	Recent       []RecentAnalysis `json:"recent"`
}
