package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordResult", &KeywordTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordResult", &KeywordMarkdownFormatter{})
	registry.RegisterFormatter("text", "FormatResult", &FormatCheckTextFormatter{})
	registry.RegisterFormatter("markdown", "FormatResult", &FormatCheckMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	case types.KeywordResult, *types.KeywordResult:
		return "KeywordResult"
	case types.FormatResult, *types.FormatResult:
		return "FormatResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asAnalysisResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return &v, nil
	case *types.AnalysisResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
	}
}

func asKeywordResult(data any) (*types.KeywordResult, error) {
	switch v := data.(type) {
	case types.KeywordResult:
		return &v, nil
	case *types.KeywordResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected KeywordResult, got %T", data)
	}
}

func asFormatResult(data any) (*types.FormatResult, error) {
	switch v := data.(type) {
	case types.FormatResult:
		return &v, nil
	case *types.FormatResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected FormatResult, got %T", data)
	}
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	if result.JobTitle != "" {
		output.WriteString(fmt.Sprintf("Job Title: %s\n", result.JobTitle))
	}
	if result.FileName != "" {
		output.WriteString(fmt.Sprintf("Resume: %s\n", result.FileName))
	}
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.Score))

	output.WriteString("=== COMPONENT SCORES ===\n")
	output.WriteString(fmt.Sprintf("Keywords: %d/100\n", result.KeywordScore))
	output.WriteString(fmt.Sprintf("Skills:   %d/100\n", result.SkillsScore))
	output.WriteString(fmt.Sprintf("Format:   %d/100\n\n", result.FormatScore))

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("Matched Keywords:\n")
		for _, kw := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing Keywords:\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(result.MatchedSkills) > 0 {
		output.WriteString("Matched Skills:\n")
		for _, skill := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.ATSIssues) > 0 {
		output.WriteString("=== FORMAT ISSUES ===\n")
		for _, issue := range result.ATSIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	if result.JobTitle != "" {
		output.WriteString(fmt.Sprintf("**Job Title:** %s\n\n", result.JobTitle))
	}
	if result.FileName != "" {
		output.WriteString(fmt.Sprintf("**Resume:** %s\n\n", result.FileName))
	}
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.Score))

	output.WriteString("## Component Scores\n\n")
	output.WriteString(fmt.Sprintf("| Component | Score |\n|---|---|\n| Keywords | %d |\n| Skills | %d |\n| Format | %d |\n\n",
		result.KeywordScore, result.SkillsScore, result.FormatScore))

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		for _, kw := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, kw := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", kw))
		}
		output.WriteString("\n")
	}

	if len(result.MatchedSkills) > 0 {
		output.WriteString("## Matched Skills\n\n")
		for _, skill := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.ATSIssues) > 0 {
		output.WriteString("## Format Issues\n\n")
		for _, issue := range result.ATSIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// KeywordTextFormatter handles text formatting for keyword extraction results
type KeywordTextFormatter struct{}

func (ktf *KeywordTextFormatter) Format(data any) (string, error) {
	result, err := asKeywordResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== JOB DESCRIPTION KEYWORDS ===\n\n")
	for i, kw := range result.Keywords {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, kw))
	}

	return output.String(), nil
}

func (ktf *KeywordTextFormatter) SupportedType() string {
	return "KeywordResult"
}

// KeywordMarkdownFormatter handles markdown formatting for keyword extraction results
type KeywordMarkdownFormatter struct{}

func (kmf *KeywordMarkdownFormatter) Format(data any) (string, error) {
	result, err := asKeywordResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Job Description Keywords\n\n")
	for i, kw := range result.Keywords {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, kw))
	}

	return output.String(), nil
}

func (kmf *KeywordMarkdownFormatter) SupportedType() string {
	return "KeywordResult"
}

// FormatCheckTextFormatter handles text formatting for format check results
type FormatCheckTextFormatter struct{}

func (fcf *FormatCheckTextFormatter) Format(data any) (string, error) {
	result, err := asFormatResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== FORMAT CHECK ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.Score))

	for _, check := range result.Checks {
		status := "PASS"
		if !check.Passed {
			status = "FAIL"
		}
		output.WriteString(fmt.Sprintf("[%s] %s\n", status, check.Name))
		if !check.Passed && check.Issue != "" {
			output.WriteString(fmt.Sprintf("       %s\n", check.Issue))
		}
	}

	return output.String(), nil
}

func (fcf *FormatCheckTextFormatter) SupportedType() string {
	return "FormatResult"
}

// FormatCheckMarkdownFormatter handles markdown formatting for format check results
type FormatCheckMarkdownFormatter struct{}

func (fcm *FormatCheckMarkdownFormatter) Format(data any) (string, error) {
	result, err := asFormatResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Format Check\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score))

	output.WriteString("| Check | Status | Issue |\n|---|---|---|\n")
	for _, check := range result.Checks {
		status := "pass"
		if !check.Passed {
			status = "fail"
		}
		output.WriteString(fmt.Sprintf("| %s | %s | %s |\n", check.Name, status, check.Issue))
	}

	return output.String(), nil
}

func (fcm *FormatCheckMarkdownFormatter) SupportedType() string {
	return "FormatResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
