package engine

import (
	"strings"

	"resumatch/internal/errors"
	"resumatch/internal/types"
)

// Config holds the engine's tunable knobs. Zero values select the defaults
// noted per field.
type Config struct {
	TopKeywords       int     // top-N job-description keywords (default 25)
	MinJobDescLength  int     // minimum job-description length in characters (default 50)
	NeutralSkillScore int     // skills score when the job mentions no taxonomy skills (default 100)
	MaxSuggestions    int     // suggestion cap (default 8)
	MinResumeWords    int     // acceptable word-count lower bound (default 150)
	MaxResumeWords    int     // acceptable word-count upper bound (default 1200)
	Singularize       bool    // collapse plural tokens during normalization
	Weights           Weights // component score weights (default 0.6/0.2/0.2)
	Stopwords         []string
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		TopKeywords:       25,
		MinJobDescLength:  50,
		NeutralSkillScore: 100,
		MaxSuggestions:    8,
		MinResumeWords:    150,
		MaxResumeWords:    1200,
		Singularize:       true,
		Weights:           DefaultWeights(),
	}
}

// Engine runs the full analysis pipeline. It is purely functional per call:
// immutable inputs in, a fresh AnalysisResult out, no shared mutable state,
// so one Engine serves any number of concurrent callers.
type Engine struct {
	cfg        Config
	keywords   *KeywordScorer
	skills     *SkillsMatcher
	format     *FormatChecker
	suggester  *SuggestionGenerator
	aggregator *Aggregator
	logger     *errors.Logger
}

// New builds an engine from the configuration and a validated taxonomy.
// An invalid taxonomy or weight set is a configuration error; the engine
// refuses to start rather than degrade.
func New(cfg Config, taxonomy *Taxonomy, logger *errors.Logger) (*Engine, error) {
	if cfg.TopKeywords <= 0 {
		cfg.TopKeywords = 25
	}
	if cfg.MinJobDescLength <= 0 {
		cfg.MinJobDescLength = 50
	}
	if cfg.NeutralSkillScore <= 0 {
		cfg.NeutralSkillScore = 100
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 8
	}
	zero := Weights{}
	if cfg.Weights == zero {
		cfg.Weights = DefaultWeights()
	}
	if !cfg.Weights.Valid() {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"score weights must be non-negative and sum to 1", nil)
	}

	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}

	normalizer := NewNormalizer(cfg.Stopwords, cfg.Singularize)

	return &Engine{
		cfg:        cfg,
		keywords:   NewKeywordScorer(normalizer, cfg.TopKeywords),
		skills:     NewSkillsMatcher(taxonomy, cfg.NeutralSkillScore),
		format:     NewFormatChecker(cfg.MinResumeWords, cfg.MaxResumeWords),
		suggester:  NewSuggestionGenerator(cfg.MaxSuggestions),
		aggregator: NewAggregator(cfg.Weights),
		logger:     logger,
	}, nil
}

// Analyze runs the complete pipeline and assembles the immutable result.
// Either the whole analysis succeeds or a validation error is returned;
// no partial results are produced.
func (e *Engine) Analyze(input types.AnalyzeResumeInput) (*types.AnalysisResult, error) {
	if err := e.validate(input.ResumeText, input.JobDescription); err != nil {
		return nil, err
	}

	keywords := e.keywords.Score(input.ResumeText, input.JobDescription)
	skills := e.skills.Match(input.ResumeText, input.JobDescription)
	format := e.format.Check(input.ResumeText)

	score := e.aggregator.Aggregate(keywords.Score, skills.Score, format.Score)
	suggestions := e.suggester.Generate(keywords, skills, format)

	texts := make([]string, len(suggestions))
	for i, s := range suggestions {
		texts[i] = s.Text
	}

	if e.logger != nil {
		e.logger.Debug("analysis complete",
			"score", score,
			"keyword_score", keywords.Score,
			"skills_score", skills.Score,
			"format_score", format.Score)
	}

	return &types.AnalysisResult{
		FileName:        input.FileName,
		JobTitle:        input.JobTitle,
		Score:           score,
		KeywordScore:    keywords.Score,
		SkillsScore:     skills.Score,
		FormatScore:     format.Score,
		MatchedKeywords: keywords.Matched,
		MissingKeywords: keywords.Missing,
		MatchedSkills:   skills.Matched,
		MissingSkills:   skills.Missing,
		Suggestions:     texts,
		ATSIssues:       format.Issues,
	}, nil
}

// Keywords extracts and partitions job-description keywords without running
// the full pipeline. An empty resume is allowed here; matched is then empty.
func (e *Engine) Keywords(input types.ExtractKeywordsInput) (*types.KeywordResult, error) {
	if err := e.validateJobDescription(input.JobDescription); err != nil {
		return nil, err
	}
	return e.keywords.Score("", input.JobDescription), nil
}

// CheckFormat runs only the ATS formatting battery
func (e *Engine) CheckFormat(input types.CheckFormatInput) (*types.FormatResult, error) {
	if strings.TrimSpace(input.ResumeText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyResume,
			"resume text is empty", nil)
	}
	return e.format.Check(input.ResumeText), nil
}

func (e *Engine) validate(resumeText, jobDescription string) error {
	if strings.TrimSpace(resumeText) == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyResume,
			"resume text is empty", nil)
	}
	return e.validateJobDescription(jobDescription)
}

func (e *Engine) validateJobDescription(jobDescription string) error {
	trimmed := strings.TrimSpace(jobDescription)
	if trimmed == "" {
		return errors.NewValidationError(errors.ErrCodeEmptyJobDesc,
			"job description is empty", nil)
	}
	if len(trimmed) < e.cfg.MinJobDescLength {
		return errors.NewValidationError(errors.ErrCodeJobDescTooShort,
			"job description is too short to analyze", nil).
			WithContext("min_length", e.cfg.MinJobDescLength).
			WithContext("length", len(trimmed))
	}
	return nil
}
