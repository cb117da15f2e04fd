package cli

import (
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [job-description-file]",
	Short: "Extract the most important keywords from a job description",
	Long: `Extract the top keywords a job description asks for, ranked by TF-IDF
weight. Use this to see what an applicant tracking system is likely to scan
for before tailoring a resume.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if keywordsConfig.OutputFormat == "" {
			keywordsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		keywordsConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(keywordsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runKeywords,
}

var keywordsConfig common.CommandConfig

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	keywordsCmd.Flags().StringVar(&keywordsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = keywordsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (types.ExtractKeywordsInput, error) {
		if len(contents) != 1 {
			return types.ExtractKeywordsInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.ExtractKeywordsInput{
			JobDescription: contents[0],
		}, nil
	}

	logDetails := func(input types.ExtractKeywordsInput, cfg common.CommandConfig) {
		logger.Info("Starting keyword extraction",
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	err = common.RunEngineCommand(
		logger,
		keywordsConfig,
		args,
		createInput,
		eng.Keywords,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract keywords: %w", err)
	}
	logger.Info("Keyword extraction completed successfully")
	return nil
}
