package cli

import (
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [resume-file]",
	Short: "Check a resume for ATS formatting problems",
	Long: `Run the ATS formatting battery against a resume without needing a job
description. The checks cover contact details, section headings, resume
length, bullet usage, special characters, and action verbs.

Resume files may be plain text, Markdown, PDF, or DOCX.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if checkConfig.OutputFormat == "" {
			checkConfig.OutputFormat = cfg.App.DefaultFormat
		}
		checkConfig.MaxFileSize = cfg.App.MaxFileSize
		return common.ValidateOutputFormat(checkConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCheck,
}

var checkConfig common.CommandConfig

func init() {
	checkCmd.Flags().StringVarP(&checkConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	checkCmd.Flags().StringVar(&checkConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = checkCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	createInput := func(contents []string) (types.CheckFormatInput, error) {
		if len(contents) != 1 {
			return types.CheckFormatInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.CheckFormatInput{
			ResumeText: contents[0],
		}, nil
	}

	logDetails := func(input types.CheckFormatInput, cfg common.CommandConfig) {
		logger.Info("Starting format check",
			"resume_chars", len(input.ResumeText),
			"output_format", cfg.OutputFormat)
	}

	err = common.RunEngineCommand(
		logger,
		checkConfig,
		args,
		createInput,
		eng.CheckFormat,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to check resume format: %w", err)
	}
	logger.Info("Format check completed successfully")
	return nil
}
