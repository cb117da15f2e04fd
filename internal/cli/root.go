package cli

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/engine"
	"resumatch/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumatch",
	Short: "A CLI tool for scoring resumes against job descriptions",
	Long: `Resumatch analyzes how well a resume matches a job description. It scores
keyword overlap, skill coverage, and ATS-friendly formatting, then suggests
concrete improvements. It reads plain text, Markdown, PDF, and DOCX resumes.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// buildEngine constructs the analysis engine from the loaded configuration
func buildEngine(cfg *config.Config, logger *errors.Logger) (*engine.Engine, error) {
	taxonomy, err := cfg.LoadTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	eng, err := engine.New(cfg.EngineSettings(), taxonomy, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis engine: %w", err)
	}
	return eng, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
