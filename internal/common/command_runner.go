package common

import (
	"fmt"

	"resumatch/internal/errors"
)

// CreateInputFunc defines how to create the specific engine input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// EngineOperationFunc is a generic function signature for any engine operation.
type EngineOperationFunc[Input, Output any] func(Input) (Output, error)

// RunEngineCommand encapsulates the common logic for file-based CLI commands:
// read and extract the input files, build the engine input, run the
// operation, and hand the result to the output formatter.
func RunEngineCommand[Input, Output any](
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation EngineOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ExtractAndReadFiles(cmdConfig.MaxFileSize, args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := operation(input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
