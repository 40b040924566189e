package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// Exit codes for factform CLI
const (
	// ExitSuccess indicates the operation ran; HTTP failures are reported, not escalated
	ExitSuccess = 0

	// ExitFailure indicates an unexpected error
	ExitFailure = 1

	// ExitParseError indicates the page file could not be read or parsed
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the exit code a command failed with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func usageError(err error) error  { return withExitCode(ExitUsageError, err) }
func parseError(err error) error  { return withExitCode(ExitParseError, err) }
func configError(err error) error { return withExitCode(ExitConfigError, err) }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(validate(cmd, args))
	}
}
