package cli

import (
	"errors"

	"github.com/yaklabco/goyamllint/pkg/runner"
)

// Exit codes for goyamllint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors, syntax
	// errors included.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage or configuration.
	ExitInvalidUsage = 3

	// ExitConfigError indicates configuration errors.
	ExitConfigError = ExitInvalidUsage

	// ExitInternalError indicates a file could not be linted, by an I/O
	// error or a failing rule.
	ExitInternalError = 4
)

// ErrLintIssuesFound is returned when lint issues are found.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are internal errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Files that could not be linted take precedence over problems.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitInternalError
	case result.HasErrors():
		return ExitLintErrors
	case strict && result.HasWarnings():
		return ExitLintWarnings
	}
	return ExitSuccess
}
