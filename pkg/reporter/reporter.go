// Package reporter writes lint results in the supported output formats.
package reporter

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of problems reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := ResolveFormat(opts.Format, opts.Color, opts.Writer)
	switch format {
	case config.FormatStandard:
		return NewTextReporter(opts, false), nil
	case config.FormatColored:
		return NewTextReporter(opts, true), nil
	case config.FormatParsable:
		return NewParsableReporter(opts), nil
	case config.FormatGitHub:
		return NewGitHubReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatSARIF:
		return NewSARIFReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// visible returns the problems of outcome that are shown.
func visible(outcome runner.FileOutcome, noWarnings bool) []lint.Problem {
	if outcome.Result == nil {
		return nil
	}
	if !noWarnings {
		return outcome.Result.Problems
	}
	return slices.DeleteFunc(slices.Clone(outcome.Result.Problems), func(p lint.Problem) bool {
		return p.Level == config.SeverityWarning
	})
}
