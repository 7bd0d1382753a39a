package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// ParsableReporter writes one line per problem for editors and scripts:
//
//	path:line:column: [level] message (rule)
type ParsableReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewParsableReporter creates a new parsable reporter.
func NewParsableReporter(opts Options) *ParsableReporter {
	return &ParsableReporter{opts: opts, bw: bufio.NewWriterSize(opts.Writer, bufWriterSize)}
}

// Report implements Reporter.
func (r *ParsableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		for _, p := range visible(file, r.opts.NoWarnings) {
			message, rule := pretty.Describe(p)
			fmt.Fprintf(r.bw, "%s:%d:%d: [%s] %s", file.Path, p.Line, p.Column, p.Level, message)
			if rule != "" {
				fmt.Fprintf(r.bw, " (%s)", rule)
			}
			fmt.Fprintln(r.bw)
			total++
		}
	}
	return total, nil
}
