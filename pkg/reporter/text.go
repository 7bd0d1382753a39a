package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// TextReporter writes problems grouped under their file name, in plain
// text or colored with lipgloss.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options, color bool) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStylesFor(opts.Writer, color),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Files without visible problems are not listed.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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
		problems := visible(file, r.opts.NoWarnings)
		if len(problems) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path))
		for _, p := range problems {
			fmt.Fprintln(r.bw, r.styles.FormatProblem(p))
		}
		fmt.Fprintln(r.bw)
		total += len(problems)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
