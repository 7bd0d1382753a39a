package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// GitHubReporter writes GitHub Actions workflow commands, so problems show
// up as annotations on the pull request. Each file is a collapsible group.
type GitHubReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewGitHubReporter creates a new GitHub Actions reporter.
func NewGitHubReporter(opts Options) *GitHubReporter {
	return &GitHubReporter{opts: opts, bw: bufio.NewWriterSize(opts.Writer, bufWriterSize)}
}

// Report implements Reporter.
func (r *GitHubReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

		fmt.Fprintf(r.bw, "::group::%s\n", file.Path)
		for _, p := range problems {
			message, rule := pretty.Describe(p)
			fmt.Fprintf(r.bw, "::%s file=%s,line=%d,col=%d::%d:%d ", p.Level, file.Path, p.Line, p.Column, p.Line, p.Column)
			if rule != "" {
				fmt.Fprintf(r.bw, "[%s] ", rule)
			}
			fmt.Fprintln(r.bw, message)
		}
		fmt.Fprintln(r.bw, "::endgroup::")
		fmt.Fprintln(r.bw)
		total += len(problems)
	}
	return total, nil
}
