package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and lints them concurrently.
// Per-file failures are recorded on their FileOutcome; the returned error
// is reserved for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles lints files with up to jobs workers. Outcomes keep the order of
// files.
func (r *Runner) RunFiles(ctx context.Context, files []File, jobs int) (*Result, error) {
	logger := logging.FromContext(ctx)

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))
	logger.Debug("linting files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	workCh := make(chan int)
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				outcomes[i] = r.lintFile(ctx, files[i])
				done[i] = true
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	wg.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldProblemsTotal, result.Stats.ProblemsTotal,
	)
	return result, nil
}

// lintFile processes one file and logs its failure, if any.
func (r *Runner) lintFile(ctx context.Context, file File) FileOutcome {
	outcome := FileOutcome{Path: file.Name}
	ctx = logging.WithFile(ctx, file.Name)

	pr, err := r.Pipeline.ProcessFileAs(ctx, file.Path, file.Name)
	outcome.Result = pr
	outcome.Error = err
	if err != nil {
		logFailure(ctx, err)
	}
	if pr != nil {
		for _, w := range pr.Warnings {
			logging.FromContext(ctx).Warn(w)
		}
	}
	return outcome
}

// RunReader lints the content of in, reported as "stdin". Rule ignore
// patterns do not apply to it.
func (r *Runner) RunReader(ctx context.Context, in io.Reader) (*Result, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1
	ctx = logging.WithFile(ctx, StdinName)

	pr, err := r.Pipeline.ProcessContent(ctx, "", content)
	if pr != nil {
		pr.Path = StdinName
	}
	if err != nil {
		logFailure(ctx, err)
	}
	result.accumulate(FileOutcome{Path: StdinName, Result: pr, Error: err})
	return result, nil
}

func logFailure(ctx context.Context, err error) {
	logger := logging.FromContext(ctx)
	var fault *lint.RuleFaultError
	if errors.As(err, &fault) {
		logger.Error("rule failed", logging.FieldError, err)
		return
	}
	logger.Warn("could not lint file", logging.FieldError, err)
}
