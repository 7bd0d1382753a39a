package runner

import (
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the display path: relative to the working directory when the
	// file lies below it, "stdin" for standard input.
	Path string

	// Result contains the pipeline result for this file. It is kept on a
	// rule fault so the problems found before the fault are reported.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed completely.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files linted without error.
	FilesProcessed int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one problem.
	FilesWithIssues int

	// ProblemsTotal is the total number of problems across all files.
	ProblemsTotal int

	// ProblemsByLevel maps levels to counts.
	ProblemsByLevel map[config.Severity]int

	// SyntaxErrors is the number of files that failed to scan.
	SyntaxErrors int

	// BlocksLinted is the number of Markdown code blocks linted.
	BlocksLinted int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any error-level problem occurred.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.ProblemsByLevel[config.SeverityError] > 0
}

// HasWarnings reports whether any warning-level problem occurred.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.ProblemsByLevel[config.SeverityWarning] > 0
}

// HasFailures reports whether any file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		ProblemsByLevel: make(map[config.Severity]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
	} else {
		r.Stats.FilesProcessed++
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.BlocksLinted += pr.Blocks
	r.Stats.ProblemsTotal += len(pr.Problems)
	if len(pr.Problems) > 0 {
		r.Stats.FilesWithIssues++
	}

	syntax := false
	for _, p := range pr.Problems {
		r.Stats.ProblemsByLevel[p.Level]++
		if p.Class == lint.ClassSyntax {
			syntax = true
		}
	}
	if syntax {
		r.Stats.SyntaxErrors++
	}
}
