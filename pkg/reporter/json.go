package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

// jsonSchemaVersion identifies the layout of JSONOutput.
const jsonSchemaVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Encoding string        `json:"encoding,omitempty"`
	Problems []JSONProblem `json:"problems"`
	Error    string        `json:"error,omitempty"`
}

// JSONProblem represents a single problem.
type JSONProblem struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Level   string `json:"level"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Syntax  bool   `json:"syntax,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	TotalProblems   int            `json:"totalProblems"`
	ByLevel         map[string]int `json:"byLevel"`
}

// JSONReporter formats results as JSON. Every file is listed, with or
// without problems.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalProblems, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByLevel: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{Path: file.Path, Problems: make([]JSONProblem, 0)}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}
		if file.Result != nil {
			fileResult.Encoding = string(file.Result.Encoding)
		}

		for _, p := range visible(file, r.opts.NoWarnings) {
			fileResult.Problems = append(fileResult.Problems, JSONProblem{
				Line:    p.Line,
				Column:  p.Column,
				Level:   string(p.Level),
				Rule:    p.RuleID,
				Message: p.Message,
				Syntax:  p.Class == lint.ClassSyntax,
			})
			output.Summary.TotalProblems++

			level := p.Level
			if level == "" {
				level = config.SeverityError
			}
			output.Summary.ByLevel[string(level)]++
		}

		if len(fileResult.Problems) > 0 {
			output.Summary.FilesWithIssues++
		}
		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}
