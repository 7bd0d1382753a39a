package scanner

import (
	"fmt"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// ScanError is a lexical error. Mark is where the scanner detected the
// problem; ContextMark points at the construct being scanned, when known.
type ScanError struct {
	Context     string
	ContextMark yamlast.Mark
	Problem     string
	Mark        yamlast.Mark
}

func (e *ScanError) Error() string {
	pos := e.Mark.Position()
	if e.Context != "" {
		return fmt.Sprintf("%d:%d: %s (%s)", pos.Line, pos.Column, e.Problem, e.Context)
	}
	return fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, e.Problem)
}

// Position returns the 1-based position where the error was detected.
func (e *ScanError) Position() yamlast.Position {
	return e.Mark.Position()
}

// Description returns the problem without position or context.
func (e *ScanError) Description() string {
	return e.Problem
}

func (s *scanner) errorf(format string, args ...any) *ScanError {
	return &ScanError{Problem: fmt.Sprintf(format, args...), Mark: s.mark()}
}

func (s *scanner) errorIn(context string, contextMark yamlast.Mark, problem string) *ScanError {
	return &ScanError{Context: context, ContextMark: contextMark, Problem: problem, Mark: s.mark()}
}
