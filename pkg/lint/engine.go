package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// RuleFaultError reports a rule whose check panicked. It is a failure of the
// linter itself, never a finding about the input.
type RuleFaultError struct {
	RuleID string
	Value  any
}

func (e *RuleFaultError) Error() string {
	return fmt.Sprintf("rule %q failed: %v", e.RuleID, e.Value)
}

// syntaxError is implemented by scan errors that carry a position.
type syntaxError interface {
	error
	Position() yamlast.Position
	Description() string
}

// FileResult contains the results of linting a single input.
type FileResult struct {
	// Snapshot is the parsed input.
	Snapshot *yamlast.FileSnapshot

	// Problems contains all findings, sorted by position.
	Problems []Problem
}

// HasProblems returns true if any problems were found.
func (fr *FileResult) HasProblems() bool {
	return len(fr.Problems) > 0
}

// CountLevel returns the number of problems at the given level.
func (fr *FileResult) CountLevel(level config.Severity) int {
	count := 0
	for _, p := range fr.Problems {
		if p.Level == level {
			count++
		}
	}
	return count
}

// HasSyntaxError returns true if the input could not be tokenized completely.
func (fr *FileResult) HasSyntaxError() bool {
	return slices.ContainsFunc(fr.Problems, func(p Problem) bool {
		return p.Class == ClassSyntax
	})
}

// Engine coordinates parsing and rule execution for linting.
type Engine struct {
	// Parser turns decoded text into snapshots.
	Parser Parser
}

// NewEngine creates a new Engine with the given parser.
func NewEngine(parser Parser) *Engine {
	return &Engine{Parser: parser}
}

// Lint parses text and runs rules over it.
// A *RuleFaultError is returned together with the partial result.
func (e *Engine) Lint(ctx context.Context, path, text string, rules []ResolvedRule) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	problems, err := e.Run(ctx, snapshot, rules)
	return &FileResult{Snapshot: snapshot, Problems: problems}, err
}

// Run executes the line, token and comment passes of rules over snapshot and
// returns the problems sorted by line, column and rule ID. Each rule runs in
// document order; its problems are stamped with its ID and level.
//
// A scan error on the snapshot becomes a single syntax problem. Inline
// directives are applied to style problems only. A panicking rule stops the
// run with a *RuleFaultError; the problems collected so far are returned
// with it.
func (e *Engine) Run(ctx context.Context, snapshot *yamlast.FileSnapshot, rules []ResolvedRule) ([]Problem, error) {
	if IsFileDisabled(snapshot.Source) {
		return nil, nil
	}

	var problems []Problem
	runErr := runPasses(ctx, snapshot, rules, &problems)

	ids := make([]string, len(rules))
	for i, rr := range rules {
		ids[i] = rr.Rule.ID()
	}
	problems = parseDirectives(snapshot, ids).filter(problems)

	problems = mergeSyntaxError(problems, snapshot.ScanErr)
	slices.SortStableFunc(problems, compareProblems)

	return problems, runErr
}

func runPasses(ctx context.Context, snapshot *yamlast.FileSnapshot, rules []ResolvedRule, out *[]Problem) error {
	for _, rr := range rules {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("linting cancelled: %w", err)
		}
		if err := runRule(snapshot, rr, out); err != nil {
			return err
		}
	}
	return nil
}

func runRule(snapshot *yamlast.FileSnapshot, rr ResolvedRule, out *[]Problem) (err error) {
	id := rr.Rule.ID()
	defer func() {
		if r := recover(); r != nil {
			err = &RuleFaultError{RuleID: id, Value: r}
		}
	}()

	collect := func(p Problem) bool {
		p.RuleID = id
		p.Level = rr.Level
		p.Class = ClassStyle
		*out = append(*out, p)
		return true
	}

	switch check := rr.Rule.Check().(type) {
	case LineCheck:
		for i := range snapshot.Lines {
			check(rr.Options, &snapshot.Lines[i])(collect)
		}
	case CommentCheck:
		for i := range snapshot.Comments {
			check(rr.Options, &snapshot.Comments[i])(collect)
		}
	case tokenBinder:
		fn := check.bind()
		for i := range snapshot.Tokens {
			w := TokenWindow{
				Token:    &snapshot.Tokens[i],
				Prev:     snapshot.Token(i - 1),
				Next:     snapshot.Token(i + 1),
				NextNext: snapshot.Token(i + 2),
				Index:    i,
				Source:   snapshot,
			}
			fn(rr.Options, w)(collect)
		}
	default:
		return &RuleFaultError{RuleID: id, Value: fmt.Sprintf("unsupported check %T", check)}
	}
	return nil
}

// mergeSyntaxError adds the problem for scanErr, if it is positioned, and
// drops style problems reported at the same position.
func mergeSyntaxError(problems []Problem, scanErr error) []Problem {
	var se syntaxError
	if !errors.As(scanErr, &se) {
		return problems
	}

	pos := se.Position()
	problems = slices.DeleteFunc(problems, func(p Problem) bool {
		return p.Line == pos.Line && p.Column == pos.Column
	})
	return append(problems, Problem{
		Line:    pos.Line,
		Column:  pos.Column,
		Message: "syntax error: " + se.Description(),
		RuleID:  SyntaxRuleID,
		Level:   config.SeverityError,
		Class:   ClassSyntax,
	})
}

func compareProblems(a, b Problem) int {
	return cmp.Or(
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
		cmp.Compare(a.RuleID, b.RuleID),
	)
}
