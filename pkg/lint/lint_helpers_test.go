package lint_test

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// fakeRule is a rule whose check is supplied by the test.
type fakeRule struct {
	lint.BaseRule
	check lint.Check
}

func (r *fakeRule) Check() lint.Check { return r.check }

func newFakeRule(id string, check lint.Check, schema ...lint.OptionSpec) *fakeRule {
	return &fakeRule{
		BaseRule: lint.NewBaseRule(id, "test rule "+id, []string{"test"}, true, config.SeverityError, schema),
		check:    check,
	}
}

// resolveAll resolves rules with default configuration.
func resolveAll(t *testing.T, rules ...lint.Rule) []lint.ResolvedRule {
	t.Helper()

	out := make([]lint.ResolvedRule, 0, len(rules))
	for _, rule := range rules {
		rr, err := lint.Resolve(rule, nil)
		require.NoError(t, err)
		out = append(out, rr)
	}
	return out
}

func parse(t *testing.T, src string) *yamlast.FileSnapshot {
	t.Helper()

	snap, err := scanner.New().Parse(context.Background(), "test.yaml", src)
	require.NoError(t, err)
	return snap
}

func yieldOne(p lint.Problem) iter.Seq[lint.Problem] {
	return func(yield func(lint.Problem) bool) {
		yield(p)
	}
}

func yieldNone() iter.Seq[lint.Problem] {
	return func(func(lint.Problem) bool) {}
}

// position strips problems down to what the assertions compare.
type position struct {
	Line   int
	Column int
	RuleID string
}

func positions(problems []lint.Problem) []position {
	out := make([]position, len(problems))
	for i, p := range problems {
		out[i] = position{Line: p.Line, Column: p.Column, RuleID: p.RuleID}
	}
	return out
}
