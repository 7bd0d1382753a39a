package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
)

// finding is the part of a problem the rule tests compare.
type finding struct {
	Line    int
	Column  int
	Message string
}

// ruleCase is one input for a single rule.
type ruleCase struct {
	name    string
	input   string
	options map[string]any
	want    []finding
}

// runRule lints input with rule alone and returns its style problems.
func runRule(t *testing.T, rule lint.Rule, input string, options map[string]any) []finding {
	t.Helper()

	rr, err := lint.Resolve(rule, &config.RuleConfig{Enabled: true, Options: options})
	require.NoError(t, err)

	parser := scanner.New()
	snapshot, err := parser.Parse(context.Background(), "test.yaml", input)
	require.NoError(t, err)

	problems, err := lint.NewEngine(parser).Run(context.Background(), snapshot, []lint.ResolvedRule{rr})
	require.NoError(t, err)

	var out []finding
	for _, p := range problems {
		if p.Class == lint.ClassSyntax {
			continue
		}
		require.Equal(t, rule.ID(), p.RuleID)
		out = append(out, finding{Line: p.Line, Column: p.Column, Message: p.Message})
	}
	return out
}

// runCases runs each case as a parallel subtest.
func runCases(t *testing.T, newRule func() lint.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runRule(t, newRule(), tt.input, tt.options)
			require.Equal(t, tt.want, got)
		})
	}
}
