package rules

import (
	"testing"

	"github.com/yaklabco/goyamllint/pkg/lint"
)

func TestAnchorsRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return NewAnchorsRule() }, []ruleCase{
		{name: "declared", input: "a: &x 1\nb: *x\n"},
		{
			name:  "undeclared",
			input: "a: *x\n",
			want:  []finding{{1, 4, `found undeclared alias "x"`}},
		},
		{
			name:  "anchors do not cross documents",
			input: "---\na: &x 1\n---\nb: *x\n",
			want:  []finding{{4, 4, `found undeclared alias "x"`}},
		},
		{name: "duplicates allowed by default", input: "a: &x 1\nb: &x 2\n"},
		{
			name:    "duplicated",
			input:   "a: &x 1\nb: &x 2\n",
			options: map[string]any{"forbid-duplicated-anchors": true},
			want:    []finding{{2, 4, `found duplicated anchor "x"`}},
		},
		{
			name:    "unused",
			input:   "a: &x 1\nb: &y 2\nc: *y\n",
			options: map[string]any{"forbid-unused-anchors": true},
			want:    []finding{{1, 4, `found unused anchor "x"`}},
		},
		{
			name:  "all checks off",
			input: "a: *x\n",
			options: map[string]any{
				"forbid-undeclared-aliases": false,
				"forbid-duplicated-anchors": false,
				"forbid-unused-anchors":     false,
			},
		},
	})
}
