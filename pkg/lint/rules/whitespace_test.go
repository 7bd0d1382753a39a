package rules

import (
	"strings"
	"testing"

	"github.com/yaklabco/goyamllint/pkg/lint"
)

func TestTrailingSpacesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return NewTrailingSpacesRule() }, []ruleCase{
		{name: "clean", input: "key: value\n"},
		{
			name:  "trailing space",
			input: "key: value \n",
			want:  []finding{{1, 11, "trailing spaces"}},
		},
		{
			name:  "trailing tab",
			input: "a\t\n",
			want:  []finding{{1, 2, "trailing spaces"}},
		},
		{
			name:  "whitespace only line",
			input: "a: 1\n  \nb: 2\n",
			want:  []finding{{2, 1, "trailing spaces"}},
		},
		{name: "crlf is not trailing space", input: "a: b\r\nc: d\r\n"},
		{
			name:  "column counts characters",
			input: "é \n",
			want:  []finding{{1, 2, "trailing spaces"}},
		},
		{
			name:  "unterminated last line",
			input: "a: b  ",
			want:  []finding{{1, 5, "trailing spaces"}},
		},
	})
}

func TestNewLinesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return NewNewLinesRule() }, []ruleCase{
		{name: "unix", input: "a: 1\nb: 2\n"},
		{
			name:  "dos when unix expected",
			input: "a: 1\r\nb: 2\r\n",
			want:  []finding{{1, 5, `wrong new line character: expected \n`}},
		},
		{
			name:    "unix when dos expected",
			input:   "a: 1\nb: 2\n",
			options: map[string]any{"type": "dos"},
			want:    []finding{{1, 5, `wrong new line character: expected \r\n`}},
		},
		{name: "dos", input: "a: 1\r\n", options: map[string]any{"type": "dos"}},
		{name: "single unterminated line", input: "a: 1", options: map[string]any{"type": "dos"}},
	})
}

func TestNewLineAtEndOfFileRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return NewNewLineAtEndOfFileRule() }, []ruleCase{
		{name: "empty", input: ""},
		{name: "terminated", input: "a: b\n"},
		{
			name:  "missing",
			input: "a: b",
			want:  []finding{{1, 5, "no new line character at the end of file"}},
		},
		{
			name:  "missing after several lines",
			input: "a: 1\nb: 2",
			want:  []finding{{2, 5, "no new line character at the end of file"}},
		},
	})
}

func TestEmptyLinesRule(t *testing.T) {
	t.Parallel()

	runCases(t, func() lint.Rule { return NewEmptyLinesRule() }, []ruleCase{
		{name: "within limit", input: "a: 1\n\n\nb: 2\n"},
		{
			name:  "too many in the middle",
			input: "a\n\n\n\nb\n",
			want:  []finding{{4, 1, "too many blank lines (3 > 2)"}},
		},
		{
			name:  "blank at start",
			input: "\na: 1\n",
			want:  []finding{{1, 1, "too many blank lines (1 > 0)"}},
		},
		{
			name:  "blank at end",
			input: "a\n\n",
			want:  []finding{{2, 1, "too many blank lines (1 > 0)"}},
		},
		{name: "single line break", input: "\n"},
		{
			name:    "custom max",
			input:   "a\n\nb\n",
			options: map[string]any{"max": 0},
			want:    []finding{{2, 1, "too many blank lines (1 > 0)"}},
		},
		{
			name:    "crlf blank lines",
			input:   "a\r\n\r\n\r\n\r\nb\r\n",
			options: map[string]any{"max": 1},
			want:    []finding{{4, 1, "too many blank lines (3 > 1)"}},
		},
		{name: "start allowance", input: "\n\na\n", options: map[string]any{"max-start": 2}},
	})
}

func TestLineLengthRule(t *testing.T) {
	t.Parallel()

	short := map[string]any{"max": 10}
	runCases(t, func() lint.Rule { return NewLineLengthRule() }, []ruleCase{
		{name: "at limit", input: "key: value\n", options: short},
		{
			name:    "too long",
			input:   "key: long value\n",
			options: short,
			want:    []finding{{1, 11, "line too long (15 > 10 characters)"}},
		},
		{name: "long comment word", input: "# http://example.com/very/long\n", options: short},
		{name: "long list word", input: "- http://example.com/long/path\n", options: short},
		{
			name:  "words not allowed",
			input: "# http://example.com/very/long\n",
			options: map[string]any{
				"max":                       10,
				"allow-non-breakable-words": false,
			},
			want: []finding{{1, 11, "line too long (30 > 10 characters)"}},
		},
		{
			name:    "inline mapping not allowed by default",
			input:   "url: http://example.com/long\n",
			options: short,
			want:    []finding{{1, 11, "line too long (28 > 10 characters)"}},
		},
		{
			name:  "inline mapping allowed",
			input: "url: http://example.com/long\n",
			options: map[string]any{
				"max":                                 10,
				"allow-non-breakable-words":           false,
				"allow-non-breakable-inline-mappings": true,
			},
		},
		{
			name:  "default limit",
			input: "key: " + strings.Repeat("word ", 17) + "end\n",
			want:  []finding{{1, 81, "line too long (93 > 80 characters)"}},
		},
	})
}
