package lint_test

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

func nonBlankLines(id string) *fakeRule {
	return newFakeRule(id, lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		if line.IsBlank() {
			return yieldNone()
		}
		return yieldOne(lint.Problem{Line: line.Number, Column: 1, Message: line.Text()})
	}))
}

func TestEngine_LinePass(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(scanner.New())
	problems, err := engine.Run(context.Background(), parse(t, "a: 1\n\nb: 2\n"), resolveAll(t, nonBlankLines("lines")))
	require.NoError(t, err)

	want := []lint.Problem{
		{Line: 1, Column: 1, Message: "a: 1", RuleID: "lines", Level: config.SeverityError, Class: lint.ClassStyle},
		{Line: 3, Column: 1, Message: "b: 2", RuleID: "lines", Level: config.SeverityError, Class: lint.ClassStyle},
	}
	if diff := cmp.Diff(want, problems); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_StampsConfiguredLevel(t *testing.T) {
	t.Parallel()

	rc := config.Enabled(nil).WithLevel(config.SeverityWarning)
	rr, err := lint.Resolve(nonBlankLines("lines"), &rc)
	require.NoError(t, err)

	problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, "a\n"), []lint.ResolvedRule{rr})
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, config.SeverityWarning, problems[0].Level)
}

func TestEngine_SortsByPositionThenRule(t *testing.T) {
	t.Parallel()

	at := func(id string, positions ...[2]int) *fakeRule {
		return newFakeRule(id, lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				for _, pos := range positions {
					if pos[0] == line.Number && !yield(lint.Problem{Line: pos[0], Column: pos[1]}) {
						return
					}
				}
			}
		}))
	}

	rules := resolveAll(t,
		at("z-rule", [2]int{1, 1}),
		at("a-rule", [2]int{2, 5}, [2]int{1, 1}),
		at("m-rule", [2]int{1, 3}),
	)

	problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, "a: 1\nb: 2\n"), rules)
	require.NoError(t, err)

	want := []position{
		{1, 1, "a-rule"},
		{1, 1, "z-rule"},
		{1, 3, "m-rule"},
		{2, 5, "a-rule"},
	}
	if diff := cmp.Diff(want, positions(problems)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

type tokenCounter struct {
	seen int
}

func countingRule(withFactory bool) *fakeRule {
	check := lint.TokenCheck[tokenCounter]{
		Fn: func(_ lint.Options, w lint.TokenWindow, ctx *tokenCounter) iter.Seq[lint.Problem] {
			ctx.seen++
			if w.Next != nil {
				return yieldNone()
			}
			return yieldOne(lint.Problem{Line: 1, Column: 1, Message: fmt.Sprintf("%d tokens", ctx.seen)})
		},
	}
	if withFactory {
		check.NewContext = func() *tokenCounter { return &tokenCounter{} }
	}
	return newFakeRule("counter", check)
}

func TestEngine_TokenContext(t *testing.T) {
	t.Parallel()

	for _, withFactory := range []bool{true, false} {
		t.Run(fmt.Sprintf("factory=%t", withFactory), func(t *testing.T) {
			t.Parallel()

			engine := lint.NewEngine(scanner.New())
			rules := resolveAll(t, countingRule(withFactory))
			snap := parse(t, "a: 1\n")

			// StreamStart BlockMappingStart Key Scalar Value Scalar BlockMappingEnd StreamEnd
			for range 2 {
				problems, err := engine.Run(context.Background(), snap, rules)
				require.NoError(t, err)
				require.Len(t, problems, 1)
				assert.Equal(t, "8 tokens", problems[0].Message)
			}
		})
	}
}

func newTokenCounter() *tokenCounter { return &tokenCounter{} }

// scaledCounter adds step to a shared context type per token and records the
// context it was handed.
func scaledCounter(id string, step int, withFactory bool, seen *[]*tokenCounter) *fakeRule {
	check := lint.TokenCheck[tokenCounter]{
		Fn: func(_ lint.Options, w lint.TokenWindow, ctx *tokenCounter) iter.Seq[lint.Problem] {
			*seen = append(*seen, ctx)
			ctx.seen += step
			if w.Next != nil {
				return yieldNone()
			}
			return yieldOne(lint.Problem{Line: 1, Column: 1, Message: strconv.Itoa(ctx.seen)})
		},
	}
	if withFactory {
		check.NewContext = newTokenCounter
	}
	return newFakeRule(id, check)
}

func TestEngine_TokenContextIsolation(t *testing.T) {
	t.Parallel()

	for _, withFactory := range []bool{true, false} {
		t.Run(fmt.Sprintf("factory=%t", withFactory), func(t *testing.T) {
			t.Parallel()

			var writerSeen, readerSeen []*tokenCounter
			rules := resolveAll(t,
				scaledCounter("reader", 1, withFactory, &readerSeen),
				scaledCounter("writer", 100, withFactory, &writerSeen),
			)

			problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, "a: 1\n"), rules)
			require.NoError(t, err)

			require.Len(t, problems, 2)
			assert.Equal(t, "reader", problems[0].RuleID)
			assert.Equal(t, "8", problems[0].Message)
			assert.Equal(t, "writer", problems[1].RuleID)
			assert.Equal(t, "800", problems[1].Message)

			require.NotEmpty(t, readerSeen)
			require.NotEmpty(t, writerSeen)
			for _, ctx := range readerSeen {
				assert.Same(t, readerSeen[0], ctx)
				assert.NotSame(t, writerSeen[0], ctx)
			}
		})
	}
}

type keyLog struct {
	keys []string
}

func TestEngine_TokenContextSpansDocuments(t *testing.T) {
	t.Parallel()

	keyCollector := func(resetOnDocument bool) *fakeRule {
		return newFakeRule("keys", lint.TokenCheck[keyLog]{
			Fn: func(_ lint.Options, w lint.TokenWindow, ctx *keyLog) iter.Seq[lint.Problem] {
				switch {
				case resetOnDocument && w.Token.Kind == yamlast.DocumentStart:
					ctx.keys = nil
				case w.Token.Kind == yamlast.Scalar && w.Prev.Is(yamlast.Key):
					ctx.keys = append(ctx.keys, w.Token.Value)
				case w.Next == nil:
					return yieldOne(lint.Problem{Line: 1, Column: 1, Message: strings.Join(ctx.keys, ",")})
				}
				return yieldNone()
			},
		})
	}

	tests := []struct {
		name  string
		reset bool
		want  string
	}{
		{name: "kept across documents", want: "a,b"},
		{name: "reset by the rule", reset: true, want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := parse(t, "---\na: 1\n---\nb: 2\n")
			problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), snap, resolveAll(t, keyCollector(tt.reset)))
			require.NoError(t, err)
			require.Len(t, problems, 1)
			assert.Equal(t, tt.want, problems[0].Message)
		})
	}
}

func TestEngine_TokenWindow(t *testing.T) {
	t.Parallel()

	var windows []lint.TokenWindow
	rule := newFakeRule("window", lint.TokenCheck[struct{}]{
		Fn: func(_ lint.Options, w lint.TokenWindow, _ *struct{}) iter.Seq[lint.Problem] {
			windows = append(windows, w)
			return yieldNone()
		},
	})

	snap := parse(t, "[a]\n")
	_, err := lint.NewEngine(scanner.New()).Run(context.Background(), snap, resolveAll(t, rule))
	require.NoError(t, err)

	require.Len(t, windows, len(snap.Tokens))
	first, last := windows[0], windows[len(windows)-1]

	assert.Nil(t, first.Prev)
	assert.Equal(t, yamlast.StreamStart, first.Token.Kind)
	assert.Equal(t, yamlast.FlowSequenceStart, first.Next.Kind)
	assert.Equal(t, yamlast.Scalar, first.NextNext.Kind)
	assert.Same(t, snap, first.Source)

	assert.Equal(t, yamlast.StreamEnd, last.Token.Kind)
	assert.Nil(t, last.Next)
	assert.Nil(t, last.NextNext)
	assert.Equal(t, len(snap.Tokens)-1, last.Index)
	assert.Same(t, &snap.Tokens[last.Index-1], last.Prev)
}

func TestEngine_CommentPass(t *testing.T) {
	t.Parallel()

	rule := newFakeRule("comments", lint.CommentCheck(func(_ lint.Options, c *yamlast.Comment) iter.Seq[lint.Problem] {
		return yieldOne(lint.Problem{Line: c.Line(), Column: c.Column(), Message: c.Text()})
	}))

	problems, err := lint.NewEngine(scanner.New()).Run(
		context.Background(), parse(t, "# head\na: 1  # inline\n"), resolveAll(t, rule))
	require.NoError(t, err)

	require.Len(t, problems, 2)
	assert.Equal(t, lint.Problem{Line: 1, Column: 1, Message: "# head", RuleID: "comments",
		Level: config.SeverityError}, problems[0])
	assert.Equal(t, 2, problems[1].Line)
	assert.Equal(t, 7, problems[1].Column)
	assert.Equal(t, "# inline", problems[1].Message)
}

func TestEngine_RuleFault(t *testing.T) {
	t.Parallel()

	boom := newFakeRule("boom", lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			if line.Number == 2 {
				panic("kaboom")
			}
			yield(lint.Problem{Line: line.Number, Column: 1})
		}
	}))

	rules := resolveAll(t, nonBlankLines("aaa"), boom, nonBlankLines("zzz"))
	problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, "a: 1\nb: 2\n"), rules)

	var fault *lint.RuleFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "boom", fault.RuleID)
	assert.Equal(t, "kaboom", fault.Value)
	assert.Contains(t, fault.Error(), `rule "boom" failed`)

	want := []position{{1, 1, "aaa"}, {1, 1, "boom"}, {2, 1, "aaa"}}
	if diff := cmp.Diff(want, positions(problems)); diff != "" {
		t.Errorf("collected problems mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	problems, err := lint.NewEngine(scanner.New()).Run(ctx, parse(t, "a\n"), resolveAll(t, nonBlankLines("lines")))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, problems)
}

func TestEngine_SyntaxError(t *testing.T) {
	t.Parallel()

	at := newFakeRule("at", lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			if line.Number == 1 {
				_ = yield(lint.Problem{Line: 1, Column: 5, Message: "same place"}) &&
					yield(lint.Problem{Line: 1, Column: 1, Message: "kept"})
			}
		}
	}))

	problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, "a: b: c\n"), resolveAll(t, at))
	require.NoError(t, err)

	want := []lint.Problem{
		{Line: 1, Column: 1, Message: "kept", RuleID: "at", Level: config.SeverityError, Class: lint.ClassStyle},
		{
			Line: 1, Column: 5, Message: "syntax error: mapping values are not allowed here",
			RuleID: lint.SyntaxRuleID, Level: config.SeverityError, Class: lint.ClassSyntax,
		},
	}
	if diff := cmp.Diff(want, problems); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Directives(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"a: x  # goyamllint disable-line rule:trail",
		"b: x",
		"# yamllint disable",
		"c: x",
		"# yamllint enable rule:trail",
		"d: x",
		"# yamllint disable-line",
		"e: x",
		"f: x # yamllint disable-line rule:other",
		"",
	}, "\n")

	onValue := func(id string, col int) *fakeRule {
		return newFakeRule(id, lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
			if !strings.Contains(line.Text(), ": x") {
				return yieldNone()
			}
			return yieldOne(lint.Problem{Line: line.Number, Column: col})
		}))
	}

	rules := resolveAll(t, onValue("trail", 1), onValue("other", 2))
	problems, err := lint.NewEngine(scanner.New()).Run(context.Background(), parse(t, src), rules)
	require.NoError(t, err)

	want := []position{
		{1, 2, "other"},
		{2, 1, "trail"},
		{2, 2, "other"},
		{6, 1, "trail"},
		{9, 1, "trail"},
	}
	if diff := cmp.Diff(want, positions(problems)); diff != "" {
		t.Errorf("directive filtering mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_DirectivesKeepSyntaxErrors(t *testing.T) {
	t.Parallel()

	problems, err := lint.NewEngine(scanner.New()).Run(
		context.Background(), parse(t, "# yamllint disable\na: b: c\n"), resolveAll(t, nonBlankLines("lines")))
	require.NoError(t, err)

	require.Len(t, problems, 1)
	assert.Equal(t, lint.ClassSyntax, problems[0].Class)
	assert.Equal(t, 2, problems[0].Line)
}

func TestEngine_DisableFile(t *testing.T) {
	t.Parallel()

	problems, err := lint.NewEngine(scanner.New()).Run(
		context.Background(), parse(t, "# yamllint disable-file\na: b: c\n"), resolveAll(t, nonBlankLines("lines")))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestIsFileDisabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{"# yamllint disable-file\n", true},
		{"#yamllint disable-file", true},
		{"# goyamllint disable-file  \r\nkey: v\n", true},
		{"key: v\n# yamllint disable-file\n", false},
		{"# yamllint disable-file rule:truthy\n", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lint.IsFileDisabled(tt.src), "src %q", tt.src)
	}
}

type failingParser struct{}

func (failingParser) Parse(context.Context, string, string) (*yamlast.FileSnapshot, error) {
	return nil, errors.New("no parse")
}

func TestEngine_Lint(t *testing.T) {
	t.Parallel()

	t.Run("parses and runs", func(t *testing.T) {
		t.Parallel()

		result, err := lint.NewEngine(scanner.New()).Lint(
			context.Background(), "x.yaml", "a: b: c\n", resolveAll(t, nonBlankLines("lines")))
		require.NoError(t, err)

		assert.Equal(t, "x.yaml", result.Snapshot.Path)
		assert.True(t, result.HasProblems())
		assert.True(t, result.HasSyntaxError())
		assert.Equal(t, 2, result.CountLevel(config.SeverityError))
		assert.Equal(t, 0, result.CountLevel(config.SeverityWarning))
	})

	t.Run("wraps parser failures", func(t *testing.T) {
		t.Parallel()

		_, err := lint.NewEngine(failingParser{}).Lint(context.Background(), "x.yaml", "a\n", nil)
		require.ErrorIs(t, err, lint.ErrParseFailure)
	})
}
