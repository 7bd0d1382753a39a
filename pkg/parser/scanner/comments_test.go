package scanner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

func parse(t *testing.T, src string) *yamlast.FileSnapshot {
	t.Helper()

	snap, err := scanner.New().Parse(context.Background(), "test.yaml", src)
	require.NoError(t, err)
	return snap
}

func TestExtractComments(t *testing.T) {
	t.Parallel()

	src := "# head\na: 1 # inline\n# between\n# second\nb: 2\n"
	snap := parse(t, src)
	require.NoError(t, snap.ScanErr)
	require.Len(t, snap.Comments, 4)

	type want struct {
		line, column int
		text         string
		inline       bool
	}
	expected := []want{
		{1, 1, "# head", false},
		{2, 6, "# inline", true},
		{3, 1, "# between", false},
		{4, 1, "# second", false},
	}
	for i, w := range expected {
		c := &snap.Comments[i]
		assert.Equal(t, w.line, c.Line(), "comment %d line", i)
		assert.Equal(t, w.column, c.Column(), "comment %d column", i)
		assert.Equal(t, w.text, c.Text(), "comment %d text", i)
		assert.Equal(t, w.inline, c.IsInline(), "comment %d inline", i)
		assert.Equal(t, i, c.Index())
	}

	// The head comment lies between StreamStart and the mapping.
	assert.Equal(t, yamlast.StreamStart, snap.Comments[0].Before().Kind)
	assert.Equal(t, yamlast.BlockMappingStart, snap.Comments[0].After().Kind)

	// The others follow the scalar "1" and precede the key of b.
	for _, c := range snap.Comments[1:] {
		assert.Equal(t, "1", c.Before().Value)
		assert.Equal(t, yamlast.Key, c.After().Kind)
	}
}

func TestExtractComments_Linking(t *testing.T) {
	t.Parallel()

	src := "a: 1 # inline\n# between\n\n# apart\nb: 2\n"
	snap := parse(t, src)
	require.Len(t, snap.Comments, 3)

	inline, between, apart := &snap.Comments[0], &snap.Comments[1], &snap.Comments[2]

	assert.Nil(t, inline.Previous())
	assert.Same(t, between, inline.Next())
	assert.Same(t, inline, between.Previous())

	// A blank line breaks the chain.
	assert.Nil(t, between.Next())
	assert.Nil(t, apart.Previous())
	assert.Nil(t, apart.Next())

	for i, c := range snap.Comments {
		if c.CommentAfter >= 0 {
			assert.Equal(t, i, snap.Comments[c.CommentAfter].CommentBefore)
			assert.Equal(t, c.Mark.Line+1, snap.Comments[c.CommentAfter].Mark.Line)
		}
	}
}

func TestExtractComments_SameLineTokensSkipped(t *testing.T) {
	t.Parallel()

	// '#' inside a quoted scalar is content, not a comment.
	snap := parse(t, "a: 'x # y'\n")
	assert.Empty(t, snap.Comments)
}

func TestExtractComments_IndentedCommentOnly(t *testing.T) {
	t.Parallel()

	snap := parse(t, "  # comment\n")
	require.Len(t, snap.Comments, 1)

	c := &snap.Comments[0]
	assert.Equal(t, 1, c.Line())
	assert.Equal(t, 3, c.Column())
	assert.False(t, c.IsInline())
	assert.Equal(t, yamlast.StreamEnd, c.After().Kind)
}

func TestExtractComments_AfterBlockScalar(t *testing.T) {
	t.Parallel()

	snap := parse(t, "a: |\n  text\n# after\nb: 1\n")
	require.Len(t, snap.Comments, 1)

	c := &snap.Comments[0]
	assert.Equal(t, 3, c.Line())
	assert.Equal(t, 1, c.Column())
	assert.Equal(t, yamlast.Literal, c.Before().Style)
	assert.False(t, c.IsInline(), "block scalar end mark is at the start of the comment line")
}

func TestExtractComments_CharacterColumns(t *testing.T) {
	t.Parallel()

	snap := parse(t, "é: ü  # note\n")
	require.Len(t, snap.Comments, 1)
	assert.Equal(t, 7, snap.Comments[0].Column())
	assert.Equal(t, "# note", snap.Comments[0].Text())
}

func TestExtractComments_StopsAtScanError(t *testing.T) {
	t.Parallel()

	snap := parse(t, "# before\na: b: c\n# never\n")
	require.Error(t, snap.ScanErr)
	require.Len(t, snap.Comments, 1)
	assert.Equal(t, "# before", snap.Comments[0].Text())
}

func TestExtractComments_DirectiveLine(t *testing.T) {
	t.Parallel()

	snap := parse(t, "%YAML 1.2 # version\n---\na\n")
	require.Len(t, snap.Comments, 1)
	assert.Equal(t, 11, snap.Comments[0].Column())
	assert.True(t, snap.Comments[0].IsInline())
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("fills the snapshot", func(t *testing.T) {
		t.Parallel()

		snap := parse(t, "a: 1\n")
		assert.Equal(t, "test.yaml", snap.Path)
		assert.Equal(t, "a: 1\n", snap.Source)
		assert.Equal(t, 2, snap.LineCount())
		assert.Equal(t, yamlast.StreamStart, snap.Tokens[0].Kind)
		assert.Equal(t, yamlast.StreamEnd, snap.Tokens[len(snap.Tokens)-1].Kind)
		assert.NoError(t, snap.ScanErr)
	})

	t.Run("keeps partial tokens on scan error", func(t *testing.T) {
		t.Parallel()

		snap := parse(t, "a:\n\tb: 1\n")
		var scanErr *scanner.ScanError
		require.ErrorAs(t, snap.ScanErr, &scanErr)
		assert.Equal(t, 1, scanErr.Mark.Line)
		assert.NotEmpty(t, snap.Tokens)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		snap, err := scanner.New().Parse(ctx, "x.yaml", "a\n")
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, snap)
	})
}
