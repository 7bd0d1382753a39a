package scanner_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

func kinds(tokens []yamlast.Token) []yamlast.TokenKind {
	out := make([]yamlast.TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Kinds(t *testing.T) {
	t.Parallel()

	const (
		ss  = yamlast.StreamStart
		se  = yamlast.StreamEnd
		ds  = yamlast.DocumentStart
		de  = yamlast.DocumentEnd
		dir = yamlast.Directive
		s   = yamlast.Scalar
		k   = yamlast.Key
		v   = yamlast.Value
		be  = yamlast.BlockEntry
		bss = yamlast.BlockSequenceStart
		bse = yamlast.BlockSequenceEnd
		bms = yamlast.BlockMappingStart
		bme = yamlast.BlockMappingEnd
		fss = yamlast.FlowSequenceStart
		fse = yamlast.FlowSequenceEnd
		fms = yamlast.FlowMappingStart
		fme = yamlast.FlowMappingEnd
		fe  = yamlast.FlowEntry
	)

	tests := []struct {
		name  string
		input string
		want  []yamlast.TokenKind
	}{
		{"empty", "", []yamlast.TokenKind{ss, se}},
		{"comment only", "# hello\n", []yamlast.TokenKind{ss, se}},
		{"scalar", "a\n", []yamlast.TokenKind{ss, s, se}},
		{"mapping", "key: value\n", []yamlast.TokenKind{ss, bms, k, s, v, s, bme, se}},
		{"sequence", "- a\n- b\n", []yamlast.TokenKind{ss, bss, be, s, be, s, bse, se}},
		{
			"nested mapping", "a:\n  b: 1\nc: 2\n",
			[]yamlast.TokenKind{ss, bms, k, s, v, bms, k, s, v, s, bme, k, s, v, s, bme, se},
		},
		{
			"flow collections", "[a, {b: c}]\n",
			[]yamlast.TokenKind{ss, fss, s, fe, fms, k, s, v, s, fme, fse, se},
		},
		{
			"document markers", "---\na: 1\n...\n",
			[]yamlast.TokenKind{ss, ds, bms, k, s, v, s, bme, de, se},
		},
		{"directive", "%YAML 1.2\n---\na\n", []yamlast.TokenKind{ss, dir, ds, s, se}},
		{
			"block scalar", "a: |\n  x\n  y\nb: 2\n",
			[]yamlast.TokenKind{ss, bms, k, s, v, s, k, s, v, s, bme, se},
		},
		{
			"anchor tag alias", "a: &x !t 1\nb: *x\n",
			[]yamlast.TokenKind{
				ss, bms, k, s, v, yamlast.Anchor, yamlast.Tag, s,
				k, s, v, yamlast.Alias, bme, se,
			},
		},
		{
			"sequence in mapping", "a:\n  - 1\n",
			[]yamlast.TokenKind{ss, bms, k, s, v, bss, be, s, bse, bme, se},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := scanner.Tokenize(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, kinds(tokens)); diff != "" {
				t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("key: value\n")
	require.NoError(t, err)
	require.Len(t, tokens, 8)

	key := tokens[3]
	assert.Equal(t, "key", key.Value)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 0, Offset: 0}, key.Start)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 3, Offset: 3}, key.End)

	value := tokens[5]
	assert.Equal(t, "value", value.Value)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 5, Offset: 5}, value.Start)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 10, Offset: 10}, value.End)

	// Block ends sit where the scanner noticed the dedent.
	assert.Equal(t, yamlast.Mark{Line: 1, Column: 0, Offset: 11}, tokens[6].Start)
	assert.Equal(t, yamlast.Mark{Line: 1, Column: 0, Offset: 11}, tokens[7].Start)
}

func TestTokenize_ColumnsCountCharacters(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("é: ü\n")
	require.NoError(t, err)

	value := tokens[5]
	assert.Equal(t, "ü", value.Value)
	assert.Equal(t, 3, value.Start.Column)
	assert.Equal(t, 4, value.Start.Offset)
}

func TestTokenize_ByteOrderMarkTakesNoColumn(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("\ufeffa: 1\nb: 2\n")
	require.NoError(t, err)

	want := []yamlast.TokenKind{
		yamlast.StreamStart, yamlast.BlockMappingStart,
		yamlast.Key, yamlast.Scalar, yamlast.Value, yamlast.Scalar,
		yamlast.Key, yamlast.Scalar, yamlast.Value, yamlast.Scalar,
		yamlast.BlockMappingEnd, yamlast.StreamEnd,
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Tokenize() kinds mismatch (-want +got):\n%s", diff)
	}

	key := tokens[3]
	assert.Equal(t, "a", key.Value)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 0, Offset: 3}, key.Start)
	assert.Equal(t, 0, tokens[1].Start.Column)
}

func TestTokenize_OffsetsAreMonotonic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a: 1\nb:\n  - x\n  - {y: z}\n",
		"%YAML 1.1\n---\n? complex\n: value\n...\n",
		"key: >\n  folded\n  text\n\nnext: 'q''uote'\n",
		"- \"esc\\t\\u00e9\"\n- !!str 3\n- &a x\n- *a\n",
	}

	for _, input := range inputs {
		tokens, err := scanner.Tokenize(input)
		require.NoError(t, err, input)

		for i, tok := range tokens {
			assert.LessOrEqual(t, tok.Start.Offset, tok.End.Offset, "token %d in %q", i, input)
			if i > 0 {
				assert.LessOrEqual(t, tokens[i-1].Start.Offset, tok.Start.Offset, "token %d in %q", i, input)
			}
		}
	}
}

func TestTokenize_ScalarValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		value string
		style yamlast.ScalarStyle
	}{
		{"plain", "hello world\n", "hello world", yamlast.Plain},
		{"multi-line plain", "a: b\n  c\n", "b c", yamlast.Plain},
		{"single quoted", "'it''s'\n", "it's", yamlast.SingleQuoted},
		{"double quoted escapes", "\"a\\tb\\u00e9\"\n", "a\tbé", yamlast.DoubleQuoted},
		{"double quoted folding", "\"a\n  b\"\n", "a b", yamlast.DoubleQuoted},
		{"literal", "|\n  x\n  y\n", "x\ny\n", yamlast.Literal},
		{"literal strip", "|-\n  x\n\n", "x", yamlast.Literal},
		{"literal keep", "|+\n  x\n\n", "x\n\n", yamlast.Literal},
		{"folded", ">\n  a\n  b\n\n  c\n", "a b\nc\n", yamlast.Folded},
		{"explicit indentation", "|2\n    x\n", "  x\n", yamlast.Literal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := scanner.Tokenize(tt.input)
			require.NoError(t, err)

			var scalar *yamlast.Token
			for i := range tokens {
				if tokens[i].Kind == yamlast.Scalar {
					scalar = &tokens[i]
				}
			}
			require.NotNil(t, scalar)
			assert.Equal(t, tt.value, scalar.Value)
			assert.Equal(t, tt.style, scalar.Style)
		})
	}
}

func TestTokenize_BlockScalarEndsAtNextLine(t *testing.T) {
	t.Parallel()

	src := "a: |\n  x\n  y\nb: 2\n"
	tokens, err := scanner.Tokenize(src)
	require.NoError(t, err)

	block := tokens[5]
	require.Equal(t, yamlast.Literal, block.Style)
	assert.Equal(t, yamlast.Mark{Line: 0, Column: 3, Offset: 3}, block.Start)
	assert.Equal(t, yamlast.Mark{Line: 3, Column: 0, Offset: 13}, block.End)
	assert.True(t, block.EndsAtLineStart(src))
}

func TestTokenize_Payloads(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("%YAML 1.2\n%TAG !e! tag:example.com,2000:\n---\n- &anchor !e!foo 1\n- *anchor\n- !local x\n")
	require.NoError(t, err)

	var got []yamlast.Token
	for _, tok := range tokens {
		if tok.Is(yamlast.Directive, yamlast.Anchor, yamlast.Alias, yamlast.Tag) {
			got = append(got, yamlast.Token{Kind: tok.Kind, Name: tok.Name, Value: tok.Value, Handle: tok.Handle, Suffix: tok.Suffix})
		}
	}

	want := []yamlast.Token{
		{Kind: yamlast.Directive, Name: "YAML", Value: "1.2"},
		{
			Kind: yamlast.Directive, Name: "TAG", Value: "!e! tag:example.com,2000:",
			Handle: "!e!", Suffix: "tag:example.com,2000:",
		},
		{Kind: yamlast.Anchor, Value: "anchor"},
		{Kind: yamlast.Tag, Handle: "!e!", Suffix: "foo"},
		{Kind: yamlast.Alias, Value: "anchor"},
		{Kind: yamlast.Tag, Handle: "!", Suffix: "local"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_ReservedDirective(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("%FOO bar baz  # note\n---\na\n")
	require.NoError(t, err)

	dir := tokens[1]
	require.Equal(t, yamlast.Directive, dir.Kind)
	assert.Equal(t, "FOO", dir.Name)
	assert.Equal(t, "bar baz", dir.Value)
	assert.Equal(t, 12, dir.End.Column)
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		problem string
		mark    yamlast.Mark
	}{
		{
			"mapping value after value", "a: b: c\n",
			"mapping values are not allowed here", yamlast.Mark{Line: 0, Column: 4, Offset: 4},
		},
		{
			"tab indentation", "a:\n\tb: 1\n",
			"found a tab character where an indentation space is expected", yamlast.Mark{Line: 1, Column: 0, Offset: 3},
		},
		{
			"unterminated quote", "a: \"b",
			"found unexpected end of stream", yamlast.Mark{Line: 0, Column: 5, Offset: 5},
		},
		{
			"directive after content", "a: 1\n%YAML 1.2\n",
			"directives are only allowed before the first document or after a document end marker",
			yamlast.Mark{Line: 1, Column: 0, Offset: 5},
		},
		{
			"block entry in flow", "[- a]\n",
			"block sequence entries are not allowed in a flow collection", yamlast.Mark{Line: 0, Column: 1, Offset: 1},
		},
		{
			"invalid character", "@foo\n",
			"found character \"@\" that cannot start any token", yamlast.Mark{Line: 0, Column: 0, Offset: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := scanner.Tokenize(tt.input)
			require.Error(t, err)

			var scanErr *scanner.ScanError
			require.True(t, errors.As(err, &scanErr))
			assert.Equal(t, tt.problem, scanErr.Problem)
			assert.Equal(t, tt.mark, scanErr.Mark)

			require.NotEmpty(t, tokens)
			assert.Equal(t, yamlast.StreamStart, tokens[0].Kind)
			assert.NotEqual(t, yamlast.StreamEnd, tokens[len(tokens)-1].Kind)
		})
	}
}

func TestScanError_Error(t *testing.T) {
	t.Parallel()

	err := &scanner.ScanError{
		Context: "while scanning a quoted scalar",
		Problem: "found unexpected end of stream",
		Mark:    yamlast.Mark{Line: 2, Column: 4},
	}
	assert.Equal(t, "3:5: found unexpected end of stream (while scanning a quoted scalar)", err.Error())

	err.Context = ""
	assert.Equal(t, "3:5: found unexpected end of stream", err.Error())
}

func TestTokenize_DirectivesAfterDocumentEnd(t *testing.T) {
	t.Parallel()

	_, err := scanner.Tokenize("a\n...\n%YAML 1.2\n---\nb\n")
	assert.NoError(t, err)
}

func TestTokenize_CRLF(t *testing.T) {
	t.Parallel()

	tokens, err := scanner.Tokenize("a: 1\r\nb: 2\r\n")
	require.NoError(t, err)

	var values []string
	for _, tok := range tokens {
		if tok.Kind == yamlast.Scalar {
			values = append(values, tok.Value)
		}
	}
	assert.Equal(t, []string{"a", "1", "b", "2"}, values)

	// "\r\n" is a single break.
	assert.Equal(t, yamlast.Mark{Line: 1, Column: 0, Offset: 6}, tokens[7].Start)
}
