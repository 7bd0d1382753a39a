package lint

import (
	"strings"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// Spacing helpers.

// Spacing bounds the number of spaces around a token. A bound of -1 is not
// checked. The descriptions become the problem messages.
type Spacing struct {
	Min     int
	Max     int
	MinDesc string
	MaxDesc string
}

// SpacesAfter checks the spaces between tok and next when both sit on the
// same line. Too many spaces are reported just before next; too few are
// reported at next.
func SpacesAfter(tok, next *yamlast.Token, s Spacing) (Problem, bool) {
	if tok == nil || next == nil || tok.End.Line != next.Start.Line {
		return Problem{}, false
	}

	spaces := next.Start.Offset - tok.End.Offset
	switch {
	case s.Max != -1 && spaces > s.Max:
		return Problem{Line: tok.Start.Line + 1, Column: next.Start.Column, Message: s.MaxDesc}, true
	case s.Min != -1 && spaces < s.Min:
		return Problem{Line: tok.Start.Line + 1, Column: next.Start.Column + 1, Message: s.MinDesc}, true
	}
	return Problem{}, false
}

// SpacesBefore checks the spaces between prev and tok when both sit on the
// same line. A prev that ends at the start of the line (block scalars,
// multi-line plain scalars) does not count.
func SpacesBefore(src string, prev, tok *yamlast.Token, s Spacing) (Problem, bool) {
	if prev == nil || tok == nil || prev.End.Line != tok.Start.Line || prev.EndsAtLineStart(src) {
		return Problem{}, false
	}

	spaces := tok.Start.Offset - prev.End.Offset
	switch {
	case s.Max != -1 && spaces > s.Max:
		return Problem{Line: tok.Start.Line + 1, Column: tok.Start.Column, Message: s.MaxDesc}, true
	case s.Min != -1 && spaces < s.Min:
		return Problem{Line: tok.Start.Line + 1, Column: tok.Start.Column + 1, Message: s.MinDesc}, true
	}
	return Problem{}, false
}

// Token helpers.

// LineIndent returns the number of leading spaces of the line tok starts on.
func LineIndent(src string, tok *yamlast.Token) int {
	start := strings.LastIndexByte(src[:tok.Start.Offset], '\n') + 1
	end := start
	for end < len(src) && src[end] == ' ' {
		end++
	}
	return end - start
}

// IsExplicitKey reports whether tok is a Key token written with '?'.
func IsExplicitKey(src string, tok *yamlast.Token) bool {
	return tok.Start.Offset < tok.End.Offset && src[tok.Start.Offset] == '?'
}

// RealEndLine returns the 1-based line where tok's content ends. For
// scalars, trailing whitespace and line breaks covered by the token are not
// counted.
func RealEndLine(src string, tok *yamlast.Token) int {
	endLine := tok.End.Line + 1
	if tok.Kind != yamlast.Scalar {
		return endLine
	}

	for pos := tok.End.Offset - 1; pos >= tok.Start.Offset-1 && pos >= 0; pos-- {
		c := src[pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '\v' && c != '\f' {
			break
		}
		if c == '\n' {
			endLine--
		}
	}
	return endLine
}
