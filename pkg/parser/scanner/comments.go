package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// ExtractComments finds the comments lying in the gaps between consecutive
// tokens. Tokens that share a line are not searched, except at the stream
// boundaries. Comments on directly consecutive lines of the same gap are
// linked to each other.
//
// When tokens does not end with StreamEnd (a scan error), nothing after the
// last token is examined.
func ExtractComments(src string, tokens []yamlast.Token) []yamlast.Comment {
	var comments []yamlast.Comment

	for i := 0; i+1 < len(tokens); i++ {
		t1, t2 := &tokens[i], &tokens[i+1]
		if t1.End.Line == t2.Start.Line && t1.Kind != yamlast.StreamStart && t2.Kind != yamlast.StreamEnd {
			continue
		}
		if t2.Start.Offset <= t1.End.Offset {
			continue
		}

		gap := src[t1.End.Offset:t2.Start.Offset]
		line := t1.End.Line
		column := t1.End.Column
		offset := t1.End.Offset
		prev := -1

		for {
			segment, rest, more := strings.Cut(gap, "\n")
			if pos := strings.IndexByte(segment, '#'); pos >= 0 {
				m := yamlast.Mark{
					Line:   line,
					Column: column + utf8.RuneCountInString(segment[:pos]),
					Offset: offset + pos,
				}
				c := yamlast.NewComment(m, i, i+1)
				if prev >= 0 && comments[prev].Mark.Line == line-1 {
					c.CommentBefore = prev
					comments[prev].CommentAfter = len(comments)
				}
				prev = len(comments)
				comments = append(comments, c)
			}
			if !more {
				break
			}
			gap = rest
			offset += len(segment) + 1
			line++
			column = 0
		}
	}

	return comments
}
