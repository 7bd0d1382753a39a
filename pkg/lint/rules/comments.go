package rules

import (
	"iter"
	"regexp"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// shebang matches the remainder of a "#!interpreter" first line.
var shebang = regexp.MustCompile(`^!\S`)

// CommentsRule checks the spacing of comments.
type CommentsRule struct {
	lint.BaseRule
}

// NewCommentsRule creates a new comments rule.
func NewCommentsRule() *CommentsRule {
	return &CommentsRule{
		BaseRule: lint.NewBaseRule(
			"comments",
			"Comments should start with a space and keep apart from content",
			[]string{"comments"},
			true,
			config.SeverityWarning,
			lint.Schema{
				boolOption("require-starting-space", true),
				boolOption("ignore-shebangs", true),
				intOption("min-spaces-from-content", 2),
			},
		),
	}
}

// Check reports inline comments too close to content and comments whose
// text does not start with a space. Runs of '#' count as the marker.
func (r *CommentsRule) Check() lint.Check {
	return lint.CommentCheck(func(cfg lint.Options, c *yamlast.Comment) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			if minSpaces := cfg.Int("min-spaces-from-content"); minSpaces != -1 && c.IsInline() &&
				c.Mark.Offset-c.Before().End.Offset < minSpaces {
				p := lint.Problem{Line: c.Line(), Column: c.Column(), Message: "too few spaces before comment"}
				if !yield(p) {
					return
				}
			}

			if !cfg.Bool("require-starting-space") {
				return
			}

			text := c.Text()
			start := 1
			for start < len(text) && text[start] == '#' {
				start++
			}
			if start == len(text) {
				return
			}
			if cfg.Bool("ignore-shebangs") && c.Line() == 1 && c.Column() == 1 && shebang.MatchString(text[start:]) {
				return
			}
			if text[start] != ' ' {
				yield(lint.Problem{
					Line:    c.Line(),
					Column:  c.Column() + start,
					Message: "missing starting space in comment",
				})
			}
		}
	})
}

// CommentsIndentationRule requires block comments to be indented like the
// content around them.
type CommentsIndentationRule struct {
	lint.BaseRule
}

// NewCommentsIndentationRule creates a new comments-indentation rule.
func NewCommentsIndentationRule() *CommentsIndentationRule {
	return &CommentsIndentationRule{
		BaseRule: lint.NewBaseRule(
			"comments-indentation",
			"Comments should be indented like content",
			[]string{"comments", "indentation"},
			true,
			config.SeverityWarning,
			nil,
		),
	}
}

// Check compares a comment on its own line with the indentation of the
// previous and the next content lines. Either one is accepted, except that
// a comment following a dedented comment must stay dedented.
func (r *CommentsIndentationRule) Check() lint.Check {
	return lint.CommentCheck(func(_ lint.Options, c *yamlast.Comment) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			before, after := c.Before(), c.After()
			if before == nil || after == nil {
				return
			}
			if before.Kind != yamlast.StreamStart && before.End.Line == c.Mark.Line {
				return
			}

			nextIndent := after.Start.Column
			if after.Kind == yamlast.StreamEnd {
				nextIndent = 0
			}

			prevIndent := 0
			if before.Kind != yamlast.StreamStart {
				prevIndent = lint.LineIndent(c.Source(), before)
			}

			// A comment above the first item of a nested block can only
			// follow the next line.
			prevIndent = max(prevIndent, nextIndent)

			if prev := c.Previous(); prev != nil && !prev.IsInline() {
				prevIndent = prev.Column() - 1
			}

			if col := c.Column() - 1; col != prevIndent && col != nextIndent {
				yield(lint.Problem{
					Line:    c.Line(),
					Column:  c.Column(),
					Message: "comment not indented like content",
				})
			}
		}
	})
}
