package rules

import (
	"fmt"
	"iter"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// TrailingSpacesRule forbids whitespace at the end of lines.
type TrailingSpacesRule struct {
	lint.BaseRule
}

// NewTrailingSpacesRule creates a new trailing-spaces rule.
func NewTrailingSpacesRule() *TrailingSpacesRule {
	return &TrailingSpacesRule{
		BaseRule: lint.NewBaseRule(
			"trailing-spaces",
			"Lines should not end with whitespace",
			[]string{"whitespace"},
			true,
			config.SeverityError,
			nil,
		),
	}
}

// Check reports the first trailing space or tab of each line.
func (r *TrailingSpacesRule) Check() lint.Check {
	return lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			text := line.Text()
			trimmed := strings.TrimRight(text, " \t\v\f\r")
			if len(trimmed) == len(text) {
				return
			}
			// Only spaces and tabs are YAML white space.
			if c := text[len(trimmed)]; c != ' ' && c != '\t' {
				return
			}
			yield(lint.Problem{
				Line:    line.Number,
				Column:  utf8.RuneCountInString(trimmed) + 1,
				Message: "trailing spaces",
			})
		}
	})
}

// NewLinesRule enforces the line ending style.
type NewLinesRule struct {
	lint.BaseRule
}

// Line ending types accepted by new-lines.
const (
	NewLineUnix     = "unix"
	NewLineDOS      = "dos"
	NewLinePlatform = "platform"
)

// NewNewLinesRule creates a new new-lines rule.
func NewNewLinesRule() *NewLinesRule {
	return &NewLinesRule{
		BaseRule: lint.NewBaseRule(
			"new-lines",
			"Line endings should use a single style",
			[]string{"whitespace"},
			true,
			config.SeverityError,
			lint.Schema{
				{
					Name:    "type",
					Types:   []lint.OptionType{lint.TypeString},
					Allowed: []any{NewLineUnix, NewLineDOS, NewLinePlatform},
					Default: NewLineUnix,
				},
			},
		),
	}
}

// Check inspects the ending of the first line only; a file is expected to
// use one style throughout.
func (r *NewLinesRule) Check() lint.Check {
	return lint.LineCheck(func(cfg lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			if line.Number != 1 || line.IsLast() {
				return
			}

			want := expectedNewLine(cfg.String("type"))
			src := line.Source()
			end := line.TextEnd()
			if strings.HasPrefix(src[end:], want) {
				return
			}

			// Quote the way Go would, then drop the quotes: "\n" prints as \n.
			quoted := strconv.Quote(want)
			yield(lint.Problem{
				Line:    1,
				Column:  utf8.RuneCountInString(line.Text()) + 1,
				Message: "wrong new line character: expected " + quoted[1:len(quoted)-1],
			})
		}
	})
}

func expectedNewLine(typ string) string {
	switch typ {
	case NewLineDOS:
		return "\r\n"
	case NewLinePlatform:
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
	}
	return "\n"
}

// NewLineAtEndOfFileRule requires a line break after the last line.
type NewLineAtEndOfFileRule struct {
	lint.BaseRule
}

// NewNewLineAtEndOfFileRule creates a new new-line-at-end-of-file rule.
func NewNewLineAtEndOfFileRule() *NewLineAtEndOfFileRule {
	return &NewLineAtEndOfFileRule{
		BaseRule: lint.NewBaseRule(
			"new-line-at-end-of-file",
			"Files should end with a new line character",
			[]string{"whitespace"},
			true,
			config.SeverityError,
			nil,
		),
	}
}

// Check reports a non-empty unterminated last line.
func (r *NewLineAtEndOfFileRule) Check() lint.Check {
	return lint.LineCheck(func(_ lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			if !line.IsLast() || line.Content == "" {
				return
			}
			yield(lint.Problem{
				Line:    line.Number,
				Column:  utf8.RuneCountInString(line.Content) + 1,
				Message: "no new line character at the end of file",
			})
		}
	})
}

// EmptyLinesRule limits consecutive blank lines.
type EmptyLinesRule struct {
	lint.BaseRule
}

// NewEmptyLinesRule creates a new empty-lines rule.
func NewEmptyLinesRule() *EmptyLinesRule {
	return &EmptyLinesRule{
		BaseRule: lint.NewBaseRule(
			"empty-lines",
			"Limit the number of consecutive blank lines",
			[]string{"whitespace"},
			true,
			config.SeverityError,
			lint.Schema{
				{Name: "max", Types: []lint.OptionType{lint.TypeInt}, Default: 2},
				{Name: "max-start", Types: []lint.OptionType{lint.TypeInt}, Default: 0},
				{Name: "max-end", Types: []lint.OptionType{lint.TypeInt}, Default: 0},
			},
		),
	}
}

// Check reports a run of blank lines on its last line. Runs at the start and
// end of the file have their own limits.
func (r *EmptyLinesRule) Check() lint.Check {
	return lint.LineCheck(func(cfg lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			src := line.Source()
			start, end := line.Start, line.TextEnd()
			if start != end || end >= len(src) {
				return
			}

			// Only the last blank line of a run is reported.
			rest := src[end:]
			if strings.HasPrefix(rest, "\n\n") || strings.HasPrefix(rest, "\r\n\r\n") {
				return
			}

			blank := 0
			for start >= 2 && src[start-2:start] == "\r\n" {
				blank++
				start -= 2
			}
			for start >= 1 && src[start-1] == '\n' {
				blank++
				start--
			}

			limit := cfg.Int("max")
			if start == 0 {
				// The first line has no break before it.
				blank++
				limit = cfg.Int("max-start")
			}

			if rest == "\n" || rest == "\r\n" {
				// A file holding a single line break is fine.
				if end == 0 {
					return
				}
				limit = cfg.Int("max-end")
			}

			if blank > limit {
				yield(lint.Problem{
					Line:    line.Number,
					Column:  1,
					Message: fmt.Sprintf("too many blank lines (%d > %d)", blank, limit),
				})
			}
		}
	})
}
