package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// Column stops of the problem line, as display widths.
const (
	levelStop   = 12
	messageStop = 21
)

// Describe returns the message shown for p and the rule to show beside it.
// Syntax problems carry their rule in the message.
func Describe(p lint.Problem) (message, rule string) {
	if p.Class == lint.ClassSyntax {
		return p.Message + " (" + p.RuleID + ")", ""
	}
	return p.Message, p.RuleID
}

// FormatProblem formats one problem as an indented line:
//
//	  3:5       error    wrong indentation  (indentation)
//
// The location, level and message start at fixed columns.
func (s *Styles) FormatProblem(p lint.Problem) string {
	message, rule := Describe(p)
	location := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(s.Location.Render(location))
	width := 2 + len(location)

	pad := func(stop int) {
		if width < stop {
			b.WriteString(strings.Repeat(" ", stop-width))
			width = stop
		}
	}

	pad(levelStop)
	b.WriteString(s.FormatLevel(p.Level))
	width += len(p.Level)
	pad(messageStop)
	b.WriteString(s.Message.Render(message))

	if rule != "" {
		b.WriteString("  ")
		b.WriteString(s.RuleID.Render("(" + rule + ")"))
	}
	return b.String()
}

// FormatLevel returns a styled level.
func (s *Styles) FormatLevel(level config.Severity) string {
	if level == config.SeverityWarning {
		return s.Warning.Render(string(level))
	}
	return s.Error.Render(string(level))
}

// FormatFileHeader formats the file name printed above its problems.
func (s *Styles) FormatFileHeader(path string) string {
	return s.FilePath.Render(path)
}
