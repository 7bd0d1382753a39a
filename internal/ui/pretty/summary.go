package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 problems (8 errors, 4 warnings) in 3 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.ProblemsTotal == 0 {
		return s.Success.Render("No problems found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) + "\n"
	}

	var levelParts []string
	if n := stats.ProblemsByLevel[config.SeverityError]; n > 0 {
		levelParts = append(levelParts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.ProblemsByLevel[config.SeverityWarning]; n > 0 {
		levelParts = append(levelParts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}

	line := fmt.Sprintf("%d %s", stats.ProblemsTotal, plural(stats.ProblemsTotal, "problem", "problems"))
	if len(levelParts) > 0 {
		line += " (" + strings.Join(levelParts, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles))

	if stats.FilesErrored > 0 {
		line += ", " + s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles)))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " + strconv.Itoa(stats.FilesProcessed) + "\n")
	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " + s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.BlocksLinted > 0 {
		builder.WriteString("  Code blocks:       " + strconv.Itoa(stats.BlocksLinted) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total problems:    " + strconv.Itoa(stats.ProblemsTotal) + "\n")
	if n := stats.ProblemsByLevel[config.SeverityError]; n > 0 {
		builder.WriteString("    Errors:          " + s.Error.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.ProblemsByLevel[config.SeverityWarning]; n > 0 {
		builder.WriteString("    Warnings:        " + s.Warning.Render(strconv.Itoa(n)) + "\n")
	}
	if stats.SyntaxErrors > 0 {
		builder.WriteString("    Syntax errors:   " + s.Error.Render(strconv.Itoa(stats.SyntaxErrors)) + "\n")
	}

	builder.WriteString("\n")
	switch {
	case stats.ProblemsByLevel[config.SeverityError] > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.ProblemsByLevel[config.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
