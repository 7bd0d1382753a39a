package rules

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// LineLengthRule checks that lines do not exceed a maximum length.
type LineLengthRule struct {
	lint.BaseRule
}

// defaultMaxLineLength is the default maximum line length.
const defaultMaxLineLength = 80

// NewLineLengthRule creates a new line-length rule.
func NewLineLengthRule() *LineLengthRule {
	return &LineLengthRule{
		BaseRule: lint.NewBaseRule(
			"line-length",
			"Line length should not exceed the configured maximum",
			[]string{"line_length"},
			true,
			config.SeverityError,
			lint.Schema{
				{Name: "max", Types: []lint.OptionType{lint.TypeInt}, Default: defaultMaxLineLength},
				{Name: "allow-non-breakable-words", Types: []lint.OptionType{lint.TypeBool}, Default: true},
				{Name: "allow-non-breakable-inline-mappings", Types: []lint.OptionType{lint.TypeBool}, Default: false},
			},
		),
	}
}

// Check reports lines longer than max characters. Lines made of a single
// word (after any indentation, comment marks or list hyphen) are allowed
// when allow-non-breakable-words is set, since they cannot be wrapped.
func (r *LineLengthRule) Check() lint.Check {
	return lint.LineCheck(func(cfg lint.Options, line *yamlast.Line) iter.Seq[lint.Problem] {
		return func(yield func(lint.Problem) bool) {
			text := line.Text()
			maxLength := cfg.Int("max")
			length := utf8.RuneCountInString(text)
			if length <= maxLength {
				return
			}

			inlineMappings := cfg.Bool("allow-non-breakable-inline-mappings")
			if (cfg.Bool("allow-non-breakable-words") || inlineMappings) && isNonBreakable(text, inlineMappings) {
				return
			}

			yield(lint.Problem{
				Line:    line.Number,
				Column:  maxLength + 1,
				Message: fmt.Sprintf("line too long (%d > %d characters)", length, maxLength),
			})
		}
	})
}

// isNonBreakable reports whether text holds a single word past its leading
// markup, or, with inlineMappings, a mapping whose value is such a word.
func isNonBreakable(text string, inlineMappings bool) bool {
	start := 0
	for start < len(text) && text[start] == ' ' {
		start++
	}
	if start == len(text) {
		return false
	}

	switch text[start] {
	case '#':
		for start < len(text) && text[start] == '#' {
			start++
		}
		start++
	case '-':
		start += 2
	}

	if start >= len(text) || !strings.Contains(text[start:], " ") {
		return true
	}
	return inlineMappings && isInlineMapping(text)
}

// isInlineMapping reports whether text is a one-line block mapping whose
// first scalar value runs to the end of the line without a space.
func isInlineMapping(text string) bool {
	// A scan error ends the token list early, which is all that is needed.
	tokens, _ := scanner.Tokenize(text)

	inMapping := false
	for i := range tokens {
		tok := &tokens[i]
		if !inMapping {
			inMapping = tok.Kind == yamlast.BlockMappingStart
			continue
		}
		if tok.Kind != yamlast.Value || i+1 >= len(tokens) {
			continue
		}
		next := &tokens[i+1]
		if next.Kind != yamlast.Scalar {
			continue
		}
		runes := []rune(text)
		return !strings.ContainsRune(string(runes[min(next.Start.Column, len(runes)):]), ' ')
	}
	return false
}
