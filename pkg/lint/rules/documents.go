package rules

import (
	"iter"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// DocumentStartRule requires or forbids the "---" document start marker.
type DocumentStartRule struct {
	lint.BaseRule
}

// NewDocumentStartRule creates a new document-start rule.
func NewDocumentStartRule() *DocumentStartRule {
	return &DocumentStartRule{
		BaseRule: lint.NewBaseRule(
			"document-start",
			"Require or forbid the document start marker",
			[]string{"documents"},
			true,
			config.SeverityWarning,
			lint.Schema{boolOption("present", true)},
		),
	}
}

// Check reports content that opens a document without "---" when present
// is set, and every "---" otherwise.
func (r *DocumentStartRule) Check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				if !cfg.Bool("present") {
					if tok.Kind == yamlast.DocumentStart {
						yield(lint.Problem{
							Line:    tok.Start.Line + 1,
							Column:  tok.Start.Column + 1,
							Message: `found forbidden document start "---"`,
						})
					}
					return
				}

				if w.Prev.Is(yamlast.StreamStart, yamlast.DocumentEnd, yamlast.Directive) &&
					!tok.Is(yamlast.DocumentStart, yamlast.Directive, yamlast.StreamEnd) {
					yield(lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  1,
						Message: `missing document start "---"`,
					})
				}
			}
		},
	}
}

// DocumentEndRule requires or forbids the "..." document end marker.
type DocumentEndRule struct {
	lint.BaseRule
}

// NewDocumentEndRule creates a new document-end rule.
func NewDocumentEndRule() *DocumentEndRule {
	return &DocumentEndRule{
		BaseRule: lint.NewBaseRule(
			"document-end",
			"Require or forbid the document end marker",
			[]string{"documents"},
			false,
			config.SeverityError,
			lint.Schema{boolOption("present", true)},
		),
	}
}

// Check reports a document that is closed by the next "---" or the end of
// the stream without "..." when present is set, and every "..." otherwise.
func (r *DocumentEndRule) Check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				if !cfg.Bool("present") {
					if tok.Kind == yamlast.DocumentEnd {
						yield(lint.Problem{
							Line:    tok.Start.Line + 1,
							Column:  tok.Start.Column + 1,
							Message: `found forbidden document end "..."`,
						})
					}
					return
				}

				closed := w.Prev.Is(yamlast.DocumentEnd, yamlast.StreamStart)
				switch {
				case tok.Kind == yamlast.StreamEnd && !closed:
					// The stream end sits after the last line break; report the
					// line that holds the content.
					yield(lint.Problem{
						Line:    max(1, tok.Start.Line),
						Column:  1,
						Message: `missing document end "..."`,
					})
				case tok.Kind == yamlast.DocumentStart && !closed && !w.Prev.Is(yamlast.Directive):
					yield(lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  1,
						Message: `missing document end "..."`,
					})
				}
			}
		},
	}
}
