package rules

import (
	"fmt"
	"iter"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// AnchorsRule checks anchors and aliases within each document.
type AnchorsRule struct {
	lint.BaseRule
}

// NewAnchorsRule creates a new anchors rule.
func NewAnchorsRule() *AnchorsRule {
	return &AnchorsRule{
		BaseRule: lint.NewBaseRule(
			"anchors",
			"Aliases should refer to declared anchors",
			[]string{"anchors"},
			true,
			config.SeverityError,
			lint.Schema{
				boolOption("forbid-undeclared-aliases", true),
				boolOption("forbid-duplicated-anchors", false),
				boolOption("forbid-unused-anchors", false),
			},
		),
	}
}

type anchor struct {
	name         string
	line, column int
	used         bool
}

// anchorTable holds the anchors declared in the current document, in
// declaration order. A redeclared anchor replaces the earlier one.
type anchorTable struct {
	order []anchor
	index map[string]int
}

func (t *anchorTable) reset() {
	t.order = nil
	t.index = make(map[string]int)
}

func (t *anchorTable) lookup(name string) *anchor {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return &t.order[i]
}

func (t *anchorTable) declare(tok *yamlast.Token) {
	a := anchor{name: tok.Value, line: tok.Start.Line + 1, column: tok.Start.Column + 1}
	if i, ok := t.index[tok.Value]; ok {
		t.order[i] = a
		return
	}
	t.index[tok.Value] = len(t.order)
	t.order = append(t.order, a)
}

// Check tracks anchors per document. Unused anchors are reported when the
// document ends.
func (r *AnchorsRule) Check() lint.Check {
	return lint.TokenCheck[anchorTable]{
		NewContext: func() *anchorTable {
			t := &anchorTable{}
			t.reset()
			return t
		},
		Fn: func(cfg lint.Options, w lint.TokenWindow, anchors *anchorTable) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				undeclared := cfg.Bool("forbid-undeclared-aliases")
				duplicated := cfg.Bool("forbid-duplicated-anchors")
				unused := cfg.Bool("forbid-unused-anchors")
				if !undeclared && !duplicated && !unused {
					return
				}

				if tok.Is(yamlast.StreamStart, yamlast.DocumentStart, yamlast.DocumentEnd) {
					anchors.reset()
				}

				if undeclared && tok.Kind == yamlast.Alias && anchors.lookup(tok.Value) == nil {
					p := lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  tok.Start.Column + 1,
						Message: fmt.Sprintf("found undeclared alias %q", tok.Value),
					}
					if !yield(p) {
						return
					}
				}

				if duplicated && tok.Kind == yamlast.Anchor && anchors.lookup(tok.Value) != nil {
					p := lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  tok.Start.Column + 1,
						Message: fmt.Sprintf("found duplicated anchor %q", tok.Value),
					}
					if !yield(p) {
						return
					}
				}

				if unused {
					if w.Next.Is(yamlast.StreamEnd, yamlast.DocumentStart, yamlast.DocumentEnd) {
						for _, a := range anchors.order {
							if a.used {
								continue
							}
							p := lint.Problem{
								Line:    a.line,
								Column:  a.column,
								Message: fmt.Sprintf("found unused anchor %q", a.name),
							}
							if !yield(p) {
								return
							}
						}
					} else if tok.Kind == yamlast.Alias {
						if a := anchors.lookup(tok.Value); a != nil {
							a.used = true
						}
					}
				}

				if tok.Kind == yamlast.Anchor {
					anchors.declare(tok)
				}
			}
		},
	}
}
