package rules

import (
	"iter"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// Spacing rules share no state between tokens.
type noContext struct{}

func intOption(name string, def int) lint.OptionSpec {
	return lint.OptionSpec{Name: name, Types: []lint.OptionType{lint.TypeInt}, Default: def}
}

func boolOption(name string, def bool) lint.OptionSpec {
	return lint.OptionSpec{Name: name, Types: []lint.OptionType{lint.TypeBool}, Default: def}
}

// HyphensRule limits the spaces after a block sequence hyphen.
type HyphensRule struct {
	lint.BaseRule
}

// NewHyphensRule creates a new hyphens rule.
func NewHyphensRule() *HyphensRule {
	return &HyphensRule{
		BaseRule: lint.NewBaseRule(
			"hyphens",
			"Control the number of spaces after hyphens",
			[]string{"spacing", "sequences"},
			true,
			config.SeverityError,
			lint.Schema{intOption("max-spaces-after", 1)},
		),
	}
}

// Check inspects every block entry.
func (r *HyphensRule) Check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				if w.Token.Kind != yamlast.BlockEntry {
					return
				}
				p, ok := lint.SpacesAfter(w.Token, w.Next, lint.Spacing{
					Min:     -1,
					Max:     cfg.Int("max-spaces-after"),
					MaxDesc: "too many spaces after hyphen",
				})
				if ok {
					yield(p)
				}
			}
		},
	}
}

// ColonsRule limits the spaces around mapping colons and explicit key
// question marks.
type ColonsRule struct {
	lint.BaseRule
}

// NewColonsRule creates a new colons rule.
func NewColonsRule() *ColonsRule {
	return &ColonsRule{
		BaseRule: lint.NewBaseRule(
			"colons",
			"Control the number of spaces before and after colons",
			[]string{"spacing", "mappings"},
			true,
			config.SeverityError,
			lint.Schema{
				intOption("max-spaces-before", 0),
				intOption("max-spaces-after", 1),
			},
		),
	}
}

// Check inspects value indicators and explicit keys.
func (r *ColonsRule) Check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok, src := w.Token, w.Source.Source
				after := cfg.Int("max-spaces-after")

				// "*alias :" needs the space, or the colon would belong to the alias name.
				aliasKey := w.Prev.Is(yamlast.Alias) && tok.Start.Offset-w.Prev.End.Offset == 1
				if tok.Kind == yamlast.Value && !aliasKey {
					p, ok := lint.SpacesBefore(src, w.Prev, tok, lint.Spacing{
						Min:     -1,
						Max:     cfg.Int("max-spaces-before"),
						MaxDesc: "too many spaces before colon",
					})
					if ok && !yield(p) {
						return
					}
					p, ok = lint.SpacesAfter(tok, w.Next, lint.Spacing{
						Min:     -1,
						Max:     after,
						MaxDesc: "too many spaces after colon",
					})
					if ok && !yield(p) {
						return
					}
				}

				if tok.Kind == yamlast.Key && lint.IsExplicitKey(src, tok) {
					p, ok := lint.SpacesAfter(tok, w.Next, lint.Spacing{
						Min:     -1,
						Max:     after,
						MaxDesc: "too many spaces after question mark",
					})
					if ok {
						yield(p)
					}
				}
			}
		},
	}
}

// CommasRule limits the spaces around flow collection commas.
type CommasRule struct {
	lint.BaseRule
}

// NewCommasRule creates a new commas rule.
func NewCommasRule() *CommasRule {
	return &CommasRule{
		BaseRule: lint.NewBaseRule(
			"commas",
			"Control the number of spaces before and after commas",
			[]string{"spacing", "flow"},
			true,
			config.SeverityError,
			lint.Schema{
				intOption("max-spaces-before", 0),
				intOption("min-spaces-after", 1),
				intOption("max-spaces-after", 1),
			},
		),
	}
}

// Check inspects every flow entry. A comma on a later line than the
// preceding token always has too many spaces before it, unless the limit
// is disabled.
func (r *CommasRule) Check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				if tok.Kind != yamlast.FlowEntry {
					return
				}

				before := cfg.Int("max-spaces-before")
				if w.Prev != nil && before != -1 && w.Prev.End.Line < tok.Start.Line {
					p := lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  max(1, tok.Start.Column),
						Message: "too many spaces before comma",
					}
					if !yield(p) {
						return
					}
				} else {
					p, ok := lint.SpacesBefore(w.Source.Source, w.Prev, tok, lint.Spacing{
						Min:     -1,
						Max:     before,
						MaxDesc: "too many spaces before comma",
					})
					if ok && !yield(p) {
						return
					}
				}

				p, ok := lint.SpacesAfter(tok, w.Next, lint.Spacing{
					Min:     cfg.Int("min-spaces-after"),
					Max:     cfg.Int("max-spaces-after"),
					MinDesc: "too few spaces after comma",
					MaxDesc: "too many spaces after comma",
				})
				if ok {
					yield(p)
				}
			}
		},
	}
}

// flowDelimiters describes one kind of flow collection for the brackets and
// braces rules.
type flowDelimiters struct {
	start, end yamlast.TokenKind
	collection string // "sequence" or "mapping"
	delimiters string // "brackets" or "braces"
}

func flowSchema() lint.Schema {
	return lint.Schema{
		{
			Name:    "forbid",
			Types:   []lint.OptionType{lint.TypeBool, lint.TypeString},
			Allowed: []any{false, true, "non-empty"},
			Default: false,
		},
		intOption("min-spaces-inside", 0),
		intOption("max-spaces-inside", 0),
		intOption("min-spaces-inside-empty", -1),
		intOption("max-spaces-inside-empty", -1),
	}
}

func (d flowDelimiters) check() lint.Check {
	return lint.TokenCheck[noContext]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, _ *noContext) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				forbid, _ := cfg.Raw("forbid")
				inside := lint.Spacing{
					Min:     cfg.Int("min-spaces-inside"),
					Max:     cfg.Int("max-spaces-inside"),
					MinDesc: "too few spaces inside " + d.delimiters,
					MaxDesc: "too many spaces inside " + d.delimiters,
				}

				var (
					p  lint.Problem
					ok bool
				)
				switch {
				case tok.Kind == d.start && (forbid == true || forbid == "non-empty" && !w.Next.Is(d.end)):
					p = lint.Problem{
						Line:    tok.Start.Line + 1,
						Column:  tok.End.Column + 1,
						Message: "forbidden flow " + d.collection,
					}
					ok = true

				case tok.Kind == d.start && w.Next.Is(d.end):
					empty := lint.Spacing{
						Min:     inside.Min,
						Max:     inside.Max,
						MinDesc: "too few spaces inside empty " + d.delimiters,
						MaxDesc: "too many spaces inside empty " + d.delimiters,
					}
					if v := cfg.Int("min-spaces-inside-empty"); v != -1 {
						empty.Min = v
					}
					if v := cfg.Int("max-spaces-inside-empty"); v != -1 {
						empty.Max = v
					}
					p, ok = lint.SpacesAfter(tok, w.Next, empty)

				case tok.Kind == d.start:
					p, ok = lint.SpacesAfter(tok, w.Next, inside)

				case tok.Kind == d.end && !w.Prev.Is(d.start):
					p, ok = lint.SpacesBefore(w.Source.Source, w.Prev, tok, inside)
				}
				if ok {
					yield(p)
				}
			}
		},
	}
}

// BracketsRule controls spacing inside flow sequences and can forbid them.
type BracketsRule struct {
	lint.BaseRule
}

// NewBracketsRule creates a new brackets rule.
func NewBracketsRule() *BracketsRule {
	return &BracketsRule{
		BaseRule: lint.NewBaseRule(
			"brackets",
			"Control the use of flow sequences and the spaces inside brackets",
			[]string{"spacing", "flow"},
			true,
			config.SeverityError,
			flowSchema(),
		),
	}
}

// Check inspects flow sequence delimiters.
func (r *BracketsRule) Check() lint.Check {
	return flowDelimiters{
		start:      yamlast.FlowSequenceStart,
		end:        yamlast.FlowSequenceEnd,
		collection: "sequence",
		delimiters: "brackets",
	}.check()
}

// BracesRule controls spacing inside flow mappings and can forbid them.
type BracesRule struct {
	lint.BaseRule
}

// NewBracesRule creates a new braces rule.
func NewBracesRule() *BracesRule {
	return &BracesRule{
		BaseRule: lint.NewBaseRule(
			"braces",
			"Control the use of flow mappings and the spaces inside braces",
			[]string{"spacing", "flow"},
			true,
			config.SeverityError,
			flowSchema(),
		),
	}
}

// Check inspects flow mapping delimiters.
func (r *BracesRule) Check() lint.Check {
	return flowDelimiters{
		start:      yamlast.FlowMappingStart,
		end:        yamlast.FlowMappingEnd,
		collection: "mapping",
		delimiters: "braces",
	}.check()
}
