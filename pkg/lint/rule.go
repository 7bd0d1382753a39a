// Package lint provides the rule contract, the engine that runs rules over a
// parsed YAML snapshot, and the registry of available rules.
package lint

import (
	"iter"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// Class separates problems reported by rules from lexical errors.
type Class uint8

const (
	// ClassStyle is a problem reported by a rule.
	ClassStyle Class = iota
	// ClassSyntax is a problem derived from a scan error.
	ClassSyntax
)

func (c Class) String() string {
	if c == ClassSyntax {
		return "syntax"
	}
	return "style"
}

// SyntaxRuleID is the rule ID carried by syntax problems.
const SyntaxRuleID = "syntax"

// Problem is a single lint finding.
type Problem struct {
	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column, counted in characters.
	Column int

	// Message describes the issue.
	Message string

	// RuleID and Level are stamped by the engine.
	RuleID string
	Level  config.Severity

	Class Class
}

// Position returns the problem position.
func (p Problem) Position() yamlast.Position {
	return yamlast.Position{Line: p.Line, Column: p.Column}
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "line-length").
	ID() string

	// Description returns a one-line description of what the rule checks.
	Description() string

	// Tags returns categorization tags for this rule.
	Tags() []string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultLevel returns the level used when the configuration sets none.
	DefaultLevel() config.Severity

	// Schema describes the options the rule accepts.
	Schema() Schema

	// Check returns the rule's check function.
	Check() Check
}

// Check is the function a rule contributes to one of the engine passes. It is
// one of LineCheck, CommentCheck or TokenCheck.
type Check interface {
	check()
}

// LineCheck inspects one line at a time.
type LineCheck func(cfg Options, line *yamlast.Line) iter.Seq[Problem]

func (LineCheck) check() {}

// CommentCheck inspects one comment at a time.
type CommentCheck func(cfg Options, c *yamlast.Comment) iter.Seq[Problem]

func (CommentCheck) check() {}

// TokenWindow is the neighborhood of the token being checked. Neighbors are
// nil past either end of the stream.
type TokenWindow struct {
	Token    *yamlast.Token
	Prev     *yamlast.Token
	Next     *yamlast.Token
	NextNext *yamlast.Token

	// Index is the position of Token in Source.Tokens.
	Index int

	Source *yamlast.FileSnapshot
}

// TokenCheck inspects the token stream. A fresh context is created with
// NewContext (or as a zero value when NewContext is nil) for every input and
// is handed to each call for that input.
type TokenCheck[C any] struct {
	NewContext func() *C
	Fn         func(cfg Options, w TokenWindow, ctx *C) iter.Seq[Problem]
}

func (TokenCheck[C]) check() {}

// tokenFunc is a token check bound to one input's context.
type tokenFunc func(cfg Options, w TokenWindow) iter.Seq[Problem]

type tokenBinder interface {
	Check
	bind() tokenFunc
}

func (c TokenCheck[C]) bind() tokenFunc {
	var ctx *C
	if c.NewContext != nil {
		ctx = c.NewContext()
	} else {
		ctx = new(C)
	}
	return func(cfg Options, w TokenWindow) iter.Seq[Problem] {
		return c.Fn(cfg, w, ctx)
	}
}
