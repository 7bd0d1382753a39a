package rules

import (
	"fmt"
	"iter"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// mergeKey is the "<<" merge key of YAML 1.1.
const mergeKey = "<<"

// KeyDuplicatesRule forbids repeating a key within one mapping.
type KeyDuplicatesRule struct {
	lint.BaseRule
}

// NewKeyDuplicatesRule creates a new key-duplicates rule.
func NewKeyDuplicatesRule() *KeyDuplicatesRule {
	return &KeyDuplicatesRule{
		BaseRule: lint.NewBaseRule(
			"key-duplicates",
			"Mappings should not contain duplicate keys",
			[]string{"mappings"},
			true,
			config.SeverityError,
			lint.Schema{boolOption("forbid-duplicated-merge-keys", false)},
		),
	}
}

// collection is one open mapping or sequence.
type collection struct {
	mapping bool
	keys    map[string]bool
}

// keyStack tracks the collections enclosing the current token.
type keyStack struct {
	open []collection
}

func (s *keyStack) push(mapping bool) {
	s.open = append(s.open, collection{mapping: mapping, keys: make(map[string]bool)})
}

func (s *keyStack) pop() {
	if len(s.open) > 0 {
		s.open = s.open[:len(s.open)-1]
	}
}

func (s *keyStack) top() *collection {
	if len(s.open) == 0 {
		return nil
	}
	return &s.open[len(s.open)-1]
}

// Check reports a scalar key already seen in the enclosing mapping. Only
// scalar keys are compared.
func (r *KeyDuplicatesRule) Check() lint.Check {
	return lint.TokenCheck[keyStack]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, stack *keyStack) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				switch tok.Kind {
				case yamlast.BlockMappingStart, yamlast.FlowMappingStart:
					stack.push(true)
				case yamlast.BlockSequenceStart, yamlast.FlowSequenceStart:
					stack.push(false)
				case yamlast.BlockMappingEnd, yamlast.BlockSequenceEnd, yamlast.FlowMappingEnd, yamlast.FlowSequenceEnd:
					stack.pop()
				case yamlast.Key:
					// Keys also appear as single-pair mappings inside flow sequences.
					top := stack.top()
					if !w.Next.Is(yamlast.Scalar) || top == nil || !top.mapping {
						return
					}
					key := w.Next.Value
					if top.keys[key] && (key != mergeKey || cfg.Bool("forbid-duplicated-merge-keys")) {
						yield(lint.Problem{
							Line:    w.Next.Start.Line + 1,
							Column:  w.Next.Start.Column + 1,
							Message: fmt.Sprintf("duplication of key %q in mapping", key),
						})
						return
					}
					top.keys[key] = true
				}
			}
		},
	}
}
