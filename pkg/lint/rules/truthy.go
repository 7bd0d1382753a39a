package rules

import (
	"iter"
	"slices"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// truthyValues are the plain scalars YAML 1.1 reads as booleans.
var truthyValues = []any{
	"YES", "Yes", "yes",
	"NO", "No", "no",
	"TRUE", "True", "true",
	"FALSE", "False", "false",
	"ON", "On", "on",
	"OFF", "Off", "off",
}

// truthyValuesYAML12 are the booleans left in YAML 1.2.
var truthyValuesYAML12 = []string{"TRUE", "True", "true", "FALSE", "False", "false"}

// TruthyRule restricts the plain scalars that read as booleans.
type TruthyRule struct {
	lint.BaseRule
}

// NewTruthyRule creates a new truthy rule.
func NewTruthyRule() *TruthyRule {
	return &TruthyRule{
		BaseRule: lint.NewBaseRule(
			"truthy",
			"Boolean values should be written in one of the allowed forms",
			[]string{"values"},
			true,
			config.SeverityWarning,
			lint.Schema{
				{
					Name:    "allowed-values",
					Types:   []lint.OptionType{lint.TypeStringList},
					Allowed: truthyValues,
					Default: []string{"true", "false"},
				},
				boolOption("check-keys", true),
			},
		),
	}
}

// truthyState is reset at every document end.
type truthyState struct {
	version string
	bad     map[string]bool
}

func (s *truthyState) disallowed(allowed []string) map[string]bool {
	if s.bad != nil {
		return s.bad
	}

	candidates := truthyValuesYAML12
	if s.version == "" || s.version == "1.1" {
		candidates = make([]string, len(truthyValues))
		for i, v := range truthyValues {
			candidates[i] = v.(string)
		}
	}

	s.bad = make(map[string]bool)
	for _, v := range candidates {
		if !slices.Contains(allowed, v) {
			s.bad[v] = true
		}
	}
	return s.bad
}

// Check reports untagged plain scalars that are booleans under the
// document's YAML version but not among allowed-values. Documents without a
// %YAML directive are read as YAML 1.1.
func (r *TruthyRule) Check() lint.Check {
	return lint.TokenCheck[truthyState]{
		Fn: func(cfg lint.Options, w lint.TokenWindow, state *truthyState) iter.Seq[lint.Problem] {
			return func(yield func(lint.Problem) bool) {
				tok := w.Token
				switch {
				case tok.Kind == yamlast.Directive && tok.Name == "YAML":
					state.version = tok.Value
				case tok.Kind == yamlast.DocumentEnd:
					*state = truthyState{}
					return
				}

				if w.Prev.Is(yamlast.Tag) {
					return
				}
				if !cfg.Bool("check-keys") && w.Prev.Is(yamlast.Key) && tok.Kind == yamlast.Scalar {
					return
				}
				if tok.Kind != yamlast.Scalar || tok.Style != yamlast.Plain {
					return
				}

				allowed := cfg.Strings("allowed-values")
				if !state.disallowed(allowed)[tok.Value] {
					return
				}
				sorted := slices.Sorted(slices.Values(allowed))
				yield(lint.Problem{
					Line:    tok.Start.Line + 1,
					Column:  tok.Start.Column + 1,
					Message: "truthy value should be one of [" + strings.Join(sorted, ", ") + "]",
				})
			}
		},
	}
}
