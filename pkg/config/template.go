package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation and default options.
	// If false, generates a minimal template.
	Full bool

	// Extends is the preset the generated configuration builds on.
	// Defaults to DefaultPreset.
	Extends string

	// IncludeRules is a list of rule IDs to include in a full template.
	// If empty, all rules are included.
	IncludeRules []string

	// Rules supplies rule metadata for full templates.
	Rules RuleInfoProvider
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Description string
	Enabled     bool
	Level       Severity
	Tags        []string
	Options     map[string]any
}

// RuleInfoProvider is a function that returns rule information.
// This keeps the config package free of a dependency on the rule set.
type RuleInfoProvider func() []RuleInfo

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Extends == "" {
		opts.Extends = DefaultPreset
	}
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return generateMinimalTemplate(opts), nil
}

func generateMinimalTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	fmt.Fprintf(&buf, "\n\nextends: %s\n", opts.Extends)
	buf.WriteString(`
# Files linted when a directory is given (gitignore-style patterns)
# yaml-files:
#   - '*.yaml'
#   - '*.yml'
#   - .yamllint

# Paths to skip
# ignore: |
#   vendor/
#   *.generated.yaml

# rules:
#   line-length:
#     max: 120
#   truthy: disable
#   comments:
#     level: warning
`)

	return buf.Bytes()
}

func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Rules == nil {
		return nil, errors.New("full template: no rule information available")
	}

	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# This template lists every rule with its default settings.\n")
	fmt.Fprintf(&buf, "\nextends: %s\n", opts.Extends)
	buf.WriteString(`
yaml-files:
  - '*.yaml'
  - '*.yml'
  - .yamllint

rules:
`)

	rules := opts.Rules()
	if len(opts.IncludeRules) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(opts.IncludeRules, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		if !rule.Enabled {
			fmt.Fprintf(&buf, "  %s: %s\n", rule.ID, RuleDisable)
			continue
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    level: %s\n", rule.Level)
		for _, key := range slices.Sorted(maps.Keys(rule.Options)) {
			fmt.Fprintf(&buf, "    %s: %s\n", key, formatTemplateValue(rule.Options[key]))
		}
	}

	return buf.Bytes(), nil
}

// formatTemplateValue renders an option default as a YAML flow value.
func formatTemplateValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case string:
		return strconv.Quote(val)
	case []string:
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	return fmt.Sprint(v)
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# goyamllint configuration
# See: https://github.com/yaklabco/goyamllint`
}
