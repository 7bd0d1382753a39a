package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule entry keywords.
const (
	RuleEnable  = "enable"
	RuleDisable = "disable"
)

// Reserved keys of a rule mapping; everything else is a rule option.
const (
	keyLevel          = "level"
	keyIgnore         = "ignore"
	keyIgnoreFromFile = "ignore-from-file"
)

// RuleConfig holds the configuration of one rule. In YAML it is written as
// "enable", "disable", or a mapping of options plus the reserved keys
// level, ignore and ignore-from-file. A mapping enables the rule.
type RuleConfig struct {
	Enabled        bool
	Level          Severity
	Ignore         Patterns
	IgnoreFromFile Patterns
	Options        map[string]any
}

// Enabled returns an enabled rule entry with the given options.
func Enabled(options map[string]any) RuleConfig {
	return RuleConfig{Enabled: true, Options: options}
}

// Disabled returns a disabled rule entry.
func Disabled() RuleConfig {
	return RuleConfig{}
}

// WithLevel returns a copy of rc with its level set.
func (rc RuleConfig) WithLevel(level Severity) RuleConfig {
	rc.Level = level
	return rc
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (rc *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case RuleEnable:
			*rc = RuleConfig{Enabled: true}
			return nil
		case RuleDisable:
			*rc = RuleConfig{}
			return nil
		}
	case yaml.MappingNode:
		var raw map[string]any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		return rc.fromMap(raw)
	}
	return fmt.Errorf("line %d: rule entry should be %q, %q or a mapping", node.Line, RuleEnable, RuleDisable)
}

func (rc *RuleConfig) fromMap(raw map[string]any) error {
	out := RuleConfig{Enabled: true}

	if v, ok := raw[keyLevel]; ok {
		s, _ := v.(string)
		out.Level = Severity(s)
		if !out.Level.IsValid() {
			return fmt.Errorf("invalid level %v; must be %q or %q", v, SeverityError, SeverityWarning)
		}
	}

	var err error
	if out.Ignore, err = patternsFrom(raw[keyIgnore]); err != nil {
		return fmt.Errorf("%s: %w", keyIgnore, err)
	}
	if out.IgnoreFromFile, err = patternsFrom(raw[keyIgnoreFromFile]); err != nil {
		return fmt.Errorf("%s: %w", keyIgnoreFromFile, err)
	}

	for key, v := range raw {
		if key == keyLevel || key == keyIgnore || key == keyIgnoreFromFile {
			continue
		}
		if out.Options == nil {
			out.Options = make(map[string]any)
		}
		out.Options[key] = v
	}

	*rc = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (rc RuleConfig) MarshalYAML() (any, error) {
	if !rc.Enabled {
		return RuleDisable, nil
	}
	if rc.Level == "" && len(rc.Ignore) == 0 && len(rc.IgnoreFromFile) == 0 && len(rc.Options) == 0 {
		return RuleEnable, nil
	}

	out := make(map[string]any, len(rc.Options)+3)
	maps.Copy(out, rc.Options)
	if rc.Level != "" {
		out[keyLevel] = string(rc.Level)
	}
	if len(rc.Ignore) > 0 {
		out[keyIgnore] = []string(rc.Ignore)
	}
	if len(rc.IgnoreFromFile) > 0 {
		out[keyIgnoreFromFile] = []string(rc.IgnoreFromFile)
	}
	return out, nil
}

// Extend layers override on top of rc. An override mapping updates the
// options of an enabled base entry; "enable", "disable" and mappings over a
// disabled base replace it.
func (rc RuleConfig) Extend(override RuleConfig) RuleConfig {
	if !override.Enabled || !rc.Enabled || override.isBareEnable() {
		return override.Clone()
	}

	out := rc.Clone()
	if out.Options == nil && len(override.Options) > 0 {
		out.Options = make(map[string]any, len(override.Options))
	}
	maps.Copy(out.Options, override.Options)
	if override.Level != "" {
		out.Level = override.Level
	}
	if override.Ignore != nil {
		out.Ignore = slices.Clone(override.Ignore)
	}
	if override.IgnoreFromFile != nil {
		out.IgnoreFromFile = slices.Clone(override.IgnoreFromFile)
	}
	return out
}

func (rc RuleConfig) isBareEnable() bool {
	return rc.Enabled && rc.Level == "" && rc.Ignore == nil && rc.IgnoreFromFile == nil && rc.Options == nil
}

// Clone creates a deep copy of the rule configuration.
// Nested maps and slices in Options are not deep copied.
func (rc RuleConfig) Clone() RuleConfig {
	out := rc
	out.Ignore = slices.Clone(rc.Ignore)
	out.IgnoreFromFile = slices.Clone(rc.IgnoreFromFile)
	out.Options = maps.Clone(rc.Options)
	return out
}

// Patterns is a list of path patterns. In YAML it may be written as a
// sequence or as a block string with one pattern per line.
type Patterns []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Patterns) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out, err := patternsFrom(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = out
	return nil
}

var errPatterns = errors.New("should be a string or a list of strings")

func patternsFrom(v any) (Patterns, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		var out Patterns
		for line := range strings.Lines(val) {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out, nil
	case []any:
		out := make(Patterns, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, errPatterns
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errPatterns
}
