package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unknown keys are rejected.
// An empty document yields an empty configuration.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.YAMLFiles = slices.Clone(c.YAMLFiles)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.IgnoreFromFile = slices.Clone(c.IgnoreFromFile)

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			clone.Rules[id] = rc.Clone()
		}
	}

	return &clone
}

// Extend layers override on top of c following the extends semantics:
// scalar settings of override win when set, and each rule entry is
// extended individually. CLI-only fields keep the values of c.
func (c *Config) Extend(override *Config) *Config {
	out := c.Clone()
	if out == nil {
		out = &Config{}
	}
	if override == nil {
		return out
	}

	out.Extends = override.Extends
	if override.YAMLFiles != nil {
		out.YAMLFiles = slices.Clone(override.YAMLFiles)
	}
	if override.Ignore != nil {
		out.Ignore = slices.Clone(override.Ignore)
	}
	if override.IgnoreFromFile != nil {
		out.IgnoreFromFile = slices.Clone(override.IgnoreFromFile)
	}
	if override.FileEncoding != "" {
		out.FileEncoding = override.FileEncoding
	}

	if out.Rules == nil {
		out.Rules = make(map[string]RuleConfig, len(override.Rules))
	}
	for _, id := range slices.Sorted(maps.Keys(override.Rules)) {
		rc := override.Rules[id]
		if base, ok := out.Rules[id]; ok {
			out.Rules[id] = base.Extend(rc)
		} else {
			out.Rules[id] = rc.Clone()
		}
	}

	return out
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
