package rules

import "github.com/yaklabco/goyamllint/pkg/config"

// Pack describes a named preset of rule settings. A configuration selects
// one with "extends: <name>".
type Pack struct {
	// Name is the short identifier for the pack (e.g., "default", "relaxed").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Extends names the pack this one is layered on, if any.
	Extends string

	// Rules contains rule configurations keyed by rule ID.
	Rules map[string]config.RuleConfig
}

// Config returns the configuration the pack stands for, with the pack it
// extends applied first.
func (p Pack) Config() *config.Config {
	own := &config.Config{Rules: make(map[string]config.RuleConfig, len(p.Rules))}
	for id, rc := range p.Rules {
		own.Rules[id] = rc.Clone()
	}

	if p.Extends == "" {
		return own
	}
	base := PackByName(p.Extends)
	if base == nil {
		return own
	}
	return base.Config().Extend(own)
}

// DefaultPack returns the preset used when a configuration extends nothing
// else. Every rule runs; comment and style checks only warn.
func DefaultPack() Pack {
	return Pack{
		Name:        config.DefaultPreset,
		Description: "All rules with their default options; cosmetic checks are warnings",
		Rules: map[string]config.RuleConfig{
			"anchors":                 enabled(""),
			"braces":                  enabled(""),
			"brackets":                enabled(""),
			"colons":                  enabled(""),
			"commas":                  enabled(""),
			"comments":                enabled(config.SeverityWarning),
			"comments-indentation":    enabled(config.SeverityWarning),
			"document-end":            config.Disabled(),
			"document-start":          enabled(config.SeverityWarning),
			"empty-lines":             enabled(""),
			"hyphens":                 enabled(""),
			"key-duplicates":          enabled(""),
			"line-length":             enabled(""),
			"new-line-at-end-of-file": enabled(""),
			"new-lines":               enabled(""),
			"trailing-spaces":         enabled(""),
			"truthy":                  enabled(config.SeverityWarning),
		},
	}
}

// RelaxedPack returns a preset for loose style guides or legacy files:
// layout problems only warn and comment rules are off.
func RelaxedPack() Pack {
	return Pack{
		Name:        "relaxed",
		Description: "Default pack with layout checks as warnings and comment rules off",
		Extends:     config.DefaultPreset,
		Rules: map[string]config.RuleConfig{
			"braces":               config.Enabled(map[string]any{"max-spaces-inside": 1}).WithLevel(config.SeverityWarning),
			"brackets":             config.Enabled(map[string]any{"max-spaces-inside": 1}).WithLevel(config.SeverityWarning),
			"colons":               enabled(config.SeverityWarning),
			"commas":               enabled(config.SeverityWarning),
			"comments":             config.Disabled(),
			"comments-indentation": config.Disabled(),
			"document-start":       config.Disabled(),
			"empty-lines":          enabled(config.SeverityWarning),
			"hyphens":              enabled(config.SeverityWarning),
			"line-length": config.Enabled(map[string]any{
				"allow-non-breakable-inline-mappings": true,
			}).WithLevel(config.SeverityWarning),
			"truthy": config.Disabled(),
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		DefaultPack(),
		RelaxedPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// enabled creates an enabled RuleConfig with the given level; "" keeps the
// rule's default level.
func enabled(level config.Severity) config.RuleConfig {
	return config.Enabled(nil).WithLevel(level)
}
