package lint

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Level is the resolved level for problems from this rule.
	Level config.Severity

	// Options are the validated rule options with defaults filled in.
	Options Options

	// Ignore selects paths the rule is not applied to. May be nil.
	Ignore *fsutil.Matcher
}

// Applies reports whether the rule runs for the file at path.
// An empty path (stdin, in-memory content) is never ignored.
func (rr ResolvedRule) Applies(path string) bool {
	return path == "" || !rr.Ignore.Match(path, false)
}

// Resolve builds a ResolvedRule for rule from its configuration entry.
// A nil entry uses the rule defaults.
func Resolve(rule Rule, rc *config.RuleConfig) (ResolvedRule, error) {
	rr := ResolvedRule{Rule: rule, Level: rule.DefaultLevel()}

	var raw map[string]any
	var ignore []string
	if rc != nil {
		if rc.Level != "" {
			if !rc.Level.IsValid() {
				return ResolvedRule{}, fmt.Errorf("rule %q: invalid level %q", rule.ID(), rc.Level)
			}
			rr.Level = rc.Level
		}
		raw = rc.Options
		ignore = rc.Ignore
	}

	opts, err := ValidateOptions(rule, raw)
	if err != nil {
		return ResolvedRule{}, err
	}
	rr.Options = opts

	if len(ignore) > 0 {
		m, err := fsutil.CompileMatcher(ignore)
		if err != nil {
			return ResolvedRule{}, fmt.Errorf("rule %q: ignore: %w", rule.ID(), err)
		}
		rr.Ignore = m
	}

	return rr, nil
}

// ResolveRules determines which rules to run based on the registry and
// configuration. Rules named in cfg.Rules decide their own enablement;
// the others follow their defaults. Every configuration error is reported,
// joined, and no rules are returned in that case.
func ResolveRules(registry *Registry, cfg *config.Config) ([]ResolvedRule, error) {
	var entries map[string]config.RuleConfig
	if cfg != nil {
		entries = cfg.Rules
	}

	var errs []error
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		if _, ok := registry.Get(id); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownRule, id))
		}
	}

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		entry, configured := entries[rule.ID()]

		enabled := rule.DefaultEnabled()
		var rc *config.RuleConfig
		if configured {
			enabled = entry.Enabled
			rc = &entry
		}
		if !enabled {
			continue
		}

		rr, err := Resolve(rule, rc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, rr)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return resolved, nil
}
