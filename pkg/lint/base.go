package lint

import "github.com/yaklabco/goyamllint/pkg/config"

// BaseRule provides the metadata half of the Rule interface.
// Embed this in rule implementations and add a Check method.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
type BaseRule struct {
	id      string
	desc    string
	tags    []string
	enabled bool
	level   config.Severity
	schema  Schema
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, desc string, tags []string, defaultEnabled bool, level config.Severity, schema Schema) BaseRule {
	return BaseRule{
		id:      id,
		desc:    desc,
		tags:    tags,
		enabled: defaultEnabled,
		level:   level,
		schema:  schema,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Description returns what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool {
	return r.enabled
}

// DefaultLevel returns the default level for this rule.
func (r *BaseRule) DefaultLevel() config.Severity {
	return r.level
}

// Schema returns the rule's option schema.
func (r *BaseRule) Schema() Schema {
	return r.schema
}
