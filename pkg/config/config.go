// Package config defines core configuration types for goyamllint.
// These types are pure data structures; discovery, merging and validation
// live in internal/configloader.
package config

import "slices"

// Severity represents the level of a lint problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IsValid returns true if the severity is a known level.
func (s Severity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning
}

// OutputFormat specifies the output format for problems.
type OutputFormat string

const (
	FormatAuto     OutputFormat = "auto"
	FormatStandard OutputFormat = "standard"
	FormatColored  OutputFormat = "colored"
	FormatParsable OutputFormat = "parsable"
	FormatGitHub   OutputFormat = "github"
	FormatJSON     OutputFormat = "json"
	FormatSARIF    OutputFormat = "sarif"
)

// Formats lists every output format.
func Formats() []OutputFormat {
	return []OutputFormat{
		FormatAuto, FormatStandard, FormatColored, FormatParsable,
		FormatGitHub, FormatJSON, FormatSARIF,
	}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// DefaultPreset is the preset used when a configuration does not extend another.
const DefaultPreset = "default"

// Config is the root configuration structure.
type Config struct {
	// Extends names a preset ("default", "relaxed") or a configuration file
	// that this configuration builds on.
	Extends string `yaml:"extends,omitempty"`

	// YAMLFiles selects the files linted when walking directories.
	YAMLFiles Patterns `yaml:"yaml-files,omitempty"`

	// Ignore contains gitignore-style patterns for paths to skip.
	Ignore Patterns `yaml:"ignore,omitempty"`

	// IgnoreFromFile lists files whose lines are added to Ignore.
	IgnoreFromFile Patterns `yaml:"ignore-from-file,omitempty"`

	// FileEncoding forces the input encoding instead of detecting it.
	FileEncoding string `yaml:"file-encoding,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Strict makes warnings fail the run.
	Strict bool `yaml:"-"`

	// NoWarnings hides warning-level problems.
	NoWarnings bool `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Markdown lints fenced YAML blocks inside Markdown files.
	Markdown bool `yaml:"-"`

	// DetectLanguage selects YAML files by filename detection in addition
	// to YAMLFiles.
	DetectLanguage bool `yaml:"-"`

	// ListFiles prints the files that would be linted instead of linting.
	ListFiles bool `yaml:"-"`
}

// DefaultYAMLFiles are the patterns of files linted when none are configured.
func DefaultYAMLFiles() Patterns {
	return Patterns{"*.yaml", "*.yml", ".yamllint"}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extends:   DefaultPreset,
		YAMLFiles: DefaultYAMLFiles(),
		Rules:     make(map[string]RuleConfig),
		Format:    FormatAuto,
		Jobs:      0, // 0 means use GOMAXPROCS
	}
}
