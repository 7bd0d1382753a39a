package configloader

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/decoder"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.truthy.level").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// IsValidationError reports whether err carries a configuration error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins the errors into one, or returns nil when the result is valid.
func (r *ValidationResult) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Rule entries are
// checked against registry; a nil registry uses lint.DefaultRegistry.
func Validate(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		names := make([]string, 0, len(config.Formats()))
		for _, f := range config.Formats() {
			names = append(names, string(f))
		}
		result.addError("format", cfg.Format, "invalid format %q; must be one of: %s",
			cfg.Format, strings.Join(names, ", "))
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.FileEncoding != "" {
		if _, err := decoder.ParseEncoding(cfg.FileEncoding); err != nil {
			result.addError("file-encoding", cfg.FileEncoding, "%v", err)
		}
	}

	validatePatterns("yaml-files", cfg.YAMLFiles, result)
	validatePatterns("ignore", cfg.Ignore, result)
	if cfg.YAMLFiles != nil && len(cfg.YAMLFiles) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "yaml-files",
			Message: "no file patterns; directories will yield no files",
		})
	}

	validateRules(cfg, registry, result)

	return result
}

// validateRules checks every rule entry. Unknown rules, invalid levels and
// invalid options are all errors.
func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	for _, id := range slices.Sorted(maps.Keys(cfg.Rules)) {
		rc := cfg.Rules[id]
		field := "rules." + id

		rule, ok := registry.Get(id)
		if !ok {
			result.addError(field, id, "unknown rule %q", id)
			continue
		}

		if rc.Level != "" && !rc.Level.IsValid() {
			result.addError(field+".level", rc.Level, "invalid level %q; must be one of: error, warning", rc.Level)
		}

		validatePatterns(field+".ignore", rc.Ignore, result)

		if !rc.Enabled {
			continue
		}
		if _, err := lint.ValidateOptions(rule, rc.Options); err != nil {
			result.addError(field, nil, "%v", err)
		}
	}
}

// validatePatterns checks that every pattern compiles.
func validatePatterns(field string, patterns config.Patterns, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := fsutil.CompileMatcher([]string{pattern}); err != nil {
			result.addError(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid pattern: %v", err)
		}
	}
}
