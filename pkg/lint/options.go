package lint

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrInvalidOption is returned when a rule option is unknown or out of schema.
var ErrInvalidOption = errors.New("invalid rule option")

// OptionType is the kind of value an option accepts.
type OptionType uint8

const (
	TypeInt OptionType = iota
	TypeBool
	TypeString
	TypeStringList
)

func (t OptionType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeString:
		return "str"
	case TypeStringList:
		return "list of str"
	}
	return "unknown"
}

// OptionSpec declares one rule option.
type OptionSpec struct {
	Name string

	// Types lists the accepted value kinds; the first match wins.
	Types []OptionType

	// Allowed, when set, restricts values (or list elements) to these.
	Allowed []any

	// Default is used when the option is not configured.
	Default any
}

// Schema is the set of options a rule accepts.
type Schema []OptionSpec

// Lookup returns the spec named name.
func (s Schema) Lookup(name string) (OptionSpec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return OptionSpec{}, false
}

// Defaults returns the default value of every option.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s))
	for _, spec := range s {
		out[spec.Name] = spec.Default
	}
	return out
}

// Options holds a rule's validated option values. The zero value has no
// options; accessors return zero values for missing names.
type Options struct {
	values map[string]any
}

// Int returns an integer option.
func (o Options) Int(name string) int {
	v, _ := o.values[name].(int)
	return v
}

// Bool returns a boolean option.
func (o Options) Bool(name string) bool {
	v, _ := o.values[name].(bool)
	return v
}

// String returns a string option.
func (o Options) String(name string) string {
	v, _ := o.values[name].(string)
	return v
}

// Strings returns a string list option. The returned slice must not be modified.
func (o Options) Strings(name string) []string {
	v, _ := o.values[name].([]string)
	return v
}

// Raw returns the option value as validated.
func (o Options) Raw(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Map returns a copy of all option values.
func (o Options) Map() map[string]any {
	return maps.Clone(o.values)
}

// ValidateOptions checks raw option values against the rule's schema, fills
// in defaults and returns the result. Unknown options and values outside the
// schema are rejected with an error wrapping ErrInvalidOption.
func ValidateOptions(rule Rule, raw map[string]any) (Options, error) {
	schema := rule.Schema()
	values := schema.Defaults()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		spec, ok := schema.Lookup(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: rule %q has no option %q", ErrInvalidOption, rule.ID(), name))
			continue
		}
		v, err := normalizeOption(spec, raw[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: rule %q option %q: %w", ErrInvalidOption, rule.ID(), name, err))
			continue
		}
		values[name] = v
	}

	if len(errs) > 0 {
		return Options{}, errors.Join(errs...)
	}
	return Options{values: values}, nil
}

// normalizeOption converts v to the first matching type of spec and checks
// it against the allowed values.
func normalizeOption(spec OptionSpec, v any) (any, error) {
	for _, typ := range spec.Types {
		norm, ok := convertOption(typ, v)
		if !ok {
			continue
		}
		if err := checkAllowed(spec, norm); err != nil {
			return nil, err
		}
		return norm, nil
	}

	types := make([]string, len(spec.Types))
	for i, typ := range spec.Types {
		types[i] = typ.String()
	}
	return nil, fmt.Errorf("should be %s, got %v", strings.Join(types, " or "), v)
}

func convertOption(typ OptionType, v any) (any, bool) {
	switch typ {
	case TypeInt:
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case uint64:
			return int(n), n <= math.MaxInt
		case float64:
			return int(n), n == math.Trunc(n)
		}
	case TypeBool:
		b, ok := v.(bool)
		return b, ok
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeStringList:
		switch list := v.(type) {
		case []string:
			return slices.Clone(list), true
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				out = append(out, s)
			}
			return out, true
		}
	}
	return nil, false
}

func checkAllowed(spec OptionSpec, v any) error {
	if len(spec.Allowed) == 0 {
		return nil
	}
	if list, ok := v.([]string); ok {
		for _, item := range list {
			if !slices.Contains(spec.Allowed, any(item)) {
				return fmt.Errorf("%q is not one of %v", item, spec.Allowed)
			}
		}
		return nil
	}
	if !slices.Contains(spec.Allowed, v) {
		return fmt.Errorf("%v is not one of %v", v, spec.Allowed)
	}
	return nil
}
