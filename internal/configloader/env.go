package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/goyamllint/pkg/config"
)

// envVarPrefix is the prefix for all goyamllint environment variables.
const envVarPrefix = "GOYAMLLINT_"

// legacyEncodingVar is read when GOYAMLLINT_FILE_ENCODING is unset.
const legacyEncodingVar = "YAMLLINT_FILE_ENCODING"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMAT":        {field: "format", typ: envTypeString, description: "Output format: auto, standard, colored, parsable, github, json, or sarif"},
	"STRICT":        {field: "strict", typ: envTypeBool, description: "Fail on warnings: true or false"},
	"NO_WARNINGS":   {field: "no_warnings", typ: envTypeBool, description: "Hide warnings: true or false"},
	"JOBS":          {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
	"FILE_ENCODING": {field: "file_encoding", typ: envTypeString, description: "Force the input encoding, e.g. utf-16-le"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOYAMLLINT_ (e.g., GOYAMLLINT_FORMAT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" && mapping.field == "file_encoding" {
			envVar = legacyEncodingVar
			value = os.Getenv(envVar)
		}
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "file_encoding":
		cfg.FileEncoding = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "strict":
		cfg.Strict = value
	case "no_warnings":
		cfg.NoWarnings = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings)+2)
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.description
	}
	out[envVarPrefix+"CONFIG_FILE"] = "Path of the configuration file to use"
	out[legacyEncodingVar] = "Legacy spelling of " + envVarPrefix + "FILE_ENCODING"
	return out
}
