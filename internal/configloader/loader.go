// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, preset and file
// extension, hierarchical merging, environment variable support and
// validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/lint/rules"
)

// ErrExtendsCycle is returned when configuration files extend each other.
var ErrExtendsCycle = errors.New("extends cycle")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config-file).
	ExplicitPath string

	// ConfigData is inline YAML configuration (from --config-data). A bare
	// preset name such as "relaxed" is accepted as a shorthand for
	// "extends: relaxed".
	ConfigData string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Registry holds the rules the configuration is validated against.
	// Defaults to lint.DefaultRegistry.
	Registry *lint.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Rules are the enabled rules with their resolved levels and options.
	Rules []lint.ResolvedRule

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOYAMLLINT_*)
//  3. Inline configuration (opts.ConfigData)
//  4. Explicit config file (opts.ExplicitPath or GOYAMLLINT_CONFIG_FILE)
//  5. Project config (upward search from the working directory)
//  6. User config ($XDG_CONFIG_HOME/goyamllint/config)
//  7. The default preset
//
// Each file may extend a preset or another file. The result is validated
// before it is returned; rule configuration errors are reported together.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)
	result := &LoadResult{}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result.Paths = paths

	explicit := opts.ExplicitPath
	if explicit == "" && !opts.IgnoreEnv {
		explicit = os.Getenv(envVarPrefix + "CONFIG_FILE")
	}
	if explicit != "" {
		paths.Explicit = explicit
	}

	cfg, err := presetConfig(config.DefaultPreset)
	if err != nil {
		return nil, err
	}
	cfg.YAMLFiles = config.DefaultYAMLFiles()

	layer := func(name, path string, skip bool) error {
		if skip || path == "" {
			return nil
		}
		fileCfg, err := loadConfigFile(path, nil)
		if err != nil {
			return fmt.Errorf("load %s config: %w", name, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, path)
		logger.Debug("loaded configuration", logging.FieldPath, path, logging.FieldSource, name)
		return nil
	}

	if err := layer("user", paths.User, opts.IgnoreUserConfig); err != nil {
		return nil, err
	}
	// An explicit file replaces the project config.
	if err := layer("project", paths.Project, opts.IgnoreProjectConfig || explicit != ""); err != nil {
		return nil, err
	}
	if err := layer("explicit", explicit, false); err != nil {
		return nil, err
	}

	if opts.ConfigData != "" {
		dataCfg, err := parseConfigData(opts.ConfigData, workDir)
		if err != nil {
			return nil, fmt.Errorf("load config data: %w", err)
		}
		cfg = merge(cfg, dataCfg)
		logger.Debug("applied inline configuration")
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	if err := expandIgnoreFiles(ctx, cfg, workDir); err != nil {
		return nil, err
	}

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, validation.Err()
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	resolved, err := lint.ResolveRules(registry, cfg)
	if err != nil {
		return nil, &ValidationError{Field: "rules", Message: err.Error()}
	}

	result.Config = cfg
	result.Rules = resolved
	return result, nil
}

// loadConfigFile reads a configuration file and applies its extends chain.
// seen holds the files already on the chain.
func loadConfigFile(path string, seen map[string]bool) (*config.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("%w: %s", ErrExtendsCycle, path)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[abs] = true
	return applyExtends(cfg, filepath.Dir(abs), seen)
}

// parseConfigData parses inline configuration. Relative extends paths are
// resolved against dir.
func parseConfigData(data, dir string) (*config.Config, error) {
	if rules.PackByName(data) != nil {
		return presetConfig(data)
	}

	cfg, err := config.FromYAML([]byte(data))
	if err != nil {
		return nil, &ValidationError{Field: "config-data", Message: err.Error()}
	}
	return applyExtends(cfg, dir, make(map[string]bool))
}

// applyExtends layers cfg over the preset or file it extends. A relative
// file path is resolved against dir.
func applyExtends(cfg *config.Config, dir string, seen map[string]bool) (*config.Config, error) {
	if cfg.Extends == "" {
		return cfg, nil
	}

	var base *config.Config
	if rules.PackByName(cfg.Extends) != nil {
		var err error
		if base, err = presetConfig(cfg.Extends); err != nil {
			return nil, err
		}
	} else {
		path := cfg.Extends
		if filepath.Ext(path) == "" && !strings.ContainsRune(filepath.ToSlash(path), '/') && !fileExists(filepath.Join(dir, path)) {
			return nil, &ValidationError{
				Field:   "extends",
				Value:   path,
				Message: fmt.Sprintf("unknown preset %q; must be one of: %s", path, strings.Join(rules.PackNames(), ", ")),
			}
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		var err error
		if base, err = loadConfigFile(path, seen); err != nil {
			return nil, fmt.Errorf("extends %s: %w", cfg.Extends, err)
		}
	}

	return base.Extend(cfg), nil
}

// presetConfig returns the configuration of the named built-in pack.
func presetConfig(name string) (*config.Config, error) {
	pack := rules.PackByName(name)
	if pack == nil {
		return nil, &ValidationError{Field: "extends", Value: name, Message: fmt.Sprintf("unknown preset %q", name)}
	}
	cfg := pack.Config()
	cfg.Extends = name
	return cfg, nil
}

// expandIgnoreFiles appends the patterns listed in ignore-from-file files to
// the matching ignore lists. Paths are relative to dir.
func expandIgnoreFiles(ctx context.Context, cfg *config.Config, dir string) error {
	read := func(files config.Patterns) (config.Patterns, error) {
		var out config.Patterns
		for _, file := range files {
			path := file
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			lines, err := fsutil.ReadLines(ctx, path)
			if err != nil {
				return nil, &ValidationError{Field: "ignore-from-file", Value: file, Message: err.Error()}
			}
			for _, line := range lines {
				if line != "" {
					out = append(out, line)
				}
			}
		}
		return out, nil
	}

	extra, err := read(cfg.IgnoreFromFile)
	if err != nil {
		return err
	}
	cfg.Ignore = append(cfg.Ignore, extra...)

	for id, rc := range cfg.Rules {
		if len(rc.IgnoreFromFile) == 0 {
			continue
		}
		extra, err := read(rc.IgnoreFromFile)
		if err != nil {
			return err
		}
		rc.Ignore = append(rc.Ignore, extra...)
		cfg.Rules[id] = rc
	}
	return nil
}
