// Package runner provides multi-file linting orchestration.
package runner

import (
	"github.com/yaklabco/goyamllint/pkg/config"
)

// StdinPath is the path argument that selects standard input.
const StdinPath = "-"

// StdinName is the display name of standard input in reports.
const StdinName = "stdin"

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to match patterns against. If empty, the process working directory
	// is used.
	WorkingDir string

	// YAMLFiles selects the files found while walking directories.
	// Defaults to config.DefaultYAMLFiles().
	YAMLFiles []string

	// Ignore excludes matching files and directories, explicit files included.
	Ignore []string

	// DetectLanguage also selects files go-enry recognizes as YAML by name.
	DetectLanguage bool

	// Markdown also selects Markdown files while walking directories.
	Markdown bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.GOMAXPROCS(0)).
	Jobs int
}

// OptionsFromConfig builds Options for paths from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, workDir string, paths []string) Options {
	opts := Options{Paths: paths, WorkingDir: workDir}
	if cfg == nil {
		return opts
	}
	opts.YAMLFiles = cfg.YAMLFiles
	opts.Ignore = cfg.Ignore
	opts.DetectLanguage = cfg.DetectLanguage
	opts.Markdown = cfg.Markdown
	opts.Jobs = cfg.Jobs
	return opts
}

// effectiveYAMLFiles returns the file patterns to use, defaulting if nil.
func (o Options) effectiveYAMLFiles() []string {
	if o.YAMLFiles == nil {
		return config.DefaultYAMLFiles()
	}
	return o.YAMLFiles
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
