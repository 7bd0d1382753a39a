package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/goyamllint/internal/configloader"
	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/decoder"
	"github.com/yaklabco/goyamllint/pkg/lint"
	_ "github.com/yaklabco/goyamllint/pkg/lint/rules" // Register built-in rules
	goldmarkparser "github.com/yaklabco/goyamllint/pkg/parser/goldmark"
	"github.com/yaklabco/goyamllint/pkg/parser/scanner"
	"github.com/yaklabco/goyamllint/pkg/reporter"
	"github.com/yaklabco/goyamllint/pkg/runner"
)

type lintFlags struct {
	configFile     string
	configData     string
	format         string
	fileEncoding   string
	jobs           int
	strict         bool
	noWarnings     bool
	markdown       bool
	detectLanguage bool
	listFiles      bool
	summary        bool
	compact        bool
}

func newLintCommand(info BuildInfo) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint YAML files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, info)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Lint YAML files for syntax errors and style problems.

Directories are searched recursively for files matching the yaml-files
patterns of the configuration (*.yaml, *.yml and .yamllint by default).
Files named explicitly are always linted unless they are ignored.
Use - to read from standard input.

Examples:
  goyamllint lint                          # Lint current directory
  goyamllint lint deploy/ values.yaml      # Lint a directory and a file
  cat file.yaml | goyamllint lint -        # Lint standard input
  goyamllint lint -d relaxed .             # Use the relaxed preset
  goyamllint lint -d '{rules: {line-length: {max: 120}}}' .
  goyamllint lint -f parsable .            # One problem per line
  goyamllint lint --strict .               # Fail on warnings too`

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVarP(&flags.configFile, "config-file", "c", "", "path to a custom configuration")
	cmd.Flags().StringVarP(&flags.configData, "config-data", "d", "",
		"custom configuration (as YAML source) or a preset name")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "",
		"output format: auto, standard, colored, parsable, github, json, sarif")
	cmd.Flags().BoolVarP(&flags.strict, "strict", "s", false, "return non-zero exit code on warnings as well as errors")
	cmd.Flags().BoolVar(&flags.noWarnings, "no-warnings", false, "output only error level problems")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "lint yaml code blocks of Markdown files")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"also lint files recognized as YAML by name while searching directories")
	cmd.Flags().StringVar(&flags.fileEncoding, "file-encoding", "",
		"read files with this encoding instead of detecting it")
	cmd.Flags().BoolVar(&flags.listFiles, "list-files", false, "list the files to lint and exit")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary line after text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify json and sarif output")
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	if flags.configFile != "" && flags.configData != "" {
		return exitError(ExitInvalidUsage, errors.New("--config-file and --config-data cannot be used together"))
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return exitError(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}
	if !cmd.Flags().Changed("format") {
		format = ""
	}

	stdin := cmd.InOrStdin()
	readStdin, err := wantsStdin(args, stdin)
	if err != nil {
		return exitError(ExitInvalidUsage, err)
	}

	// Only values given on the command line override the loaded configuration.
	cliCfg := &config.Config{
		Format:         format,
		Strict:         flags.strict,
		NoWarnings:     flags.noWarnings,
		Jobs:           flags.jobs,
		Markdown:       flags.markdown,
		DetectLanguage: flags.detectLanguage,
		ListFiles:      flags.listFiles,
		FileEncoding:   flags.fileEncoding,
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configFile,
		ConfigData:   flags.configData,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return exitError(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	cfg := loadResult.Config
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldFormat, cfg.Format,
		logging.FieldEncoding, cfg.FileEncoding,
		logging.FieldJobs, cfg.Jobs,
	)

	var encoding decoder.Encoding
	if cfg.FileEncoding != "" {
		encoding, err = decoder.ParseEncoding(cfg.FileEncoding)
		if err != nil {
			return exitError(ExitConfigError, err)
		}
	}

	engine := lint.NewEngine(scanner.New())
	pipeline := lint.NewPipeline(engine, loadResult.Rules, lint.PipelineOptions{
		Encoding:  encoding,
		Markdown:  cfg.Markdown,
		Extractor: goldmarkparser.New(goldmarkparser.FlavorGFM),
	})
	lintRunner := runner.New(pipeline)

	if cfg.ListFiles {
		if readStdin {
			return exitError(ExitInvalidUsage, errors.New("--list-files cannot be used with standard input"))
		}
		return listFiles(ctx, cmd.OutOrStdout(), runner.OptionsFromConfig(cfg, workDir, args))
	}

	var result *runner.Result
	if readStdin {
		result, err = lintRunner.RunReader(ctx, stdin)
	} else {
		runOpts := runner.OptionsFromConfig(cfg, workDir, args)
		logger.Debug("starting lint run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, runOpts.WorkingDir,
			logging.FieldJobs, runOpts.Jobs,
		)
		result, err = lintRunner.Run(ctx, runOpts)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitError(ExitInvalidUsage, err)
		}
		return fmt.Errorf("lint run failed: %w", err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = pretty.ColorAuto
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      cfg.Format,
		Color:       colorMode,
		NoWarnings:  cfg.NoWarnings,
		ShowSummary: flags.summary,
		Compact:     flags.compact,
		Rules:       resolvedRules(loadResult.Rules),
		ToolVersion: info.Version,
	})
	if err != nil {
		return exitError(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("lint run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldProblemsTotal, result.Stats.ProblemsTotal,
	)

	if code := ExitCodeFromResult(result, cfg.Strict); code != ExitSuccess {
		return exitError(code, ErrLintIssuesFound)
	}
	return nil
}

// wantsStdin reports whether the input is standard input: "-" is given,
// or no path is given and something is piped in.
func wantsStdin(args []string, in io.Reader) (bool, error) {
	if slices.Contains(args, runner.StdinPath) {
		if len(args) > 1 {
			return false, errors.New("standard input (-) cannot be combined with other paths")
		}
		return true, nil
	}
	return len(args) == 0 && isPiped(in), nil
}

// isPiped reports whether in delivers data from a pipe, a file or another
// reader rather than from a terminal or a character device.
func isPiped(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return in != nil
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func listFiles(ctx context.Context, w io.Writer, opts runner.Options) error {
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitError(ExitInvalidUsage, err)
		}
		return fmt.Errorf("discover files: %w", err)
	}
	for _, file := range files {
		if _, err := fmt.Fprintln(w, file.Name); err != nil {
			return fmt.Errorf("write file list: %w", err)
		}
	}
	return nil
}

func resolvedRules(resolved []lint.ResolvedRule) []lint.Rule {
	rules := make([]lint.Rule, 0, len(resolved))
	for _, rr := range resolved {
		rules = append(rules, rr.Rule)
	}
	return rules
}
