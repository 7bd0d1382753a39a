package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/lint/rules"
)

// defaultConfigFile is the file written by init when no output is given.
const defaultConfigFile = ".goyamllint.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	preset string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new goyamllint configuration file",
		Long: `Create a new .goyamllint.yml configuration file in the current directory.
The file extends a preset and can be customized to enable or disable rules,
change levels and set rule options.

Examples:
  goyamllint init                      Create minimal .goyamllint.yml
  goyamllint init --full               List every rule with its settings
  goyamllint init --preset relaxed     Extend the relaxed preset
  goyamllint init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing file, keeping a .bak copy")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.preset, "preset", config.DefaultPreset,
		"Preset to extend: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	if rules.PackByName(flags.preset) == nil {
		return exitError(ExitInvalidUsage, fmt.Errorf("unknown preset %q; must be one of: %s",
			flags.preset, strings.Join(rules.PackNames(), ", ")))
	}

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return exitError(ExitInvalidUsage, fmt.Errorf("file %q already exists; use --force to overwrite", flags.output))
		}
		backup, err := fsutil.Backup(ctx, absPath)
		if err != nil {
			return fmt.Errorf("backup existing file: %w", err)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output, logging.FieldOutput, backup)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:    flags.full,
		Extends: flags.preset,
		Rules: func() []config.RuleInfo {
			infos, err := presetRuleInfos(lint.DefaultRegistry, flags.preset)
			if err != nil {
				return nil
			}
			return infos
		},
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)

	if flags.full {
		logger.Info("full template includes all rules with their settings")
	}

	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'goyamllint rules' to see all available rules")

	return nil
}
