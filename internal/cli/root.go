// Package cli provides the Cobra command structure for goyamllint.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/goyamllint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root goyamllint command with all subcommands.
// Run without a subcommand, it lints its arguments.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	flags := &lintFlags{}

	rootCmd := &cobra.Command{
		Use:   "goyamllint [paths...]",
		Short: "A linter for YAML files",
		Long: `goyamllint checks YAML files for syntax errors and for cosmetic problems
such as line length, trailing spaces, indentation, key repetition and
inconsistent booleans.

Without a subcommand, goyamllint lints the given files and directories,
or standard input when it is piped in.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, info)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("color", "auto",
		"colorize output: auto, always, never")

	addLintFlags(rootCmd, flags)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitError(ExitInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(withTopics(newLintCommand(info), topicExitCodes, topicEnvironment))
	rootCmd.AddCommand(withTopics(newRulesCommand(), topicPresets))
	rootCmd.AddCommand(withTopics(newInitCommand(), topicPresets))
	rootCmd.AddCommand(newVersionCommand(info))

	withTopics(rootCmd, topicExitCodes, topicEnvironment)
	applyHelp(rootCmd)

	return rootCmd
}
