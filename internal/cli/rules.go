package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
	"github.com/yaklabco/goyamllint/pkg/lint/rules"
)

type rulesFlags struct {
	preset string
	json   bool
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Enabled     bool           `json:"enabled"`
	Level       string         `json:"level"`
	Options     map[string]any `json:"options,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their descriptions and the level
and options they have in a preset.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := presetRuleInfos(lint.DefaultRegistry, flags.preset)
			if err != nil {
				return exitError(ExitInvalidUsage, err)
			}

			if flags.json {
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			}

			logger := logging.NewInteractive()
			logger.SetOutput(cmd.OutOrStdout())
			logger.Info("available rules", "preset", flags.preset)

			for _, info := range infos {
				level := string(info.Level)
				if !info.Enabled {
					level = config.RuleDisable
				}
				logger.Info(info.ID,
					logging.FieldLevel, level,
					logging.FieldDescription, info.Description,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.preset, "preset", config.DefaultPreset,
		"preset whose settings are shown: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().BoolVar(&flags.json, "json", false, "output rules as JSON")

	return cmd
}

// presetRuleInfos describes every registered rule as configured by the
// named preset.
func presetRuleInfos(registry *lint.Registry, preset string) ([]config.RuleInfo, error) {
	pack := rules.PackByName(preset)
	if pack == nil {
		return nil, fmt.Errorf("unknown preset %q; must be one of: %s", preset, strings.Join(rules.PackNames(), ", "))
	}

	resolved, err := lint.ResolveRules(registry, pack.Config())
	if err != nil {
		return nil, fmt.Errorf("resolve preset %s: %w", preset, err)
	}
	byID := make(map[string]lint.ResolvedRule, len(resolved))
	for _, rr := range resolved {
		byID[rr.Rule.ID()] = rr
	}

	all := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(all))
	for _, rule := range all {
		info := config.RuleInfo{
			ID:          rule.ID(),
			Description: rule.Description(),
			Level:       rule.DefaultLevel(),
			Tags:        rule.Tags(),
			Options:     rule.Schema().Defaults(),
		}
		if rr, ok := byID[rule.ID()]; ok {
			info.Enabled = true
			info.Level = rr.Level
			info.Options = rr.Options.Map()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	out := make([]ruleInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, ruleInfo{
			ID:          info.ID,
			Description: info.Description,
			Tags:        info.Tags,
			Enabled:     info.Enabled,
			Level:       string(info.Level),
			Options:     maps.Clone(info.Options),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
