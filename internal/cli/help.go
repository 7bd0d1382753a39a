package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/goyamllint/internal/configloader"
	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/lint/rules"
)

// topicsAnnotation lists the extra help sections a command shows, comma
// separated.
const topicsAnnotation = "goyamllint/help-topics"

// Help topics.
const (
	topicExitCodes   = "exit-codes"
	topicEnvironment = "environment"
	topicPresets     = "presets"
)

// withTopics attaches help topics to cmd.
func withTopics(cmd *cobra.Command, topics ...string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[topicsAnnotation] = strings.Join(topics, ",")
	return cmd
}

// exitCodeHelp documents the process exit codes in ascending order.
var exitCodeHelp = []struct {
	code    int
	meaning string
}{
	{ExitSuccess, "no problems, or warnings only"},
	{ExitLintErrors, "error-level or syntax problems found"},
	{ExitLintWarnings, "warnings found with --strict"},
	{ExitInvalidUsage, "invalid usage or configuration"},
	{ExitInternalError, "a file could not be read or a rule failed"},
}

// helpStyles holds the lipgloss styles of help output.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	name    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(color bool) helpStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, name: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// helpRenderer renders command help with the styles chosen for one writer.
type helpRenderer struct {
	styles helpStyles
}

// table renders name/description rows with the descriptions aligned. The
// padding is computed on the unstyled names.
func (h helpRenderer) table(rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("  ")
		sb.WriteString(h.styles.name.Render(row[0]))
		sb.WriteString(strings.Repeat(" ", width-len(row[0])+3))
		sb.WriteString(row[1])
	}
	return sb.String()
}

// flags renders a flag set one flag per line.
func (h helpRenderer) flags(fs *pflag.FlagSet) string {
	var rows [][2]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "    --" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", --" + f.Name
		}
		varname, usage := pflag.UnquoteUsage(f)
		if varname != "" {
			name += " " + varname
		}
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			usage += h.styles.dim.Render(fmt.Sprintf(" (default %q)", f.DefValue))
		}
		rows = append(rows, [2]string{name, usage})
	})
	return h.table(rows)
}

// topics renders the extra sections annotated on cmd.
func (h helpRenderer) topics(cmd *cobra.Command) string {
	raw := cmd.Annotations[topicsAnnotation]
	if raw == "" {
		return ""
	}

	var sections []string
	for topic := range strings.SplitSeq(raw, ",") {
		var title string
		var rows [][2]string
		switch topic {
		case topicExitCodes:
			title = "Exit Codes:"
			for _, e := range exitCodeHelp {
				rows = append(rows, [2]string{fmt.Sprint(e.code), e.meaning})
			}
		case topicEnvironment:
			title = "Environment:"
			vars := configloader.ListEnvVars()
			for _, name := range slices.Sorted(maps.Keys(vars)) {
				rows = append(rows, [2]string{name, vars[name]})
			}
			rows = append(rows, [2]string{"NO_COLOR", "Disable colored output when set"})
		case topicPresets:
			title = "Presets:"
			for _, p := range rules.Packs() {
				rows = append(rows, [2]string{p.Name, p.Description})
			}
		default:
			continue
		}
		sections = append(sections, h.styles.heading.Render(title)+"\n"+h.table(rows))
	}
	if len(sections) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(sections, "\n\n")
}

func (h helpRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"heading": h.styles.heading.Render,
		"command": h.styles.command.Render,
		"dim":     h.styles.dim.Render,
		"flags":   h.flags,
		"topics":  h.topics,
		"commands": func(cmd *cobra.Command) string {
			var rows [][2]string
			for _, sub := range cmd.Commands() {
				if sub.IsAvailableCommand() || sub.Name() == "help" {
					rows = append(rows, [2]string{sub.Name(), sub.Short})
				}
			}
			return h.table(rows)
		},
		"trim": func(s string) string {
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimRight(line, " \t")
			}
			return strings.Join(lines, "\n")
		},
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable }}
  {{ command .UseLine }}{{ end }}
{{- if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]{{ end }}
{{- if .HasExample }}

{{ heading "Examples:" }}
{{ dim .Example }}{{ end }}
{{- if .HasAvailableSubCommands }}

{{ heading "Commands:" }}
{{ commands . }}{{ end }}
{{- if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{ end }}
{{- if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{ end }}
{{- topics . }}
{{- if .HasAvailableSubCommands }}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{ end }}
`

const helpTemplate = `{{ with (or .Long .Short) }}{{ trim . }}

{{ end }}` + usageTemplate

// applyHelp installs the help and usage renderers on cmd and its
// subcommands. Color is decided when help is printed, so --color applies.
func applyHelp(cmd *cobra.Command) {
	render := func(command *cobra.Command, name, text string, w io.Writer) error {
		mode := pretty.ColorAuto
		if f := command.Flag("color"); f != nil {
			mode = f.Value.String()
		}
		h := helpRenderer{styles: newHelpStyles(pretty.IsColorEnabled(mode, w))}

		tmpl, err := template.New(name).Funcs(h.funcs()).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(w, command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, "usage", usageTemplate, command.OutOrStderr())
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, "help", helpTemplate, command.OutOrStdout()); err != nil {
			command.PrintErrln(err)
		}
	})
}
