package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/config"
)

// ParseFormat parses a format name, returning an error for unknown formats.
// The empty string selects auto.
func ParseFormat(name string) (config.OutputFormat, error) {
	if name == "" {
		return config.FormatAuto, nil
	}
	f := config.OutputFormat(name)
	if !f.IsValid() {
		names := make([]string, 0, len(config.Formats()))
		for _, known := range config.Formats() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
	}
	return f, nil
}

// ResolveFormat turns auto into a concrete format. Inside a GitHub Actions
// workflow it is github; otherwise colored when w is a color-capable
// terminal and standard when it is not.
func ResolveFormat(f config.OutputFormat, color string, w io.Writer) config.OutputFormat {
	if f != config.FormatAuto && f != "" {
		return f
	}
	if os.Getenv("GITHUB_ACTIONS") != "" && os.Getenv("GITHUB_WORKFLOW") != "" {
		return config.FormatGitHub
	}
	if pretty.IsColorEnabled(color, w) {
		return config.FormatColored
	}
	return config.FormatStandard
}
