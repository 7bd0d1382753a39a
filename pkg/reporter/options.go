package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/goyamllint/internal/ui/pretty"
	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format. Auto is resolved against Writer.
	Format config.OutputFormat

	// Color controls colorized output for auto detection.
	// Values: "auto" (default), "always", "never"
	Color string

	// NoWarnings hides warning-level problems.
	NoWarnings bool

	// ShowSummary appends a one-line summary to text formats.
	ShowSummary bool

	// Compact uses minified output for json and sarif.
	Compact bool

	// Rules describes the rules of the run, for sarif.
	Rules []lint.Rule

	// ToolVersion is reported as the sarif driver version.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer: os.Stdout,
		Format: config.FormatAuto,
		Color:  pretty.ColorAuto,
	}
}
