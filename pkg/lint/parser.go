package lint

import (
	"context"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// Parser turns decoded YAML text into a FileSnapshot.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/scanner) provide the concrete scanning.
//
// Implementations must be deterministic for a given (path, text) pair and
// free of side effects. A lexical error is not a parse failure: it is
// recorded in FileSnapshot.ScanErr together with the tokens scanned before
// it, so that line and comment rules still run.
type Parser interface {
	// Parse converts decoded text into a snapshot. It returns an error only
	// when parsing could not happen at all (e.g., cancellation).
	Parse(ctx context.Context, path, text string) (*yamlast.FileSnapshot, error)
}
