package scanner

import (
	"context"
	"fmt"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// Parser builds yamlast snapshots from decoded YAML text. It holds no state
// and is safe for concurrent use.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse tokenizes text and extracts its comments.
//
// A lexical error does not fail the parse: the snapshot keeps the tokens
// scanned before the error and records it in ScanErr, so that line and
// comment checks still run. Only cancellation is reported as an error.
func (p *Parser) Parse(ctx context.Context, path, text string) (*yamlast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := yamlast.NewFileSnapshot(path, text)

	tokens, err := Tokenize(text)
	snapshot.Tokens = tokens
	snapshot.ScanErr = err

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot.SetComments(ExtractComments(text, tokens))
	return snapshot, nil
}
