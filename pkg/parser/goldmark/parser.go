// Package goldmark finds YAML code blocks in Markdown documents using the
// goldmark parser.
package goldmark

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/goyamllint/pkg/langdetect"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// Flavor identifies the Markdown flavor supported by the extractor.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Extractor implements lint.BlockExtractor using goldmark.
type Extractor struct {
	flavor string
	md     goldmark.Markdown
}

var _ lint.BlockExtractor = (*Extractor)(nil)

// New creates a new goldmark-based extractor for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "gfm".
func New(flavor string) *Extractor {
	f := flavorOrDefault(flavor)
	return &Extractor{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (e *Extractor) Flavor() string {
	return e.flavor
}

// Extract returns the fenced code blocks of source whose info string names
// YAML, and the unlabeled ones whose content looks like YAML, in document
// order. Empty blocks are skipped.
func (e *Extractor) Extract(ctx context.Context, source string) ([]lint.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	src := []byte(source)
	doc := e.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var blocks []lint.Block
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var info string
		if fenced.Info != nil {
			info = strings.TrimSpace(string(fenced.Info.Segment.Value(src)))
		}
		if info != "" && !langdetect.IsYAMLInfo(info) {
			return ast.WalkSkipChildren, nil
		}

		block, ok := blockFrom(fenced, src)
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		// Unlabeled blocks are classified by their content.
		if info == "" && !langdetect.IsYAMLContent([]byte(block.Text)) {
			return ast.WalkSkipChildren, nil
		}
		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return blocks, nil
}

// blockFrom joins the content lines of a fenced block. The indentation
// stripped from the first line is recorded so columns map back to the
// document.
func blockFrom(fenced *ast.FencedCodeBlock, src []byte) (lint.Block, bool) {
	lines := fenced.Lines()
	if lines.Len() == 0 {
		return lint.Block{}, false
	}

	first := lines.At(0)
	lineStart := bytes.LastIndexByte(src[:first.Start], '\n') + 1

	var buf bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}

	return lint.Block{
		Line:   bytes.Count(src[:first.Start], []byte{'\n'}) + 1,
		Indent: max(0, first.Start-lineStart-first.Padding),
		Text:   buf.String(),
	}, true
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to GFM.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}
