package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/goyamllint/pkg/config"
	"github.com/yaklabco/goyamllint/pkg/decoder"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDecodeFailure indicates bytes that could not be decoded.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrParseFailure indicates the parser could not produce a snapshot.
	ErrParseFailure = errors.New("parse failure")
)

// Block is a YAML fragment embedded in another document.
type Block struct {
	// Line is the 1-based line of the host document where Text starts.
	Line int

	// Indent is the number of columns stripped from every line of Text.
	Indent int

	// Text is the YAML source of the block.
	Text string
}

// BlockExtractor finds YAML blocks inside a host document such as Markdown.
type BlockExtractor interface {
	Extract(ctx context.Context, source string) ([]Block, error)
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// Encoding forces the input encoding. Empty means detect.
	Encoding decoder.Encoding

	// Markdown lints the YAML blocks of Markdown files instead of the
	// whole file. Requires Extractor.
	Markdown bool

	// Extractor finds YAML blocks in Markdown files.
	Extractor BlockExtractor
}

// PipelineResult contains the result of processing a single input.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// Info is the file state when read. Nil for in-memory content.
	Info *fsutil.FileInfo

	// Encoding is the encoding the input was decoded with.
	Encoding decoder.Encoding

	// Warnings holds non-fatal notes from decoding.
	Warnings []string

	// Blocks is the number of embedded YAML blocks linted, for Markdown inputs.
	Blocks int

	// Problems contains all findings, sorted by position.
	Problems []Problem
}

// HasProblems returns true if any problems were found.
func (pr *PipelineResult) HasProblems() bool {
	return len(pr.Problems) > 0
}

// CountLevel returns the number of problems at the given level.
func (pr *PipelineResult) CountLevel(level config.Severity) int {
	return (&FileResult{Problems: pr.Problems}).CountLevel(level)
}

// Summary returns a human-readable summary of the result.
func (pr *PipelineResult) Summary() string {
	switch {
	case (&FileResult{Problems: pr.Problems}).HasSyntaxError():
		return "syntax error"
	case pr.HasProblems():
		return fmt.Sprintf("%d problem(s)", len(pr.Problems))
	}
	return "ok"
}

// Pipeline reads, decodes and lints inputs with a fixed set of rules.
type Pipeline struct {
	Engine  *Engine
	Rules   []ResolvedRule
	Options PipelineOptions
}

// NewPipeline creates a pipeline running rules through engine.
func NewPipeline(engine *Engine, rules []ResolvedRule, opts PipelineOptions) *Pipeline {
	return &Pipeline{Engine: engine, Rules: rules, Options: opts}
}

// ProcessFile reads and lints the file at path.
// A *RuleFaultError is returned together with the partial result.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*PipelineResult, error) {
	return p.ProcessFileAs(ctx, path, path)
}

// ProcessFileAs reads the file at path and lints it under name. Name is the
// slash-separated path rule ignore patterns are matched against.
func (p *Pipeline) ProcessFileAs(ctx context.Context, path, name string) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, name, content)
	if result != nil {
		result.Info = info
	}
	return result, err
}

// ProcessContent lints content as if read from path. Path selects the
// rules that apply and may be empty.
// A *RuleFaultError is returned together with the partial result.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	decoded, err := decoder.Decode(content, decoder.Options{Override: p.Options.Encoding})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}

	result := &PipelineResult{
		Path:     path,
		Encoding: decoded.Encoding,
		Warnings: decoded.Warnings,
	}

	rules := p.applicableRules(path)

	if p.Options.Markdown && p.Options.Extractor != nil && IsMarkdownPath(path) {
		problems, blocks, err := p.lintBlocks(ctx, path, decoded.Text, rules)
		result.Problems = problems
		result.Blocks = blocks
		return result, err
	}

	fileResult, err := p.Engine.Lint(ctx, path, decoded.Text, rules)
	if fileResult != nil {
		result.Problems = fileResult.Problems
	}
	return result, err
}

func (p *Pipeline) applicableRules(path string) []ResolvedRule {
	return slices.DeleteFunc(slices.Clone(p.Rules), func(rr ResolvedRule) bool {
		return !rr.Applies(path)
	})
}

// lintBlocks lints every YAML block of a Markdown document and maps the
// problem positions back to the document.
func (p *Pipeline) lintBlocks(ctx context.Context, path, text string, rules []ResolvedRule) ([]Problem, int, error) {
	blocks, err := p.Options.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
	}

	var problems []Problem
	for _, block := range blocks {
		fileResult, err := p.Engine.Lint(ctx, path, block.Text, rules)
		if fileResult != nil {
			for _, prob := range fileResult.Problems {
				prob.Line += block.Line - 1
				prob.Column += block.Indent
				problems = append(problems, prob)
			}
		}
		if err != nil {
			slices.SortStableFunc(problems, compareProblems)
			return problems, len(blocks), err
		}
	}

	slices.SortStableFunc(problems, compareProblems)
	return problems, len(blocks), nil
}

// IsMarkdownPath reports whether path names a Markdown file.
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// categorizeError wraps file system errors with pipeline sentinels.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known per-file pipeline error.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDecodeFailure) ||
		errors.Is(err, ErrParseFailure)
}
