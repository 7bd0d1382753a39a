package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/goyamllint/internal/logging"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
	"github.com/yaklabco/goyamllint/pkg/langdetect"
	"github.com/yaklabco/goyamllint/pkg/lint"
)

// File is a discovered lint input.
type File struct {
	// Path is the absolute path the file is read from.
	Path string

	// Name is the slash-separated path relative to the working directory,
	// or the absolute path for files outside it. Ignore patterns are
	// matched against it and reports show it.
	Name string
}

// selector decides which paths are linted.
type selector struct {
	workDir   string
	yamlFiles *fsutil.Matcher
	ignore    *fsutil.Matcher
	detect    bool
	markdown  bool
}

func newSelector(workDir string, opts Options) (*selector, error) {
	yamlFiles, err := fsutil.CompileMatcher(opts.effectiveYAMLFiles())
	if err != nil {
		return nil, fmt.Errorf("yaml-files: %w", err)
	}
	ignore, err := fsutil.CompileMatcher(opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("ignore: %w", err)
	}
	return &selector{
		workDir:   workDir,
		yamlFiles: yamlFiles,
		ignore:    ignore,
		detect:    opts.DetectLanguage,
		markdown:  opts.Markdown,
	}, nil
}

// name returns the matching name of an absolute path.
func (s *selector) name(path string) string {
	rel, err := filepath.Rel(s.workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (s *selector) ignored(name string, isDir bool) bool {
	return s.ignore.Match(name, isDir)
}

// wanted reports whether a file found while walking is linted.
func (s *selector) wanted(name string) bool {
	if s.yamlFiles.Match(name, false) {
		return true
	}
	if s.detect && langdetect.IsYAMLPath(name) {
		return true
	}
	return s.markdown && lint.IsMarkdownPath(name)
}

// Discover finds the files to lint under opts.Paths. Explicit files are
// returned even when yaml-files does not select them; ignore patterns
// apply to every file. The result is sorted by name and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]File, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	sel, err := newSelector(workDir, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	seen := make(map[string]bool)
	var files []File

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		files = append(files, File{Path: path, Name: sel.name(path)})
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if name := sel.name(absPath); sel.ignored(name, false) {
				logger.Debug("skipping ignored file", logging.FieldPath, name)
				continue
			}
			add(absPath)
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, sel)
		if err != nil {
			return nil, err
		}
		for _, path := range discovered {
			add(path)
		}
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Name, b.Name) })
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory walks root and returns the selected files. Hidden entries
// below root are skipped and symlinked directories are not followed.
func walkDirectory(ctx context.Context, root string, sel *selector) ([]string, error) {
	logger := logging.FromContext(ctx)
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				logger.Warn("skipping unreadable path", logging.FieldPath, path, logging.FieldError, walkErr)
				return nil
			}
			return walkErr
		}

		if path == root {
			return nil
		}

		hidden := strings.HasPrefix(entry.Name(), ".")
		name := sel.name(path)

		if entry.IsDir() {
			if hidden || sel.ignored(name, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				return nil //nolint:nilerr // Broken links and directory links are skipped.
			}
		} else if !entry.Type().IsRegular() {
			return nil
		}

		// Hidden files are linted only when a pattern names them, like
		// ".yamllint".
		if hidden && !sel.yamlFiles.Match(name, false) {
			return nil
		}

		if sel.wanted(name) && !sel.ignored(name, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}
