package fsutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher matches slash-separated relative paths against an ordered list of
// gitignore-style patterns. The last matching pattern wins; a pattern
// prefixed with "!" re-includes what earlier patterns matched.
//
// A pattern without an inner slash matches at any depth. A pattern with a
// slash is anchored at the root. A trailing slash restricts a pattern to
// directories. A path also matches when any of its parent directories does.
type Matcher struct {
	patterns []pathPattern
}

type pathPattern struct {
	raw      string
	glob     glob.Glob
	negate   bool
	dirOnly  bool
	anchored bool
}

// CompileMatcher compiles patterns into a Matcher. Blank lines and lines
// starting with "#" are skipped. All invalid patterns are reported together.
func CompileMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	var errs []error

	for _, raw := range patterns {
		p, ok, err := compilePattern(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			m.patterns = append(m.patterns, p)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// MustCompileMatcher is like CompileMatcher but panics on error.
func MustCompileMatcher(patterns ...string) *Matcher {
	m, err := CompileMatcher(patterns)
	if err != nil {
		panic(err)
	}
	return m
}

func compilePattern(raw string) (pathPattern, bool, error) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return pathPattern{}, false, nil
	}

	p := pathPattern{raw: raw}
	if rest, ok := strings.CutPrefix(text, "!"); ok {
		p.negate = true
		text = rest
	}
	if rest, ok := strings.CutSuffix(text, "/"); ok {
		p.dirOnly = true
		text = rest
	}
	if rest, ok := strings.CutPrefix(text, "**/"); ok && !strings.Contains(rest, "/") {
		text = rest
	}
	if rest, ok := strings.CutPrefix(text, "/"); ok {
		p.anchored = true
		text = rest
	}
	if strings.Contains(text, "/") {
		p.anchored = true
	}
	if text == "" {
		return pathPattern{}, false, fmt.Errorf("invalid pattern %q: empty", raw)
	}

	g, err := glob.Compile(text, '/')
	if err != nil {
		return pathPattern{}, false, fmt.Errorf("invalid pattern %q: %w", raw, err)
	}
	p.glob = g
	return p, true, nil
}

// Match reports whether relPath is selected by the patterns. isDir tells
// whether relPath itself names a directory. A nil Matcher matches nothing.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	path := normalizePath(relPath)
	if path == "" {
		return false
	}
	parts := strings.Split(path, "/")

	matched := false
	for _, p := range m.patterns {
		if p.matches(parts, isDir) {
			matched = !p.negate
		}
	}
	return matched
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

func (p pathPattern) matches(parts []string, isDir bool) bool {
	for i := range parts {
		last := i == len(parts)-1
		if last && p.dirOnly && !isDir {
			continue
		}

		candidate := parts[i]
		if p.anchored {
			candidate = strings.Join(parts[:i+1], "/")
		}
		if p.glob.Match(candidate) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	for {
		rest, ok := strings.CutPrefix(path, "./")
		if !ok {
			break
		}
		path = rest
	}
	return strings.Trim(path, "/")
}
