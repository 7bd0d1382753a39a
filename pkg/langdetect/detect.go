// Package langdetect decides which inputs hold YAML. It uses go-enry to
// recognize YAML files by name and to classify unlabeled Markdown code
// blocks by content.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// yamlLanguage is the linguist name of YAML.
const yamlLanguage = "YAML"

// Fence tags returned by Detect.
const (
	langYAML = "yaml"
	langJSON = "json"
	langText = "text"
)

// candidates restricts the content classifier to languages that are
// commonly confused with YAML in documentation.
//
//nolint:gochecknoglobals // Read-only lookup table.
var candidates = []string{
	"YAML", "JSON", "Shell", "Python", "Go", "Markdown", "Dockerfile", "INI", "TOML",
}

// IsYAMLPath reports whether linguist knows the file name as YAML, for
// example "config.yaml", ".clang-format" or "CITATION.cff".
func IsYAMLPath(path string) bool {
	name := filepath.Base(path)
	if langs := enry.GetLanguagesByFilename(name, nil, nil); len(langs) > 0 {
		return slices.Contains(langs, yamlLanguage)
	}
	return slices.Contains(enry.GetLanguagesByExtension(name, nil, nil), yamlLanguage)
}

// IsYAMLInfo reports whether a fenced code block info string names YAML.
// Only the first word is considered, so "yaml title=x" qualifies.
func IsYAMLInfo(info string) bool {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return false
	}
	lang, ok := enry.GetLanguageByAlias(strings.Trim(fields[0], "{}."))
	return ok && lang == yamlLanguage
}

// IsYAMLContent reports whether unlabeled code content reads as YAML.
func IsYAMLContent(content []byte) bool {
	return Detect(content) == langYAML
}

// Detect returns the fence tag for unlabeled code content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return langText
	}

	// A shebang decides regardless of the body.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return strings.ToLower(lang)
	}

	// JSON is valid YAML but is never meant as YAML in documentation.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if bytes.Contains(trimmed, []byte(`"`)) {
			return langJSON
		}
	}

	if looksLikeYAML(content) {
		return langYAML
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return strings.ToLower(lang)
	}

	return langText
}

// looksLikeYAML counts "key: value" lines and block sequence items. Two
// are enough; lines that look like code are not counted.
func looksLikeYAML(content []byte) bool {
	count := 0
	for line := range bytes.Lines(content) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		switch {
		case bytes.HasPrefix(line, []byte("- ")), bytes.Equal(line, []byte("---")):
			count++
		case bytes.Contains(line, []byte(": ")) || bytes.HasSuffix(line, []byte(":")):
			if !bytes.ContainsAny(line, "(){};") && line[0] != '"' {
				count++
			}
		}
		if count >= 2 {
			return true
		}
	}
	return false
}
