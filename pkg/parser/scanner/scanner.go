// Package scanner turns decoded YAML text into the token and comment streams
// of a yamlast.FileSnapshot.
//
// The tokenizer follows the libyaml scanner design: a single pass over the
// buffer with an indentation stack for block collections, a flow level
// counter, and one pending simple key candidate per flow level whose Key and
// BlockMappingStart tokens are inserted retroactively once a ':' confirms it.
// Unlike libyaml it keeps the kind of every open block collection so that
// the closing token is typed (BlockSequenceEnd or BlockMappingEnd).
package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

const (
	// maxSimpleKeyLength bounds the distance between a simple key and its ':'.
	maxSimpleKeyLength = 1024

	// maxDepth limits flow nesting and block indentation levels.
	maxDepth = 10000
)

// simpleKey is a scalar (or collection start) that may turn out to be a
// mapping key.
type simpleKey struct {
	possible bool
	required bool
	number   int // index in tokens where Key is inserted
	index    int // character index, for the length limit
	mark     yamlast.Mark
}

// level is an open block collection.
type level struct {
	column int
	kind   yamlast.TokenKind // BlockSequenceStart or BlockMappingStart
}

type scanner struct {
	src string

	pos   int // byte offset
	index int // character offset
	line  int
	col   int

	tokens []yamlast.Token

	done             bool
	flowLevel        int
	levels           []level
	simpleKeys       []simpleKey
	simpleKeyAllowed bool
	prologue         bool
}

// Tokenize scans src and returns its tokens. On a lexical error the tokens
// produced so far are returned together with a *ScanError.
func Tokenize(src string) ([]yamlast.Token, error) {
	s := &scanner{src: src}
	s.fetchStreamStart()

	for !s.done {
		if err := s.fetchNext(); err != nil {
			return s.tokens, err
		}
	}
	return s.tokens, nil
}

// Character classes. Offsets past the end of the buffer read as 0.

func (s *scanner) at(i int) byte {
	if s.pos+i < len(s.src) {
		return s.src[s.pos+i]
	}
	return 0
}

func (s *scanner) eof(i int) bool {
	return s.pos+i >= len(s.src)
}

func (s *scanner) isBreak(i int) bool {
	c := s.at(i)
	return c == '\n' || (c == '\r' && s.at(i+1) == '\n')
}

func (s *scanner) isBreakz(i int) bool {
	return s.eof(i) || s.isBreak(i)
}

func (s *scanner) isBlank(i int) bool {
	c := s.at(i)
	return c == ' ' || c == '\t'
}

func (s *scanner) isBlankz(i int) bool {
	return s.isBlank(i) || s.isBreakz(i)
}

func (s *scanner) isAlpha(i int) bool {
	c := s.at(i)
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-'
}

func (s *scanner) isDigit(i int) bool {
	c := s.at(i)
	return c >= '0' && c <= '9'
}

func (s *scanner) isHex(i int) bool {
	c := s.at(i)
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func (s *scanner) hexValue(i int) int {
	c := s.at(i)
	switch {
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return int(c - '0')
}

func (s *scanner) isBOM() bool {
	return strings.HasPrefix(s.src[s.pos:], "\ufeff")
}

// Cursor movement.

func (s *scanner) mark() yamlast.Mark {
	return yamlast.Mark{Line: s.line, Column: s.col, Offset: s.pos}
}

// skip advances over one character.
func (s *scanner) skip() {
	if s.pos >= len(s.src) {
		return
	}
	_, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w
	s.index++
	s.col++
}

// skipLine advances over a line break.
func (s *scanner) skipLine() {
	switch {
	case s.at(0) == '\r' && s.at(1) == '\n':
		s.pos += 2
		s.index += 2
	case s.at(0) == '\n':
		s.pos++
		s.index++
	default:
		return
	}
	s.line++
	s.col = 0
}

// read copies one character into sb and advances.
func (s *scanner) read(sb *strings.Builder) {
	if s.pos >= len(s.src) {
		return
	}
	_, w := utf8.DecodeRuneInString(s.src[s.pos:])
	sb.WriteString(s.src[s.pos : s.pos+w])
	s.pos += w
	s.index++
	s.col++
}

// readLine appends a normalized '\n' for the break at the cursor.
func (s *scanner) readLine(b []byte) []byte {
	if !s.isBreak(0) {
		return b
	}
	s.skipLine()
	return append(b, '\n')
}

// Token queue.

func (s *scanner) append(kind yamlast.TokenKind, start, end yamlast.Mark) *yamlast.Token {
	s.tokens = append(s.tokens, yamlast.Token{Kind: kind, Start: start, End: end})
	return &s.tokens[len(s.tokens)-1]
}

func (s *scanner) insert(at int, tok yamlast.Token) {
	if at < 0 || at >= len(s.tokens) {
		s.tokens = append(s.tokens, tok)
		return
	}
	s.tokens = append(s.tokens, yamlast.Token{})
	copy(s.tokens[at+1:], s.tokens[at:])
	s.tokens[at] = tok
}
