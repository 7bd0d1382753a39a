package scanner

import (
	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// fetchNext scans up to the next token and produces it, together with any
// block ends or retroactive keys it implies.
func (s *scanner) fetchNext() error {
	if err := s.scanToNextToken(); err != nil {
		return err
	}
	if err := s.staleSimpleKeys(); err != nil {
		return err
	}
	s.unrollIndent(s.col)

	if s.eof(0) {
		return s.fetchStreamEnd()
	}

	c := s.at(0)

	if s.col == 0 && c == '%' {
		if !s.prologue {
			return s.errorf("directives are only allowed before the first document or after a document end marker")
		}
		return s.fetchDirective()
	}
	if s.col == 0 && s.isDocumentIndicator('-') {
		s.prologue = false
		return s.fetchDocumentIndicator(yamlast.DocumentStart)
	}
	if s.col == 0 && s.isDocumentIndicator('.') {
		s.prologue = true
		return s.fetchDocumentIndicator(yamlast.DocumentEnd)
	}

	s.prologue = false

	switch {
	case c == '[':
		return s.fetchFlowCollectionStart(yamlast.FlowSequenceStart)
	case c == '{':
		return s.fetchFlowCollectionStart(yamlast.FlowMappingStart)
	case c == ']':
		return s.fetchFlowCollectionEnd(yamlast.FlowSequenceEnd)
	case c == '}':
		return s.fetchFlowCollectionEnd(yamlast.FlowMappingEnd)
	case c == ',':
		return s.fetchFlowEntry()
	case c == '-' && s.isBlankz(1):
		return s.fetchBlockEntry()
	case c == '?' && (s.flowLevel > 0 || s.isBlankz(1)):
		return s.fetchKey()
	case c == ':' && (s.flowLevel > 0 || s.isBlankz(1)):
		return s.fetchValue()
	case c == '*':
		return s.fetchAnchor(yamlast.Alias)
	case c == '&':
		return s.fetchAnchor(yamlast.Anchor)
	case c == '!':
		return s.fetchTag()
	case c == '|' && s.flowLevel == 0:
		return s.fetchBlockScalar(true)
	case c == '>' && s.flowLevel == 0:
		return s.fetchBlockScalar(false)
	case c == '\'':
		return s.fetchFlowScalar(true)
	case c == '"':
		return s.fetchFlowScalar(false)
	case s.canStartPlain():
		return s.fetchPlainScalar()
	case c == '\t':
		return s.errorf("found a tab character where an indentation space is expected")
	}

	return s.errorf("found character %q that cannot start any token", s.src[s.pos:s.pos+1])
}

func (s *scanner) isDocumentIndicator(c byte) bool {
	return s.at(0) == c && s.at(1) == c && s.at(2) == c && s.isBlankz(3)
}

// canStartPlain reports whether a plain scalar starts at the cursor. The
// indicators '-', '?' and ':' start one only when followed by a non-space.
func (s *scanner) canStartPlain() bool {
	switch c := s.at(0); c {
	case '-':
		return !s.isBlankz(1)
	case '?', ':':
		return s.flowLevel == 0 && !s.isBlankz(1)
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	}
	return !s.isBlankz(0)
}

// scanToNextToken skips whitespace, comments and line breaks. Tabs are only
// skipped where they cannot be mistaken for indentation.
func (s *scanner) scanToNextToken() error {
	for {
		// A byte order mark takes no column.
		if s.col == 0 && s.isBOM() {
			s.pos += len("\ufeff")
			s.index++
		}

		for s.at(0) == ' ' || (s.at(0) == '\t' && (s.flowLevel > 0 || !s.simpleKeyAllowed || !s.atIndentation())) {
			s.skip()
		}

		if s.at(0) == '#' {
			for !s.isBreakz(0) {
				s.skip()
			}
		}

		if !s.isBreak(0) {
			return nil
		}
		s.skipLine()

		// A new line may start a simple key in the block context.
		if s.flowLevel == 0 {
			s.simpleKeyAllowed = true
		}
	}
}

// atIndentation reports whether only blanks precede the cursor on its line.
func (s *scanner) atIndentation() bool {
	for i := s.pos - 1; i >= 0; i-- {
		switch s.src[i] {
		case ' ', '\t':
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// Simple keys.

// staleSimpleKeys drops candidates that can no longer be keys: a simple key
// must sit on one line and be shorter than maxSimpleKeyLength characters.
func (s *scanner) staleSimpleKeys() error {
	for i := range s.simpleKeys {
		key := &s.simpleKeys[i]
		if !key.possible {
			continue
		}
		if key.mark.Line < s.line || key.index+maxSimpleKeyLength < s.index {
			if key.required {
				return s.errorIn("while scanning a simple key", key.mark, "could not find expected ':'")
			}
			key.possible = false
		}
	}
	return nil
}

func (s *scanner) saveSimpleKey() error {
	// A key is required when it starts at the indentation of the current
	// block collection.
	required := s.flowLevel == 0 && s.currentIndent() == s.col

	if !s.simpleKeyAllowed {
		return nil
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeys[len(s.simpleKeys)-1] = simpleKey{
		possible: true,
		required: required,
		number:   len(s.tokens),
		index:    s.index,
		mark:     s.mark(),
	}
	return nil
}

func (s *scanner) removeSimpleKey() error {
	key := &s.simpleKeys[len(s.simpleKeys)-1]
	if key.possible && key.required {
		return s.errorIn("while scanning a simple key", key.mark, "could not find expected ':'")
	}
	key.possible = false
	return nil
}

// Flow levels.

func (s *scanner) increaseFlowLevel() error {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.flowLevel++
	if s.flowLevel > maxDepth {
		return s.errorf("exceeded max depth of %d", maxDepth)
	}
	return nil
}

func (s *scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
}

// Indentation.

func (s *scanner) currentIndent() int {
	if len(s.levels) == 0 {
		return -1
	}
	return s.levels[len(s.levels)-1].column
}

// rollIndent opens a block collection of kind at column when column is
// deeper than the current level. The start token goes to position number,
// or to the end of the queue when number is negative.
func (s *scanner) rollIndent(column, number int, kind yamlast.TokenKind, m yamlast.Mark) error {
	if s.flowLevel > 0 || s.currentIndent() >= column {
		return nil
	}

	s.levels = append(s.levels, level{column: column, kind: kind})
	if len(s.levels) > maxDepth {
		return s.errorf("exceeded max depth of %d", maxDepth)
	}
	s.insert(number, yamlast.Token{Kind: kind, Start: m, End: m})
	return nil
}

// unrollIndent closes every block collection deeper than column.
func (s *scanner) unrollIndent(column int) {
	if s.flowLevel > 0 {
		return
	}

	m := s.mark()
	for s.currentIndent() > column {
		top := s.levels[len(s.levels)-1]
		s.levels = s.levels[:len(s.levels)-1]

		kind := yamlast.BlockMappingEnd
		if top.kind == yamlast.BlockSequenceStart {
			kind = yamlast.BlockSequenceEnd
		}
		s.append(kind, m, m)
	}
}

// Fetchers.

func (s *scanner) fetchStreamStart() {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.simpleKeyAllowed = true
	s.prologue = true

	m := s.mark()
	s.append(yamlast.StreamStart, m, m)
}

func (s *scanner) fetchStreamEnd() error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	s.done = true

	m := s.mark()
	s.append(yamlast.StreamEnd, m, m)
	return nil
}

func (s *scanner) fetchDirective() error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	return s.scanDirective()
}

func (s *scanner) fetchDocumentIndicator(kind yamlast.TokenKind) error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	start := s.mark()
	s.skip()
	s.skip()
	s.skip()
	s.append(kind, start, s.mark())
	return nil
}

func (s *scanner) fetchFlowCollectionStart(kind yamlast.TokenKind) error {
	// '[' and '{' may start a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	if err := s.increaseFlowLevel(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark()
	s.skip()
	s.append(kind, start, s.mark())
	return nil
}

func (s *scanner) fetchFlowCollectionEnd(kind yamlast.TokenKind) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false

	start := s.mark()
	s.skip()
	s.append(kind, start, s.mark())
	return nil
}

func (s *scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark()
	s.skip()
	s.append(yamlast.FlowEntry, start, s.mark())
	return nil
}

func (s *scanner) fetchBlockEntry() error {
	if s.flowLevel > 0 {
		return s.errorf("block sequence entries are not allowed in a flow collection")
	}
	if !s.simpleKeyAllowed {
		return s.errorf("block sequence entries are not allowed here")
	}
	if err := s.rollIndent(s.col, -1, yamlast.BlockSequenceStart, s.mark()); err != nil {
		return err
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.mark()
	s.skip()
	s.append(yamlast.BlockEntry, start, s.mark())
	return nil
}

func (s *scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.errorf("mapping keys are not allowed here")
		}
		if err := s.rollIndent(s.col, -1, yamlast.BlockMappingStart, s.mark()); err != nil {
			return err
		}
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = s.flowLevel == 0

	start := s.mark()
	s.skip()
	s.append(yamlast.Key, start, s.mark())
	return nil
}

func (s *scanner) fetchValue() error {
	key := &s.simpleKeys[len(s.simpleKeys)-1]

	if key.possible {
		// The pending candidate is a key: insert Key before it, and open a
		// block mapping at its column if needed.
		s.insert(key.number, yamlast.Token{Kind: yamlast.Key, Start: key.mark, End: key.mark})
		if err := s.rollIndent(key.mark.Column, key.number, yamlast.BlockMappingStart, key.mark); err != nil {
			return err
		}
		key.possible = false
		s.simpleKeyAllowed = false
	} else {
		// ':' after an explicit key, or an empty key.
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				return s.errorf("mapping values are not allowed here")
			}
			if err := s.rollIndent(s.col, -1, yamlast.BlockMappingStart, s.mark()); err != nil {
				return err
			}
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}

	start := s.mark()
	s.skip()
	s.append(yamlast.Value, start, s.mark())
	return nil
}

func (s *scanner) fetchAnchor(kind yamlast.TokenKind) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	return s.scanAnchor(kind)
}

func (s *scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	return s.scanTag()
}

func (s *scanner) fetchBlockScalar(literal bool) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	// A simple key may follow a block scalar.
	s.simpleKeyAllowed = true
	return s.scanBlockScalar(literal)
}

func (s *scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	return s.scanFlowScalar(single)
}

func (s *scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	return s.scanPlainScalar()
}
