package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/goyamllint/pkg/yamlast"
)

// scanDirective scans '%NAME params' and the rest of its line.
func (s *scanner) scanDirective() error {
	start := s.mark()
	s.skip() // '%'

	var name strings.Builder
	for s.isAlpha(0) {
		s.read(&name)
	}
	if name.Len() == 0 {
		return s.errorIn("while scanning a directive", start, "could not find expected directive name")
	}
	if !s.isBlankz(0) {
		return s.errorIn("while scanning a directive", start, "found unexpected non-alphabetical character")
	}

	tok := yamlast.Token{Kind: yamlast.Directive, Start: start, Name: name.String()}

	switch tok.Name {
	case "YAML":
		version, err := s.scanVersionDirectiveValue(start)
		if err != nil {
			return err
		}
		tok.Value = version
		tok.End = s.mark()
	case "TAG":
		handle, prefix, err := s.scanTagDirectiveValue(start)
		if err != nil {
			return err
		}
		tok.Value = handle + " " + prefix
		tok.Handle, tok.Suffix = handle, prefix
		tok.End = s.mark()
	default:
		// Reserved directives are kept with their raw parameters.
		tok.End = s.mark()
		for s.isBlank(0) {
			s.skip()
		}
		paramStart := s.pos
		for !s.isBreakz(0) && !(s.at(0) == '#' && s.isBlank(-1)) {
			blank := s.isBlank(0)
			s.skip()
			if !blank {
				tok.End = s.mark()
			}
		}
		tok.Value = s.src[paramStart:max(paramStart, tok.End.Offset)]
	}
	s.tokens = append(s.tokens, tok)

	return s.scanIgnoredLine("while scanning a directive", start)
}

// scanIgnoredLine allows trailing blanks and a comment before the line break.
func (s *scanner) scanIgnoredLine(context string, start yamlast.Mark) error {
	for s.isBlank(0) {
		s.skip()
	}
	if s.at(0) == '#' {
		for !s.isBreakz(0) {
			s.skip()
		}
	}
	if !s.isBreakz(0) {
		return s.errorIn(context, start, "did not find expected comment or line break")
	}
	s.skipLine()
	return nil
}

func (s *scanner) scanVersionDirectiveValue(start yamlast.Mark) (string, error) {
	for s.isBlank(0) {
		s.skip()
	}

	major, err := s.scanVersionNumber(start)
	if err != nil {
		return "", err
	}
	if s.at(0) != '.' {
		return "", s.errorIn("while scanning a %YAML directive", start, "did not find expected digit or '.' character")
	}
	s.skip()
	minor, err := s.scanVersionNumber(start)
	if err != nil {
		return "", err
	}
	if !s.isBlankz(0) {
		return "", s.errorIn("while scanning a %YAML directive", start, "did not find expected digit or ' ' character")
	}
	return major + "." + minor, nil
}

func (s *scanner) scanVersionNumber(start yamlast.Mark) (string, error) {
	const maxLength = 2

	begin := s.pos
	for s.isDigit(0) {
		if s.pos-begin >= maxLength {
			return "", s.errorIn("while scanning a %YAML directive", start, "found extremely long version number")
		}
		s.skip()
	}
	if s.pos == begin {
		return "", s.errorIn("while scanning a %YAML directive", start, "did not find expected version number")
	}
	return s.src[begin:s.pos], nil
}

func (s *scanner) scanTagDirectiveValue(start yamlast.Mark) (string, string, error) {
	for s.isBlank(0) {
		s.skip()
	}

	handle, err := s.scanTagHandle(true, start)
	if err != nil {
		return "", "", err
	}
	if !s.isBlank(0) {
		return "", "", s.errorIn("while scanning a %TAG directive", start, "did not find expected whitespace")
	}
	for s.isBlank(0) {
		s.skip()
	}

	prefix, err := s.scanTagURI(true, "", start)
	if err != nil {
		return "", "", err
	}
	if !s.isBlankz(0) {
		return "", "", s.errorIn("while scanning a %TAG directive", start, "did not find expected whitespace or line break")
	}
	return handle, prefix, nil
}

func (s *scanner) scanAnchor(kind yamlast.TokenKind) error {
	context := "while scanning an anchor"
	if kind == yamlast.Alias {
		context = "while scanning an alias"
	}

	start := s.mark()
	s.skip() // '&' or '*'

	begin := s.pos
	for s.isAlpha(0) {
		s.skip()
	}
	end := s.mark()

	if s.pos == begin || !(s.isBlankz(0) || strings.IndexByte("?:,]}%@`", s.at(0)) >= 0) {
		return s.errorIn(context, start, "did not find expected alphabetic or numeric character")
	}

	tok := s.append(kind, start, end)
	tok.Value = s.src[begin:end.Offset]
	return nil
}

func (s *scanner) scanTag() error {
	start := s.mark()

	var handle, suffix string
	if s.at(1) == '<' {
		// Verbatim tag: '!<uri>'.
		s.skip()
		s.skip()
		uri, err := s.scanTagURI(false, "", start)
		if err != nil {
			return err
		}
		if s.at(0) != '>' {
			return s.errorIn("while scanning a tag", start, "did not find the expected '>'")
		}
		s.skip()
		suffix = uri
	} else {
		h, err := s.scanTagHandle(false, start)
		if err != nil {
			return err
		}
		if len(h) > 1 && h[0] == '!' && h[len(h)-1] == '!' {
			handle = h
			if suffix, err = s.scanTagURI(false, "", start); err != nil {
				return err
			}
		} else {
			// Not a handle after all: '!suffix' or the lone '!'.
			if suffix, err = s.scanTagURI(false, h, start); err != nil {
				return err
			}
			handle = "!"
			if suffix == "" {
				handle, suffix = "", "!"
			}
		}
	}

	if !s.isBlankz(0) && !(s.flowLevel > 0 && s.at(0) == ',') {
		return s.errorIn("while scanning a tag", start, "did not find expected whitespace or line break")
	}

	tok := s.append(yamlast.Tag, start, s.mark())
	tok.Handle = handle
	tok.Suffix = suffix
	return nil
}

func (s *scanner) scanTagHandle(directive bool, start yamlast.Mark) (string, error) {
	if s.at(0) != '!' {
		return "", s.errorIn("while scanning a tag", start, "did not find expected '!'")
	}

	begin := s.pos
	s.skip()
	for s.isAlpha(0) {
		s.skip()
	}
	if s.at(0) == '!' {
		s.skip()
	} else if directive && s.pos-begin > 1 {
		// Only the primary handle '!' may omit the closing '!'.
		return "", s.errorIn("while parsing a tag directive", start, "did not find expected '!'")
	}
	return s.src[begin:s.pos], nil
}

// scanTagURI reads URI characters, decoding %-escapes. head is a partially
// scanned handle whose characters after the leading '!' belong to the URI.
func (s *scanner) scanTagURI(directive bool, head string, start yamlast.Mark) (string, error) {
	var sb strings.Builder
	if len(head) > 1 {
		sb.WriteString(head[1:])
	}

	const uriChars = ";/?:@&=+$,.!~*'()[]%"
	for s.isAlpha(0) || (s.at(0) != 0 && strings.IndexByte(uriChars, s.at(0)) >= 0) {
		// Flow indicators end the tag inside flow collections.
		if s.flowLevel > 0 && strings.IndexByte(",[]", s.at(0)) >= 0 {
			break
		}
		if s.at(0) == '%' {
			if err := s.scanURIEscapes(start, &sb); err != nil {
				return "", err
			}
			continue
		}
		s.read(&sb)
	}

	if sb.Len() == 0 && len(head) == 0 {
		context := "while parsing a tag"
		if directive {
			context = "while parsing a %TAG directive"
		}
		return "", s.errorIn(context, start, "did not find expected tag URI")
	}
	return sb.String(), nil
}

func (s *scanner) scanURIEscapes(start yamlast.Mark, sb *strings.Builder) error {
	var octets []byte
	width := 0
	for {
		if !(s.at(0) == '%' && s.isHex(1) && s.isHex(2)) {
			return s.errorIn("while parsing a tag", start, "did not find URI escaped octet")
		}
		octet := byte(s.hexValue(1)<<4 | s.hexValue(2))
		if width == 0 {
			switch {
			case octet&0x80 == 0x00:
				width = 1
			case octet&0xE0 == 0xC0:
				width = 2
			case octet&0xF0 == 0xE0:
				width = 3
			case octet&0xF8 == 0xF0:
				width = 4
			default:
				return s.errorIn("while parsing a tag", start, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			return s.errorIn("while parsing a tag", start, "found an incorrect trailing UTF-8 octet")
		}
		octets = append(octets, octet)
		s.skip()
		s.skip()
		s.skip()
		if len(octets) == width {
			break
		}
	}
	sb.Write(octets)
	return nil
}

// scanBlockScalar scans a literal ('|') or folded ('>') scalar. The token
// ends at the start of the first line after the scalar's content and its
// trailing blank lines.
func (s *scanner) scanBlockScalar(literal bool) error {
	const context = "while scanning a block scalar"

	start := s.mark()
	s.skip() // '|' or '>'

	// Header: chomping and indentation indicators in either order.
	chomping, increment := 0, 0
	for range 2 {
		switch {
		case chomping == 0 && (s.at(0) == '+' || s.at(0) == '-'):
			chomping = 1
			if s.at(0) == '-' {
				chomping = -1
			}
			s.skip()
		case increment == 0 && s.isDigit(0):
			if s.at(0) == '0' {
				return s.errorIn(context, start, "found an indentation indicator equal to 0")
			}
			increment = int(s.at(0) - '0')
			s.skip()
		}
	}

	if !s.isBlankz(0) && s.at(0) != '#' {
		return s.errorIn(context, start, "expected chomping or indentation indicators")
	}
	if err := s.scanIgnoredLine(context, start); err != nil {
		return err
	}
	end := s.mark()

	indent := 0
	if increment > 0 {
		if cur := s.currentIndent(); cur >= 0 {
			indent = cur + increment
		} else {
			indent = increment
		}
	}

	var (
		value          strings.Builder
		leadingBreak   []byte
		trailingBreaks []byte
	)

	trailingBreaks, err := s.scanBlockScalarBreaks(&indent, trailingBreaks, start, &end)
	if err != nil {
		return err
	}

	leadingBlank := false
	for s.col == indent && !s.eof(0) {
		// A line of content at the scalar's indentation.
		trailingBlank := s.isBlank(0)

		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				value.WriteByte(' ')
			}
		} else {
			value.Write(leadingBreak)
		}
		leadingBreak = leadingBreak[:0]

		value.Write(trailingBreaks)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = s.isBlank(0)

		for !s.isBreakz(0) {
			s.read(&value)
		}
		if s.eof(0) {
			end = s.mark()
			break
		}
		leadingBreak = s.readLine(leadingBreak)

		if trailingBreaks, err = s.scanBlockScalarBreaks(&indent, trailingBreaks, start, &end); err != nil {
			return err
		}
	}

	// Chomp the tail.
	if chomping != -1 {
		value.Write(leadingBreak)
	}
	if chomping == 1 {
		value.Write(trailingBreaks)
	}

	tok := s.append(yamlast.Scalar, start, end)
	tok.Value = value.String()
	tok.Style = yamlast.Literal
	if !literal {
		tok.Style = yamlast.Folded
	}
	return nil
}

// scanBlockScalarBreaks consumes indentation and empty lines, and detects
// the scalar's indentation when it was not given explicitly.
func (s *scanner) scanBlockScalarBreaks(indent *int, breaks []byte, start yamlast.Mark, end *yamlast.Mark) ([]byte, error) {
	*end = s.mark()

	maxIndent := 0
	for {
		for (*indent == 0 || s.col < *indent) && s.at(0) == ' ' {
			s.skip()
		}
		if s.col > maxIndent {
			maxIndent = s.col
		}

		if (*indent == 0 || s.col < *indent) && s.at(0) == '\t' {
			return breaks, s.errorIn("while scanning a block scalar", start,
				"found a tab character where an indentation space is expected")
		}

		if !s.isBreak(0) {
			break
		}
		breaks = s.readLine(breaks)
		*end = s.mark()
	}

	if *indent == 0 {
		*indent = max(maxIndent, s.currentIndent()+1, 1)
	}
	return breaks, nil
}

// scanFlowScalar scans a single- or double-quoted scalar.
func (s *scanner) scanFlowScalar(single bool) error {
	const context = "while scanning a quoted scalar"

	start := s.mark()
	s.skip() // opening quote

	var (
		value          strings.Builder
		whitespaces    strings.Builder
		leadingBreak   []byte
		trailingBreaks []byte
	)

	for {
		if s.col == 0 && (s.isDocumentIndicator('-') || s.isDocumentIndicator('.')) {
			return s.errorIn(context, start, "found unexpected document indicator")
		}
		if s.eof(0) {
			return s.errorIn(context, start, "found unexpected end of stream")
		}

		leadingBlanks := false
		for !s.isBlankz(0) {
			c := s.at(0)
			switch {
			case single && c == '\'' && s.at(1) == '\'':
				value.WriteByte('\'')
				s.skip()
				s.skip()
				continue
			case single && c == '\'', !single && c == '"':
			case !single && c == '\\' && s.isBreak(1):
				// Escaped line break.
				s.skip()
				s.skipLine()
				leadingBlanks = true
			case !single && c == '\\':
				if err := s.scanEscape(start, &value); err != nil {
					return err
				}
				continue
			default:
				s.read(&value)
				continue
			}
			break
		}

		if (single && s.at(0) == '\'') || (!single && s.at(0) == '"') {
			break
		}

		// Blanks and line breaks between words.
		for s.isBlank(0) || s.isBreak(0) {
			if s.isBlank(0) {
				if leadingBlanks {
					s.skip()
				} else {
					s.read(&whitespaces)
				}
				continue
			}
			if leadingBlanks {
				trailingBreaks = s.readLine(trailingBreaks)
			} else {
				whitespaces.Reset()
				leadingBreak = s.readLine(leadingBreak)
				leadingBlanks = true
			}
		}

		if leadingBlanks {
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					value.WriteByte(' ')
				} else {
					value.Write(trailingBreaks)
				}
			} else {
				value.Write(leadingBreak)
				value.Write(trailingBreaks)
			}
			leadingBreak = leadingBreak[:0]
			trailingBreaks = trailingBreaks[:0]
		} else {
			value.WriteString(whitespaces.String())
			whitespaces.Reset()
		}
	}

	s.skip() // closing quote

	tok := s.append(yamlast.Scalar, start, s.mark())
	tok.Value = value.String()
	tok.Style = yamlast.SingleQuoted
	if !single {
		tok.Style = yamlast.DoubleQuoted
	}
	return nil
}

var simpleEscapes = map[byte]string{
	'0':  "\x00",
	'a':  "\x07",
	'b':  "\x08",
	't':  "\t",
	'\t': "\t",
	'n':  "\n",
	'v':  "\x0b",
	'f':  "\x0c",
	'r':  "\r",
	'e':  "\x1b",
	' ':  " ",
	'"':  "\"",
	'/':  "/",
	'\'': "'",
	'\\': "\\",
	'N':  "\u0085",
	'_':  "\u00a0",
	'L':  "\u2028",
	'P':  "\u2029",
}

// scanEscape decodes one backslash escape of a double-quoted scalar.
func (s *scanner) scanEscape(start yamlast.Mark, value *strings.Builder) error {
	const context = "while parsing a quoted scalar"

	c := s.at(1)
	if repl, ok := simpleEscapes[c]; ok {
		value.WriteString(repl)
		s.skip()
		s.skip()
		return nil
	}

	var length int
	switch c {
	case 'x':
		length = 2
	case 'u':
		length = 4
	case 'U':
		length = 8
	default:
		return s.errorIn(context, start, "found unknown escape character")
	}
	s.skip()
	s.skip()

	code := 0
	for k := range length {
		if !s.isHex(k) {
			return s.errorIn(context, start, "did not find expected hexadecimal number")
		}
		code = code<<4 | s.hexValue(k)
	}
	if (code >= 0xD800 && code <= 0xDFFF) || code > utf8.MaxRune {
		return s.errorIn(context, start, "found invalid Unicode character escape code")
	}
	value.WriteRune(rune(code))
	for range length {
		s.skip()
	}
	return nil
}

// scanPlainScalar scans an unquoted scalar, possibly spanning lines.
func (s *scanner) scanPlainScalar() error {
	var (
		value          strings.Builder
		whitespaces    strings.Builder
		leadingBreak   []byte
		trailingBreaks []byte
		leadingBlanks  bool
	)

	indent := s.currentIndent() + 1
	start := s.mark()
	end := s.mark()

	for {
		if s.col == 0 && (s.isDocumentIndicator('-') || s.isDocumentIndicator('.')) {
			break
		}
		if s.at(0) == '#' {
			break
		}

		for !s.isBlankz(0) {
			if s.endsPlain() {
				break
			}

			if leadingBlanks || whitespaces.Len() > 0 {
				if leadingBlanks {
					if leadingBreak[0] == '\n' {
						if len(trailingBreaks) == 0 {
							value.WriteByte(' ')
						} else {
							value.Write(trailingBreaks)
						}
					} else {
						value.Write(leadingBreak)
						value.Write(trailingBreaks)
					}
					leadingBreak = leadingBreak[:0]
					trailingBreaks = trailingBreaks[:0]
					leadingBlanks = false
				} else {
					value.WriteString(whitespaces.String())
					whitespaces.Reset()
				}
			}

			s.read(&value)
			end = s.mark()
		}

		if !(s.isBlank(0) || s.isBreak(0)) {
			break
		}

		for s.isBlank(0) || s.isBreak(0) {
			if s.isBlank(0) {
				if leadingBlanks && s.col < indent && s.at(0) == '\t' {
					return s.errorIn("while scanning a plain scalar", start,
						"found a tab character that violates indentation")
				}
				if leadingBlanks {
					s.skip()
				} else {
					s.read(&whitespaces)
				}
				continue
			}
			if leadingBlanks {
				trailingBreaks = s.readLine(trailingBreaks)
			} else {
				whitespaces.Reset()
				leadingBreak = s.readLine(leadingBreak)
				leadingBlanks = true
			}
		}

		if s.flowLevel == 0 && s.col < indent {
			break
		}
	}

	tok := s.append(yamlast.Scalar, start, end)
	tok.Value = value.String()
	tok.Style = yamlast.Plain

	// A plain scalar that ran onto a new line may be followed by a key.
	if leadingBlanks {
		s.simpleKeyAllowed = true
	}
	return nil
}

// endsPlain reports whether the character at the cursor terminates a plain
// scalar.
func (s *scanner) endsPlain() bool {
	c := s.at(0)
	if c == ':' {
		if s.isBlankz(1) {
			return true
		}
		return s.flowLevel > 0 && strings.IndexByte(",[]{}", s.at(1)) >= 0
	}
	return s.flowLevel > 0 && strings.IndexByte(",?[]{}", c) >= 0
}
