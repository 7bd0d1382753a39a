package yamlast

// TokenKind classifies a token of the YAML lexical grammar.
type TokenKind uint8

// Token kinds, in the order the YAML specification introduces them.
const (
	StreamStart TokenKind = iota
	StreamEnd
	DocumentStart // '---'
	DocumentEnd   // '...'
	Directive     // '%YAML 1.2', '%TAG ! tag:'
	Anchor        // '&name'
	Alias         // '*name'
	Tag           // '!handle!suffix'
	Scalar
	Key   // '?' or the implicit start of a simple key
	Value // ':'
	BlockEntry
	BlockSequenceStart
	BlockSequenceEnd
	BlockMappingStart
	BlockMappingEnd
	FlowSequenceStart // '['
	FlowSequenceEnd   // ']'
	FlowMappingStart  // '{'
	FlowMappingEnd    // '}'
	FlowEntry         // ','
)

var tokenKindNames = [...]string{
	StreamStart:        "StreamStart",
	StreamEnd:          "StreamEnd",
	DocumentStart:      "DocumentStart",
	DocumentEnd:        "DocumentEnd",
	Directive:          "Directive",
	Anchor:             "Anchor",
	Alias:              "Alias",
	Tag:                "Tag",
	Scalar:             "Scalar",
	Key:                "Key",
	Value:              "Value",
	BlockEntry:         "BlockEntry",
	BlockSequenceStart: "BlockSequenceStart",
	BlockSequenceEnd:   "BlockSequenceEnd",
	BlockMappingStart:  "BlockMappingStart",
	BlockMappingEnd:    "BlockMappingEnd",
	FlowSequenceStart:  "FlowSequenceStart",
	FlowSequenceEnd:    "FlowSequenceEnd",
	FlowMappingStart:   "FlowMappingStart",
	FlowMappingEnd:     "FlowMappingEnd",
	FlowEntry:          "FlowEntry",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(?)"
}

// ScalarStyle is the presentation style of a scalar token.
type ScalarStyle uint8

// Scalar styles.
const (
	Plain ScalarStyle = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

func (s ScalarStyle) String() string {
	switch s {
	case Plain:
		return "plain"
	case SingleQuoted:
		return "single-quoted"
	case DoubleQuoted:
		return "double-quoted"
	case Literal:
		return "literal"
	case Folded:
		return "folded"
	}
	return "unknown"
}

// Token is one lexical unit. Which payload fields are set depends on Kind:
//   - Scalar: Value and Style
//   - Anchor, Alias: Value holds the name
//   - Tag: Handle and Suffix
//   - Directive: Name and Value ("YAML" and "1.2", or "TAG" and "handle prefix")
type Token struct {
	Kind  TokenKind
	Start Mark
	End   Mark

	Value  string
	Style  ScalarStyle
	Name   string
	Handle string
	Suffix string
}

// Text returns the source text covered by the token.
func (t *Token) Text(src string) string {
	if t.Start.Offset < 0 || t.End.Offset > len(src) || t.Start.Offset > t.End.Offset {
		return ""
	}
	return src[t.Start.Offset:t.End.Offset]
}

// Is reports whether the token is one of kinds. A nil token matches nothing.
func (t *Token) Is(kinds ...TokenKind) bool {
	if t == nil {
		return false
	}
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsBlockEnd reports whether the token closes a block collection.
func (t *Token) IsBlockEnd() bool {
	return t.Is(BlockSequenceEnd, BlockMappingEnd)
}

// EndsAtLineStart reports whether the token's end mark sits at the start of
// the line after its content, as block scalars and multi-line plain scalars
// can.
func (t *Token) EndsAtLineStart(src string) bool {
	return t.End.Offset > 0 && t.End.Offset <= len(src) && src[t.End.Offset-1] == '\n'
}
