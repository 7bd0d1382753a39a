package yamlast

// Mark is a position in the decoded source.
type Mark struct {
	// Line is the 0-based line number.
	Line int

	// Column is the 0-based column, counted in characters.
	Column int

	// Offset is the byte index into FileSnapshot.Source.
	Offset int
}

// Position returns the 1-based line and column of the mark.
func (m Mark) Position() Position {
	return Position{Line: m.Line + 1, Column: m.Column + 1}
}

// Before reports whether m is strictly before o.
func (m Mark) Before(o Mark) bool {
	return m.Offset < o.Offset
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Less orders positions by line, then column.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}
