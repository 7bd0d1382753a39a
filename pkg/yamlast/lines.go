package yamlast

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Line is one logical line of the source. Lines are split on '\n' only; a
// carriage return before the newline stays in Content so that line rules can
// tell Unix and DOS endings apart.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// Start is the byte offset of the first character.
	Start int

	// End is the byte offset of the '\n' ending the line, or the length of
	// the source for the last line.
	End int

	// Content is Source[Start:End].
	Content string

	src string
}

// BuildLines splits src into lines. The segment after the last newline is
// always returned as a final line, even when empty.
func BuildLines(src string) []Line {
	lines := make([]Line, 0, strings.Count(src, "\n")+1)

	start := 0
	for number := 1; ; number++ {
		idx := strings.IndexByte(src[start:], '\n')
		if idx < 0 {
			lines = append(lines, Line{Number: number, Start: start, End: len(src), Content: src[start:], src: src})
			return lines
		}
		end := start + idx
		lines = append(lines, Line{Number: number, Start: start, End: end, Content: src[start:end], src: src})
		start = end + 1
	}
}

// Text returns the line content without a trailing carriage return.
func (l Line) Text() string {
	return strings.TrimSuffix(l.Content, "\r")
}

// TextEnd is the offset where Text ends.
func (l Line) TextEnd() int {
	return l.Start + len(l.Text())
}

// HasNewline reports whether the line is terminated by '\n'.
func (l Line) HasNewline(src string) bool {
	return l.End < len(src)
}

// Terminator returns the raw line ending: "\r\n", "\n" or "" for an
// unterminated last line.
func (l Line) Terminator(src string) string {
	if !l.HasNewline(src) {
		return ""
	}
	if strings.HasSuffix(l.Content, "\r") {
		return "\r\n"
	}
	return "\n"
}

// IsBlank reports whether the line has no characters besides its ending.
func (l Line) IsBlank() bool {
	return l.Text() == ""
}

// Source returns the whole source the line was split from, or "" for a
// line not built by BuildLines.
func (l Line) Source() string {
	return l.src
}

// IsLast reports whether this is the final line of its source.
func (l Line) IsLast() bool {
	return l.End == len(l.src)
}

// LineAt returns the 0-based index of the line containing offset. Offsets
// past the end map to the last line.
func LineAt(lines []Line, offset int) int {
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].End >= offset
	})
	return min(idx, len(lines)-1)
}

// Column returns the 0-based character column of offset on the line
// starting at lineStart.
func Column(src string, lineStart, offset int) int {
	return utf8.RuneCountInString(src[lineStart:offset])
}
