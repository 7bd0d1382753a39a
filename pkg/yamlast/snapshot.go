// Package yamlast provides the lossless, position-annotated view of a YAML
// source that rules operate on. It defines:
// - FileSnapshot: the decoded source plus its derived sequences
// - Line: offsets of each logical line
// - Token: the typed lexical units of the YAML grammar
// - Comment: comments with links to their neighboring tokens and comments
//
// Every record refers back into FileSnapshot.Source by offset or index; nothing
// holds a copy of the text.
package yamlast

// FileSnapshot is an immutable view of one decoded YAML input.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Source is the decoded text. It is never modified after construction.
	Source string

	// Lines contains one entry per logical line.
	Lines []Line

	// Tokens is the token stream, from StreamStart to StreamEnd.
	// When scanning failed it holds the tokens produced before the error.
	Tokens []Token

	// Comments holds every comment found between tokens, in source order.
	Comments []Comment

	// ScanErr is the lexical error that stopped tokenization, if any.
	ScanErr error
}

// NewFileSnapshot creates a snapshot for src with its line index built.
// Tokens and comments are filled in by a parser.
func NewFileSnapshot(path, src string) *FileSnapshot {
	return &FileSnapshot{
		Path:   path,
		Source: src,
		Lines:  BuildLines(src),
	}
}

// SetComments installs comments and binds them to this snapshot so that
// their neighbor accessors resolve.
func (f *FileSnapshot) SetComments(comments []Comment) {
	for i := range comments {
		comments[i].arena = f
		comments[i].index = i
	}
	f.Comments = comments
}

// Token returns the token at index i, or nil when i is out of range.
func (f *FileSnapshot) Token(i int) *Token {
	if i < 0 || i >= len(f.Tokens) {
		return nil
	}
	return &f.Tokens[i]
}

// Comment returns the comment at index i, or nil when i is out of range.
func (f *FileSnapshot) Comment(i int) *Comment {
	if i < 0 || i >= len(f.Comments) {
		return nil
	}
	return &f.Comments[i]
}

// LineCount returns the number of lines in the file.
func (f *FileSnapshot) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Columns count characters.
// Returns (0, 0) if the offset is out of range.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(f.Source) || len(f.Lines) == 0 {
		return 0, 0
	}

	idx := LineAt(f.Lines, offset)
	return idx + 1, Column(f.Source, f.Lines[idx].Start, offset) + 1
}

// LineContent returns the content of a 1-based line number, excluding the
// newline. Returns "" if the line number is out of range.
func (f *FileSnapshot) LineContent(line int) string {
	if line < 1 || line > len(f.Lines) {
		return ""
	}
	return f.Lines[line-1].Text()
}
