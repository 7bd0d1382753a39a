package yamlast

import "strings"

// Comment is a '#' comment found between two tokens. Neighbors are stored as
// indices into the owning snapshot; -1 means none.
type Comment struct {
	// Mark is the position of the '#'.
	Mark Mark

	TokenBefore   int
	TokenAfter    int
	CommentBefore int
	CommentAfter  int

	arena *FileSnapshot
	index int
}

// NewComment creates an unlinked comment at m.
func NewComment(m Mark, tokenBefore, tokenAfter int) Comment {
	return Comment{
		Mark:          m,
		TokenBefore:   tokenBefore,
		TokenAfter:    tokenAfter,
		CommentBefore: -1,
		CommentAfter:  -1,
	}
}

// Line returns the 1-based line number.
func (c *Comment) Line() int {
	return c.Mark.Line + 1
}

// Column returns the 1-based column of the '#'.
func (c *Comment) Column() int {
	return c.Mark.Column + 1
}

// Index returns the comment's position in FileSnapshot.Comments.
func (c *Comment) Index() int {
	return c.index
}

// Text returns the comment from '#' to the end of its line, without the line
// ending.
func (c *Comment) Text() string {
	if c.arena == nil {
		return ""
	}
	rest := c.arena.Source[c.Mark.Offset:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSuffix(rest, "\r")
}

// Before returns the token preceding the comment.
func (c *Comment) Before() *Token {
	if c.arena == nil {
		return nil
	}
	return c.arena.Token(c.TokenBefore)
}

// After returns the token following the comment.
func (c *Comment) After() *Token {
	if c.arena == nil {
		return nil
	}
	return c.arena.Token(c.TokenAfter)
}

// Previous returns the comment on the line directly above, if linked.
func (c *Comment) Previous() *Comment {
	if c.arena == nil {
		return nil
	}
	return c.arena.Comment(c.CommentBefore)
}

// Next returns the comment on the line directly below, if linked.
func (c *Comment) Next() *Comment {
	if c.arena == nil {
		return nil
	}
	return c.arena.Comment(c.CommentAfter)
}

// IsInline reports whether the comment shares its line with the content of
// the preceding token.
func (c *Comment) IsInline() bool {
	tok := c.Before()
	if tok == nil || tok.Kind == StreamStart {
		return false
	}
	return tok.End.Line == c.Mark.Line && !tok.EndsAtLineStart(c.arena.Source)
}

// Source returns the text of the owning snapshot, or "" when unbound.
func (c *Comment) Source() string {
	if c.arena == nil {
		return ""
	}
	return c.arena.Source
}
