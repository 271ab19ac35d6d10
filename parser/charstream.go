package parser

// CharStream is an offset-tracked character cursor over MiniPL source
// text. Offsets are character indices, not byte indices, so the
// source is held as a rune slice rather than scanned byte-by-byte.
type CharStream struct {
	runes []rune
	pos   int // index of the next unread rune
}

// NewCharStream creates a cursor positioned before the first rune of
// source.
func NewCharStream(source string) *CharStream {
	return &CharStream{runes: []rune(source)}
}

// eof is the sentinel rune returned by Peek/Advance once the stream is
// exhausted. It is not a legal MiniPL source character.
const eof rune = 0

// Peek returns the current character without consuming it, or eof at
// end of input.
func (c *CharStream) Peek() rune {
	if c.pos >= len(c.runes) {
		return eof
	}
	return c.runes[c.pos]
}

// PeekAt returns the character `ahead` positions past the current one
// (PeekAt(0) == Peek()), or eof if that position is past the end.
func (c *CharStream) PeekAt(ahead int) rune {
	i := c.pos + ahead
	if i < 0 || i >= len(c.runes) {
		return eof
	}
	return c.runes[i]
}

// Advance consumes and returns the current character. Advancing past
// the end of input saturates at eof rather than panicking.
func (c *CharStream) Advance() rune {
	ch := c.Peek()
	if c.pos < len(c.runes) {
		c.pos++
	}
	return ch
}

// ReachedEnd reports whether the cursor is at or past the last rune.
func (c *CharStream) ReachedEnd() bool {
	return c.pos >= len(c.runes)
}

// Offset returns the current character offset.
func (c *CharStream) Offset() int {
	return c.pos
}

// TakeUntil advances the cursor until pred reports true for the
// current character (or end of input is reached), returning the
// consumed runes and the offset at which consumption started.
func (c *CharStream) TakeUntil(pred func(rune) bool) (string, int) {
	start := c.pos
	for !c.ReachedEnd() && !pred(c.Peek()) {
		c.Advance()
	}
	return string(c.runes[start:c.pos]), start
}
