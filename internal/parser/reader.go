package parser

import (
	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
)

// TokenReader is a single pass cursor over a token slice. It never looks
// further ahead than the current token and never moves backwards.
//
// It also tracks the indentation of the most recently consumed NewLine,
// which the parser uses as the baseline for block alignment.
type TokenReader struct {
	tokens []token.Located
	pos    int
	indent int
}

// NewTokenReader creates a reader positioned on the first token.
func NewTokenReader(tokens []token.Located) *TokenReader {
	return &TokenReader{tokens: tokens}
}

// Current returns the token under the cursor without consuming it.
// ok is false past the end of input.
func (r *TokenReader) Current() (tok token.Token, ok bool) {
	if r.pos >= len(r.tokens) {
		return token.Token{}, false
	}
	return r.tokens[r.pos].Value, true
}

// AtEnd reports whether every token has been consumed.
func (r *TokenReader) AtEnd() bool {
	return r.pos >= len(r.tokens)
}

// Pop consumes and returns the current token.
func (r *TokenReader) Pop() (token.Token, bool) {
	tok, ok := r.Current()
	if !ok {
		return tok, false
	}
	r.pos++
	if tok.Kind == token.KindNewLine {
		r.indent = tok.Indent
	}
	return tok, true
}

// PopEq consumes the current token if it is structurally equal to want.
func (r *TokenReader) PopEq(want token.Token) bool {
	if tok, ok := r.Current(); ok && tok == want {
		r.Pop()
		return true
	}
	return false
}

// popKind consumes the current token if it has the given kind.
func (r *TokenReader) popKind(kind token.Kind) (token.Token, bool) {
	if tok, ok := r.Current(); ok && tok.Kind == kind {
		return r.Pop()
	}
	return token.Token{}, false
}

// PopIdent consumes an identifier and returns its text.
func (r *TokenReader) PopIdent() (string, bool) {
	tok, ok := r.popKind(token.KindIdentifier)
	return tok.Text, ok
}

// PopString consumes a string literal and returns its value.
func (r *TokenReader) PopString() (string, bool) {
	tok, ok := r.popKind(token.KindString)
	return tok.Text, ok
}

// PopInt consumes an integer literal and returns its value.
func (r *TokenReader) PopInt() (int32, bool) {
	tok, ok := r.popKind(token.KindInt)
	return tok.Int, ok
}

// PopNewline consumes a NewLine of any indentation and returns the indent.
func (r *TokenReader) PopNewline() (int, bool) {
	tok, ok := r.popKind(token.KindNewLine)
	return tok.Indent, ok
}

// Indent returns the indentation recorded by the last consumed NewLine,
// or 0 before any has been consumed.
func (r *TokenReader) Indent() int {
	return r.indent
}

// PopIndentIn consumes a NewLine that is indented deeper than the current
// baseline, i.e. one that opens a nested block.
func (r *TokenReader) PopIndentIn() bool {
	if tok, ok := r.Current(); ok && tok.Kind == token.KindNewLine && tok.Indent > r.indent {
		r.Pop()
		return true
	}
	return false
}

// PopIndentSame consumes a NewLine whose indentation equals baseline.
func (r *TokenReader) PopIndentSame(baseline int) bool {
	return r.PopEq(token.NewLine(baseline))
}

// CurrRange returns the range of the current token. Past the end it is the
// empty range just after the last token.
func (r *TokenReader) CurrRange() position.Range {
	if r.pos < len(r.tokens) {
		return r.tokens[r.pos].Range
	}
	if len(r.tokens) == 0 {
		return position.At(0)
	}
	return position.At(r.tokens[len(r.tokens)-1].Range.End)
}

// PrevRange returns the range of the most recently consumed token. Before
// anything is consumed it is the empty range at the start of the first token.
func (r *TokenReader) PrevRange() position.Range {
	if r.pos > 0 {
		return r.tokens[r.pos-1].Range
	}
	if len(r.tokens) == 0 {
		return position.At(0)
	}
	return position.At(r.tokens[0].Range.Start)
}
