package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
)

// located assigns consecutive two-byte ranges to toks.
func located(toks ...token.Token) []token.Located {
	out := make([]token.Located, len(toks))
	for i, t := range toks {
		out[i] = token.Located{Value: t, Range: position.New(i*2, i*2+1)}
	}
	return out
}

func TestReaderPopAndCurrent(t *testing.T) {
	r := NewTokenReader(located(token.Ident("a"), token.Int(3)))

	tok, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, token.Ident("a"), tok)

	// peeking does not advance
	tok, _ = r.Current()
	assert.Equal(t, token.Ident("a"), tok)

	tok, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, token.Ident("a"), tok)

	tok, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, token.Int(3), tok)
	assert.True(t, r.AtEnd())

	_, ok = r.Current()
	assert.False(t, ok)
	_, ok = r.Pop()
	assert.False(t, ok)
}

func TestReaderPopEq(t *testing.T) {
	r := NewTokenReader(located(token.NewLine(0), token.Sym(token.Colon)))

	// newlines are never skipped implicitly
	assert.False(t, r.PopEq(token.Sym(token.Colon)))
	assert.False(t, r.PopEq(token.NewLine(4)))
	assert.True(t, r.PopEq(token.NewLine(0)))
	assert.True(t, r.PopEq(token.Sym(token.Colon)))
	assert.False(t, r.PopEq(token.Sym(token.Colon)))
}

func TestReaderTypedPops(t *testing.T) {
	r := NewTokenReader(located(token.Ident("x"), token.Str("s"), token.Int(7), token.NewLine(2)))

	_, ok := r.PopString()
	assert.False(t, ok, "identifier is not a string")
	_, ok = r.PopInt()
	assert.False(t, ok)
	_, ok = r.PopNewline()
	assert.False(t, ok)

	ident, ok := r.PopIdent()
	require.True(t, ok)
	assert.Equal(t, "x", ident)

	_, ok = r.PopIdent()
	assert.False(t, ok)
	s, ok := r.PopString()
	require.True(t, ok)
	assert.Equal(t, "s", s)

	n, ok := r.PopInt()
	require.True(t, ok)
	assert.Equal(t, int32(7), n)

	indent, ok := r.PopNewline()
	require.True(t, ok)
	assert.Equal(t, 2, indent)
	assert.Equal(t, 2, r.Indent())
}

func TestReaderIndentation(t *testing.T) {
	r := NewTokenReader(located(
		token.NewLine(4), token.NewLine(4), token.NewLine(2), token.NewLine(0),
	))
	assert.Equal(t, 0, r.Indent())

	assert.False(t, r.PopIndentSame(0), "indent 4 is not the baseline 0")
	require.True(t, r.PopIndentIn())
	assert.Equal(t, 4, r.Indent())

	assert.False(t, r.PopIndentIn(), "indent 4 does not exceed baseline 4")
	require.True(t, r.PopIndentSame(4))

	assert.False(t, r.PopIndentIn(), "indent 2 is shallower than 4")
	assert.False(t, r.PopIndentSame(4))
	require.True(t, r.PopIndentSame(2))
	assert.Equal(t, 2, r.Indent())

	require.True(t, r.PopIndentSame(0))
	assert.False(t, r.PopIndentSame(0))
	assert.False(t, r.PopIndentIn())
}

func TestReaderIndentInRequiresNewLine(t *testing.T) {
	r := NewTokenReader(located(token.Sym(token.CloseCurly)))
	assert.False(t, r.PopIndentIn())
	assert.False(t, r.PopIndentSame(0))
	assert.True(t, r.PopEq(token.Sym(token.CloseCurly)))
}

func TestReaderRanges(t *testing.T) {
	r := NewTokenReader(located(token.Ident("a"), token.Ident("b")))

	assert.Equal(t, position.At(0), r.PrevRange())
	assert.Equal(t, position.New(0, 1), r.CurrRange())

	r.Pop()
	assert.Equal(t, position.New(0, 1), r.PrevRange())
	assert.Equal(t, position.New(2, 3), r.CurrRange())

	r.Pop()
	assert.Equal(t, position.New(2, 3), r.PrevRange())
	assert.Equal(t, position.At(3), r.CurrRange())

	empty := NewTokenReader(nil)
	assert.Equal(t, position.At(0), empty.CurrRange())
	assert.Equal(t, position.At(0), empty.PrevRange())
}
