// Package token defines the tokens exchanged between the Kite lexer and parser.
package token

import (
	"fmt"
	"strconv"

	"github.com/orizon-lang/kite/internal/position"
)

// Kind identifies which variant a Token holds
type Kind uint8

const (
	KindInvalid Kind = iota
	KindKeyword
	KindSymbol
	KindIdentifier
	KindString
	KindInt
	KindNewLine
)

var kindNames = [...]string{
	KindInvalid:    "INVALID",
	KindKeyword:    "KEYWORD",
	KindSymbol:     "SYMBOL",
	KindIdentifier: "IDENTIFIER",
	KindString:     "STRING",
	KindInt:        "INT",
	KindNewLine:    "NEWLINE",
}

// String returns a string representation of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// Keyword enumerates the reserved words.
type Keyword uint8

const (
	Import Keyword = iota + 1
	For
	In
	Do
	If
)

var keywordNames = map[Keyword]string{
	Import: "import",
	For:    "for",
	In:     "in",
	Do:     "do",
	If:     "if",
}

// Keywords maps source spellings to keywords.
var Keywords = map[string]Keyword{
	"import": Import,
	"for":    For,
	"in":     In,
	"do":     Do,
	"if":     If,
}

func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return fmt.Sprintf("keyword(%d)", int(k))
}

// Symbol enumerates punctuation tokens.
type Symbol uint8

const (
	Colon Symbol = iota + 1
	Equal
	DotDot
	OpenParen
	CloseParen
	OpenCurly
	CloseCurly
	DoubleColon
)

var symbolNames = map[Symbol]string{
	Colon:       ":",
	Equal:       "=",
	DotDot:      "..",
	OpenParen:   "(",
	CloseParen:  ")",
	OpenCurly:   "{",
	CloseCurly:  "}",
	DoubleColon: "::",
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return fmt.Sprintf("symbol(%d)", int(s))
}

// Token is a tagged union over the token variants. Only the payload field
// matching Kind is meaningful; the others stay zero so that two tokens are
// structurally equal exactly when == reports them equal.
type Token struct {
	Kind    Kind
	Keyword Keyword // KindKeyword
	Symbol  Symbol  // KindSymbol
	Text    string  // KindIdentifier, KindString
	Int     int32   // KindInt
	Indent  int     // KindNewLine
}

// Located is a token paired with its source range.
type Located = position.Located[Token]

func Kw(k Keyword) Token        { return Token{Kind: KindKeyword, Keyword: k} }
func Sym(s Symbol) Token        { return Token{Kind: KindSymbol, Symbol: s} }
func Ident(name string) Token   { return Token{Kind: KindIdentifier, Text: name} }
func Str(value string) Token    { return Token{Kind: KindString, Text: value} }
func Int(value int32) Token     { return Token{Kind: KindInt, Int: value} }
func NewLine(indent int) Token  { return Token{Kind: KindNewLine, Indent: indent} }
func (t Token) IsNewLine() bool { return t.Kind == KindNewLine }

// String returns a human readable rendering of the token
func (t Token) String() string {
	switch t.Kind {
	case KindKeyword:
		return t.Keyword.String()
	case KindSymbol:
		return t.Symbol.String()
	case KindIdentifier:
		return t.Text
	case KindString:
		return strconv.Quote(t.Text)
	case KindInt:
		return strconv.FormatInt(int64(t.Int), 10)
	case KindNewLine:
		return fmt.Sprintf("NEWLINE(%d)", t.Indent)
	default:
		return "INVALID"
	}
}
