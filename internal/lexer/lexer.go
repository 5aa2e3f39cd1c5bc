// Package lexer implements the Kite lexical analyzer.
//
// Besides the usual tokens the lexer turns line structure into NewLine
// tokens: every line break that is followed by more code produces exactly
// one NewLine carrying the indentation of that next line. Blank lines and
// comment-only lines produce nothing.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/kite/internal/diagnostics"
	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
)

// eof is the sentinel character past the end of input.
const eof = -1

// Error is a lexical error with the range of the offending text.
type Error struct {
	Message string
	Span    position.Range
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// Report converts the error into a diagnostic.
func (e Error) Report() diagnostics.Report {
	return diagnostics.Report{Message: e.Message, Range: e.Span}
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // offset of ch
	readPosition int  // offset after ch
	ch           rune // current char under examination, eof at the end

	tokens []token.Located
	errors []Error
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Lex tokenizes source in one go.
func Lex(source string) ([]token.Located, []Error) {
	return New(source).Run()
}

// Run consumes the whole input and returns the tokens and any errors.
func (l *Lexer) Run() ([]token.Located, []Error) {
	for l.ch != eof {
		l.next()
	}
	return l.tokens, l.errors
}

// readChar advances to the next character
func (l *Lexer) readChar() {
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = eof
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += size
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) emit(tok token.Token, start int) {
	l.tokens = append(l.tokens, token.Located{Value: tok, Range: position.New(start, l.position)})
}

func (l *Lexer) errorf(start int, format string, args ...any) {
	l.errors = append(l.errors, Error{
		Message: fmt.Sprintf(format, args...),
		Span:    position.New(start, l.position),
	})
}

// next lexes a single token, or skips whitespace and comments.
func (l *Lexer) next() {
	start := l.position

	switch ch := l.ch; {
	case ch == ' ' || ch == '\t' || ch == '\r':
		l.readChar()
	case ch == '#':
		l.skipComment()
	case ch == '\n':
		l.readNewLine()
	case ch == '"':
		l.readString()
	case isDigit(ch):
		l.readNumber()
	case isLetter(ch):
		l.readIdentifier()
	case ch == ':':
		l.readChar()
		if l.ch == ':' {
			l.readChar()
			l.emit(token.Sym(token.DoubleColon), start)
			return
		}
		l.emit(token.Sym(token.Colon), start)
	case ch == '.' && l.peekChar() == '.':
		l.readChar()
		l.readChar()
		l.emit(token.Sym(token.DotDot), start)
	default:
		if sym, ok := singleSymbols[ch]; ok {
			l.readChar()
			l.emit(token.Sym(sym), start)
			return
		}
		l.readChar()
		l.errorf(start, "unexpected character %q", ch)
	}
}

var singleSymbols = map[rune]token.Symbol{
	'=': token.Equal,
	'(': token.OpenParen,
	')': token.CloseParen,
	'{': token.OpenCurly,
	'}': token.CloseCurly,
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != eof {
		l.readChar()
	}
}

// readNewLine handles a line break at l.ch. The emitted token covers the
// break itself, including a preceding '\r'.
func (l *Lexer) readNewLine() {
	start := l.position
	if start > 0 && l.input[start-1] == '\r' {
		start--
	}
	l.readChar()
	end := l.position

	for {
		indent := 0
		for l.ch == ' ' || l.ch == '\t' {
			indent++
			l.readChar()
		}
		if l.ch == '\r' && l.peekChar() == '\n' {
			l.readChar()
		}

		switch l.ch {
		case eof:
			return
		case '\n':
			l.readChar()
			continue
		case '#':
			l.skipComment()
			continue
		}

		l.tokens = append(l.tokens, token.Located{
			Value: token.NewLine(indent),
			Range: position.New(start, end),
		})
		return
	}
}

func (l *Lexer) readString() {
	start := l.position
	l.readChar() // opening quote

	var b strings.Builder
	for {
		switch l.ch {
		case '"':
			l.readChar()
			l.emit(token.Str(b.String()), start)
			return
		case '\n', eof:
			l.errorf(start, "unterminated string literal")
			return
		case '\\':
			escStart := l.position
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '\n', eof:
				l.errorf(start, "unterminated string literal")
				return
			default:
				l.readChar()
				l.errorf(escStart, "unknown escape sequence \\%c", l.lastRune())
				continue
			}
			l.readChar()
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// lastRune returns the character just before l.position.
func (l *Lexer) lastRune() rune {
	r, _ := utf8.DecodeLastRuneInString(l.input[:l.position])
	return r
}

func (l *Lexer) readNumber() {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	text := l.input[start:l.position]
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		l.errorf(start, "integer literal %s does not fit in 32 bits", text)
		return
	}
	l.emit(token.Int(int32(n)), start)
}

func (l *Lexer) readIdentifier() {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	word := l.input[start:l.position]
	if kw, ok := token.Keywords[word]; ok {
		l.emit(token.Kw(kw), start)
		return
	}
	l.emit(token.Ident(word), start)
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
