package parser

import (
	"github.com/orizon-lang/kite/internal/token"
)

// Synchronization helpers. None of them record errors; callers report
// first and skip afterwards.

// skipNewlines consumes blank line markers between top-level statements.
func (p *parser) skipNewlines() {
	for {
		if _, ok := p.PopNewline(); !ok {
			return
		}
	}
}

// skipUntil advances to the next token equal to tok, or to the end.
func (p *parser) skipUntil(tok token.Token) {
	p.skipUntilFunc(func(t token.Token) bool { return t == tok })
}

// skipUntilOnLine is skipUntil that also stops at the end of the line.
func (p *parser) skipUntilOnLine(tok token.Token) {
	p.skipUntilFunc(func(t token.Token) bool { return t == tok || t.IsNewLine() })
}

// skipUntilFunc advances until stop matches the current token, and reports
// whether anything was skipped.
func (p *parser) skipUntilFunc(stop func(token.Token) bool) bool {
	skipped := false
	for {
		tok, ok := p.Current()
		if !ok || stop(tok) {
			return skipped
		}
		p.Pop()
		skipped = true
	}
}

// skipToTopLevelNewline discards the rest of a failed top-level statement.
// It consumes tokens up to and including the next NewLine with indent 0
// that is not inside braces or parentheses, counting the ones the failed
// statement left open.
func (p *parser) skipToTopLevelNewline() {
	depth := p.open
	p.open = 0

	for {
		tok, ok := p.Pop()
		if !ok {
			return
		}

		switch {
		case tok == token.NewLine(0) && depth == 0:
			return
		case tok == symOpenCurly || tok == symOpenParen:
			depth++
		case tok == symCloseCurly || tok == symCloseParen:
			depth = max(depth-1, 0)
		}
	}
}
