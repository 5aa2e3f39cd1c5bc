// Package parser implements the Kite recursive descent parser.
//
// The parser works on the token stream produced by the lexer and collects
// as many syntax errors as it can in one pass: a failed top-level statement
// is dropped, the input is skipped up to the next top-level line, and
// parsing continues from there.
//
// Blocks are delimited by braces and by indentation at the same time: every
// statement in a block must start at the block's indentation column, and
// the block only closes once a line returns to the enclosing column.
package parser

import (
	"errors"

	"github.com/orizon-lang/kite/internal/ast"
	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
)

var (
	kwImport = token.Kw(token.Import)
	kwFor    = token.Kw(token.For)
	kwIn     = token.Kw(token.In)
	kwDo     = token.Kw(token.Do)
	kwIf     = token.Kw(token.If)

	symColon       = token.Sym(token.Colon)
	symEqual       = token.Sym(token.Equal)
	symDotDot      = token.Sym(token.DotDot)
	symOpenParen   = token.Sym(token.OpenParen)
	symCloseParen  = token.Sym(token.CloseParen)
	symOpenCurly   = token.Sym(token.OpenCurly)
	symCloseCurly  = token.Sym(token.CloseCurly)
	symDoubleColon = token.Sym(token.DoubleColon)
)

// Parse parses a whole program. The parse succeeds only if the input was
// consumed completely without a single syntax error.
//
// Otherwise the error is either Errors, listing every syntax error in the
// order found, or *UnsupportedError. With Errors the returned program holds
// the statements that parsed cleanly, for tools that want a best-effort
// tree; with *UnsupportedError it is nil.
func Parse(tokens []token.Located) (*ast.Program, error) {
	p := &parser{TokenReader: NewTokenReader(tokens)}

	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if len(p.errors) > 0 {
		return program, p.errors
	}
	return program, nil
}

// parser holds the state of one Parse call.
type parser struct {
	*TokenReader

	errors Errors

	// mark is len(errors) when the current top-level statement started.
	mark int
	// open counts the '{' and '(' consumed but not yet closed by the
	// current top-level statement.
	open int

	unsupported *UnsupportedError
}

// report records e unless the current top-level statement already has a
// diagnostic; one malformed statement yields one error.
func (p *parser) report(e Error) {
	if len(p.errors) > p.mark {
		return
	}
	p.errors = append(p.errors, e)
}

// fail records e and returns the signal that abandons the current rule.
func (p *parser) fail(e Error) error {
	p.report(e)
	return errAbandon
}

// abort stops the whole parse at a construct the grammar does not handle.
func (p *parser) abort(construct string, rng position.Range) error {
	p.unsupported = &UnsupportedError{
		Construct: construct,
		Range:     rng,
		Errors:    append(Errors(nil), p.errors...),
	}
	return errUnsupported
}

// ====== Grammar Rules ======

// parseProgram parses statements until the input is exhausted.
func (p *parser) parseProgram() (*ast.Program, error) {
	statements := make([]ast.Statement, 0)
	for {
		p.skipNewlines()
		if p.AtEnd() {
			return &ast.Program{Statements: statements}, nil
		}

		p.mark, p.open = len(p.errors), 0
		stmt, err := p.parseStatement()
		if err != nil {
			if p.unsupported != nil {
				return nil, p.unsupported
			}
			p.skipToTopLevelNewline()
			continue
		}
		statements = append(statements, stmt)
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	if p.PopEq(kwImport) {
		return p.parseImport()
	}
	if p.PopEq(kwFor) {
		return p.parseFor()
	}
	if p.PopEq(kwIf) {
		return p.parseIf()
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.PopEq(symColon) {
		return &ast.ExprStmt{Expr: expr}, nil
	}
	return p.parseVarDecl(expr)
}

// parseVarDecl parses `: Type = value` after the declared expression.
func (p *parser) parseVarDecl(lhs ast.Expr) (ast.Statement, error) {
	var typeErr error
	typ := p.parseTypeExpr()
	if typ == nil {
		typeErr = p.fail(NoTypeExpressionAfterColonInVariableDeclaration{Span: p.CurrRange()})
		p.skipUntilOnLine(symEqual)
	}

	if !p.PopEq(symEqual) {
		return nil, p.fail(NoEqualsInVariableDeclaration{Span: p.CurrRange()})
	}

	rhs, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	v, ok := lhs.(*ast.VarExpr)
	if !ok {
		return nil, p.fail(CouldNotAssignTo{Expr: lhs})
	}
	if typeErr != nil {
		return nil, typeErr
	}

	// FIXME: only the first segment of a qualified name is declared;
	// `a::b : T = v` declares `a`.
	return &ast.VarDeclStmt{Name: v.Name.First(), Type: typ, Value: rhs}, nil
}

// parseExpression parses one atom, or an application when more follow.
func (p *parser) parseExpression() (ast.Expr, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, p.fail(ExpectedExpression{Span: p.CurrRange()})
	}

	var args []ast.Expr
	for {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if arg == nil {
			break
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		return first, nil
	}
	return &ast.ApplyExpr{Func: first, Args: args}, nil
}

// parseAtom returns nil, nil when no atom starts at the cursor.
func (p *parser) parseAtom() (ast.Expr, error) {
	start := p.CurrRange()

	if lit := p.parseLiteral(); lit != nil {
		return &ast.LiteralExpr{Value: lit, Span: start.Merge(p.PrevRange())}, nil
	}

	if p.PopEq(symOpenParen) {
		p.open++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.PopEq(symCloseParen) {
			return nil, p.abort("parenthesized expression without a closing ')'", start.Merge(p.CurrRange()))
		}
		p.open--
		return expr, nil
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if name != nil {
		return &ast.VarExpr{Name: name, Span: start.Merge(p.PrevRange())}, nil
	}

	return nil, nil
}

func (p *parser) parseLiteral() ast.Literal {
	if s, ok := p.PopString(); ok {
		return ast.StrLiteral{Value: ast.Name(s)}
	}
	if n, ok := p.PopInt(); ok {
		return ast.I32Literal{Value: n}
	}
	return nil
}

func (p *parser) parseTypeExpr() ast.TypeExpr {
	if ident, ok := p.PopIdent(); ok {
		return &ast.TypeVar{Name: ast.Name(ident), Span: p.PrevRange()}
	}
	return nil
}

// parseQualifiedName returns nil, nil when no identifier is at the cursor.
func (p *parser) parseQualifiedName() (ast.QualifiedName, error) {
	first, ok := p.PopIdent()
	if !ok {
		return nil, nil
	}

	name := ast.QualifiedName{ast.Name(first)}
	for p.PopEq(symDoubleColon) {
		next, ok := p.PopIdent()
		if !ok {
			return nil, p.fail(NoIdentifierAfterDoubleColon{Span: p.CurrRange()})
		}
		name = append(name, ast.Name(next))
	}
	return name, nil
}

func (p *parser) parseImport() (ast.Statement, error) {
	nameStart := p.CurrRange()
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, p.fail(BadNameAfterImport{Span: nameStart.Merge(p.CurrRange())})
	}
	return &ast.ImportStmt{Name: name}, nil
}

func (p *parser) parseFor() (ast.Statement, error) {
	nameStart := p.CurrRange()
	name, hasName := p.PopIdent()

	// A missing name is reported once the loop header has been read, so
	// the range covers everything up to 'in'.
	p.skipUntil(kwIn)
	nameEnd := p.PrevRange()
	if !p.PopEq(kwIn) {
		return nil, p.abort("for loop without 'in'", nameStart.Merge(p.CurrRange()))
	}

	start, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.PopEq(symDotDot) {
		return nil, p.abort("for loop range without '..'", start.Range().Merge(p.CurrRange()))
	}

	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.PopEq(kwDo) {
		return nil, p.abort("for loop without 'do'", end.Range().Merge(p.CurrRange()))
	}

	// The opening brace may sit on the next line.
	p.PopIndentSame(p.Indent())

	body, ok, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !hasName {
		return nil, p.fail(NoNameAfterFor{Span: nameStart.Merge(nameEnd)})
	}
	if !ok {
		return nil, p.abort("for loop without a '{' body", p.CurrRange())
	}

	return &ast.ForStmt{Name: ast.Name(name), Start: start, End: end, Body: body}, nil
}

func (p *parser) parseIf() (ast.Statement, error) {
	cond, condErr := p.parseExpression()
	if errors.Is(condErr, errUnsupported) {
		return nil, condErr
	}
	afterCond := p.CurrRange()

	skipped := p.skipUntilFunc(func(tok token.Token) bool {
		return tok == symOpenCurly || tok == kwDo
	})

	if !p.PopEq(kwDo) {
		return nil, p.fail(NoDoAfterIf{Span: afterCond.Merge(p.CurrRange())})
	}
	if skipped {
		p.report(IfConditionDidNotEnd{Span: afterCond.Merge(p.CurrRange())})
	}

	body, ok, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.abort("if statement without a '{' body", p.CurrRange())
	}
	if condErr != nil {
		return nil, condErr
	}

	// else branches are not part of the grammar yet
	return &ast.IfStmt{Cond: cond, Body: body}, nil
}

// parseBlock parses a braced block. ok is false when the cursor is not on
// a '{'.
//
// The first statement must start on a line indented deeper than the line
// holding the '{'; every statement must start at that same column, and the
// block ends at the first line back at the enclosing column, which must
// hold the '}'. A failing statement abandons the whole block.
func (p *parser) parseBlock() (body ast.Block, ok bool, err error) {
	if !p.PopEq(symOpenCurly) {
		return nil, false, nil
	}
	open := p.PrevRange()
	p.open++

	outer := p.Indent()
	if p.PopEq(symCloseCurly) || (p.PopIndentSame(outer) && p.PopEq(symCloseCurly)) {
		p.open--
		return ast.Block{}, true, nil
	}

	if !p.PopIndentIn() {
		return nil, false, p.abort("block contents must start on a new, indented line", open.Merge(p.CurrRange()))
	}
	inner := p.Indent()

	body = ast.Block{}
	for !p.PopIndentSame(outer) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, false, err
		}
		body = append(body, stmt)
		p.PopIndentSame(inner)
	}

	if !p.PopEq(symCloseCurly) {
		return nil, false, p.abort("block not closed by '}'", open.Merge(p.CurrRange()))
	}
	p.open--
	return body, true, nil
}
