// Package ast defines the syntax tree produced by the Kite parser.
//
// Statements, expressions, literals and type expressions are closed sum
// types: each is an interface with an unexported marker method, and the
// variants are the concrete types declared in this file.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/kite/internal/position"
)

// Name is an identifier or string payload taken from the source.
type Name string

// QualifiedName is a non-empty, ordered sequence of names written a::b::c.
type QualifiedName []Name

// First returns the leading segment.
func (q QualifiedName) First() Name {
	if len(q) == 0 {
		return ""
	}
	return q[0]
}

func (q QualifiedName) String() string {
	parts := make([]string, len(q))
	for i, n := range q {
		parts[i] = string(n)
	}
	return strings.Join(parts, "::")
}

// Node represents the base interface for all AST nodes
type Node interface {
	// String returns the debug form of the node
	String() string
	// Accept implements the visitor pattern
	Accept(v Visitor)
}

// Statement represents all statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expr represents all expression nodes
type Expr interface {
	Node
	// Range returns the source range the expression was built from
	Range() position.Range
	exprNode()
}

// TypeExpr represents all type expression nodes
type TypeExpr interface {
	Node
	Range() position.Range
	typeExprNode()
}

// Literal is the payload of a LiteralExpr.
type Literal interface {
	String() string
	literalNode()
}

// Block is an ordered, possibly empty sequence of statements.
type Block []Statement

func (b Block) String() string {
	parts := make([]string, len(b))
	for i, s := range b {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== Program ======

// Program represents the root of the AST
type Program struct {
	Statements []Statement
}

func (p *Program) String() string   { return "Program" + Block(p.Statements).String() }
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// ====== Statements ======

// ImportStmt is `import a::b::c`.
type ImportStmt struct {
	Name QualifiedName
}

func (s *ImportStmt) String() string   { return fmt.Sprintf("Import(%s)", s.Name) }
func (s *ImportStmt) Accept(v Visitor) { v.VisitImport(s) }
func (s *ImportStmt) statementNode()   {}

// ForStmt is `for name in start .. end do { body }`.
type ForStmt struct {
	Name  Name
	Start Expr
	End   Expr
	Body  Block
}

func (s *ForStmt) String() string {
	return fmt.Sprintf("For(%s, %s, %s, %s)", s.Name, s.Start, s.End, s.Body)
}
func (s *ForStmt) Accept(v Visitor) { v.VisitFor(s) }
func (s *ForStmt) statementNode()   {}

// IfStmt is `if cond do { body }`. Else is nil when there is no else branch;
// the parser never fills it in yet.
type IfStmt struct {
	Cond Expr
	Body Block
	Else *Block
}

func (s *IfStmt) String() string {
	els := "None"
	if s.Else != nil {
		els = s.Else.String()
	}
	return fmt.Sprintf("If(%s, %s, %s)", s.Cond, s.Body, els)
}
func (s *IfStmt) Accept(v Visitor) { v.VisitIf(s) }
func (s *IfStmt) statementNode()   {}

// VarDeclStmt is `name : Type = value`.
type VarDeclStmt struct {
	Name  Name
	Type  TypeExpr
	Value Expr
}

func (s *VarDeclStmt) String() string {
	return fmt.Sprintf("VarDecl(%s, %s, %s)", s.Name, s.Type, s.Value)
}
func (s *VarDeclStmt) Accept(v Visitor) { v.VisitVarDecl(s) }
func (s *VarDeclStmt) statementNode()   {}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) String() string   { return fmt.Sprintf("Expr(%s)", s.Expr) }
func (s *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(s) }
func (s *ExprStmt) statementNode()   {}

// ====== Expressions ======

// LiteralExpr is a string or integer literal.
type LiteralExpr struct {
	Value Literal
	Span  position.Range
}

func (e *LiteralExpr) String() string        { return fmt.Sprintf("Literal(%s)", e.Value) }
func (e *LiteralExpr) Range() position.Range { return e.Span }
func (e *LiteralExpr) Accept(v Visitor)      { v.VisitLiteral(e) }
func (e *LiteralExpr) exprNode()             {}

// VarExpr is a reference to a possibly qualified name.
type VarExpr struct {
	Name QualifiedName
	Span position.Range
}

func (e *VarExpr) String() string        { return fmt.Sprintf("Var(%s)", e.Name) }
func (e *VarExpr) Range() position.Range { return e.Span }
func (e *VarExpr) Accept(v Visitor)      { v.VisitVar(e) }
func (e *VarExpr) exprNode()             {}

// ApplyExpr applies Func to one or more arguments, left to right.
type ApplyExpr struct {
	Func Expr
	Args []Expr
}

func (e *ApplyExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("Apply(%s, [%s])", e.Func, strings.Join(args, ", "))
}

// Range spans the function and all of its arguments.
func (e *ApplyExpr) Range() position.Range {
	r := e.Func.Range()
	for _, a := range e.Args {
		r = r.Merge(a.Range())
	}
	return r
}
func (e *ApplyExpr) Accept(v Visitor) { v.VisitApply(e) }
func (e *ApplyExpr) exprNode()        {}

// ====== Literals ======

// StrLiteral is a string literal payload.
type StrLiteral struct{ Value Name }

func (l StrLiteral) String() string { return fmt.Sprintf("Str(%s)", strconv.Quote(string(l.Value))) }
func (l StrLiteral) literalNode()   {}

// I32Literal is a 32-bit integer literal payload.
type I32Literal struct{ Value int32 }

func (l I32Literal) String() string { return fmt.Sprintf("I32(%d)", l.Value) }
func (l I32Literal) literalNode()   {}

// ====== Type expressions ======

// TypeVar names a type.
type TypeVar struct {
	Name Name
	Span position.Range
}

func (t *TypeVar) String() string        { return fmt.Sprintf("Var(%s)", t.Name) }
func (t *TypeVar) Range() position.Range { return t.Span }
func (t *TypeVar) Accept(v Visitor)      { v.VisitTypeVar(t) }
func (t *TypeVar) typeExprNode()         {}
