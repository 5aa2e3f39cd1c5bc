package ast

import (
	"github.com/orizon-lang/kite/internal/position"
)

// Encode converts a program into plain maps and slices so that it can be
// emitted with encoding/json or yaml.v3. Every node becomes a map with a
// "kind" key; ranges become [start, end] pairs.
func Encode(p *Program) any {
	e := &encoder{}
	p.Accept(e)
	return e.out
}

type encoder struct {
	out any
}

func (e *encoder) node(n Node) any {
	if n == nil {
		return nil
	}
	sub := &encoder{}
	n.Accept(sub)
	return sub.out
}

func (e *encoder) block(b Block) []any {
	out := make([]any, 0, len(b))
	for _, s := range b {
		out = append(out, e.node(s))
	}
	return out
}

func encodeRange(r position.Range) []int {
	return []int{r.Start, r.End}
}

func encodeName(q QualifiedName) []string {
	out := make([]string, len(q))
	for i, n := range q {
		out[i] = string(n)
	}
	return out
}

func (e *encoder) VisitProgram(n *Program) {
	e.out = map[string]any{
		"kind":       "Program",
		"statements": e.block(n.Statements),
	}
}

func (e *encoder) VisitImport(n *ImportStmt) {
	e.out = map[string]any{"kind": "Import", "name": encodeName(n.Name)}
}

func (e *encoder) VisitFor(n *ForStmt) {
	e.out = map[string]any{
		"kind":  "For",
		"name":  string(n.Name),
		"start": e.node(n.Start),
		"end":   e.node(n.End),
		"body":  e.block(n.Body),
	}
}

func (e *encoder) VisitIf(n *IfStmt) {
	m := map[string]any{
		"kind": "If",
		"cond": e.node(n.Cond),
		"body": e.block(n.Body),
	}
	if n.Else != nil {
		m["else"] = e.block(*n.Else)
	}
	e.out = m
}

func (e *encoder) VisitVarDecl(n *VarDeclStmt) {
	e.out = map[string]any{
		"kind":  "VarDecl",
		"name":  string(n.Name),
		"type":  e.node(n.Type),
		"value": e.node(n.Value),
	}
}

func (e *encoder) VisitExprStmt(n *ExprStmt) {
	e.out = map[string]any{"kind": "Expr", "expr": e.node(n.Expr)}
}

func (e *encoder) VisitLiteral(n *LiteralExpr) {
	m := map[string]any{"kind": "Literal", "range": encodeRange(n.Span)}
	switch lit := n.Value.(type) {
	case StrLiteral:
		m["str"] = string(lit.Value)
	case I32Literal:
		m["i32"] = lit.Value
	}
	e.out = m
}

func (e *encoder) VisitVar(n *VarExpr) {
	e.out = map[string]any{
		"kind":  "Var",
		"name":  encodeName(n.Name),
		"range": encodeRange(n.Span),
	}
}

func (e *encoder) VisitApply(n *ApplyExpr) {
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.node(a)
	}
	e.out = map[string]any{
		"kind": "Apply",
		"func": e.node(n.Func),
		"args": args,
	}
}

func (e *encoder) VisitTypeVar(n *TypeVar) {
	e.out = map[string]any{
		"kind":  "TypeVar",
		"name":  string(n.Name),
		"range": encodeRange(n.Span),
	}
}
