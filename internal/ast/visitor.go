package ast

// Visitor is implemented by passes over the tree. Each node's Accept
// calls the matching Visit method; descending into children is up to
// the visitor.
type Visitor interface {
	VisitProgram(node *Program)

	VisitImport(node *ImportStmt)
	VisitFor(node *ForStmt)
	VisitIf(node *IfStmt)
	VisitVarDecl(node *VarDeclStmt)
	VisitExprStmt(node *ExprStmt)

	VisitLiteral(node *LiteralExpr)
	VisitVar(node *VarExpr)
	VisitApply(node *ApplyExpr)

	VisitTypeVar(node *TypeVar)
}

// BaseVisitor provides a default implementation of the Visitor interface
// that does nothing, so concrete visitors only override what they need.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)      {}
func (BaseVisitor) VisitImport(*ImportStmt)    {}
func (BaseVisitor) VisitFor(*ForStmt)          {}
func (BaseVisitor) VisitIf(*IfStmt)            {}
func (BaseVisitor) VisitVarDecl(*VarDeclStmt)  {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)    {}
func (BaseVisitor) VisitLiteral(*LiteralExpr)  {}
func (BaseVisitor) VisitVar(*VarExpr)          {}
func (BaseVisitor) VisitApply(*ApplyExpr)      {}
func (BaseVisitor) VisitTypeVar(*TypeVar)      {}

// Walk traverses the tree rooted at node in depth-first pre-order.
// If fn returns false the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil {
		return
	}
	node.Accept(&walker{fn: fn})
}

type walker struct {
	fn func(Node) bool
}

func (w *walker) block(b Block) {
	for _, s := range b {
		s.Accept(w)
	}
}

func (w *walker) VisitProgram(n *Program) {
	if w.fn(n) {
		w.block(n.Statements)
	}
}

func (w *walker) VisitImport(n *ImportStmt) { w.fn(n) }

func (w *walker) VisitFor(n *ForStmt) {
	if w.fn(n) {
		n.Start.Accept(w)
		n.End.Accept(w)
		w.block(n.Body)
	}
}

func (w *walker) VisitIf(n *IfStmt) {
	if w.fn(n) {
		n.Cond.Accept(w)
		w.block(n.Body)
		if n.Else != nil {
			w.block(*n.Else)
		}
	}
}

func (w *walker) VisitVarDecl(n *VarDeclStmt) {
	if w.fn(n) {
		n.Type.Accept(w)
		n.Value.Accept(w)
	}
}

func (w *walker) VisitExprStmt(n *ExprStmt) {
	if w.fn(n) {
		n.Expr.Accept(w)
	}
}

func (w *walker) VisitLiteral(n *LiteralExpr) { w.fn(n) }
func (w *walker) VisitVar(n *VarExpr)         { w.fn(n) }

func (w *walker) VisitApply(n *ApplyExpr) {
	if w.fn(n) {
		n.Func.Accept(w)
		for _, a := range n.Args {
			a.Accept(w)
		}
	}
}

func (w *walker) VisitTypeVar(n *TypeVar) { w.fn(n) }
