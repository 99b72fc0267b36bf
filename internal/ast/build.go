package ast

import "tide/internal/source"

// Constructors for synthesized nodes. They carry NoNodeID and the span of the node
// they were derived from.

func NewIdent(sp source.Span, name string) *Expr {
	return &Expr{Kind: ExprIdent, Span: sp, Data: IdentData{Name: name}}
}

func NewString(sp source.Span, s string) *Expr {
	return &Expr{Kind: ExprLiteral, Span: sp, Data: LiteralData{Kind: LitString, Value: s}}
}

func NewInt(sp source.Span, v string) *Expr {
	return &Expr{Kind: ExprLiteral, Span: sp, Data: LiteralData{Kind: LitInt, Value: v}}
}

func NewNull(sp source.Span) *Expr {
	return &Expr{Kind: ExprLiteral, Span: sp, Data: LiteralData{Kind: LitNull}}
}

func NewRaw(sp source.Span, text string) *Expr {
	return &Expr{Kind: ExprRaw, Span: sp, Data: RawData{Text: text}}
}

func NewBinary(sp source.Span, op string, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Span: sp, Data: BinaryData{Op: op, Left: left, Right: right}}
}

// NewCall builds a call; id is kept so the call still resolves to its symbol.
func NewCall(id NodeID, sp source.Span, callee *Expr, args ...*Expr) *Expr {
	return &Expr{ID: id, Kind: ExprCall, Span: sp, Data: CallData{Callee: callee, Args: args}}
}

func NewAssign(sp source.Span, op string, target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Span: sp, Data: AssignData{Op: op, Target: target, Value: value}}
}

func NewIf(sp source.Span, cond *Expr, then ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Span: sp, Data: IfData{Cond: cond, Then: &Block{Span: sp, Stmts: then}}}
}

// IsLiteral reports whether e is a literal of kind k.
func IsLiteral(e *Expr, k LiteralKind) bool {
	if e == nil || e.Kind != ExprLiteral {
		return false
	}
	lit, ok := e.Data.(LiteralData)
	return ok && lit.Kind == k
}
