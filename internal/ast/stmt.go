package ast

import "tide/internal/source"

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtExpr represents an expression statement.
	StmtExpr StmtKind = iota
	// StmtLocal declares a local variable; the statement ID is the binding ID.
	StmtLocal
	// StmtAssign represents plain and compound assignment.
	StmtAssign
	// StmtReturn represents return with an optional value.
	StmtReturn
	// StmtIf represents if/else; else-if chains nest through Else.
	StmtIf
	// StmtWhile represents a pre-checked loop.
	StmtWhile
	// StmtDoWhile represents a post-checked loop.
	StmtDoWhile
	// StmtFor represents the counted loop for(init; cond; step).
	StmtFor
	// StmtForeach represents iteration over a collection.
	StmtForeach
	// StmtBreak represents break.
	StmtBreak
	// StmtContinue represents continue.
	StmtContinue
	// StmtBlock represents a nested block.
	StmtBlock
	// StmtThrow represents throw.
	StmtThrow
	// StmtTry represents try/catch/finally.
	StmtTry
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"
	case StmtLocal:
		return "Local"
	case StmtAssign:
		return "Assign"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtDoWhile:
		return "DoWhile"
	case StmtFor:
		return "For"
	case StmtForeach:
		return "Foreach"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtBlock:
		return "Block"
	case StmtThrow:
		return "Throw"
	case StmtTry:
		return "Try"
	default:
		return "Unknown"
	}
}

// Stmt represents a statement.
type Stmt struct {
	ID   NodeID
	Kind StmtKind
	Span source.Span
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// LocalData holds data for StmtLocal.
type LocalData struct {
	Name  string
	Type  *TypeRef // nil for var
	Value *Expr    // nil when declared without initializer
}

func (LocalData) stmtData() {}

// AssignData holds data for StmtAssign. Op is the operator token: "=", "+=", "..=", ...
type AssignData struct {
	Op     string
	Target *Expr
	Value  *Expr
}

func (AssignData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// IfData holds data for StmtIf. Else is nil, a StmtIf (else-if) or a StmtBlock.
type IfData struct {
	Cond *Expr
	Then *Block
	Else *Stmt
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) stmtData() {}

// DoWhileData holds data for StmtDoWhile.
type DoWhileData struct {
	Body *Block
	Cond *Expr
}

func (DoWhileData) stmtData() {}

// ForData holds data for StmtFor. Cond may be nil (infinite loop).
type ForData struct {
	Init []*Stmt
	Cond *Expr
	Step []*Stmt
	Body *Block
}

func (ForData) stmtData() {}

// ForeachData holds data for StmtForeach. VarID binds the loop variable.
type ForeachData struct {
	VarID      NodeID
	Var        string
	Collection *Expr
	Body       *Block
}

func (ForeachData) stmtData() {}

// BreakData holds data for StmtBreak.
type BreakData struct{}

func (BreakData) stmtData() {}

// ContinueData holds data for StmtContinue.
type ContinueData struct{}

func (ContinueData) stmtData() {}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Block *Block
}

func (BlockData) stmtData() {}

// ThrowData holds data for StmtThrow.
type ThrowData struct {
	Value *Expr // nil for rethrow
}

func (ThrowData) stmtData() {}

// TryData holds data for StmtTry. Catch and Finally are optional.
type TryData struct {
	Body     *Block
	CatchID  NodeID // binding of the catch variable, NoNodeID when unnamed
	CatchVar string
	Catch    *Block
	Finally  *Block
}

func (TryData) stmtData() {}
