package ast

import "tide/internal/source"

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, string, char, bool, null, default).
	ExprLiteral ExprKind = iota
	// ExprIdent represents an unqualified name.
	ExprIdent
	// ExprMember represents member access (a.b, a?.b).
	ExprMember
	// ExprCall represents a call; the node ID resolves to the called method.
	ExprCall
	// ExprNew represents object creation, optionally with a collection initializer.
	ExprNew
	// ExprUnary represents prefix and postfix unary operators.
	ExprUnary
	// ExprBinary represents binary operators including ?? and string concatenation.
	ExprBinary
	// ExprConditional represents c ? a : b.
	ExprConditional
	// ExprIndex represents element access a[i] (0-based in the input).
	ExprIndex
	// ExprArray represents array and collection literals.
	ExprArray
	// ExprTuple represents tuple literals.
	ExprTuple
	// ExprLambda represents anonymous functions.
	ExprLambda
	// ExprCast represents (T)x and x as T.
	ExprCast
	// ExprIs represents the type test x is T.
	ExprIs
	// ExprThis represents this.
	ExprThis
	// ExprBase represents base.
	ExprBase
	// ExprRaw is target text produced by a pass (e.g. "bit32.band"); emitted verbatim.
	ExprRaw
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdent:
		return "Ident"
	case ExprMember:
		return "Member"
	case ExprCall:
		return "Call"
	case ExprNew:
		return "New"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprConditional:
		return "Conditional"
	case ExprIndex:
		return "Index"
	case ExprArray:
		return "Array"
	case ExprTuple:
		return "Tuple"
	case ExprLambda:
		return "Lambda"
	case ExprCast:
		return "Cast"
	case ExprIs:
		return "Is"
	case ExprThis:
		return "This"
	case ExprBase:
		return "Base"
	case ExprRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Expr represents an expression.
type Expr struct {
	ID   NodeID
	Kind ExprKind
	Span source.Span
	Data ExprData // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind distinguishes literal values.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitNull
	// LitDefault is default/default(T) whose value the front end did not determine.
	LitDefault
)

var literalKindNames = [...]string{
	LitInt:     "int",
	LitFloat:   "float",
	LitString:  "string",
	LitChar:    "char",
	LitBool:    "bool",
	LitNull:    "null",
	LitDefault: "default",
}

func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// ParseLiteralKind maps the interchange name of a literal kind.
func ParseLiteralKind(s string) (LiteralKind, bool) {
	for i, name := range literalKindNames {
		if name == s {
			return LiteralKind(i), true //nolint:gosec // index bounded by the table
		}
	}
	return 0, false
}

// LiteralData holds data for ExprLiteral.
// Value is source text for numbers, decoded text for strings and chars, "true"/"false" for bools.
type LiteralData struct {
	Kind  LiteralKind
	Value string
}

func (LiteralData) exprData() {}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// MemberData holds data for ExprMember.
type MemberData struct {
	Target          *Expr
	Name            string
	NullConditional bool // a?.b
}

func (MemberData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Callee   *Expr
	Args     []*Expr
	TypeArgs []*TypeRef
}

func (CallData) exprData() {}

// NewData holds data for ExprNew. Init is non-nil for collection initializers.
type NewData struct {
	Type *TypeRef
	Args []*Expr
	Init []*Expr
}

func (NewData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      string
	Operand *Expr
	Postfix bool
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// ConditionalData holds data for ExprConditional.
type ConditionalData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (ConditionalData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Target *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// ArrayData holds data for ExprArray.
type ArrayData struct {
	Elems []*Expr
}

func (ArrayData) exprData() {}

// TupleData holds data for ExprTuple.
type TupleData struct {
	Elems []*Expr
}

func (TupleData) exprData() {}

// LambdaData holds data for ExprLambda. Exactly one of Body and Value is set.
type LambdaData struct {
	Params []*Param
	Body   *Block
	Value  *Expr
}

func (LambdaData) exprData() {}

// CastData holds data for ExprCast.
type CastData struct {
	Type  *TypeRef
	Value *Expr
}

func (CastData) exprData() {}

// IsData holds data for ExprIs.
type IsData struct {
	Value *Expr
	Type  *TypeRef
}

func (IsData) exprData() {}

// ThisData holds data for ExprThis.
type ThisData struct{}

func (ThisData) exprData() {}

// BaseData holds data for ExprBase.
type BaseData struct{}

func (BaseData) exprData() {}

// RawData holds data for ExprRaw.
type RawData struct {
	Text string
}

func (RawData) exprData() {}
