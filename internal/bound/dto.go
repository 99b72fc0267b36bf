// Package bound reads the bound-tree interchange documents produced by the front end.
//
// A document describes one source file: its declarations as a generic node tree, the
// binding of every node (symbols), and the diagnostics the front end emitted for it.
// Documents come as JSON (*.tree.json) or MessagePack (*.tree.mp); both use the field
// names below.
package bound

// Document is the interchange form of one bound source file.
type Document struct {
	Path        string                `json:"path"`
	Source      *string               `json:"source,omitempty"` // original text, optional
	Imports     []string              `json:"imports,omitempty"`
	Usings      []string              `json:"usings,omitempty"`
	Decls       []*Node               `json:"decls"`
	Symbols     map[string]*SymbolDTO `json:"symbols,omitempty"` // node id -> binding
	Diagnostics []*DiagnosticDTO      `json:"diagnostics,omitempty"`
}

// Node is a generic tree node; which fields are meaningful depends on Kind.
type Node struct {
	ID   uint32   `json:"id,omitempty"`
	Kind string   `json:"kind"`
	Pos  []uint32 `json:"pos,omitempty"` // line, col[, endLine, endCol], 1-based

	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"` // literal text
	Lit   string `json:"lit,omitempty"`   // literal kind
	Op    string `json:"op,omitempty"`

	Static    bool `json:"static,omitempty"`
	Abstract  bool `json:"abstract,omitempty"`
	Const     bool `json:"const,omitempty"`
	Property  bool `json:"property,omitempty"`
	Accessors bool `json:"accessors,omitempty"`
	NullCond  bool `json:"nullcond,omitempty"`
	Postfix   bool `json:"postfix,omitempty"`
	Rest      bool `json:"rest,omitempty"`
	HasBase   bool `json:"hasBase,omitempty"`

	Type       *TypeDTO   `json:"type,omitempty"`
	Base       *TypeDTO   `json:"base,omitempty"`
	Mixins     []*TypeDTO `json:"mixins,omitempty"`
	TypeParams []string   `json:"typeParams,omitempty"`
	TypeArgs   []*TypeDTO `json:"typeArgs,omitempty"`

	Decls    []*Node `json:"decls,omitempty"`
	Members  []*Node `json:"members,omitempty"` // enum members
	Params   []*Node `json:"params,omitempty"`
	Attrs    []*Node `json:"attrs,omitempty"`
	Args     []*Node `json:"args,omitempty"`
	BaseArgs []*Node `json:"baseArgs,omitempty"`
	Items    []*Node `json:"items,omitempty"` // array/tuple elements, collection initializer

	Body    []*Node `json:"body,omitempty"`
	Then    []*Node `json:"then,omitempty"`
	Else    *Node   `json:"else,omitempty"`
	Init    []*Node `json:"init,omitempty"`
	Step    []*Node `json:"step,omitempty"`
	Catch   []*Node `json:"catch,omitempty"`
	Finally []*Node `json:"finally,omitempty"`

	Cond       *Node `json:"cond,omitempty"`
	Target     *Node `json:"target,omitempty"`
	Callee     *Node `json:"callee,omitempty"`
	Left       *Node `json:"left,omitempty"`  // binary left, conditional then-branch
	Right      *Node `json:"right,omitempty"` // binary right, conditional else-branch
	Operand    *Node `json:"operand,omitempty"`
	Index      *Node `json:"index,omitempty"`
	Collection *Node `json:"collection,omitempty"`
	Default    *Node `json:"default,omitempty"`
	Expr       *Node `json:"expr,omitempty"` // value of expr/local/assign/return/throw/lambda

	Var      string `json:"var,omitempty"` // foreach variable or catch variable
	VarID    uint32 `json:"varId,omitempty"`
	HasCatch bool   `json:"hasCatch,omitempty"`
}

// TypeDTO is a type reference.
type TypeDTO struct {
	ID   uint32     `json:"id,omitempty"`
	Name string     `json:"name"`
	Args []*TypeDTO `json:"args,omitempty"`
	Pos  []uint32   `json:"pos,omitempty"`
}

// SymbolDTO is the binding of one node.
type SymbolDTO struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Static    bool     `json:"static,omitempty"`
	Container string   `json:"container,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	TypeArgs  []string `json:"typeArgs,omitempty"`
	DeclFile  string   `json:"declFile,omitempty"`
	Origin    string   `json:"origin,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// DiagnosticDTO is a front-end diagnostic.
type DiagnosticDTO struct {
	Severity string   `json:"severity"` // error | warning | info
	Stage    string   `json:"stage,omitempty"`
	Code     string   `json:"code,omitempty"` // front-end code, kept in the message
	Message  string   `json:"message"`
	Pos      []uint32 `json:"pos,omitempty"`
}
