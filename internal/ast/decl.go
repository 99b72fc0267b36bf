package ast

import "tide/internal/source"

// DeclKind enumerates declaration kinds.
type DeclKind uint8

const (
	// DeclNamespace is a namespace block; its name may be dotted ("A.B").
	DeclNamespace DeclKind = iota
	// DeclClass covers classes, structs and interfaces.
	DeclClass
	// DeclEnum is an enum with constant members.
	DeclEnum
	// DeclField covers fields, constants and auto-properties.
	DeclField
	// DeclMethod is a method with an optional body.
	DeclMethod
	// DeclCtor is an instance or static constructor.
	DeclCtor
)

// String returns a human-readable name for the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclNamespace:
		return "Namespace"
	case DeclClass:
		return "Class"
	case DeclEnum:
		return "Enum"
	case DeclField:
		return "Field"
	case DeclMethod:
		return "Method"
	case DeclCtor:
		return "Ctor"
	default:
		return "Unknown"
	}
}

// Decl is a declaration node.
type Decl struct {
	ID   NodeID
	Kind DeclKind
	Span source.Span
	Data DeclData
}

// DeclData is the interface for declaration-specific data.
type DeclData interface {
	declData()
}

// NamespaceData holds data for DeclNamespace.
type NamespaceData struct {
	Name  string
	Decls []*Decl
}

func (NamespaceData) declData() {}

// ClassKind distinguishes class-like declarations.
type ClassKind uint8

const (
	ClassPlain ClassKind = iota
	ClassStruct
	ClassInterface
)

// ClassData holds data for DeclClass.
type ClassData struct {
	Name       string
	Kind       ClassKind
	Base       *TypeRef   // nil when the class has no explicit superclass
	Mixins     []*TypeRef // implemented interfaces, in declaration order
	TypeParams []string
	Attrs      []Attribute
	Directives []string
	Decls      []*Decl
}

func (ClassData) declData() {}

// EnumMember is one constant of an enum.
type EnumMember struct {
	ID    NodeID
	Span  source.Span
	Name  string
	Value *Expr // nil means previous value + 1
}

// EnumData holds data for DeclEnum.
type EnumData struct {
	Name    string
	Members []EnumMember
}

func (EnumData) declData() {}

// FieldData holds data for DeclField.
type FieldData struct {
	Name      string
	Static    bool
	Const     bool
	Property  bool // auto-property lowered to plain storage
	Accessors bool // property with explicit accessor bodies
	Type      *TypeRef
	Init      *Expr
	Attrs     []Attribute
}

func (FieldData) declData() {}

// MethodData holds data for DeclMethod.
type MethodData struct {
	Name       string
	Static     bool
	Abstract   bool
	Params     []*Param
	TypeParams []string
	Result     *TypeRef
	Body       *Block // nil for abstract and interface methods
	Attrs      []Attribute
	Directives []string
}

func (MethodData) declData() {}

// CtorData holds data for DeclCtor.
type CtorData struct {
	Static     bool
	Params     []*Param
	Body       *Block
	HasBase    bool // explicit ": base(...)" initializer
	BaseArgs   []*Expr
	Attrs      []Attribute
	Directives []string
}

func (CtorData) declData() {}

// Name returns the declared simple name of d ("" for constructors).
func (d *Decl) Name() string {
	if d == nil {
		return ""
	}
	switch data := d.Data.(type) {
	case NamespaceData:
		return data.Name
	case ClassData:
		return data.Name
	case EnumData:
		return data.Name
	case FieldData:
		return data.Name
	case MethodData:
		return data.Name
	}
	return ""
}
