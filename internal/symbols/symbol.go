// Package symbols models the binding information supplied by the front end.
//
// The compiler never binds names itself: it asks an Oracle what a node refers to.
// Table is the in-memory Oracle filled from the bound-tree documents.
package symbols

import "slices"

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolType
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolCtor
	SymbolEnumMember
	SymbolParam
	SymbolLocal
)

var kindNames = [...]string{
	SymbolInvalid:    "invalid",
	SymbolNamespace:  "namespace",
	SymbolType:       "type",
	SymbolField:      "field",
	SymbolProperty:   "property",
	SymbolMethod:     "method",
	SymbolCtor:       "ctor",
	SymbolEnumMember: "enum-member",
	SymbolParam:      "param",
	SymbolLocal:      "local",
}

func (k SymbolKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind maps an interchange kind name; unknown names yield SymbolInvalid.
func ParseKind(s string) SymbolKind {
	for i, name := range kindNames {
		if name == s {
			return SymbolKind(i) //nolint:gosec // bounded by kindNames
		}
	}
	return SymbolInvalid
}

// IsMember reports kinds that live on a type: fields, properties, methods, enum members.
func (k SymbolKind) IsMember() bool {
	switch k {
	case SymbolField, SymbolProperty, SymbolMethod, SymbolEnumMember:
		return true
	}
	return false
}

// IsLexical reports kinds bound by a lexical scope.
func (k SymbolKind) IsLexical() bool {
	return k == SymbolParam || k == SymbolLocal
}

// Well-known tags.
const (
	// TagServiceLocator marks types whose members are services fetched at runtime.
	TagServiceLocator = "service-locator"
)

// Info is the binding of one node.
type Info struct {
	Kind      SymbolKind
	Name      string   // simple name
	Type      string   // qualified declared type (value type for locals, fields)
	Static    bool     // static member or type-level access
	Container string   // qualified owning type or namespace
	Namespace string   // qualified namespace the declaration lives in
	TypeArgs  []string // generic instantiation arguments, qualified
	DeclFile  string   // path of the declaring file, "" for external symbols
	Origin    string   // qualified original definition, e.g. "System.Object.ToString"
	Tags      []string
}

// HasTag reports whether the symbol carries tag.
func (i Info) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// Qualified returns Container.Name, or Name when there is no container.
func (i Info) Qualified() string {
	if i.Container == "" {
		return i.Name
	}
	return i.Container + "." + i.Name
}
