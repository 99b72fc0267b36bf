package ast

import "tide/internal/source"

// File is the bound tree of one source file.
type File struct {
	Path    string        // path as known to the front end, used in location literals
	Source  source.FileID // FileSet entry for diagnostics
	Imports []string      // paths of files this file depends on
	Usings  []string      // namespaces opened by the file
	Decls   []*Decl
}

// ImportsFile reports whether path is among the file's imports.
func (f *File) ImportsFile(path string) bool {
	if f == nil {
		return false
	}
	for _, imp := range f.Imports {
		if imp == path {
			return true
		}
	}
	return false
}

// Block is an ordered statement list.
type Block struct {
	Span  source.Span
	Stmts []*Stmt
}

// TypeRef is a type as written in the source. Name may be qualified ("A.B.C").
type TypeRef struct {
	ID   NodeID
	Span source.Span
	Name string
	Args []*TypeRef
}

// Param is a method, constructor or lambda parameter.
type Param struct {
	ID      NodeID
	Span    source.Span
	Name    string
	Type    *TypeRef
	Default *Expr // nil when the parameter has no default value
	Rest    bool  // params array
}

// Attribute is an attribute application such as [Native] or [Obsolete("x")].
type Attribute struct {
	ID   NodeID
	Span source.Span
	Name string // resolved qualified name when the front end knows it
	Args []*Expr
}
