// Package members builds the whole-program member table: for every qualified namespace
// (or containing type) path, the simple names declared directly beneath it in any file.
//
// The table is built once, before generation, and is read-only afterwards; it may be
// shared by concurrent generators without locking.
package members

import (
	"crypto/sha256"
	"slices"

	"tide/internal/ast"
	"tide/internal/naming"
	"tide/internal/project"
)

// Table maps a qualified path to the set of names declared under it.
// The root path is "".
type Table struct {
	paths map[string]map[string]struct{}
	types map[string]struct{} // qualified paths of classes and enums
}

// Build walks every declaration of every file. Entries declared under the same path
// in different files are unioned.
func Build(files []*ast.File) *Table {
	t := &Table{
		paths: make(map[string]map[string]struct{}),
		types: make(map[string]struct{}),
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		for _, d := range f.Decls {
			t.collect("", d)
		}
	}
	return t
}

func (t *Table) add(path, name string) {
	set, ok := t.paths[path]
	if !ok {
		set = make(map[string]struct{})
		t.paths[path] = set
	}
	set[name] = struct{}{}
}

func (t *Table) collect(path string, d *ast.Decl) {
	switch data := d.Data.(type) {
	case ast.NamespaceData:
		// A.B desugars into "" ∋ A, A ∋ B
		cur := path
		for _, seg := range naming.Split(data.Name) {
			t.add(cur, seg)
			cur = naming.Qualify(cur, seg)
		}
		for _, child := range data.Decls {
			t.collect(cur, child)
		}
	case ast.ClassData:
		t.add(path, data.Name)
		inner := naming.Qualify(path, data.Name)
		t.types[inner] = struct{}{}
		for _, child := range data.Decls {
			if child.Kind == ast.DeclClass || child.Kind == ast.DeclEnum {
				t.collect(inner, child)
			}
		}
	case ast.EnumData:
		t.add(path, data.Name)
		t.types[naming.Qualify(path, data.Name)] = struct{}{}
	}
}

// Has reports whether name is declared directly under path.
func (t *Table) Has(path, name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.paths[path][name]
	return ok
}

// Members returns the sorted names declared under path; unknown paths yield nil.
func (t *Table) Members(path string) []string {
	if t == nil {
		return nil
	}
	set := t.paths[path]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Paths returns every recorded path, sorted.
func (t *Table) Paths() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.paths))
	for p := range t.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// IsType reports whether the qualified path names a class or an enum rather than a
// namespace.
func (t *Table) IsType(path string) bool {
	if t == nil {
		return false
	}
	_, ok := t.types[path]
	return ok
}

// OuterType returns the outermost type on the qualified path q: "A.Outer" for
// "A.Outer.Inner". ok is false when no prefix of q is a type.
func (t *Table) OuterType(q string) (string, bool) {
	cur := ""
	for _, seg := range naming.Split(q) {
		cur = naming.Qualify(cur, seg)
		if t.IsType(cur) {
			return cur, true
		}
	}
	return "", false
}

// Lookup returns the first path in scopes (innermost first) that declares name.
func (t *Table) Lookup(scopes []string, name string) (string, bool) {
	for _, s := range scopes {
		if t.Has(s, name) {
			return s, true
		}
	}
	return "", false
}

// Digest is a stable hash of the table contents.
func (t *Table) Digest() project.Digest {
	h := sha256.New()
	for _, p := range t.Paths() {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
		for _, m := range t.Members(p) {
			_, _ = h.Write([]byte(m))
			_, _ = h.Write([]byte{1})
		}
		_, _ = h.Write([]byte{2})
	}
	types := make([]string, 0, len(t.types))
	for p := range t.types {
		types = append(types, p)
	}
	slices.Sort(types)
	for _, p := range types {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{3})
	}
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}
