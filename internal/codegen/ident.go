package codegen

import (
	"fmt"
	"strings"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/naming"
	"tide/internal/source"
	"tide/internal/symbols"
)

// classify renders a bare identifier. Exactly one shape applies, checked in order:
// member of an enclosing type, lexical binding, host-provided name, type reference,
// sibling of an enclosing namespace, assembly lookup. called selects the method call
// form of instance members (self:m).
func (g *generator) classify(sp source.Span, name string, info symbols.Info, ok, called bool) string {
	local := naming.Ident(name)
	if ok && info.Kind.IsMember() {
		if t, found := g.enclosingType(info.Container); found {
			return memberRef(t.local, local, info.Static, called)
		}
		if !info.Static && g.currentType() != nil {
			// inherited instance member
			return memberRef("", local, false, called)
		}
	}
	if !ok || info.Kind.IsLexical() {
		if v, bound := g.scope.Lookup(name); bound {
			return v
		}
	}
	if !ok {
		for i := len(g.types) - 1; i >= 0; i-- {
			t := g.types[i]
			if static, declared := t.members[name]; declared {
				return memberRef(t.local, local, static, called)
			}
		}
		if g.noQual.Contains(name) {
			return local
		}
	}
	if ok && g.isRuntime(info) {
		return local
	}
	if ok && isTypeLike(info) {
		return g.typeName(qualifiedOf(info), info.DeclFile, sp)
	}
	if ok && info.Kind.IsMember() && info.Static && info.Container != "" {
		return g.typeName(info.Container, info.DeclFile, sp) + "." + local
	}
	if ok && g.unimported(info.DeclFile, info.Qualified(), sp) {
		return local
	}
	return g.sibling(name)
}

// memberRef renders a member access on owner, or on self for instance members.
func memberRef(owner, name string, static, called bool) string {
	if static {
		return owner + "." + name
	}
	if called {
		return "self:" + name
	}
	return "self." + name
}

// sibling resolves a simple name through the enclosing namespaces, falling back to the
// assembly-wide lookup.
func (g *generator) sibling(name string) string {
	if g.inNamespace() {
		if _, found := g.members.Lookup(g.lookupScopes(), name); found {
			return getMember(name)
		}
	}
	return g.getAssemblyType(name)
}

func getMember(name string) string {
	return fmt.Sprintf("namespace[%s](namespace, %s)", quote("$getMember"), quote(name))
}

func (g *generator) getAssemblyType(name string) string {
	return fmt.Sprintf("%s.getAssemblyType(%s)", g.rt, quote(name))
}

// typeName renders a reference to the type or namespace q declared in declFile.
func (g *generator) typeName(q, declFile string, sp source.Span) string {
	q = baseName(q)
	if t, ok := g.enclosingType(q); ok {
		return t.local
	}
	for i := len(g.types) - 1; i >= 0; i-- {
		t := g.types[i]
		if naming.IsUnder(q, t.qualified) {
			return t.local + "." + identPath(q[len(t.qualified)+1:])
		}
	}
	if rt := g.cfg.Runtime.Namespace; rt != "" && naming.IsUnder(q, rt) && q != rt {
		return identPath(q[len(rt)+1:])
	}
	if trimmed, ok := g.noQual.Trim(q); ok {
		return identPath(trimmed)
	}
	if g.unimported(declFile, q, sp) {
		return naming.Ident(naming.Simple(q))
	}
	for _, ns := range g.lookupScopes() {
		if q == ns || !naming.IsUnder(q, ns) {
			continue
		}
		segs := naming.Split(q[len(ns)+1:])
		if g.members.Has(ns, segs[0]) {
			return g.memberPath(ns, segs)
		}
	}
	// nested types are only reachable through their outermost type
	if outer, ok := g.members.OuterType(q); ok && outer != q {
		return g.getAssemblyType(naming.Simple(outer)) + "." + identPath(q[len(outer)+1:])
	}
	return g.getAssemblyType(naming.Simple(q))
}

// memberPath renders segs below the namespace ns. Namespace handles keep their
// children behind $getMember, so every namespace segment is one lookup; once a
// segment is a type the rest is plain field access.
func (g *generator) memberPath(ns string, segs []string) string {
	out := getMember(segs[0])
	path := naming.Qualify(ns, segs[0])
	for i := 1; i < len(segs); i++ {
		if g.members.IsType(path) {
			return out + "." + identPath(naming.Qualify(segs[i:]...))
		}
		out = fmt.Sprintf("namespace[%s](%s, %s)", quote("$getMember"), out, quote(segs[i]))
		path = naming.Qualify(path, segs[i])
	}
	return out
}

func identPath(q string) string {
	segs := naming.Split(q)
	for i, s := range segs {
		segs[i] = naming.Ident(s)
	}
	return strings.Join(segs, ".")
}

// unimported reports, with a warning, a symbol declared in a file the current file does
// not import. Such references are emitted unqualified.
func (g *generator) unimported(declFile, q string, sp source.Span) bool {
	if declFile == "" || declFile == g.file.Path || g.file.ImportsFile(declFile) {
		return false
	}
	g.warn(diag.GenUnimportedRef, sp, "%s is declared in %s, which is not imported", q, declFile).
		WithNote(sp, fmt.Sprintf("add %q to the file's imports", declFile)).
		Emit()
	return true
}

// isRuntime reports symbols provided by the host environment.
func (g *generator) isRuntime(info symbols.Info) bool {
	rt := g.cfg.Runtime.Namespace
	if rt != "" {
		if naming.IsUnder(info.Namespace, rt) {
			return true
		}
		if isTypeLike(info) && naming.IsUnder(qualifiedOf(info), rt) {
			return true
		}
	}
	return g.noQual.Contains(qualifiedOf(info))
}

// typeRef renders a written type, through its binding when there is one.
func (g *generator) typeRef(tr *ast.TypeRef) string {
	if tr == nil {
		return "nil"
	}
	if info, ok := g.lookup(tr.ID); ok && isTypeLike(info) {
		return g.typeName(qualifiedOf(info), info.DeclFile, tr.Span)
	}
	name := baseName(tr.Name)
	if strings.Contains(name, ".") {
		return g.typeName(name, "", tr.Span)
	}
	if local, ok := g.scope.Lookup(name); ok {
		return local
	}
	if g.noQual.Contains(name) {
		return naming.Ident(name)
	}
	return g.sibling(name)
}

// typeRefName is the qualified name of a written type, used for configuration matching.
func (g *generator) typeRefName(tr *ast.TypeRef) string {
	if tr == nil {
		return ""
	}
	if info, ok := g.lookup(tr.ID); ok && isTypeLike(info) {
		return qualifiedOf(info)
	}
	return tr.Name
}

func isTypeLike(info symbols.Info) bool {
	return info.Kind == symbols.SymbolType || info.Kind == symbols.SymbolNamespace
}

func qualifiedOf(info symbols.Info) string {
	return baseName(info.Qualified())
}

// baseName drops generic argument lists and arity markers from every segment:
// "List`1.Add" and "List<int>.Add" both become "List.Add".
func baseName(q string) string {
	if !strings.ContainsAny(q, "<`") {
		return q
	}
	var sb strings.Builder
	depth := 0
	arity := false
	for _, r := range q {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth > 0:
		case r == '`':
			arity = true
		case arity && r >= '0' && r <= '9':
		default:
			arity = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// matchesAny reports whether q names one of the configured entries.
func matchesAny(entries []string, q string) bool {
	if q == "" {
		return false
	}
	q = baseName(q)
	for _, e := range entries {
		if baseName(e) == q {
			return true
		}
	}
	return false
}
