package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/naming"
)

func (g *generator) decl(d *ast.Decl) {
	if g.err != nil || d == nil {
		return
	}
	switch data := d.Data.(type) {
	case ast.NamespaceData:
		g.namespace(d, data)
	case ast.ClassData:
		g.registeredClass(d, data)
	case ast.EnumData:
		g.registeredEnum(d, data)
	default:
		g.errorf(diag.GenUnsupported, d.Span, "%s declared outside of a type", d.Kind)
	}
}

// namespace emits one registration block per segment of a dotted name.
func (g *generator) namespace(d *ast.Decl, data ast.NamespaceData) {
	segs := naming.Split(data.Name)
	for _, seg := range segs {
		if g.inNamespace() {
			g.w.Line(fmt.Sprintf("namespace:namespace(%s, function(namespace)", quote(seg)))
		} else {
			g.w.Line(fmt.Sprintf("%s.namespace(%s, function(namespace)", g.rt, quote(seg)))
		}
		g.w.IndentPush()
		g.namespaces = append(g.namespaces, naming.Qualify(g.namespacePath(), seg))
	}
	for _, child := range data.Decls {
		g.decl(child)
	}
	for range segs {
		g.namespaces = g.namespaces[:len(g.namespaces)-1]
		g.w.IndentPop()
		g.w.Line("end)")
	}
}

// registerOpen writes the opening line of a class registration.
func (g *generator) registerOpen(name string) {
	if g.inNamespace() {
		g.w.Line(fmt.Sprintf("namespace:class(%s, function(namespace)", quote(name)))
	} else {
		g.w.Line(fmt.Sprintf("%s.class(%s, function(namespace)", g.rt, quote(name)))
	}
	g.w.IndentPush()
}

func (g *generator) registerClose(local string) {
	g.w.Line("return " + local)
	g.w.IndentPop()
	g.w.Line("end)")
}

func (g *generator) registeredClass(d *ast.Decl, data ast.ClassData) {
	local := naming.Ident(data.Name)
	g.registerOpen(data.Name)
	g.pushScope()
	g.classBody(d, data, local)
	g.popScope()
	g.registerClose(local)
}

func (g *generator) registeredEnum(d *ast.Decl, data ast.EnumData) {
	local := naming.Ident(data.Name)
	g.registerOpen(data.Name)
	g.pushScope()
	g.enumBody(d, data, local)
	g.popScope()
	g.registerClose(local)
}

func (g *generator) qualify(name string) string {
	if t := g.currentType(); t != nil {
		return naming.Qualify(t.qualified, name)
	}
	return naming.Qualify(g.namespacePath(), name)
}

// classBody emits the class table, statics, nested types, constructor, methods and the
// entry point call. The class table is bound to local.
func (g *generator) classBody(d *ast.Decl, data ast.ClassData, local string) {
	t := &typeCtx{local: local, qualified: g.qualify(data.Name), members: make(map[string]bool)}
	var (
		fields  []*ast.Decl
		methods []*ast.Decl
		nested  []*ast.Decl
		ctor    *ast.Decl
		static  *ast.Decl
	)
	for _, m := range data.Decls {
		switch md := m.Data.(type) {
		case ast.FieldData:
			if md.Accessors {
				g.errorf(diag.GenUnsupported, m.Span, "property %s with accessor bodies", md.Name)
				return
			}
			t.members[md.Name] = md.Static
			fields = append(fields, m)
		case ast.MethodData:
			if _, dup := t.members[md.Name]; dup {
				g.errorf(diag.GenUnsupported, m.Span, "overloaded member %s.%s", data.Name, md.Name)
				return
			}
			t.members[md.Name] = md.Static
			methods = append(methods, m)
		case ast.CtorData:
			slot := &ctor
			if md.Static {
				slot = &static
			}
			if *slot != nil {
				g.errorf(diag.GenUnsupported, m.Span, "overloaded constructor of %s", data.Name)
				return
			}
			*slot = m
		case ast.ClassData:
			t.members[md.Name] = true
			nested = append(nested, m)
		case ast.EnumData:
			t.members[md.Name] = true
			nested = append(nested, m)
		default:
			g.errorf(diag.GenUnsupported, m.Span, "%s inside class %s", m.Kind, data.Name)
			return
		}
	}

	g.types = append(g.types, t)
	defer func() { g.types = g.types[:len(g.types)-1] }()
	g.bindLocal(data.Name, local)

	for _, dir := range data.Directives {
		g.w.Line(dir)
	}
	g.w.Line(fmt.Sprintf("local %s = %s.classDef(%s, namespace, %s, {%s})",
		local, g.rt, quote(data.Name), g.superThunk(data.Base), g.mixinThunks(data.Mixins)))

	for _, n := range nested {
		g.nestedType(n, local)
	}
	g.withFunction(true, func() {
		for _, f := range fields {
			fd := f.Data.(ast.FieldData)
			if !fd.Static {
				continue
			}
			if v, ok := g.fieldValue(fd); ok {
				g.w.Line(fmt.Sprintf("%s.%s = %s", local, naming.Ident(fd.Name), v))
			}
		}
	})
	if static != nil {
		g.staticCtor(static)
	}
	if data.Kind != ast.ClassInterface {
		g.ctor(t, ctor, fields)
	}
	for _, m := range methods {
		g.method(t, m)
	}
	if g.err == nil && t.qualified == g.cfg.Entry.Class {
		g.entryPoint(d, t, methods)
	}
}

// bindLocal makes the class table visible under its source name.
func (g *generator) bindLocal(name, local string) {
	g.scope.Insert(name, local)
}

func (g *generator) nestedType(n *ast.Decl, outer string) {
	if g.err != nil {
		return
	}
	g.w.Line("do")
	g.w.IndentPush()
	g.pushScope()
	var name string
	switch data := n.Data.(type) {
	case ast.ClassData:
		name = data.Name
		g.classBody(n, data, naming.Ident(name))
	case ast.EnumData:
		name = data.Name
		g.enumBody(n, data, naming.Ident(name))
	}
	g.popScope()
	g.w.Line(fmt.Sprintf("%s.%s = %s", outer, naming.Ident(name), naming.Ident(name)))
	g.w.IndentPop()
	g.w.Line("end")
}

func (g *generator) superThunk(base *ast.TypeRef) string {
	if base == nil {
		return "nil"
	}
	return "function() return " + g.typeRef(base) + " end"
}

func (g *generator) mixinThunks(mixins []*ast.TypeRef) string {
	parts := make([]string, 0, len(mixins))
	for _, m := range mixins {
		parts = append(parts, "function() return "+g.typeRef(m)+" end")
	}
	return strings.Join(parts, ", ")
}

// fieldValue renders the initial value of a field; fields without an initializer get
// the zero value of numeric and boolean types and are otherwise left nil.
func (g *generator) fieldValue(fd ast.FieldData) (string, bool) {
	if fd.Init != nil {
		return g.expr(fd.Init), true
	}
	return zeroValue(fd.Type)
}

var numericTypes = map[string]bool{
	"int": true, "uint": true, "long": true, "ulong": true, "short": true, "ushort": true,
	"byte": true, "sbyte": true, "float": true, "double": true, "decimal": true,
	"System.Int32": true, "System.UInt32": true, "System.Int64": true, "System.UInt64": true,
	"System.Int16": true, "System.UInt16": true, "System.Byte": true, "System.SByte": true,
	"System.Single": true, "System.Double": true, "System.Decimal": true,
}

func zeroValue(t *ast.TypeRef) (string, bool) {
	if t == nil {
		return "", false
	}
	switch {
	case numericTypes[t.Name]:
		return "0", true
	case t.Name == "bool" || t.Name == "System.Boolean":
		return "false", true
	}
	return "", false
}

func (g *generator) staticCtor(d *ast.Decl) {
	data := d.Data.(ast.CtorData)
	g.w.Line("do")
	g.w.IndentPush()
	g.withFunction(true, func() {
		g.stmts(data.Body)
	})
	g.w.IndentPop()
	g.w.Line("end")
}

// ctor emits the factory. A class without a constructor gets a zero-argument one.
func (g *generator) ctor(t *typeCtx, d *ast.Decl, fields []*ast.Decl) {
	if g.err != nil {
		return
	}
	var data ast.CtorData
	if d != nil {
		data = d.Data.(ast.CtorData)
	}
	for _, dir := range data.Directives {
		g.w.Line(dir)
	}
	g.withFunction(false, func() {
		params := g.params(data.Params)
		g.w.Line(fmt.Sprintf("function %s.new(%s)", t.local, params))
		g.w.IndentPush()
		g.restParams(data.Params)
		args := []string{t.local, "namespace"}
		for _, a := range data.BaseArgs {
			args = append(args, g.expr(a))
		}
		g.w.Line(fmt.Sprintf("local self = %s.classInstance(%s)", g.rt, strings.Join(args, ", ")))
		for _, f := range fields {
			fd := f.Data.(ast.FieldData)
			if fd.Static {
				continue
			}
			if v, ok := g.fieldValue(fd); ok {
				g.w.Line(fmt.Sprintf("self.%s = %s", naming.Ident(fd.Name), v))
			}
		}
		if data.Body != nil {
			g.stmts(data.Body)
		}
		g.w.Line("return self")
		g.w.IndentPop()
		g.w.Line("end")
	})
}

func (g *generator) method(t *typeCtx, d *ast.Decl) {
	if g.err != nil {
		return
	}
	data := d.Data.(ast.MethodData)
	if data.Body == nil {
		// abstract: resolved through the instance's own class
		return
	}
	for _, dir := range data.Directives {
		g.w.Line(dir)
	}
	sep := ":"
	if data.Static {
		sep = "."
	}
	g.withFunction(data.Static, func() {
		params := g.params(data.Params)
		g.w.Line(fmt.Sprintf("function %s%s%s(%s)", t.local, sep, naming.Ident(data.Name), params))
		g.w.IndentPush()
		g.restParams(data.Params)
		g.stmts(data.Body)
		g.w.IndentPop()
		g.w.Line("end")
	})
}

// params binds the parameters in the current scope and renders the parameter list.
// A rest parameter becomes "...".
func (g *generator) params(params []*ast.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Rest {
			parts = append(parts, "...")
			continue
		}
		parts = append(parts, g.bind(p.Name))
	}
	return strings.Join(parts, ", ")
}

// restParams packs a rest parameter into a table.
func (g *generator) restParams(params []*ast.Param) {
	for _, p := range params {
		if p.Rest {
			g.w.Line(fmt.Sprintf("local %s = {...}", g.bind(p.Name)))
		}
	}
}

// entryPoint runs the main method now when the class is loaded outside of a namespace,
// and defers it to the namespace's load otherwise.
func (g *generator) entryPoint(d *ast.Decl, t *typeCtx, methods []*ast.Decl) {
	name := g.cfg.Entry.Method
	var main *ast.Decl
	for _, m := range methods {
		if m.Name() == name {
			main = m
			break
		}
	}
	if main == nil {
		g.errorf(diag.GenMissingEntry, d.Span, "entry class %s has no method %s", t.qualified, name)
		return
	}
	if !main.Data.(ast.MethodData).Static {
		g.errorf(diag.GenEntryNotStatic, main.Span, "entry method %s.%s must be static", t.qualified, name)
		return
	}
	fn := t.local + "." + naming.Ident(name)
	g.w.Line("if namespace == nil then")
	g.w.IndentPush()
	g.w.Line(fn + "()")
	g.w.IndentPop()
	g.w.Line("else")
	g.w.IndentPush()
	g.w.Line(fmt.Sprintf("namespace[%s](namespace, %s)", quote("$onLoaded"), fn))
	g.w.IndentPop()
	g.w.Line("end")
}

// enumBody emits the constant table. A member without a value follows the previous one.
func (g *generator) enumBody(d *ast.Decl, data ast.EnumData, local string) {
	t := &typeCtx{local: local, qualified: g.qualify(data.Name), members: make(map[string]bool)}
	for _, m := range data.Members {
		t.members[m.Name] = true
	}
	g.types = append(g.types, t)
	defer func() { g.types = g.types[:len(g.types)-1] }()

	g.bindLocal(data.Name, local)
	g.w.Line(fmt.Sprintf("local %s = {}", local))
	next := int64(0)
	known := true
	prev := ""
	g.withFunction(true, func() {
		for _, m := range data.Members {
			name := naming.Ident(m.Name)
			var value string
			switch {
			case m.Value != nil:
				value = g.expr(m.Value)
				if lit, ok := m.Value.Data.(ast.LiteralData); ok && lit.Kind == ast.LitInt {
					n, err := parseInt(lit.Value)
					next, known = n+1, err == nil
				} else {
					known = false
				}
			case known:
				value = strconv.FormatInt(next, 10)
				next++
			default:
				value = fmt.Sprintf("%s.%s + 1", local, prev)
			}
			g.w.Line(fmt.Sprintf("%s.%s = %s", local, name, value))
			prev = name
		}
	})
}
