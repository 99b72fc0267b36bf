package codegen

import (
	"fmt"
	"strings"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/naming"
	"tide/internal/symbols"
)

// call renders a call expression. A non-empty recv replaces the rendered target of a
// member callee; the null-conditional statement form uses it after guarding the target.
func (g *generator) call(e *ast.Expr, data ast.CallData, recv string) string {
	info, ok := g.callInfo(e, data)
	if ok {
		if s, handled := g.macro(e, data, info, recv); handled {
			return s
		}
	}
	args := g.args(data.Args)
	switch callee := data.Callee.Data.(type) {
	case ast.MemberData:
		name := naming.Ident(callee.Name)
		if _, isBase := callee.Target.Data.(ast.BaseData); isBase {
			t := g.currentType()
			if t == nil {
				g.errorf(diag.GenUnsupported, e.Span, "base call outside of a class")
				return "nil"
			}
			return fmt.Sprintf("%s.super(%s).%s(%s)", g.rt, t.local, name, strings.Join(append([]string{"self"}, args...), ", "))
		}
		sep := g.callSep(callee.Target, info, ok)
		target := recv
		if target == "" {
			target = g.prefix(callee.Target)
			if callee.NullConditional {
				return fmt.Sprintf("if %s == nil then nil else %s%s%s(%s)", target, target, sep, name, strings.Join(args, ", "))
			}
		}
		return target + sep + name + "(" + strings.Join(args, ", ") + ")"
	case ast.IdentData:
		cinfo, cok := g.lookup(data.Callee.ID)
		if !cok {
			cinfo, cok = info, ok
		}
		return g.classify(data.Callee.Span, callee.Name, cinfo, cok, true) + "(" + strings.Join(args, ", ") + ")"
	}
	return g.prefix(data.Callee) + "(" + strings.Join(args, ", ") + ")"
}

// callInfo is the binding of the call node, or of its callee when the call has none.
func (g *generator) callInfo(e *ast.Expr, data ast.CallData) (symbols.Info, bool) {
	if info, ok := g.lookup(e.ID); ok {
		return info, true
	}
	return g.lookup(data.Callee.ID)
}

// callSep picks method-call syntax for instance methods and plain field access otherwise.
// Unbound calls on a value are assumed to be method calls.
func (g *generator) callSep(target *ast.Expr, info symbols.Info, ok bool) string {
	if tinfo, tok := g.lookup(target.ID); tok && isTypeLike(tinfo) {
		return "."
	}
	if !ok {
		return ":"
	}
	if info.Kind == symbols.SymbolMethod && !info.Static {
		return ":"
	}
	return "."
}

func originOf(info symbols.Info) string {
	if info.Origin != "" {
		return info.Origin
	}
	return info.Qualified()
}

// macro expands calls whose resolved origin is configured as a macro.
func (g *generator) macro(e *ast.Expr, data ast.CallData, info symbols.Info, recv string) (string, bool) {
	m := g.cfg.Macros
	origin := originOf(info)
	switch {
	case matchesAny(m.ToString, origin):
		return "tostring(" + g.subject(data, recv, true) + ")", true
	case matchesAny(m.Instantiate, origin):
		t, ok := g.typeArg(data, info)
		if !ok {
			g.errorf(diag.GenMissingTypeArg, e.Span, "%s needs a type argument", origin)
			return "nil", true
		}
		args := append([]string{quote(t)}, g.args(data.Args)...)
		return m.InstantiateCall + "(" + strings.Join(args, ", ") + ")", true
	case matchesAny(m.TypeTest, origin):
		t, ok := g.typeArg(data, info)
		if !ok {
			g.errorf(diag.GenMissingTypeArg, e.Span, "%s needs a type argument", origin)
			return "nil", true
		}
		return fmt.Sprintf("%s:%s(%s)", g.subject(data, recv, false), m.TypeTestMethod, quote(t)), true
	}
	return "", false
}

// subject is the value a macro applies to: the member target, the single argument of a
// static form when allowed, or self.
func (g *generator) subject(data ast.CallData, recv string, argForm bool) string {
	if recv != "" {
		return recv
	}
	if m, ok := data.Callee.Data.(ast.MemberData); ok {
		tinfo, tok := g.lookup(m.Target.ID)
		if !(argForm && tok && isTypeLike(tinfo) && len(data.Args) == 1) {
			return g.expr(m.Target)
		}
	}
	if argForm && len(data.Args) == 1 {
		return g.expr(data.Args[0])
	}
	return "self"
}

// typeArg is the simple name of the first generic argument, written or inferred.
func (g *generator) typeArg(data ast.CallData, info symbols.Info) (string, bool) {
	if len(data.TypeArgs) > 0 && data.TypeArgs[0] != nil {
		return naming.Simple(g.typeRefName(data.TypeArgs[0])), true
	}
	if len(info.TypeArgs) > 0 && info.TypeArgs[0] != "" {
		return naming.Simple(info.TypeArgs[0]), true
	}
	return "", false
}

// serviceLocator renders member access on a service-locator type as a service fetch.
func (g *generator) serviceLocator(target *ast.Expr, name string) (string, bool) {
	if target == nil {
		return "", false
	}
	info, ok := g.lookup(target.ID)
	if !ok || info.Kind != symbols.SymbolType {
		return "", false
	}
	if !info.HasTag(symbols.TagServiceLocator) && !matchesAny(g.cfg.Macros.ServiceLocators, qualifiedOf(info)) {
		return "", false
	}
	return fmt.Sprintf("%s(%s)", g.cfg.Macros.ServiceCall, quote(name)), true
}
