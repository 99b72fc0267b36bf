// Package codegen lowers a transformed tree into Luau source text.
//
// Generation is a single recursive walk. Statements are written to a Writer; expressions
// are rendered to strings and spliced in. Identifiers are classified against the enclosing
// types, the lexical scope, the runtime namespace and the whole-program member table, in
// that order. The first construct that cannot be lowered stops the walk; its
// *diag.CodegenError is returned and no text is produced for the file.
package codegen

import (
	"fmt"
	"slices"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/members"
	"tide/internal/naming"
	"tide/internal/source"
	"tide/internal/symbols"
)

// Generate lowers f. Warnings go to reporter; the first fatal problem is returned as a
// *diag.CodegenError and the text is discarded.
func Generate(f *ast.File, oracle symbols.Oracle, table *members.Table, cfg *config.Config, reporter diag.Reporter) (string, error) {
	if f == nil {
		return "", fmt.Errorf("codegen: nil file")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	// ?? и ?. рендерят левую часть дважды
	reporter = diag.NewDedupReporter(reporter)
	g := &generator{
		file:     f,
		syms:     oracle,
		members:  table,
		cfg:      cfg,
		rt:       cfg.Runtime.Name,
		noQual:   naming.NewNoQualification(cfg.Codegen.NoFullQualification),
		reporter: reporter,
		w:        NewWriter(cfg.Pipeline.Indent),
		scope:    NewScope[string](nil),
		fn:       &fnCtx{static: true},
	}
	g.w.Line(fmt.Sprintf("local %s = %s", g.rt, cfg.Runtime.Require))
	g.w.Newline()
	for _, d := range f.Decls {
		g.decl(d)
		if g.err != nil {
			return "", g.err
		}
	}
	return g.w.String(), nil
}

type generator struct {
	file     *ast.File
	syms     symbols.Oracle
	members  *members.Table
	cfg      *config.Config
	rt       string
	noQual   naming.NoQualification
	reporter diag.Reporter

	w     *Writer
	scope *Scope[string] // source name -> emitted local name

	namespaces []string   // qualified paths of the enclosing namespaces, outermost first
	types      []*typeCtx // enclosing types, outermost first
	fn         *fnCtx

	err error
}

// typeCtx describes a type whose body is being generated.
type typeCtx struct {
	local     string          // local variable holding the class table
	qualified string          // qualified source name
	members   map[string]bool // declared member name -> static
}

// fnCtx describes the function body being generated.
type fnCtx struct {
	static bool
	loops  []*loopCtx
	tries  int      // depth of pcall closures inside this function
	errs   []string // error variables of the enclosing catch blocks
}

type loopCtx struct {
	step  []*ast.Stmt // for-loop step, re-emitted before continue
	tries int         // fnCtx.tries when the loop was entered
}

func (g *generator) fail(err *diag.CodegenError) {
	if g.err == nil {
		g.err = err
	}
}

func (g *generator) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	g.fail(diag.Codegenf(code, sp, format, args...))
}

func (g *generator) warn(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportWarning(g.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (g *generator) lookup(id ast.NodeID) (symbols.Info, bool) {
	if g.syms == nil {
		return symbols.Info{}, false
	}
	return g.syms.Lookup(id)
}

// inNamespace reports whether a namespace handle is in scope.
func (g *generator) inNamespace() bool {
	return len(g.namespaces) > 0
}

// namespacePath is the innermost enclosing namespace, "" at the top level.
func (g *generator) namespacePath() string {
	if len(g.namespaces) == 0 {
		return ""
	}
	return g.namespaces[len(g.namespaces)-1]
}

// lookupScopes lists the enclosing namespace paths innermost first.
func (g *generator) lookupScopes() []string {
	out := slices.Clone(g.namespaces)
	slices.Reverse(out)
	return out
}

func (g *generator) pushScope() {
	g.scope = NewScope(g.scope)
}

func (g *generator) popScope() {
	if g.scope.Parent != nil {
		g.scope = g.scope.Parent
	}
}

// bind declares a lexical name and returns its emitted form. A name taken by the error
// of an enclosing catch gets a trailing underscore so rethrow still sees that error.
func (g *generator) bind(name string) string {
	local := naming.Ident(name)
	for slices.Contains(g.fn.errs, local) {
		local += "_"
	}
	g.scope.Insert(name, local)
	return local
}

// localUsed reports whether the emitted name local is visible at this point.
func (g *generator) localUsed(local string) bool {
	if slices.Contains(g.fn.errs, local) {
		return true
	}
	for s := g.scope; s != nil; s = s.Parent {
		for _, v := range s.Nodes {
			if v == local {
				return true
			}
		}
	}
	return false
}

// enclosingType returns the innermost enclosing type with the given qualified name.
func (g *generator) enclosingType(qualified string) (*typeCtx, bool) {
	for i := len(g.types) - 1; i >= 0; i-- {
		if g.types[i].qualified == qualified {
			return g.types[i], true
		}
	}
	return nil, false
}

// currentType is the innermost enclosing type, nil at namespace level.
func (g *generator) currentType() *typeCtx {
	if len(g.types) == 0 {
		return nil
	}
	return g.types[len(g.types)-1]
}

// withFunction runs body with a fresh function context and lexical scope.
func (g *generator) withFunction(static bool, body func()) {
	savedFn := g.fn
	g.fn = &fnCtx{static: static}
	g.pushScope()
	body()
	g.popScope()
	g.fn = savedFn
}
