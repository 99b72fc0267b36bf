package transform

import (
	"testing"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/source"
	"tide/internal/symbols"
)

// fixture builds "namespace Game { class Program { static void Main(params) { body } } }".
func fixture(params []*ast.Param, body ...*ast.Stmt) *ast.File {
	main := &ast.Decl{ID: 3, Kind: ast.DeclMethod, Data: ast.MethodData{
		Name: "Main", Static: true, Params: params, Body: &ast.Block{Stmts: body},
	}}
	class := &ast.Decl{ID: 2, Kind: ast.DeclClass, Data: ast.ClassData{Name: "Program", Decls: []*ast.Decl{main}}}
	ns := &ast.Decl{ID: 1, Kind: ast.DeclNamespace, Data: ast.NamespaceData{Name: "Game", Decls: []*ast.Decl{class}}}
	return &ast.File{Path: "Program.cs", Decls: []*ast.Decl{ns}}
}

func mainOf(t *testing.T, f *ast.File) ast.MethodData {
	t.Helper()
	ns := f.Decls[0].Data.(ast.NamespaceData)
	class := ns.Decls[0].Data.(ast.ClassData)
	return class.Decls[0].Data.(ast.MethodData)
}

func classOf(f *ast.File) ast.ClassData {
	ns := f.Decls[0].Data.(ast.NamespaceData)
	return ns.Decls[0].Data.(ast.ClassData)
}

func at(line, col uint32) source.Span { return source.At(0, line, col) }

func ident(id ast.NodeID, name string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.ExprIdent, Span: at(1, 1), Data: ast.IdentData{Name: name}}
}

func str(id ast.NodeID, s string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.ExprLiteral, Span: at(1, 1), Data: ast.LiteralData{Kind: ast.LitString, Value: s}}
}

func num(id ast.NodeID, v string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.ExprLiteral, Span: at(1, 1), Data: ast.LiteralData{Kind: ast.LitInt, Value: v}}
}

func binary(id ast.NodeID, op string, l, r *ast.Expr) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.ExprBinary, Span: at(1, 1), Data: ast.BinaryData{Op: op, Left: l, Right: r}}
}

func exprStmt(id ast.NodeID, e *ast.Expr) *ast.Stmt {
	return &ast.Stmt{ID: id, Kind: ast.StmtExpr, Span: e.Span, Data: ast.ExprStmtData{Expr: e}}
}

func local(id ast.NodeID, name string, v *ast.Expr) *ast.Stmt {
	return &ast.Stmt{ID: id, Kind: ast.StmtLocal, Span: at(1, 1), Data: ast.LocalData{Name: name, Value: v}}
}

func newContext(t *testing.T, cfg *config.Config, infos map[ast.NodeID]symbols.Info) (*Context, *diag.Bag) {
	t.Helper()
	table := symbols.NewTable(len(infos))
	for id, info := range infos {
		if err := table.Add(id, info); err != nil {
			t.Fatalf("add symbol %d: %v", id, err)
		}
	}
	if cfg == nil {
		cfg = config.Default()
	}
	bag := diag.NewBag(16)
	return &Context{Config: cfg, Symbols: table, Reporter: diag.BagReporter{Bag: bag}}, bag
}

// localValue returns the value of the i-th statement of Main, which must be a local.
func localValue(t *testing.T, f *ast.File, i int) *ast.Expr {
	t.Helper()
	s := mainOf(t, f).Body.Stmts[i]
	data, ok := s.Data.(ast.LocalData)
	if !ok {
		t.Fatalf("statement %d is %v, not a local", i, s.Kind)
	}
	return data.Value
}
