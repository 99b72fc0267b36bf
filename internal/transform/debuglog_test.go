package transform

import (
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/symbols"
)

func debugConfig() *config.Config {
	cfg := config.Default()
	cfg.Pipeline.Passes = []string{DebugLocation}
	cfg.Debug.Console = []string{`^Roblox\.Globals\.print$`}
	cfg.Debug.Severity = []string{`^Roblox\.Globals\.(warn|error)$`}
	return cfg
}

func callAt(id ast.NodeID, line, col uint32, fn string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.ExprCall, Span: at(line, col), Data: ast.CallData{
		Callee: &ast.Expr{ID: id + 1, Kind: ast.ExprIdent, Span: at(line, col), Data: ast.IdentData{Name: fn}},
		Args:   args,
	}}
}

var debugSymbols = map[ast.NodeID]symbols.Info{
	50: {Kind: symbols.Method, Name: "print", Container: "Roblox.Globals", Static: true},
	60: {Kind: symbols.Method, Name: "warn", Container: "Roblox.Globals", Static: true},
	70: {Kind: symbols.Method, Name: "Format", Container: "System.String", Static: true},
	81: {Kind: symbols.Method, Name: "print", Container: "Roblox.Globals", Static: true},
}

func runDebug(t *testing.T, in *ast.File) *ast.File {
	t.Helper()
	cfg := debugConfig()
	ctx, _ := newContext(t, cfg, debugSymbols)
	pass, err := newDebugLocation(cfg)
	be.Err(t, err, nil)
	out, err := pass.Run(ctx, in)
	be.Err(t, err, nil)
	return out
}

func callArgs(t *testing.T, f *ast.File, i int) []*ast.Expr {
	t.Helper()
	s := mainOf(t, f).Body.Stmts[i]
	return s.Data.(ast.ExprStmtData).Expr.Data.(ast.CallData).Args
}

func TestDebugLocationConsole(t *testing.T) {
	in := fixture(nil, exprStmt(20, callAt(50, 12, 9, "print", str(52, "hello"))))
	out := runDebug(t, in)

	args := callArgs(t, out, 0)
	be.Equal(t, len(args), 2)
	be.Equal(t, args[0].Data.(ast.LiteralData).Value, "[Program.cs:12:9]:")
	be.Equal(t, args[1].Data.(ast.LiteralData).Value, "hello")

	be.Equal(t, len(callArgs(t, in, 0)), 1)
}

func TestDebugLocationConsoleManyArgs(t *testing.T) {
	in := fixture(nil, exprStmt(20, callAt(50, 3, 5, "print", str(52, "a"), ident(53, "b"), num(54, "3"))))
	args := callArgs(t, runDebug(t, in), 0)
	be.Equal(t, len(args), 4)
	be.Equal(t, args[1].Data.(ast.LiteralData).Value, "a")
	be.Equal(t, args[2].Data.(ast.IdentData).Name, "b")
}

func TestDebugLocationSeverity(t *testing.T) {
	in := fixture(nil, exprStmt(20, callAt(60, 4, 13, "warn", str(62, "low hp"))))
	args := callArgs(t, runDebug(t, in), 0)

	be.Equal(t, len(args), 1)
	bin := args[0].Data.(ast.BinaryData)
	be.Equal(t, bin.Op, "..")
	be.Equal(t, bin.Left.Data.(ast.LiteralData).Value, "[Program.cs:4:13]:")
	be.Equal(t, bin.Right.Data.(ast.LiteralData).Value, "low hp")
}

func TestDebugLocationIgnoresOtherCalls(t *testing.T) {
	in := fixture(nil,
		exprStmt(20, callAt(70, 1, 1, "Format", str(72, "x"))),
		exprStmt(21, callAt(90, 1, 1, "unknown", str(92, "y"))),
	)
	out := runDebug(t, in)
	be.Equal(t, len(callArgs(t, out, 0)), 1)
	be.Equal(t, len(callArgs(t, out, 1)), 1)
}

func TestDebugLocationCalleeSymbol(t *testing.T) {
	// the binding may sit on the callee instead of the call node
	in := fixture(nil, exprStmt(20, callAt(80, 2, 2, "print", str(82, "hi"))))
	be.Equal(t, len(callArgs(t, runDebug(t, in), 0)), 2)
}

func TestDebugLocationIdempotent(t *testing.T) {
	in := fixture(nil,
		exprStmt(20, callAt(50, 12, 9, "print", str(52, "hello"))),
		exprStmt(21, callAt(60, 4, 13, "warn", str(62, "low hp"))),
	)
	twice := runDebug(t, runDebug(t, in))
	be.Equal(t, len(callArgs(t, twice, 0)), 2)
	bin := callArgs(t, twice, 1)[0].Data.(ast.BinaryData)
	be.Equal(t, bin.Right.Data.(ast.LiteralData).Value, "low hp")
}
