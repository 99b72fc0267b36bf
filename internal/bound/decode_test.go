package bound

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/source"
	"tide/internal/symbols"
	"tide/internal/testkit"
)

const programJSON = `{
  "path": "Program.cs",
  "imports": ["Util.cs"],
  "decls": [{
    "id": 1, "kind": "namespace", "name": "Game", "pos": [1, 1],
    "decls": [{
      "id": 2, "kind": "class", "name": "Program", "pos": [2, 5],
      "base": {"id": 3, "name": "Game.Base"},
      "decls": [
        {"id": 4, "kind": "field", "name": "count", "expr": {"id": 5, "kind": "literal", "lit": "int", "value": "0"}},
        {"id": 6, "kind": "method", "name": "Main", "static": true, "pos": [4, 9], "body": [
          {"id": 7, "kind": "expr", "pos": [5, 13], "expr": {
            "id": 8, "kind": "call", "pos": [5, 13],
            "callee": {"id": 9, "kind": "ident", "name": "print"},
            "args": [{"id": 10, "kind": "literal", "lit": "string", "value": "hi"}]
          }},
          {"id": 11, "kind": "if", "cond": {"id": 12, "kind": "literal", "lit": "bool", "value": "true"},
           "then": [{"kind": "break"}],
           "else": {"kind": "block", "body": [{"kind": "continue"}]}}
        ]}
      ]
    }]
  }],
  "symbols": {
    "8": {"kind": "method", "name": "print", "origin": "print", "static": true},
    "4": {"kind": "field", "name": "count", "container": "Game.Program", "type": "System.Int32"}
  },
  "diagnostics": [
    {"severity": "warning", "code": "CS0168", "message": "unused variable", "pos": [7, 3]},
    {"severity": "error", "stage": "parse", "message": "; expected"}
  ]
}`

func TestDecodeJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(programJSON))
	be.Err(t, err, nil)

	fs := source.NewFileSet()
	unit, err := Decode(doc, fs)
	be.Err(t, err, nil)
	be.Err(t, testkit.CheckTreeInvariants(unit.File, fs), nil)

	f := unit.File
	be.Equal(t, f.Path, "Program.cs")
	be.True(t, f.ImportsFile("Util.cs"))
	be.Equal(t, fs.Path(f.Source), "Program.cs")

	ns := f.Decls[0].Data.(ast.NamespaceData)
	be.Equal(t, ns.Name, "Game")
	class := ns.Decls[0].Data.(ast.ClassData)
	be.Equal(t, class.Name, "Program")
	be.Equal(t, class.Base.Name, "Game.Base")
	be.Equal(t, len(class.Decls), 2)

	method := class.Decls[1]
	be.Equal(t, method.Kind, ast.DeclMethod)
	be.Equal(t, method.Span.Start, source.Pos{Line: 4, Col: 9})
	body := method.Data.(ast.MethodData).Body
	be.Equal(t, len(body.Stmts), 2)
	call := body.Stmts[0].Data.(ast.ExprStmtData).Expr
	be.Equal(t, call.ID, ast.NodeID(8))
	be.Equal(t, call.Kind, ast.ExprCall)
	ifData := body.Stmts[1].Data.(ast.IfData)
	be.Equal(t, ifData.Else.Kind, ast.StmtBlock)

	info, ok := unit.Symbols.Lookup(4)
	be.True(t, ok)
	be.Equal(t, info.Kind, symbols.SymbolField)
	be.Equal(t, info.Container, "Game.Program")

	be.Equal(t, len(unit.Diagnostics), 2)
	be.Equal(t, unit.Diagnostics[0].Severity, diag.SevWarning)
	be.Equal(t, unit.Diagnostics[0].Code, diag.UpsBind)
	be.Equal(t, unit.Diagnostics[0].Message, "CS0168: unused variable")
	be.Equal(t, unit.Diagnostics[1].Code, diag.UpsParse)
	be.Equal(t, unit.Diagnostics[1].Severity, diag.SevError)
}

func TestDecodeMsgpackMatchesJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(programJSON))
	be.Err(t, err, nil)
	data, err := EncodeMsgpack(doc)
	be.Err(t, err, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "Program"+ExtMsgpack)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	unit, err := LoadFile(path, source.NewFileSet())
	be.Err(t, err, nil)

	class := unit.File.Decls[0].Data.(ast.NamespaceData).Decls[0].Data.(ast.ClassData)
	be.Equal(t, class.Name, "Program")
	be.Equal(t, unit.Symbols.Len(), 2)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code diag.Code
	}{
		{
			name: "duplicate id",
			json: `{"path":"a.cs","decls":[{"id":1,"kind":"namespace","name":"A"},{"id":1,"kind":"namespace","name":"B"}]}`,
			code: diag.UpsDuplicateID,
		},
		{
			name: "unknown decl",
			json: `{"path":"a.cs","decls":[{"kind":"delegate","name":"D"}]}`,
			code: diag.UpsBadTree,
		},
		{
			name: "missing callee",
			json: `{"path":"a.cs","decls":[{"kind":"class","name":"C","decls":[{"kind":"method","name":"M","body":[{"kind":"expr","expr":{"kind":"call"}}]}]}]}`,
			code: diag.UpsBadTree,
		},
		{
			name: "bad symbol key",
			json: `{"path":"a.cs","decls":[],"symbols":{"x":{"kind":"local","name":"a"}}}`,
			code: diag.UpsBadTree,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON([]byte(tt.json))
			be.Err(t, err, nil)
			_, err = Decode(doc, source.NewFileSet())
			var te *TreeError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TreeError, got %v", err)
			}
			be.Equal(t, te.Code, tt.code)
		})
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tree.json", "a.tree.mp", "notes.txt", ".hidden/c.tree.json"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Collect([]string{dir, filepath.Join(dir, "b.tree.json")})
	be.Err(t, err, nil)
	be.Equal(t, got, []string{filepath.Join(dir, "a.tree.mp"), filepath.Join(dir, "b.tree.json")})
}
