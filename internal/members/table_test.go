package members

import (
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
)

func ns(name string, decls ...*ast.Decl) *ast.Decl {
	return &ast.Decl{Kind: ast.DeclNamespace, Data: ast.NamespaceData{Name: name, Decls: decls}}
}

func class(name string, decls ...*ast.Decl) *ast.Decl {
	return &ast.Decl{Kind: ast.DeclClass, Data: ast.ClassData{Name: name, Decls: decls}}
}

func TestBuildUnionsAcrossFiles(t *testing.T) {
	a := &ast.File{Path: "a.cs", Decls: []*ast.Decl{
		ns("Game.Core", class("Player", class("Stats"))),
	}}
	b := &ast.File{Path: "b.cs", Decls: []*ast.Decl{
		ns("Game", ns("Core", class("Enemy")), class("Program")),
		{Kind: ast.DeclEnum, Data: ast.EnumData{Name: "Mode"}},
	}}

	table := Build([]*ast.File{a, b})

	be.Equal(t, table.Members(""), []string{"Game", "Mode"})
	be.Equal(t, table.Members("Game"), []string{"Core", "Program"})
	be.Equal(t, table.Members("Game.Core"), []string{"Enemy", "Player"})
	be.Equal(t, table.Members("Game.Core.Player"), []string{"Stats"})
	be.True(t, table.Has("Game.Core", "Enemy"))
	be.True(t, !table.Has("Game.Core", "Stats"))
	be.Equal(t, len(table.Members("Nope")), 0)
}

func TestLookupInnermostFirst(t *testing.T) {
	table := Build([]*ast.File{{Decls: []*ast.Decl{
		ns("A", class("X"), ns("B", class("X"))),
	}}})

	path, ok := table.Lookup([]string{"A.B", "A", ""}, "X")
	be.True(t, ok)
	be.Equal(t, path, "A.B")

	_, ok = table.Lookup([]string{"A.B", "A"}, "Y")
	be.True(t, !ok)
}

func TestDigestIsStable(t *testing.T) {
	files := []*ast.File{{Decls: []*ast.Decl{ns("A", class("X"), class("Y"))}}}
	reversed := []*ast.File{{Decls: []*ast.Decl{ns("A", class("Y"), class("X"))}}}
	other := []*ast.File{{Decls: []*ast.Decl{ns("A", class("Z"))}}}

	be.Equal(t, Build(files).Digest(), Build(reversed).Digest())
	be.True(t, Build(files).Digest() != Build(other).Digest())
}

func TestTypePaths(t *testing.T) {
	table := Build([]*ast.File{{Decls: []*ast.Decl{
		ns("Game", ns("Sub", class("Thing")), class("Outer", class("Inner"))),
	}}})

	be.True(t, table.IsType("Game.Sub.Thing"))
	be.True(t, table.IsType("Game.Outer.Inner"))
	be.True(t, !table.IsType("Game.Sub"))
	be.True(t, !table.IsType("Game"))

	outer, ok := table.OuterType("Game.Outer.Inner")
	be.True(t, ok)
	be.Equal(t, outer, "Game.Outer")
	_, ok = table.OuterType("Game.Sub")
	be.True(t, !ok)
}

func TestDigestSeesTypeKinds(t *testing.T) {
	asClass := []*ast.File{{Decls: []*ast.Decl{ns("A", class("B", class("C")))}}}
	asNamespace := []*ast.File{{Decls: []*ast.Decl{ns("A", ns("B", class("C")))}}}
	be.True(t, Build(asClass).Digest() != Build(asNamespace).Digest())
}
