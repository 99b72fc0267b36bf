package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/members"
)

func TestReadUIMode(t *testing.T) {
	tests := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range tests {
		got, err := readUIMode(in)
		be.Err(t, err, nil)
		be.Equal(t, got, want)
	}
	_, err := readUIMode("maybe")
	be.True(t, err != nil)
}

func TestSourceRoots(t *testing.T) {
	cfg := config.Default()
	cfg.Project.Sources = []string{"trees", "/abs/more"}
	p := &projectSetup{Config: cfg, Root: "/proj"}

	be.Equal(t, p.sourceRoots(nil), []string{filepath.Join("/proj", "trees"), "/abs/more"})
	be.Equal(t, p.sourceRoots([]string{"x"}), []string{"x"})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &config.Error{Path: "tide.toml", Field: "[runtime].name", Code: diag.CfgMissingField, Msg: "must not be empty"})
	be.True(t, strings.HasPrefix(buf.String(), "error "+diag.CfgMissingField.ID()+": tide.toml: [runtime].name"))

	buf.Reset()
	printError(&buf, fmt.Errorf("%w: 1 of 2 files failed", errBuildFailed))
	be.Equal(t, buf.String(), "build failed: 1 of 2 files failed\n")
}

func TestWriteMembersText(t *testing.T) {
	table := members.Build([]*ast.File{{Path: "A.cs", Decls: []*ast.Decl{{
		Kind: ast.DeclNamespace,
		Data: ast.NamespaceData{Name: "Game", Decls: []*ast.Decl{
			{Kind: ast.DeclClass, Data: ast.ClassData{Name: "Player"}},
			{Kind: ast.DeclClass, Data: ast.ClassData{Name: "Enemy"}},
		}},
	}}}})
	var buf bytes.Buffer
	be.Err(t, writeMembersText(&buf, table), nil)
	be.True(t, strings.Contains(buf.String(), "Game: Enemy Player\n"))
}
