package symbols

import (
	"testing"

	"tide/internal/ast"
)

func TestTableAddLookup(t *testing.T) {
	table := NewTable(4)
	info := Info{Kind: SymbolMethod, Name: "ToString", Container: "System.Object", Origin: "System.Object.ToString"}
	if err := table.Add(3, info); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := table.Add(3, info); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	if err := table.Add(ast.NoNodeID, info); err == nil {
		t.Fatalf("expected invalid id to fail")
	}

	got, ok := table.Lookup(3)
	if !ok {
		t.Fatalf("expected binding for node 3")
	}
	if got.Qualified() != "System.Object.ToString" {
		t.Fatalf("unexpected qualified name %q", got.Qualified())
	}
	if _, ok := table.Lookup(4); ok {
		t.Fatalf("unexpected binding for node 4")
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestTableMergeReportsDuplicates(t *testing.T) {
	a := NewTable(0)
	b := NewTable(0)
	_ = a.Add(1, Info{Kind: SymbolLocal, Name: "x"})
	_ = b.Add(1, Info{Kind: SymbolLocal, Name: "y"})
	_ = b.Add(2, Info{Kind: SymbolParam, Name: "z"})

	dup := a.Merge(b)
	if len(dup) != 1 || dup[0] != 1 {
		t.Fatalf("expected duplicate [1], got %v", dup)
	}
	if got, _ := a.Lookup(1); got.Name != "x" {
		t.Fatalf("merge must keep existing binding, got %q", got.Name)
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 bindings, got %d", a.Len())
	}
}

func TestKindHelpers(t *testing.T) {
	tests := []struct {
		kind    SymbolKind
		member  bool
		lexical bool
	}{
		{SymbolField, true, false},
		{SymbolProperty, true, false},
		{SymbolMethod, true, false},
		{SymbolEnumMember, true, false},
		{SymbolParam, false, true},
		{SymbolLocal, false, true},
		{SymbolType, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.kind.IsMember() != tt.member || tt.kind.IsLexical() != tt.lexical {
				t.Fatalf("%s: member=%v lexical=%v", tt.kind, tt.kind.IsMember(), tt.kind.IsLexical())
			}
			if ParseKind(tt.kind.String()) != tt.kind {
				t.Fatalf("ParseKind(%q) does not round-trip", tt.kind.String())
			}
		})
	}
	if !(Info{Tags: []string{TagServiceLocator}}).HasTag(TagServiceLocator) {
		t.Fatalf("expected tag")
	}
}
