package dag

import (
	"testing"

	"tide/internal/diag"
	"tide/internal/project"
	"tide/internal/source"
)

func idsToNames(idx FileIndex, ids []FileID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func batchesToNames(idx FileIndex, batches [][]FileID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToNames(idx, batch)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.FileMeta{
		{
			Path: "Program.cs",
			Imports: []project.ImportMeta{
				{Path: "Lib/Math.cs"},
				{Path: "Lib/Util.cs"},
			},
		},
		{Path: "Lib/Util.cs"},
	}

	idx := BuildIndex(metas)

	if len(idx.IDToName) != 3 {
		t.Fatalf("unexpected file count: %d", len(idx.IDToName))
	}

	wantNames := []string{"Lib/Math.cs", "Lib/Util.cs", "Program.cs"}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphWarnsOnMissingFiles(t *testing.T) {
	importSpan := source.At(1, 2, 1)
	metas := []project.FileMeta{
		{
			Path: "Program.cs",
			Span: source.At(1, 1, 1),
			Imports: []project.ImportMeta{
				{Path: "Player.cs", Span: source.At(1, 1, 1)},
				{Path: "Gone.cs", Span: importSpan},
				{Path: "Program.cs", Span: source.At(1, 3, 1)},
			},
		},
		{Path: "Player.cs", Span: source.At(2, 1, 1)},
	}
	bag := diag.NewBag(8)
	nodes := []FileNode{
		{Meta: metas[0], Reporter: diag.BagReporter{Bag: bag}},
		{Meta: metas[1], Reporter: diag.BagReporter{Bag: bag}},
	}
	idx := BuildIndex(metas)
	g, slots := BuildGraph(idx, nodes)

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(items))
	}
	if items[0].Code != diag.ProjMissingFile || items[0].Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %v %v", items[0].Code, items[0].Severity)
	}
	if items[0].Primary != importSpan {
		t.Fatalf("diagnostic span = %v, want %v", items[0].Primary, importSpan)
	}

	program := idx.NameToID["Program.cs"]
	player := idx.NameToID["Player.cs"]
	if g.Indeg[program] != 1 {
		t.Fatalf("Program.cs indegree = %d, want 1", g.Indeg[program])
	}
	if deps := g.Dependents[player]; len(deps) != 1 || deps[0] != program {
		t.Fatalf("Player.cs dependents = %v", deps)
	}
	if slots[idx.NameToID["Gone.cs"]].Present {
		t.Fatalf("missing file marked present")
	}
}

func TestBuildGraphReportsDuplicates(t *testing.T) {
	first := source.At(1, 1, 1)
	second := source.At(2, 1, 1)
	bag := diag.NewBag(4)
	nodes := []FileNode{
		{Meta: project.FileMeta{Path: "A.cs", Span: first}, Reporter: diag.BagReporter{Bag: bag}},
		{Meta: project.FileMeta{Path: "A.cs", Span: second}, Reporter: diag.BagReporter{Bag: bag}},
	}
	idx := BuildIndex([]project.FileMeta{nodes[0].Meta, nodes[1].Meta})
	_, slots := BuildGraph(idx, nodes)

	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.ProjDuplicateFile {
		t.Fatalf("expected duplicate diagnostic, got %v", items)
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Span != first {
		t.Fatalf("expected note at first tree, got %v", items[0].Notes)
	}
	if slots[0].Meta.Span != first {
		t.Fatalf("first tree must win")
	}
}

func TestToposortDependenciesFirst(t *testing.T) {
	metas := []project.FileMeta{
		{Path: "Program.cs", Imports: []project.ImportMeta{{Path: "Player.cs"}, {Path: "Util.cs"}}},
		{Path: "Player.cs", Imports: []project.ImportMeta{{Path: "Util.cs"}}},
		{Path: "Util.cs"},
		{Path: "Alone.cs"},
	}
	order, topo := Order(metas, nil)

	want := []string{"Alone.cs", "Util.cs", "Player.cs", "Program.cs"}
	if !equalStrings(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if topo.Cyclic {
		t.Fatalf("unexpected cycle")
	}
	idx := BuildIndex(metas)
	batches := batchesToNames(idx, topo.Batches)
	if len(batches) != 3 || !equalStrings(batches[0], []string{"Alone.cs", "Util.cs"}) {
		t.Fatalf("batches = %v", batches)
	}
}

func TestToposortKeepsCyclicFiles(t *testing.T) {
	metas := []project.FileMeta{
		{Path: "B.cs", Imports: []project.ImportMeta{{Path: "A.cs"}}},
		{Path: "A.cs", Imports: []project.ImportMeta{{Path: "B.cs"}}},
		{Path: "C.cs", Imports: []project.ImportMeta{{Path: "A.cs"}}},
		{Path: "Base.cs"},
	}
	bag := diag.NewBag(8)
	order, topo := Order(metas, func(string) diag.Reporter { return diag.BagReporter{Bag: bag} })

	if !topo.Cyclic {
		t.Fatalf("expected a cycle")
	}
	// C.cs зависит от цикла и тоже остаётся с ненулевой степенью
	want := []string{"Base.cs", "A.cs", "B.cs", "C.cs"}
	if !equalStrings(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.ProjImportCycle || d.Severity != diag.SevInfo {
			t.Fatalf("unexpected diagnostic %v", d.Code)
		}
	}
	if bag.Len() != 3 {
		t.Fatalf("expected a note per cyclic file, got %d", bag.Len())
	}
}
