package dag

import (
	"fmt"
	"slices"
	"strings"

	"tide/internal/diag"
	"tide/internal/project"
	"tide/internal/source"
)

// Graph is oriented from a dependency to the files importing it, so a topological
// order lists imported files first.
type Graph struct {
	Dependents [][]FileID // Dependents[dep] = []importer
	Indeg      []int      // число присутствующих зависимостей файла
	Present    []bool     // файл реально есть в компиляции, а не только импортируется
}

type FileNode struct {
	Meta     project.FileMeta
	Reporter diag.Reporter
}

type FileSlot struct {
	Meta     project.FileMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph connects files through their imports. Imports of files outside the
// compilation are warnings: generated code falls back to a bare name for them.
func BuildGraph(idx FileIndex, nodes []FileNode) (Graph, []FileSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Dependents: make([][]FileID, nodeCount),
		Indeg:      make([]int, nodeCount),
		Present:    make([]bool, nodeCount),
	}
	slots := make([]FileSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			// индекс строится на тех же метаданных
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				notes := make([]diag.Note, 0, 1)
				if slot.Meta.Span != (source.Span{}) {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous tree for %q", slot.Meta.Path),
					})
				}
				node.Reporter.Report(
					diag.ProjDuplicateFile,
					diag.SevError,
					meta.Span,
					fmt.Sprintf("duplicate file %q", meta.Path),
					notes,
				)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[FileID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			if dep.Path == "" {
				continue
			}
			toID, ok := idx.NameToID[dep.Path]
			if !ok || FileID(from) == toID {
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			if !g.Present[int(toID)] {
				if slot.Reporter != nil {
					slot.Reporter.Report(
						diag.ProjMissingFile,
						diag.SevWarning,
						dep.Span,
						fmt.Sprintf("%q imports %q, which is not part of the compilation", slot.Meta.Path, dep.Path),
						nil,
					)
				}
				continue
			}
			g.Dependents[int(toID)] = append(g.Dependents[int(toID)], FileID(from))
			g.Indeg[from]++
		}
	}
	for i := range g.Dependents {
		if len(g.Dependents[i]) > 1 {
			slices.Sort(g.Dependents[i])
		}
	}

	return g, slots
}

// ReportCycles notes files that import each other. Mutual imports are legal for the
// front end, so the result is informational and the files keep a path order.
func ReportCycles(idx FileIndex, slots []FileSlot, topo *Topo) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " <-> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("file %q participates in an import cycle: %s", slot.Meta.Path, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevInfo, slot.Meta.Span, msg, nil)
	}
}
