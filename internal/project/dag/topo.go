package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tide/internal/diag"
	"tide/internal/project"
)

type Topo struct {
	Order   []FileID   // линейный порядок: зависимости раньше импортёров, затем циклические файлы
	Batches [][]FileID // волны независимых файлов
	Cyclic  bool
	Cycles  []FileID // узлы, оставшиеся в цикле
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Dependents)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]FileID, 0, nodeCount),
		Batches: make([][]FileID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]FileID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] || indeg[i] != 0 {
			continue
		}
		current = append(current, toFileID(i))
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]FileID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]FileID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Dependents[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toFileID(i))
			}
		}
		slices.Sort(topo.Cycles)
		// файлы цикла идут последней волной, по пути
		topo.Order = append(topo.Order, topo.Cycles...)
		topo.Batches = append(topo.Batches, slices.Clone(topo.Cycles))
	}

	return topo
}

func toFileID(i int) FileID {
	id, err := safecast.Conv[FileID](i)
	if err != nil {
		panic(fmt.Errorf("file id overflow: %w", err))
	}
	return id
}

// Order builds the graph for metas and returns the present files in generation order.
func Order(metas []project.FileMeta, reporterFor func(path string) diag.Reporter) ([]string, *Topo) {
	idx := BuildIndex(metas)
	nodes := make([]FileNode, 0, len(metas))
	for _, m := range metas {
		var r diag.Reporter
		if reporterFor != nil {
			r = reporterFor(m.Path)
		}
		nodes = append(nodes, FileNode{Meta: m, Reporter: r})
	}
	g, slots := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)
	ReportCycles(idx, slots, topo)
	out := make([]string, 0, len(topo.Order))
	for _, id := range topo.Order {
		out = append(out, idx.IDToName[int(id)])
	}
	return out, topo
}
