package symbols

import (
	"fmt"
	"slices"

	"tide/internal/ast"
)

// Oracle answers binding queries by node identity. Implementations are read-only.
type Oracle interface {
	Lookup(id ast.NodeID) (Info, bool)
}

// Table aggregates the bindings of a compilation.
type Table struct {
	infos map[ast.NodeID]Info
}

// NewTable builds an empty table with an optional capacity hint.
func NewTable(hint int) *Table {
	return &Table{infos: make(map[ast.NodeID]Info, max(hint, 0))}
}

// Add records info for id. Adding the same id twice is an error.
func (t *Table) Add(id ast.NodeID, info Info) error {
	if !id.IsValid() {
		return fmt.Errorf("symbol %q: invalid node id", info.Name)
	}
	if _, ok := t.infos[id]; ok {
		return fmt.Errorf("node %d: duplicate binding", id)
	}
	t.infos[id] = info
	return nil
}

// Lookup implements Oracle.
func (t *Table) Lookup(id ast.NodeID) (Info, bool) {
	if t == nil || !id.IsValid() {
		return Info{}, false
	}
	info, ok := t.infos[id]
	return info, ok
}

// Len reports the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.infos)
}

// Merge copies all bindings of other into t and returns, sorted, the IDs present in both.
// Conflicting entries keep the value already in t.
func (t *Table) Merge(other *Table) []ast.NodeID {
	if other == nil {
		return nil
	}
	var dup []ast.NodeID
	for id, info := range other.infos {
		if _, ok := t.infos[id]; ok {
			dup = append(dup, id)
			continue
		}
		t.infos[id] = info
	}
	slices.Sort(dup)
	return dup
}

// Validate checks internal consistency: every binding has a name and a known kind.
func (t *Table) Validate() error {
	ids := make([]ast.NodeID, 0, len(t.infos))
	for id := range t.infos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		info := t.infos[id]
		if info.Kind == SymbolInvalid {
			return fmt.Errorf("node %d: invalid symbol kind", id)
		}
		if info.Name == "" {
			return fmt.Errorf("node %d: %s without a name", id, info.Kind)
		}
	}
	return nil
}
