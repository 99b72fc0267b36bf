// Package testkit holds structural checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tide/internal/ast"
	"tide/internal/source"
)

// CheckTreeInvariants runs a minimal set of invariants on a decoded file:
// 1) every positioned node points at the file's FileSet entry
// 2) no span ends before it starts
// 3) when the text is available, every span starts on an existing line
// 4) non-zero node IDs are unique within the file
func CheckTreeInvariants(f *ast.File, fs *source.FileSet) error {
	if f == nil || fs == nil {
		return fmt.Errorf("nil file or file set")
	}
	sf := fs.Get(f.Source)
	if sf == nil {
		return fmt.Errorf("file %s: source %d not in file set", f.Path, f.Source)
	}
	var lines uint32
	if sf.HasText() && len(sf.Content) > 0 {
		n, err := safecast.Conv[uint32](len(sf.LineIdx) + 1)
		if err != nil {
			return fmt.Errorf("line count overflow: %w", err)
		}
		lines = n
	}

	seen := make(map[ast.NodeID]string)
	var firstErr error
	check := func(kind string, id ast.NodeID, sp source.Span) {
		if firstErr != nil {
			return
		}
		if id != 0 {
			if prev, dup := seen[id]; dup {
				firstErr = fmt.Errorf("%s: node id %d used by %s and %s", f.Path, id, prev, kind)
				return
			}
			seen[id] = kind
		}
		if sp.Empty() {
			return
		}
		switch {
		case sp.File != f.Source:
			firstErr = fmt.Errorf("%s: %s %d points to file %d, want %d", f.Path, kind, id, sp.File, f.Source)
		case sp.End.IsValid() && sp.End.Before(sp.Start):
			firstErr = fmt.Errorf("%s: %s %d ends before it starts: %s", f.Path, kind, id, sp)
		case lines > 0 && sp.Start.Line > lines:
			firstErr = fmt.Errorf("%s: %s %d starts on line %d of %d", f.Path, kind, id, sp.Start.Line, lines)
		}
	}

	ast.Inspect(f, func(n any) bool {
		switch n := n.(type) {
		case *ast.Decl:
			check("decl "+n.Kind.String(), n.ID, n.Span)
		case *ast.Stmt:
			check("stmt", n.ID, n.Span)
		case *ast.Expr:
			check("expr "+n.Kind.String(), n.ID, n.Span)
		}
		return firstErr == nil
	})
	return firstErr
}
