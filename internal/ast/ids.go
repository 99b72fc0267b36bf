// Package ast holds the bound syntax tree handed over by the front end.
//
// Trees are immutable once built: transform passes never modify a node they received,
// they build a new tree with Rewriter. Every node carries a NodeID assigned by the front
// end; the symbol oracle is keyed by it. Nodes synthesized by passes carry NoNodeID.
package ast

// NodeID identifies a node within one compilation.
type NodeID uint32

// NoNodeID marks synthesized nodes that have no binding information.
const NoNodeID NodeID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool { return id != NoNodeID }
