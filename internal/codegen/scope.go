package codegen

// Scope is a lexical scope mapping source names to values, chained to its parent.
type Scope[V any] struct {
	Parent *Scope[V]
	Nodes  map[string]V
}

func NewScope[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{Parent: parent, Nodes: map[string]V{}}
}

// Insert binds name in this scope. Rebinding shadows the previous value, like a
// second "local" in the output does.
func (scope *Scope[V]) Insert(name string, element V) {
	scope.Nodes[name] = element
}

// Lookup searches this scope and then its ancestors.
func (scope *Scope[V]) Lookup(name string) (V, bool) {
	for s := scope; s != nil; s = s.Parent {
		if node, ok := s.Nodes[name]; ok {
			return node, true
		}
	}
	var empty V
	return empty, false
}
