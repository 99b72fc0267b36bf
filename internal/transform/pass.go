// Package transform runs the ordered tree-to-tree passes applied before generation.
//
// A pass is a total, deterministic function of (tree, configuration, symbols). It never
// modifies its input; it returns a new tree built with ast.Rewriter. A construct a pass
// cannot lower is returned as a *diag.CodegenError and aborts the current file.
package transform

import (
	"fmt"
	"slices"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/symbols"
)

// Context is the read-only environment of one file's pass run.
type Context struct {
	Config   *config.Config
	Symbols  symbols.Oracle
	Reporter diag.Reporter // warnings; errors are returned
}

func (c *Context) lookup(id ast.NodeID) (symbols.Info, bool) {
	if c == nil || c.Symbols == nil {
		return symbols.Info{}, false
	}
	return c.Symbols.Lookup(id)
}

// Pass is one tree rewrite.
type Pass interface {
	Name() string
	Run(ctx *Context, f *ast.File) (*ast.File, error)
}

// Factory builds a pass for a configuration. It may reject the configuration.
type Factory func(cfg *config.Config) (Pass, error)

// Baseline is the pass every pipeline starts with.
const Baseline = "normalize"

// Registry maps pass names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows every built-in pass.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Baseline, newNormalize)
	r.MustRegister(DebugLocation, newDebugLocation)
	return r
}

// Register adds a factory; registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("register pass: empty name or factory")
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("register pass %q: already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics; for built-in tables.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered pass names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) build(name string, cfg *config.Config) (Pass, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &config.Error{
			Field: "[pipeline].passes",
			Code:  diag.CfgUnknownPass,
			Msg:   fmt.Sprintf("unknown pass %q (known: %v)", name, r.Names()),
		}
	}
	p, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("pass %s: %w", name, err)
	}
	return p, nil
}
