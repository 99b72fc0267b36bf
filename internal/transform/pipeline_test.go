package transform

import (
	"context"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
)

// tagPass appends its name to the file path so the order of application is visible.
type tagPass struct {
	name string
	fail bool
}

func (p tagPass) Name() string { return p.name }

func (p tagPass) Run(_ *Context, f *ast.File) (*ast.File, error) {
	if p.fail {
		return nil, diag.Codegenf(diag.GenUnsupported, at(7, 2), "cannot lower %s", p.name)
	}
	out := *f
	out.Path += "+" + p.name
	return &out, nil
}

func tagRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, name := range append([]string{Baseline}, names...) {
		be.Err(t, reg.Register(name, func(*config.Config) (Pass, error) {
			return tagPass{name: name, fail: name == "broken"}, nil
		}), nil)
	}
	return reg
}

func TestPipelineOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Passes = []string{"b", "normalize", "a"}
	p, err := NewPipeline(cfg, tagRegistry(t, "a", "b"))
	be.Err(t, err, nil)
	be.Equal(t, p.Names(), []string{"normalize", "b", "a"})

	ctx, _ := newContext(t, cfg, nil)
	out, err := p.Run(context.Background(), ctx, &ast.File{Path: "x"})
	be.Err(t, err, nil)
	be.Equal(t, out.Path, "x+normalize+b+a")
}

func TestPipelineUnknownPass(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Passes = []string{"minify"}
	_, err := NewPipeline(cfg, nil)
	cerr, ok := config.AsError(err)
	if !ok {
		t.Fatalf("expected configuration error, got %v", err)
	}
	be.Equal(t, cerr.Code, diag.CfgUnknownPass)
}

func TestPipelineFailureIsReported(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Passes = []string{"broken", "a"}
	p, err := NewPipeline(cfg, tagRegistry(t, "a", "broken"))
	be.Err(t, err, nil)

	ctx, bag := newContext(t, cfg, nil)
	out, err := p.Run(context.Background(), ctx, &ast.File{Path: "x"})
	be.Err(t, err)
	be.True(t, out == nil)
	be.Equal(t, bag.Len(), 1)
	d := bag.Items()[0]
	be.Equal(t, d.Code, diag.GenUnsupported)
	be.Equal(t, d.Severity, diag.SevError)
}

func TestDefaultRegistry(t *testing.T) {
	be.Equal(t, DefaultRegistry().Names(), []string{DebugLocation, Baseline})

	err := DefaultRegistry().Register(Baseline, newNormalize)
	be.Err(t, err)
}

func TestDebugLocationRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Passes = []string{DebugLocation}
	cfg.Debug.Console = []string{"[unclosed"}
	_, err := NewPipeline(cfg, nil)
	cerr, ok := config.AsError(err)
	if !ok {
		t.Fatalf("expected configuration error, got %v", err)
	}
	be.Equal(t, cerr.Code, diag.CfgBadPattern)
}
