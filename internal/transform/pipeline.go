package transform

import (
	"context"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/source"
	"tide/internal/trace"
)

// Pipeline is the resolved, ordered pass list of one configuration.
type Pipeline struct {
	passes []Pass
}

// NewPipeline resolves the configured optional passes against reg (DefaultRegistry when
// nil) and prepends the baseline. Unknown names yield a *config.Error. Listing the
// baseline explicitly is allowed and has no effect.
func NewPipeline(cfg *config.Config, reg *Registry) (*Pipeline, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	base, err := reg.build(Baseline, cfg)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{passes: []Pass{base}}
	for _, name := range cfg.Pipeline.Passes {
		if name == Baseline {
			continue
		}
		pass, err := reg.build(name, cfg)
		if err != nil {
			return nil, err
		}
		p.passes = append(p.passes, pass)
	}
	return p, nil
}

// Names lists the passes in run order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.passes))
	for i, pass := range p.passes {
		out[i] = pass.Name()
	}
	return out
}

// Run applies the passes in order; pass n+1 receives exactly the output of pass n.
// The first failure is reported to pc.Reporter and returned; no tree is produced.
func (p *Pipeline) Run(ctx context.Context, pc *Context, f *ast.File) (*ast.File, error) {
	cur := f
	for _, pass := range p.passes {
		_, span := trace.Start(ctx, trace.ScopePass, "pass:"+pass.Name())
		next, err := pass.Run(pc, cur)
		if err != nil {
			span.Fail(err)
			diag.ReportErr(pc.Reporter, fileSpan(cur), err)
			return nil, err
		}
		span.End("")
		cur = next
	}
	return cur, nil
}

func fileSpan(f *ast.File) source.Span {
	if f == nil {
		return source.Span{}
	}
	return source.Span{File: f.Source}
}
