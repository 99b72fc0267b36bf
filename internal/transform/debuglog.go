package transform

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"tide/internal/ast"
	"tide/internal/config"
)

// DebugLocation tags diagnostic calls with the source position of the call.
const DebugLocation = "debug-location"

type debugLocation struct {
	console  []*regexp2.Regexp
	severity []*regexp2.Regexp
}

func newDebugLocation(cfg *config.Config) (Pass, error) {
	console, err := config.CompilePatterns("[debug].console", cfg.Debug.Console)
	if err != nil {
		return nil, err
	}
	severity, err := config.CompilePatterns("[debug].severity", cfg.Debug.Severity)
	if err != nil {
		return nil, err
	}
	return &debugLocation{console: console, severity: severity}, nil
}

func (*debugLocation) Name() string { return DebugLocation }

func (p *debugLocation) Run(ctx *Context, f *ast.File) (*ast.File, error) {
	r := &ast.Rewriter{
		Expr: func(e *ast.Expr) (*ast.Expr, error) {
			call, ok := e.Data.(ast.CallData)
			if !ok || !e.Span.Start.IsValid() {
				return e, nil
			}
			origin := p.origin(ctx, e, call)
			if origin == "" {
				return e, nil
			}
			loc := location(f, e)
			switch {
			case len(call.Args) == 1 && matchAny(p.severity, origin):
				if tagged(call.Args[0], loc) {
					return e, nil
				}
				arg := call.Args[0]
				call.Args = []*ast.Expr{ast.NewBinary(arg.Span, "..", ast.NewString(e.Span, loc), arg)}
			case matchAny(p.console, origin):
				if len(call.Args) > 0 && isLocation(call.Args[0], loc) {
					return e, nil
				}
				args := make([]*ast.Expr, 0, len(call.Args)+1)
				args = append(args, ast.NewString(e.Span, loc))
				call.Args = append(args, call.Args...)
			default:
				return e, nil
			}
			e.Data = call
			return e, nil
		},
	}
	return r.File(f)
}

// origin is the resolved definition of the called method, e.g. "UnityEngine.Debug.Log".
func (p *debugLocation) origin(ctx *Context, e *ast.Expr, call ast.CallData) string {
	info, ok := ctx.lookup(e.ID)
	if !ok && call.Callee != nil {
		info, ok = ctx.lookup(call.Callee.ID)
	}
	if !ok {
		return ""
	}
	if info.Origin != "" {
		return info.Origin
	}
	return info.Qualified()
}

func location(f *ast.File, e *ast.Expr) string {
	return fmt.Sprintf("[%s:%d:%d]:", f.Path, e.Span.Start.Line, e.Span.Start.Col)
}

func matchAny(res []*regexp2.Regexp, s string) bool {
	for _, re := range res {
		// regexp2 only errors on match timeouts, which are not configured
		if ok, err := re.MatchString(s); err == nil && ok {
			return true
		}
	}
	return false
}

func isLocation(e *ast.Expr, loc string) bool {
	lit, ok := e.Data.(ast.LiteralData)
	return ok && lit.Kind == ast.LitString && lit.Value == loc
}

// tagged reports whether arg already carries the location prefix.
func tagged(arg *ast.Expr, loc string) bool {
	bin, ok := arg.Data.(ast.BinaryData)
	if !ok || bin.Op != ".." {
		return false
	}
	lit, ok := bin.Left.Data.(ast.LiteralData)
	return ok && lit.Kind == ast.LitString && strings.HasPrefix(lit.Value, loc)
}
