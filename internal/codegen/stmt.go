package codegen

import (
	"fmt"

	"tide/internal/ast"
	"tide/internal/diag"
)

// stmts emits the statements of b in a new lexical scope.
func (g *generator) stmts(b *ast.Block) {
	if b == nil {
		return
	}
	g.pushScope()
	for _, s := range b.Stmts {
		if g.err != nil {
			break
		}
		g.stmt(s)
	}
	g.popScope()
}

// block emits b one level deeper.
func (g *generator) block(b *ast.Block) {
	g.w.IndentPush()
	g.stmts(b)
	g.w.IndentPop()
}

func (g *generator) stmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		g.exprStmt(s, data.Expr)
	case ast.LocalData:
		if data.Value == nil {
			g.w.Line("local " + g.bind(data.Name))
			return
		}
		// the value is rendered before the name is bound: "local x = x" reads the outer x
		value := g.expr(data.Value)
		g.w.Line(fmt.Sprintf("local %s = %s", g.bind(data.Name), value))
	case ast.AssignData:
		g.w.Line(fmt.Sprintf("%s %s %s", g.expr(data.Target), data.Op, g.expr(data.Value)))
	case ast.ReturnData:
		if g.fn.tries > 0 {
			g.errorf(diag.GenUnsupported, s.Span, "return inside a try block")
			return
		}
		if data.Value == nil {
			g.w.Line("return")
			return
		}
		g.w.Line("return " + g.expr(data.Value))
	case ast.IfData:
		g.ifChain(data)
	case ast.WhileData:
		g.w.Line(fmt.Sprintf("while %s do", g.expr(data.Cond)))
		g.loop(nil, data.Body)
		g.w.Line("end")
	case ast.DoWhileData:
		g.w.Line("repeat")
		g.loop(nil, data.Body)
		g.w.Line(fmt.Sprintf("until not (%s)", g.expr(data.Cond)))
	case ast.ForData:
		g.forLoop(data)
	case ast.ForeachData:
		g.foreach(data)
	case ast.BreakData:
		if g.leavesTry(s) {
			return
		}
		g.w.Line("break")
	case ast.ContinueData:
		if g.leavesTry(s) {
			return
		}
		if l := g.innermostLoop(); l != nil {
			for _, step := range l.step {
				g.stmt(step)
			}
		}
		g.w.Line("continue")
	case ast.BlockData:
		g.w.Line("do")
		g.block(data.Block)
		g.w.Line("end")
	case ast.ThrowData:
		g.throw(data)
	case ast.TryData:
		g.try(data)
	default:
		g.errorf(diag.GenUnsupported, s.Span, "statement %s", s.Kind)
	}
}

// exprStmt emits an expression evaluated for its effects. Only calls are statements in
// the output; a null-conditional call becomes a guarded call.
func (g *generator) exprStmt(s *ast.Stmt, e *ast.Expr) {
	if call, ok := e.Data.(ast.CallData); ok {
		if m, ok := call.Callee.Data.(ast.MemberData); ok && m.NullConditional {
			target := g.expr(m.Target)
			g.w.Line(fmt.Sprintf("if %s ~= nil then", target))
			g.w.IndentPush()
			g.w.Line(g.call(e, call, target))
			g.w.IndentPop()
			g.w.Line("end")
			return
		}
		g.w.Line(g.expr(e))
		return
	}
	g.w.Line("local _ = " + g.expr(e))
}

// ifChain keeps every branch in order; an else holding a single if becomes elseif.
func (g *generator) ifChain(data ast.IfData) {
	g.w.Line(fmt.Sprintf("if %s then", g.expr(data.Cond)))
	g.block(data.Then)
	for els := data.Else; els != nil && g.err == nil; {
		next, ok := els.Data.(ast.IfData)
		if !ok {
			g.w.Line("else")
			g.w.IndentPush()
			if b, isBlock := els.Data.(ast.BlockData); isBlock {
				g.stmts(b.Block)
			} else {
				g.pushScope()
				g.stmt(els)
				g.popScope()
			}
			g.w.IndentPop()
			break
		}
		g.w.Line(fmt.Sprintf("elseif %s then", g.expr(next.Cond)))
		g.block(next.Then)
		els = next.Else
	}
	g.w.Line("end")
}

func (g *generator) loop(step []*ast.Stmt, body *ast.Block) {
	g.fn.loops = append(g.fn.loops, &loopCtx{step: step, tries: g.fn.tries})
	g.block(body)
	g.fn.loops = g.fn.loops[:len(g.fn.loops)-1]
}

func (g *generator) innermostLoop() *loopCtx {
	if len(g.fn.loops) == 0 {
		return nil
	}
	return g.fn.loops[len(g.fn.loops)-1]
}

// leavesTry rejects break/continue that would have to jump out of a pcall closure.
func (g *generator) leavesTry(s *ast.Stmt) bool {
	l := g.innermostLoop()
	if l == nil {
		g.errorf(diag.GenUnsupported, s.Span, "%s outside of a loop", s.Kind)
		return true
	}
	if l.tries != g.fn.tries {
		g.errorf(diag.GenUnsupported, s.Span, "%s out of a try block", s.Kind)
		return true
	}
	return false
}

// forLoop lowers for(init; cond; step) to a while-true loop inside a do block so that
// the init locals stay scoped to the loop.
func (g *generator) forLoop(data ast.ForData) {
	g.w.Line("do")
	g.w.IndentPush()
	g.pushScope()
	for _, s := range data.Init {
		g.stmt(s)
	}
	g.w.Line("while true do")
	g.w.IndentPush()
	if data.Cond != nil {
		g.w.Line(fmt.Sprintf("if not (%s) then break end", g.expr(data.Cond)))
	}
	g.fn.loops = append(g.fn.loops, &loopCtx{step: data.Step, tries: g.fn.tries})
	g.stmts(data.Body)
	g.fn.loops = g.fn.loops[:len(g.fn.loops)-1]
	for _, s := range data.Step {
		g.stmt(s)
	}
	g.w.IndentPop()
	g.w.Line("end")
	g.popScope()
	g.w.IndentPop()
	g.w.Line("end")
}

func (g *generator) foreach(data ast.ForeachData) {
	iter := "ipairs"
	if g.isMapTyped(data.Collection) {
		iter = "pairs"
	}
	coll := g.expr(data.Collection)
	g.pushScope()
	v := g.bind(data.Var)
	g.w.Line(fmt.Sprintf("for _, %s in %s(%s) do", v, iter, coll))
	g.loop(nil, data.Body)
	g.popScope()
	g.w.Line("end")
}

func (g *generator) throw(data ast.ThrowData) {
	if data.Value != nil {
		g.w.Line(fmt.Sprintf("error(%s)", g.expr(data.Value)))
		return
	}
	// rethrow
	if n := len(g.fn.errs); n > 0 {
		g.w.Line(fmt.Sprintf("error(%s)", g.fn.errs[n-1]))
		return
	}
	g.w.Line("error()")
}

// try runs the body in pcall; the catch block sees the error value, the finally block
// always runs, and an uncaught error is raised again after it.
func (g *generator) try(data ast.TryData) {
	ok, errVar := g.tryLocals()
	g.w.Line(fmt.Sprintf("local %s, %s = pcall(function()", ok, errVar))
	g.fn.tries++
	g.block(data.Body)
	g.fn.tries--
	g.w.Line("end)")
	if data.Catch != nil {
		g.w.Line(fmt.Sprintf("if not %s then", ok))
		g.w.IndentPush()
		g.pushScope()
		if data.CatchVar != "" {
			g.w.Line(fmt.Sprintf("local %s = %s", g.bind(data.CatchVar), errVar))
		}
		g.fn.errs = append(g.fn.errs, errVar)
		g.stmts(data.Catch)
		g.fn.errs = g.fn.errs[:len(g.fn.errs)-1]
		g.popScope()
		g.w.IndentPop()
		g.w.Line("end")
	}
	if data.Finally != nil {
		g.w.Line("do")
		g.block(data.Finally)
		g.w.Line("end")
	}
	if data.Catch == nil {
		g.w.Line(fmt.Sprintf("if not %s then error(%s, 0) end", ok, errVar))
	}
}

// tryLocals picks the pcall result names: ok and err unless a visible local or the
// error of an enclosing catch already uses them, then ok_N and err_N.
func (g *generator) tryLocals() (ok, errVar string) {
	ok, errVar = "ok", "err"
	for n := 1; g.localUsed(ok) || g.localUsed(errVar); n++ {
		ok, errVar = fmt.Sprintf("ok_%d", n), fmt.Sprintf("err_%d", n)
	}
	return ok, errVar
}
