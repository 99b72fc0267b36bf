package bound

import (
	"tide/internal/ast"
	"tide/internal/diag"
)

func (d *decoder) stmts(in []*Node) ([]*ast.Stmt, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ast.Stmt, 0, len(in))
	for _, n := range in {
		s, err := d.stmt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(n *Node) (*ast.Stmt, error) {
	if n == nil {
		return nil, d.errorf(nil, diag.UpsBadTree, "null statement")
	}
	id, err := d.id(n, n.ID)
	if err != nil {
		return nil, err
	}
	s := &ast.Stmt{ID: id, Span: d.span(n.Pos)}

	switch n.Kind {
	case "expr":
		e, err := d.required(n, "expr", n.Expr)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtExpr, ast.ExprStmtData{Expr: e}

	case "local":
		typ, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		val, err := d.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtLocal, ast.LocalData{Name: n.Name, Type: typ, Value: val}

	case "assign":
		target, err := d.required(n, "target", n.Target)
		if err != nil {
			return nil, err
		}
		val, err := d.required(n, "expr", n.Expr)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == "" {
			op = "="
		}
		s.Kind, s.Data = ast.StmtAssign, ast.AssignData{Op: op, Target: target, Value: val}

	case "return":
		val, err := d.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtReturn, ast.ReturnData{Value: val}

	case "if":
		cond, err := d.required(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.block(n, n.Then)
		if err != nil {
			return nil, err
		}
		var els *ast.Stmt
		if n.Else != nil {
			if els, err = d.stmt(n.Else); err != nil {
				return nil, err
			}
		}
		s.Kind, s.Data = ast.StmtIf, ast.IfData{Cond: cond, Then: then, Else: els}

	case "while", "do":
		cond, err := d.required(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.block(n, n.Body)
		if err != nil {
			return nil, err
		}
		if n.Kind == "while" {
			s.Kind, s.Data = ast.StmtWhile, ast.WhileData{Cond: cond, Body: body}
		} else {
			s.Kind, s.Data = ast.StmtDoWhile, ast.DoWhileData{Body: body, Cond: cond}
		}

	case "for":
		init, err := d.stmts(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := d.expr(n.Cond)
		if err != nil {
			return nil, err
		}
		step, err := d.stmts(n.Step)
		if err != nil {
			return nil, err
		}
		body, err := d.block(n, n.Body)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtFor, ast.ForData{Init: init, Cond: cond, Step: step, Body: body}

	case "foreach":
		varID, err := d.id(n, n.VarID)
		if err != nil {
			return nil, err
		}
		coll, err := d.required(n, "collection", n.Collection)
		if err != nil {
			return nil, err
		}
		body, err := d.block(n, n.Body)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtForeach, ast.ForeachData{VarID: varID, Var: n.Var, Collection: coll, Body: body}

	case "break":
		s.Kind, s.Data = ast.StmtBreak, ast.BreakData{}

	case "continue":
		s.Kind, s.Data = ast.StmtContinue, ast.ContinueData{}

	case "block":
		body, err := d.block(n, n.Body)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtBlock, ast.BlockData{Block: body}

	case "throw":
		val, err := d.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtThrow, ast.ThrowData{Value: val}

	case "try":
		data, err := d.tryData(n)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Data = ast.StmtTry, data

	default:
		return nil, d.errorf(n, diag.UpsBadTree, "unknown statement kind %q", n.Kind)
	}
	return s, nil
}

func (d *decoder) tryData(n *Node) (ast.TryData, error) {
	body, err := d.block(n, n.Body)
	if err != nil {
		return ast.TryData{}, err
	}
	data := ast.TryData{Body: body, CatchVar: n.Var}
	if data.CatchID, err = d.id(n, n.VarID); err != nil {
		return ast.TryData{}, err
	}
	if n.HasCatch || n.Catch != nil {
		if data.Catch, err = d.block(n, n.Catch); err != nil {
			return ast.TryData{}, err
		}
	}
	if n.Finally != nil {
		if data.Finally, err = d.block(n, n.Finally); err != nil {
			return ast.TryData{}, err
		}
	}
	return data, nil
}

func (d *decoder) required(n *Node, field string, child *Node) (*ast.Expr, error) {
	if child == nil {
		return nil, d.errorf(n, diag.UpsBadTree, "%s: missing %q", n.Kind, field)
	}
	return d.expr(child)
}
