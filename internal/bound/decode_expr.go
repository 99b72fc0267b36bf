package bound

import (
	"tide/internal/ast"
	"tide/internal/diag"
)

func (d *decoder) exprs(in []*Node) ([]*ast.Expr, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ast.Expr, 0, len(in))
	for _, n := range in {
		e, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// expr decodes an optional expression; nil yields nil.
func (d *decoder) expr(n *Node) (*ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	id, err := d.id(n, n.ID)
	if err != nil {
		return nil, err
	}
	e := &ast.Expr{ID: id, Span: d.span(n.Pos)}

	switch n.Kind {
	case "literal":
		kind, ok := ast.ParseLiteralKind(n.Lit)
		if !ok {
			return nil, d.errorf(n, diag.UpsBadTree, "unknown literal kind %q", n.Lit)
		}
		e.Kind, e.Data = ast.ExprLiteral, ast.LiteralData{Kind: kind, Value: n.Value}

	case "ident":
		if n.Name == "" {
			return nil, d.errorf(n, diag.UpsBadTree, "identifier without a name")
		}
		e.Kind, e.Data = ast.ExprIdent, ast.IdentData{Name: n.Name}

	case "member":
		target, err := d.required(n, "target", n.Target)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprMember, ast.MemberData{Target: target, Name: n.Name, NullConditional: n.NullCond}

	case "call":
		callee, err := d.required(n, "callee", n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(n.Args)
		if err != nil {
			return nil, err
		}
		typeArgs, err := d.typeRefs(n.TypeArgs)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprCall, ast.CallData{Callee: callee, Args: args, TypeArgs: typeArgs}

	case "new":
		typ, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, d.errorf(n, diag.UpsBadTree, "new: missing \"type\"")
		}
		args, err := d.exprs(n.Args)
		if err != nil {
			return nil, err
		}
		data := ast.NewData{Type: typ, Args: args}
		if n.Items != nil {
			if data.Init, err = d.exprs(n.Items); err != nil {
				return nil, err
			}
			if data.Init == nil {
				data.Init = []*ast.Expr{}
			}
		}
		e.Kind, e.Data = ast.ExprNew, data

	case "unary":
		operand, err := d.required(n, "operand", n.Operand)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprUnary, ast.UnaryData{Op: n.Op, Operand: operand, Postfix: n.Postfix}

	case "binary":
		left, err := d.required(n, "left", n.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.required(n, "right", n.Right)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprBinary, ast.BinaryData{Op: n.Op, Left: left, Right: right}

	case "conditional":
		cond, err := d.required(n, "cond", n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.required(n, "left", n.Left)
		if err != nil {
			return nil, err
		}
		els, err := d.required(n, "right", n.Right)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprConditional, ast.ConditionalData{Cond: cond, Then: then, Else: els}

	case "index":
		target, err := d.required(n, "target", n.Target)
		if err != nil {
			return nil, err
		}
		index, err := d.required(n, "index", n.Index)
		if err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprIndex, ast.IndexData{Target: target, Index: index}

	case "array", "tuple":
		items, err := d.exprs(n.Items)
		if err != nil {
			return nil, err
		}
		if n.Kind == "array" {
			e.Kind, e.Data = ast.ExprArray, ast.ArrayData{Elems: items}
		} else {
			e.Kind, e.Data = ast.ExprTuple, ast.TupleData{Elems: items}
		}

	case "lambda":
		params, err := d.params(n.Params)
		if err != nil {
			return nil, err
		}
		data := ast.LambdaData{Params: params}
		if n.Expr != nil {
			if data.Value, err = d.expr(n.Expr); err != nil {
				return nil, err
			}
		} else if data.Body, err = d.block(n, n.Body); err != nil {
			return nil, err
		}
		e.Kind, e.Data = ast.ExprLambda, data

	case "cast", "is":
		typ, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		val, err := d.required(n, "expr", n.Expr)
		if err != nil {
			return nil, err
		}
		if n.Kind == "cast" {
			e.Kind, e.Data = ast.ExprCast, ast.CastData{Type: typ, Value: val}
		} else {
			if typ == nil {
				return nil, d.errorf(n, diag.UpsBadTree, "is: missing \"type\"")
			}
			e.Kind, e.Data = ast.ExprIs, ast.IsData{Value: val, Type: typ}
		}

	case "this":
		e.Kind, e.Data = ast.ExprThis, ast.ThisData{}

	case "base":
		e.Kind, e.Data = ast.ExprBase, ast.BaseData{}

	default:
		return nil, d.errorf(n, diag.UpsBadTree, "unknown expression kind %q", n.Kind)
	}
	return e, nil
}
