package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f for every
// *Decl, *Block, *Stmt and *Expr. If f returns false the children of that node are skipped.
// node may be a *File, *Decl, *Block, *Stmt or *Expr.
func Inspect(node any, f func(any) bool) {
	switch n := node.(type) {
	case *File:
		if n == nil {
			return
		}
		for _, d := range n.Decls {
			Inspect(d, f)
		}
	case *Decl:
		if n == nil || !f(n) {
			return
		}
		inspectDecl(n, f)
	case *Block:
		if n == nil || !f(n) {
			return
		}
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *Stmt:
		if n == nil || !f(n) {
			return
		}
		inspectStmt(n, f)
	case *Expr:
		if n == nil || !f(n) {
			return
		}
		inspectExpr(n, f)
	}
}

func inspectParams(params []*Param, f func(any) bool) {
	for _, p := range params {
		if p.Default != nil {
			Inspect(p.Default, f)
		}
	}
}

func inspectDecl(d *Decl, f func(any) bool) {
	switch data := d.Data.(type) {
	case NamespaceData:
		for _, c := range data.Decls {
			Inspect(c, f)
		}
	case ClassData:
		for _, c := range data.Decls {
			Inspect(c, f)
		}
	case EnumData:
		for _, m := range data.Members {
			if m.Value != nil {
				Inspect(m.Value, f)
			}
		}
	case FieldData:
		if data.Init != nil {
			Inspect(data.Init, f)
		}
	case MethodData:
		inspectParams(data.Params, f)
		if data.Body != nil {
			Inspect(data.Body, f)
		}
	case CtorData:
		inspectParams(data.Params, f)
		for _, a := range data.BaseArgs {
			Inspect(a, f)
		}
		if data.Body != nil {
			Inspect(data.Body, f)
		}
	}
}

func inspectStmt(s *Stmt, f func(any) bool) {
	visit := func(n any) {
		switch v := n.(type) {
		case *Expr:
			if v != nil {
				Inspect(v, f)
			}
		case *Block:
			if v != nil {
				Inspect(v, f)
			}
		case *Stmt:
			if v != nil {
				Inspect(v, f)
			}
		}
	}
	switch data := s.Data.(type) {
	case ExprStmtData:
		visit(data.Expr)
	case LocalData:
		visit(data.Value)
	case AssignData:
		visit(data.Target)
		visit(data.Value)
	case ReturnData:
		visit(data.Value)
	case IfData:
		visit(data.Cond)
		visit(data.Then)
		visit(data.Else)
	case WhileData:
		visit(data.Cond)
		visit(data.Body)
	case DoWhileData:
		visit(data.Body)
		visit(data.Cond)
	case ForData:
		for _, st := range data.Init {
			visit(st)
		}
		visit(data.Cond)
		for _, st := range data.Step {
			visit(st)
		}
		visit(data.Body)
	case ForeachData:
		visit(data.Collection)
		visit(data.Body)
	case BlockData:
		visit(data.Block)
	case ThrowData:
		visit(data.Value)
	case TryData:
		visit(data.Body)
		visit(data.Catch)
		visit(data.Finally)
	}
}

func inspectExpr(e *Expr, f func(any) bool) {
	each := func(list ...*Expr) {
		for _, x := range list {
			if x != nil {
				Inspect(x, f)
			}
		}
	}
	switch data := e.Data.(type) {
	case MemberData:
		each(data.Target)
	case CallData:
		each(data.Callee)
		each(data.Args...)
	case NewData:
		each(data.Args...)
		each(data.Init...)
	case UnaryData:
		each(data.Operand)
	case BinaryData:
		each(data.Left, data.Right)
	case ConditionalData:
		each(data.Cond, data.Then, data.Else)
	case IndexData:
		each(data.Target, data.Index)
	case ArrayData:
		each(data.Elems...)
	case TupleData:
		each(data.Elems...)
	case LambdaData:
		inspectParams(data.Params, f)
		if data.Body != nil {
			Inspect(data.Body, f)
		}
		each(data.Value)
	case CastData:
		each(data.Value)
	case IsData:
		each(data.Value)
	}
}
