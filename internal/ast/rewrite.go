package ast

// Rewriter rebuilds a tree bottom-up. Every node handed to a hook is a fresh copy whose
// children have already been rewritten, so hooks may change it freely; the input tree
// is never touched. Copies keep their NodeID.
//
// A nil hook keeps the node. A Stmt hook may expand one statement into several or drop
// it by returning an empty slice.
type Rewriter struct {
	Decl func(*Decl) (*Decl, error)
	Stmt func(*Stmt) ([]*Stmt, error)
	Expr func(*Expr) (*Expr, error)
}

// File rewrites a whole file.
func (r *Rewriter) File(f *File) (*File, error) {
	if f == nil {
		return nil, nil
	}
	out := *f
	out.Imports = append([]string(nil), f.Imports...)
	out.Usings = append([]string(nil), f.Usings...)
	decls, err := r.decls(f.Decls)
	if err != nil {
		return nil, err
	}
	out.Decls = decls
	return &out, nil
}

func (r *Rewriter) decls(in []*Decl) ([]*Decl, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]*Decl, 0, len(in))
	for _, d := range in {
		nd, err := r.decl(d)
		if err != nil {
			return nil, err
		}
		if nd != nil {
			out = append(out, nd)
		}
	}
	return out, nil
}

func (r *Rewriter) decl(d *Decl) (*Decl, error) {
	if d == nil {
		return nil, nil
	}
	out := *d
	var err error
	switch data := d.Data.(type) {
	case NamespaceData:
		if data.Decls, err = r.decls(data.Decls); err != nil {
			return nil, err
		}
		out.Data = data
	case ClassData:
		if data.Decls, err = r.decls(data.Decls); err != nil {
			return nil, err
		}
		if data.Attrs, err = r.attrs(data.Attrs); err != nil {
			return nil, err
		}
		data.Directives = append([]string(nil), data.Directives...)
		out.Data = data
	case EnumData:
		members := make([]EnumMember, len(data.Members))
		for i, m := range data.Members {
			if m.Value, err = r.Rewrite(m.Value); err != nil {
				return nil, err
			}
			members[i] = m
		}
		data.Members = members
		out.Data = data
	case FieldData:
		if data.Init, err = r.Rewrite(data.Init); err != nil {
			return nil, err
		}
		if data.Attrs, err = r.attrs(data.Attrs); err != nil {
			return nil, err
		}
		out.Data = data
	case MethodData:
		if data.Params, err = r.params(data.Params); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		if data.Attrs, err = r.attrs(data.Attrs); err != nil {
			return nil, err
		}
		data.Directives = append([]string(nil), data.Directives...)
		out.Data = data
	case CtorData:
		if data.Params, err = r.params(data.Params); err != nil {
			return nil, err
		}
		if data.BaseArgs, err = r.exprs(data.BaseArgs); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		if data.Attrs, err = r.attrs(data.Attrs); err != nil {
			return nil, err
		}
		data.Directives = append([]string(nil), data.Directives...)
		out.Data = data
	}
	if r.Decl != nil {
		return r.Decl(&out)
	}
	return &out, nil
}

func (r *Rewriter) attrs(in []Attribute) ([]Attribute, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]Attribute, len(in))
	for i, a := range in {
		args, err := r.exprs(a.Args)
		if err != nil {
			return nil, err
		}
		a.Args = args
		out[i] = a
	}
	return out, nil
}

func (r *Rewriter) params(in []*Param) ([]*Param, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]*Param, len(in))
	for i, p := range in {
		np := *p
		def, err := r.Rewrite(p.Default)
		if err != nil {
			return nil, err
		}
		np.Default = def
		out[i] = &np
	}
	return out, nil
}

// Block rewrites a block; nil stays nil.
func (r *Rewriter) Block(b *Block) (*Block, error) {
	if b == nil {
		return nil, nil
	}
	stmts, err := r.stmts(b.Stmts)
	if err != nil {
		return nil, err
	}
	if stmts == nil {
		stmts = []*Stmt{}
	}
	return &Block{Span: b.Span, Stmts: stmts}, nil
}

func (r *Rewriter) stmts(in []*Stmt) ([]*Stmt, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]*Stmt, 0, len(in))
	for _, s := range in {
		ns, err := r.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ns...)
	}
	return out, nil
}

// single rewrites a statement that must stay a single statement; an expansion is
// wrapped into a block.
func (r *Rewriter) single(s *Stmt) (*Stmt, error) {
	if s == nil {
		return nil, nil
	}
	ns, err := r.stmt(s)
	if err != nil {
		return nil, err
	}
	if len(ns) == 1 {
		return ns[0], nil
	}
	return &Stmt{Kind: StmtBlock, Span: s.Span, Data: BlockData{Block: &Block{Span: s.Span, Stmts: ns}}}, nil
}

func (r *Rewriter) stmt(s *Stmt) ([]*Stmt, error) {
	if s == nil {
		return nil, nil
	}
	out := *s
	var err error
	switch data := s.Data.(type) {
	case ExprStmtData:
		if data.Expr, err = r.Rewrite(data.Expr); err != nil {
			return nil, err
		}
		out.Data = data
	case LocalData:
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case AssignData:
		if data.Target, err = r.Rewrite(data.Target); err != nil {
			return nil, err
		}
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case ReturnData:
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case IfData:
		if data.Cond, err = r.Rewrite(data.Cond); err != nil {
			return nil, err
		}
		if data.Then, err = r.Block(data.Then); err != nil {
			return nil, err
		}
		if data.Else, err = r.single(data.Else); err != nil {
			return nil, err
		}
		out.Data = data
	case WhileData:
		if data.Cond, err = r.Rewrite(data.Cond); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		out.Data = data
	case DoWhileData:
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		if data.Cond, err = r.Rewrite(data.Cond); err != nil {
			return nil, err
		}
		out.Data = data
	case ForData:
		if data.Init, err = r.stmts(data.Init); err != nil {
			return nil, err
		}
		if data.Cond, err = r.Rewrite(data.Cond); err != nil {
			return nil, err
		}
		if data.Step, err = r.stmts(data.Step); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		out.Data = data
	case ForeachData:
		if data.Collection, err = r.Rewrite(data.Collection); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		out.Data = data
	case BlockData:
		if data.Block, err = r.Block(data.Block); err != nil {
			return nil, err
		}
		out.Data = data
	case ThrowData:
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case TryData:
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		if data.Catch, err = r.Block(data.Catch); err != nil {
			return nil, err
		}
		if data.Finally, err = r.Block(data.Finally); err != nil {
			return nil, err
		}
		out.Data = data
	}
	if r.Stmt != nil {
		return r.Stmt(&out)
	}
	return []*Stmt{&out}, nil
}

func (r *Rewriter) exprs(in []*Expr) ([]*Expr, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]*Expr, len(in))
	for i, e := range in {
		ne, err := r.Rewrite(e)
		if err != nil {
			return nil, err
		}
		out[i] = ne
	}
	return out, nil
}

// Rewrite rewrites a single expression; nil stays nil.
func (r *Rewriter) Rewrite(e *Expr) (*Expr, error) {
	if e == nil {
		return nil, nil
	}
	out := *e
	var err error
	switch data := e.Data.(type) {
	case MemberData:
		if data.Target, err = r.Rewrite(data.Target); err != nil {
			return nil, err
		}
		out.Data = data
	case CallData:
		if data.Callee, err = r.Rewrite(data.Callee); err != nil {
			return nil, err
		}
		if data.Args, err = r.exprs(data.Args); err != nil {
			return nil, err
		}
		out.Data = data
	case NewData:
		if data.Args, err = r.exprs(data.Args); err != nil {
			return nil, err
		}
		if data.Init, err = r.exprs(data.Init); err != nil {
			return nil, err
		}
		out.Data = data
	case UnaryData:
		if data.Operand, err = r.Rewrite(data.Operand); err != nil {
			return nil, err
		}
		out.Data = data
	case BinaryData:
		if data.Left, err = r.Rewrite(data.Left); err != nil {
			return nil, err
		}
		if data.Right, err = r.Rewrite(data.Right); err != nil {
			return nil, err
		}
		out.Data = data
	case ConditionalData:
		if data.Cond, err = r.Rewrite(data.Cond); err != nil {
			return nil, err
		}
		if data.Then, err = r.Rewrite(data.Then); err != nil {
			return nil, err
		}
		if data.Else, err = r.Rewrite(data.Else); err != nil {
			return nil, err
		}
		out.Data = data
	case IndexData:
		if data.Target, err = r.Rewrite(data.Target); err != nil {
			return nil, err
		}
		if data.Index, err = r.Rewrite(data.Index); err != nil {
			return nil, err
		}
		out.Data = data
	case ArrayData:
		if data.Elems, err = r.exprs(data.Elems); err != nil {
			return nil, err
		}
		out.Data = data
	case TupleData:
		if data.Elems, err = r.exprs(data.Elems); err != nil {
			return nil, err
		}
		out.Data = data
	case LambdaData:
		if data.Params, err = r.params(data.Params); err != nil {
			return nil, err
		}
		if data.Body, err = r.Block(data.Body); err != nil {
			return nil, err
		}
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case CastData:
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	case IsData:
		if data.Value, err = r.Rewrite(data.Value); err != nil {
			return nil, err
		}
		out.Data = data
	}
	if r.Expr != nil {
		return r.Expr(&out)
	}
	return &out, nil
}
