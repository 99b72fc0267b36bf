package bound

import (
	"slices"

	"tide/internal/ast"
	"tide/internal/diag"
)

func (d *decoder) decls(in []*Node) ([]*ast.Decl, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ast.Decl, 0, len(in))
	for _, n := range in {
		decl, err := d.decl(n)
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
	return out, nil
}

func (d *decoder) decl(n *Node) (*ast.Decl, error) {
	if n == nil {
		return nil, d.errorf(nil, diag.UpsBadTree, "null declaration")
	}
	id, err := d.id(n, n.ID)
	if err != nil {
		return nil, err
	}
	decl := &ast.Decl{ID: id, Span: d.span(n.Pos)}

	switch n.Kind {
	case "namespace":
		if n.Name == "" {
			return nil, d.errorf(n, diag.UpsBadTree, "namespace without a name")
		}
		children, err := d.decls(n.Decls)
		if err != nil {
			return nil, err
		}
		decl.Kind = ast.DeclNamespace
		decl.Data = ast.NamespaceData{Name: n.Name, Decls: children}

	case "class", "struct", "interface":
		data, err := d.classData(n)
		if err != nil {
			return nil, err
		}
		decl.Kind = ast.DeclClass
		decl.Data = data

	case "enum":
		members := make([]ast.EnumMember, 0, len(n.Members))
		for _, m := range n.Members {
			mid, err := d.id(m, m.ID)
			if err != nil {
				return nil, err
			}
			val, err := d.expr(m.Expr)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.EnumMember{ID: mid, Span: d.span(m.Pos), Name: m.Name, Value: val})
		}
		decl.Kind = ast.DeclEnum
		decl.Data = ast.EnumData{Name: n.Name, Members: members}

	case "field", "property":
		typ, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		init, err := d.expr(n.Expr)
		if err != nil {
			return nil, err
		}
		attrs, err := d.attrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		decl.Kind = ast.DeclField
		decl.Data = ast.FieldData{
			Name:      n.Name,
			Static:    n.Static || n.Const,
			Const:     n.Const,
			Property:  n.Kind == "property" || n.Property,
			Accessors: n.Accessors,
			Type:      typ,
			Init:      init,
			Attrs:     attrs,
		}

	case "method":
		params, err := d.params(n.Params)
		if err != nil {
			return nil, err
		}
		result, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		attrs, err := d.attrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		var body *ast.Block
		if !n.Abstract {
			if body, err = d.block(n, n.Body); err != nil {
				return nil, err
			}
		}
		decl.Kind = ast.DeclMethod
		decl.Data = ast.MethodData{
			Name:       n.Name,
			Static:     n.Static,
			Abstract:   n.Abstract,
			Params:     params,
			TypeParams: slices.Clone(n.TypeParams),
			Result:     result,
			Body:       body,
			Attrs:      attrs,
		}

	case "ctor":
		params, err := d.params(n.Params)
		if err != nil {
			return nil, err
		}
		baseArgs, err := d.exprs(n.BaseArgs)
		if err != nil {
			return nil, err
		}
		body, err := d.block(n, n.Body)
		if err != nil {
			return nil, err
		}
		attrs, err := d.attrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		decl.Kind = ast.DeclCtor
		decl.Data = ast.CtorData{
			Static:   n.Static,
			Params:   params,
			Body:     body,
			HasBase:  n.HasBase || len(baseArgs) > 0,
			BaseArgs: baseArgs,
			Attrs:    attrs,
		}

	default:
		return nil, d.errorf(n, diag.UpsBadTree, "unknown declaration kind %q", n.Kind)
	}
	return decl, nil
}

func (d *decoder) classData(n *Node) (ast.ClassData, error) {
	if n.Name == "" {
		return ast.ClassData{}, d.errorf(n, diag.UpsBadTree, "%s without a name", n.Kind)
	}
	base, err := d.typeRef(n.Base)
	if err != nil {
		return ast.ClassData{}, err
	}
	mixins, err := d.typeRefs(n.Mixins)
	if err != nil {
		return ast.ClassData{}, err
	}
	attrs, err := d.attrs(n.Attrs)
	if err != nil {
		return ast.ClassData{}, err
	}
	children, err := d.decls(n.Decls)
	if err != nil {
		return ast.ClassData{}, err
	}
	kind := ast.ClassPlain
	switch n.Kind {
	case "struct":
		kind = ast.ClassStruct
	case "interface":
		kind = ast.ClassInterface
	}
	return ast.ClassData{
		Name:       n.Name,
		Kind:       kind,
		Base:       base,
		Mixins:     mixins,
		TypeParams: slices.Clone(n.TypeParams),
		Attrs:      attrs,
		Decls:      children,
	}, nil
}
