package transform

import (
	"slices"

	"tide/internal/ast"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/symbols"
)

// normalize is the baseline pass: default parameters, operator mapping, attributes.
type normalize struct {
	attributes map[string]string
}

func newNormalize(cfg *config.Config) (Pass, error) {
	return &normalize{attributes: cfg.Attributes}, nil
}

func (*normalize) Name() string { return Baseline }

var logicalOps = map[string]string{
	"&&": "and",
	"||": "or",
	"!=": "~=",
}

// bitwise operators on integers become bit32 calls
var bitwiseOps = map[string]string{
	"&":   "bit32.band",
	"|":   "bit32.bor",
	"^":   "bit32.bxor",
	"<<":  "bit32.lshift",
	">>":  "bit32.arshift",
	">>>": "bit32.rshift",
}

// on booleans &, | and ^ are non-short-circuit logic
var boolBitwiseOps = map[string]string{
	"&": "and",
	"|": "or",
	"^": "~=",
}

func (n *normalize) Run(ctx *Context, f *ast.File) (*ast.File, error) {
	r := &ast.Rewriter{
		Decl: func(d *ast.Decl) (*ast.Decl, error) { return n.decl(ctx, d) },
		Stmt: func(s *ast.Stmt) ([]*ast.Stmt, error) { return n.stmt(ctx, s) },
		Expr: func(e *ast.Expr) (*ast.Expr, error) { return n.expr(ctx, e) },
	}
	out, err := r.File(f)
	if err != nil {
		return nil, err
	}
	if err := checkValueIncrements(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (n *normalize) decl(ctx *Context, d *ast.Decl) (*ast.Decl, error) {
	switch data := d.Data.(type) {
	case ast.ClassData:
		data.Directives = n.directives(ctx, data.Directives, data.Attrs)
		data.Attrs = nil
		d.Data = data
	case ast.FieldData:
		data.Attrs = nil
		d.Data = data
	case ast.MethodData:
		data.Directives = n.directives(ctx, data.Directives, data.Attrs)
		data.Attrs = nil
		if data.Body != nil {
			data.Body = defaultParams(data.Params, data.Body)
		}
		data.Params = dropDefaults(data.Params)
		d.Data = data
	case ast.CtorData:
		data.Directives = n.directives(ctx, data.Directives, data.Attrs)
		data.Attrs = nil
		data.Body = defaultParams(data.Params, data.Body)
		data.Params = dropDefaults(data.Params)
		d.Data = data
	}
	return d, nil
}

// directives maps configured attributes to output directives; other attributes are dropped.
func (n *normalize) directives(ctx *Context, have []string, attrs []ast.Attribute) []string {
	out := have
	for _, a := range attrs {
		directive, ok := n.attributes[a.Name]
		if !ok {
			if info, found := ctx.lookup(a.ID); found {
				directive, ok = n.attributes[info.Origin]
				if !ok {
					directive, ok = n.attributes[info.Qualified()]
				}
			}
		}
		if ok && !slices.Contains(out, directive) {
			out = append(out, directive)
		}
	}
	return out
}

// defaultParams prepends "if p == nil then p = default end" for every defaulted parameter.
func defaultParams(params []*ast.Param, body *ast.Block) *ast.Block {
	var pre []*ast.Stmt
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		sp := p.Span
		cond := ast.NewBinary(sp, "==", ast.NewIdent(sp, p.Name), ast.NewNull(sp))
		pre = append(pre, ast.NewIf(sp, cond, ast.NewAssign(sp, "=", ast.NewIdent(sp, p.Name), p.Default)))
	}
	if len(pre) == 0 {
		return body
	}
	if body == nil {
		body = &ast.Block{}
	}
	return &ast.Block{Span: body.Span, Stmts: append(pre, body.Stmts...)}
}

func dropDefaults(params []*ast.Param) []*ast.Param {
	for _, p := range params {
		// params were copied by the rewriter
		p.Default = nil
	}
	return params
}

func (n *normalize) stmt(ctx *Context, s *ast.Stmt) ([]*ast.Stmt, error) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		// x++ / x-- as a statement
		if u, ok := data.Expr.Data.(ast.UnaryData); ok && (u.Op == "++" || u.Op == "--") {
			op := "+="
			if u.Op == "--" {
				op = "-="
			}
			as := ast.NewAssign(s.Span, op, u.Operand, ast.NewInt(s.Span, "1"))
			as.ID = s.ID
			return []*ast.Stmt{as}, nil
		}
	case ast.AssignData:
		mapped, err := n.assign(ctx, s, data)
		if err != nil {
			return nil, err
		}
		s.Data = mapped
	}
	return []*ast.Stmt{s}, nil
}

func (n *normalize) assign(ctx *Context, s *ast.Stmt, data ast.AssignData) (ast.AssignData, error) {
	switch data.Op {
	case "=", "-=", "*=", "/=", "%=", "..=":
		return data, nil
	case "+=":
		if isString(ctx, data.Target) || isString(ctx, data.Value) {
			data.Op = "..="
		}
		return data, nil
	case "??=":
		return data, diag.Codegenf(diag.GenUnsupportedOp, s.Span, "operator ??= cannot be lowered")
	}
	bin := data.Op[:len(data.Op)-1]
	if logical, ok := boolBitwiseOps[bin]; ok && (isBool(ctx, data.Target) || isBool(ctx, data.Value)) {
		data.Value = ast.NewBinary(s.Span, logical, data.Target, data.Value)
		data.Op = "="
		return data, nil
	}
	if fn, ok := bitwiseOps[bin]; ok {
		data.Value = ast.NewCall(ast.NoNodeID, s.Span, ast.NewRaw(s.Span, fn), data.Target, data.Value)
		data.Op = "="
		return data, nil
	}
	return data, diag.Codegenf(diag.GenUnsupportedOp, s.Span, "assignment operator %s cannot be lowered", data.Op)
}

func (n *normalize) expr(ctx *Context, e *ast.Expr) (*ast.Expr, error) {
	switch data := e.Data.(type) {
	case ast.BinaryData:
		return n.binary(ctx, e, data)
	case ast.UnaryData:
		switch data.Op {
		case "!":
			data.Op = "not"
		case "~":
			return ast.NewCall(e.ID, e.Span, ast.NewRaw(e.Span, "bit32.bnot"), data.Operand), nil
		case "+":
			return data.Operand, nil
		}
		e.Data = data
	case ast.LambdaData:
		if data.Value != nil && hasDefaults(data.Params) {
			ret := &ast.Stmt{Kind: ast.StmtReturn, Span: data.Value.Span, Data: ast.ReturnData{Value: data.Value}}
			data.Body = &ast.Block{Span: e.Span, Stmts: []*ast.Stmt{ret}}
			data.Value = nil
		}
		if data.Body != nil {
			data.Body = defaultParams(data.Params, data.Body)
		}
		data.Params = dropDefaults(data.Params)
		e.Data = data
	}
	return e, nil
}

func (n *normalize) binary(ctx *Context, e *ast.Expr, data ast.BinaryData) (*ast.Expr, error) {
	if op, ok := logicalOps[data.Op]; ok {
		data.Op = op
		e.Data = data
		return e, nil
	}
	switch data.Op {
	case "+":
		if isString(ctx, e) || isString(ctx, data.Left) || isString(ctx, data.Right) {
			data.Op = ".."
			e.Data = data
		}
		return e, nil
	}
	if logical, ok := boolBitwiseOps[data.Op]; ok && (isBool(ctx, data.Left) || isBool(ctx, data.Right)) {
		data.Op = logical
		e.Data = data
		return e, nil
	}
	if fn, ok := bitwiseOps[data.Op]; ok {
		return ast.NewCall(e.ID, e.Span, ast.NewRaw(e.Span, fn), data.Left, data.Right), nil
	}
	return e, nil
}

func hasDefaults(params []*ast.Param) bool {
	for _, p := range params {
		if p.Default != nil {
			return true
		}
	}
	return false
}

var stringTypes = []string{"System.String", "string", "System.Char", "char"}

func isString(ctx *Context, e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch data := e.Data.(type) {
	case ast.LiteralData:
		return data.Kind == ast.LitString || data.Kind == ast.LitChar
	case ast.BinaryData:
		if data.Op == ".." {
			return true
		}
	}
	info, ok := ctx.lookup(e.ID)
	return ok && slices.Contains(stringTypes, valueType(info))
}

func isBool(ctx *Context, e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch data := e.Data.(type) {
	case ast.LiteralData:
		return data.Kind == ast.LitBool
	case ast.BinaryData:
		switch data.Op {
		case "and", "or", "==", "~=", "<", ">", "<=", ">=":
			return true
		}
	case ast.UnaryData:
		return data.Op == "not"
	}
	info, ok := ctx.lookup(e.ID)
	if !ok {
		return false
	}
	t := valueType(info)
	return t == "System.Boolean" || t == "bool"
}

// valueType is the type of the value an expression produces.
func valueType(info symbols.Info) string {
	return info.Type
}

// checkValueIncrements rejects ++/-- left in value position after statement lowering.
func checkValueIncrements(f *ast.File) error {
	var err error
	ast.Inspect(f, func(n any) bool {
		if err != nil {
			return false
		}
		if e, ok := n.(*ast.Expr); ok {
			if u, ok := e.Data.(ast.UnaryData); ok && (u.Op == "++" || u.Op == "--") {
				err = diag.Codegenf(diag.GenUnsupportedValue, e.Span, "%s cannot be used as a value", u.Op)
				return false
			}
		}
		return true
	})
	return err
}
