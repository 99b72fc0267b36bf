package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/naming"
)

// Operator precedence of the output language, higher binds tighter.
const (
	precIf    = 0 // if-expressions and functions extend as far right as possible
	precUnary = 7
	precAtom  = 10
)

var binaryPrec = map[string]int{
	"or":  1,
	"and": 2,
	"<":   3, ">": 3, "<=": 3, ">=": 3, "~=": 3, "==": 3,
	"..": 4,
	"+":  5, "-": 5,
	"*": 6, "/": 6, "//": 6, "%": 6,
	"^": 8,
}

func rightAssoc(op string) bool { return op == ".." || op == "^" }

func (g *generator) expr(e *ast.Expr) string {
	s, _ := g.exprPrec(e)
	return s
}

// operand renders e for a slot that needs at least precedence min.
func (g *generator) operand(e *ast.Expr, min int) string {
	s, p := g.exprPrec(e)
	if p < min {
		return "(" + s + ")"
	}
	return s
}

// prefix renders e where the grammar wants a prefix expression: call and index targets.
func (g *generator) prefix(e *ast.Expr) string {
	if data, ok := e.Data.(ast.CastData); ok {
		return g.prefix(data.Value)
	}
	s, p := g.exprPrec(e)
	switch e.Kind {
	case ast.ExprIdent, ast.ExprMember, ast.ExprCall, ast.ExprIndex, ast.ExprThis, ast.ExprBase, ast.ExprRaw:
		if p == precAtom {
			return s
		}
	}
	return "(" + s + ")"
}

func (g *generator) args(in []*ast.Expr) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, g.expr(a))
	}
	return out
}

func (g *generator) exprPrec(e *ast.Expr) (string, int) {
	if e == nil || g.err != nil {
		return "nil", precAtom
	}
	switch data := e.Data.(type) {
	case ast.LiteralData:
		return g.literal(e, data)
	case ast.IdentData:
		info, ok := g.lookup(e.ID)
		return g.classify(e.Span, data.Name, info, ok, false), precAtom
	case ast.MemberData:
		return g.member(e, data)
	case ast.CallData:
		s := g.call(e, data, "")
		if strings.HasPrefix(s, "if ") {
			return s, precIf
		}
		return s, precAtom
	case ast.NewData:
		return g.newExpr(e, data), precAtom
	case ast.UnaryData:
		return g.unary(e, data)
	case ast.BinaryData:
		return g.binary(e, data)
	case ast.ConditionalData:
		return fmt.Sprintf("if %s then %s else %s",
			g.operand(data.Cond, precIf+1), g.operand(data.Then, precIf+1), g.operand(data.Else, precIf+1)), precIf
	case ast.IndexData:
		return g.index(data), precAtom
	case ast.ArrayData:
		return "{" + strings.Join(g.args(data.Elems), ", ") + "}", precAtom
	case ast.TupleData:
		return "{" + strings.Join(g.args(data.Elems), ", ") + "}", precAtom
	case ast.LambdaData:
		return g.lambda(data), precIf
	case ast.CastData:
		return g.exprPrec(data.Value)
	case ast.IsData:
		return fmt.Sprintf("%s.is(%s, %s)", g.rt, g.expr(data.Value), g.typeRef(data.Type)), precAtom
	case ast.ThisData, ast.BaseData:
		return "self", precAtom
	case ast.RawData:
		return data.Text, precAtom
	}
	g.errorf(diag.GenUnsupported, e.Span, "expression %s", e.Kind)
	return "nil", precAtom
}

func (g *generator) literal(e *ast.Expr, lit ast.LiteralData) (string, int) {
	switch lit.Kind {
	case ast.LitInt, ast.LitFloat:
		v := trimNumber(lit.Value)
		if strings.HasPrefix(v, "-") {
			return v, precUnary
		}
		return v, precAtom
	case ast.LitString, ast.LitChar:
		return quote(lit.Value), precAtom
	case ast.LitBool:
		if lit.Value == "true" {
			return "true", precAtom
		}
		return "false", precAtom
	case ast.LitNull:
		return "nil", precAtom
	}
	g.errorf(diag.GenUndetermined, e.Span, "the value of %q cannot be determined", lit.Kind.String())
	return "nil", precAtom
}

// trimNumber drops the type suffix of a numeric literal (10u, 1.5f, 2m).
func trimNumber(v string) string {
	hex := strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X")
	return strings.TrimRightFunc(v, func(r rune) bool {
		switch r {
		case 'u', 'U', 'l', 'L':
			return true
		case 'f', 'F', 'd', 'D', 'm', 'M':
			return !hex
		}
		return false
	})
}

// parseInt reads an integer literal: decimal or 0x hex, with digit separators.
func parseInt(v string) (int64, error) {
	v = strings.ReplaceAll(trimNumber(v), "_", "")
	if rest, ok := strings.CutPrefix(strings.ToLower(v), "0x"); ok {
		return strconv.ParseInt(rest, 16, 64)
	}
	return strconv.ParseInt(v, 10, 64)
}

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\%03d`, c)
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (g *generator) unary(e *ast.Expr, data ast.UnaryData) (string, int) {
	switch data.Op {
	case "not":
		return "not " + g.operand(data.Operand, precUnary), precUnary
	case "-", "#":
		s := g.operand(data.Operand, precUnary)
		if strings.HasPrefix(s, "-") {
			s = "(" + s + ")"
		}
		return data.Op + s, precUnary
	case "++", "--":
		g.errorf(diag.GenUnsupportedValue, e.Span, "%s cannot be used as a value", data.Op)
	default:
		g.errorf(diag.GenUnsupportedOp, e.Span, "unary operator %s", data.Op)
	}
	return "nil", precAtom
}

func (g *generator) binary(e *ast.Expr, data ast.BinaryData) (string, int) {
	if data.Op == "??" {
		left := g.operand(data.Left, precIf+1)
		return fmt.Sprintf("if %s == nil then %s else %s", left, g.operand(data.Right, precIf+1), left), precIf
	}
	p, ok := binaryPrec[data.Op]
	if !ok {
		g.errorf(diag.GenUnsupportedOp, e.Span, "binary operator %s", data.Op)
		return "nil", precAtom
	}
	lmin, rmin := p, p+1
	if rightAssoc(data.Op) {
		lmin, rmin = p+1, p
	}
	return fmt.Sprintf("%s %s %s", g.operand(data.Left, lmin), data.Op, g.operand(data.Right, rmin)), p
}

// index shifts 0-based element access to 1-based. Literal indices are folded; map-typed
// targets are keyed and left alone.
func (g *generator) index(data ast.IndexData) string {
	target := g.prefix(data.Target)
	if g.isMapTyped(data.Target) {
		return fmt.Sprintf("%s[%s]", target, g.expr(data.Index))
	}
	if lit, ok := data.Index.Data.(ast.LiteralData); ok && lit.Kind == ast.LitInt {
		if n, err := parseInt(lit.Value); err == nil {
			return fmt.Sprintf("%s[%d]", target, n+1)
		}
	}
	return fmt.Sprintf("%s[%s + 1]", target, g.operand(data.Index, binaryPrec["+"]))
}

func (g *generator) isMapTyped(e *ast.Expr) bool {
	if e == nil || len(g.cfg.Codegen.MapTypes) == 0 {
		return false
	}
	info, ok := g.lookup(e.ID)
	return ok && matchesAny(g.cfg.Codegen.MapTypes, info.Type)
}

func (g *generator) newExpr(e *ast.Expr, data ast.NewData) string {
	mapTyped := matchesAny(g.cfg.Codegen.MapTypes, g.typeRefName(data.Type))
	if data.Init != nil {
		return g.tableLiteral(data.Init, mapTyped)
	}
	if mapTyped {
		return "{}"
	}
	if strings.HasSuffix(data.Type.Name, "[]") {
		if len(data.Args) == 1 {
			return fmt.Sprintf("table.create(%s)", g.expr(data.Args[0]))
		}
		return "{}"
	}
	return fmt.Sprintf("%s.new(%s)", g.typeRef(data.Type), strings.Join(g.args(data.Args), ", "))
}

// tableLiteral renders a collection initializer. Map initializers hold key/value pairs.
func (g *generator) tableLiteral(items []*ast.Expr, keyed bool) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if keyed {
			if pair := pairOf(it); pair != nil {
				parts = append(parts, fmt.Sprintf("[%s] = %s", g.expr(pair[0]), g.expr(pair[1])))
				continue
			}
		}
		parts = append(parts, g.expr(it))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func pairOf(e *ast.Expr) []*ast.Expr {
	switch data := e.Data.(type) {
	case ast.TupleData:
		if len(data.Elems) == 2 {
			return data.Elems
		}
	case ast.ArrayData:
		if len(data.Elems) == 2 {
			return data.Elems
		}
	}
	return nil
}

// lambda renders an anonymous function. Block bodies are written through a child writer
// so their lines carry the right indentation inside the enclosing statement.
func (g *generator) lambda(data ast.LambdaData) string {
	var out string
	g.withFunction(g.fn.static, func() {
		params := g.params(data.Params)
		if data.Value != nil && !hasRest(data.Params) {
			out = fmt.Sprintf("function(%s) return %s end", params, g.expr(data.Value))
			return
		}
		saved := g.w
		g.w = saved.child()
		g.restParams(data.Params)
		if data.Value != nil {
			g.w.Line("return " + g.expr(data.Value))
		} else {
			g.stmts(data.Body)
		}
		body := g.w.String()
		g.w = saved
		out = fmt.Sprintf("function(%s)\n%s%send", params, body, saved.Indent())
	})
	return out
}

func hasRest(params []*ast.Param) bool {
	for _, p := range params {
		if p.Rest {
			return true
		}
	}
	return false
}

func (g *generator) member(e *ast.Expr, data ast.MemberData) (string, int) {
	info, ok := g.lookup(e.ID)
	if ok && isTypeLike(info) {
		return g.typeName(qualifiedOf(info), info.DeclFile, e.Span), precAtom
	}
	if svc, ok := g.serviceLocator(data.Target, data.Name); ok {
		return svc, precAtom
	}
	name := naming.Ident(data.Name)
	if _, isBase := data.Target.Data.(ast.BaseData); isBase {
		return "self." + name, precAtom
	}
	target := g.prefix(data.Target)
	if data.NullConditional {
		return fmt.Sprintf("if %s == nil then nil else %s.%s", target, target, name), precIf
	}
	return target + "." + name, precAtom
}
