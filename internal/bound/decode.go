package bound

import (
	"fmt"
	"slices"
	"strconv"

	"tide/internal/ast"
	"tide/internal/diag"
	"tide/internal/source"
	"tide/internal/symbols"
)

// Unit is a decoded document.
type Unit struct {
	File        *ast.File
	Symbols     *symbols.Table
	Diagnostics []diag.Diagnostic // forwarded front-end diagnostics
}

// TreeError reports a malformed document.
type TreeError struct {
	Path string
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *TreeError) Error() string {
	if e.Span.Empty() {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Span.Start.Line, e.Span.Start.Col, e.Msg)
}

type decoder struct {
	path string
	file source.FileID
	seen map[ast.NodeID]struct{}
}

// Decode converts doc into the tree model, registering the file in fs.
func Decode(doc *Document, fs *source.FileSet) (*Unit, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if doc.Path == "" {
		return nil, &TreeError{Path: "<unknown>", Code: diag.UpsBadTree, Msg: "document has no path"}
	}
	var content []byte
	if doc.Source != nil {
		content = []byte(*doc.Source)
	}
	d := &decoder{
		path: doc.Path,
		file: fs.Add(doc.Path, content, 0),
		seen: make(map[ast.NodeID]struct{}),
	}

	decls, err := d.decls(doc.Decls)
	if err != nil {
		return nil, err
	}
	unit := &Unit{
		File: &ast.File{
			Path:    doc.Path,
			Source:  d.file,
			Imports: slices.Clone(doc.Imports),
			Usings:  slices.Clone(doc.Usings),
			Decls:   decls,
		},
		Symbols: symbols.NewTable(len(doc.Symbols)),
	}
	if err := d.symbols(doc.Symbols, unit.Symbols); err != nil {
		return nil, err
	}
	for _, dd := range doc.Diagnostics {
		unit.Diagnostics = append(unit.Diagnostics, d.diagnostic(dd))
	}
	return unit, nil
}

func (d *decoder) span(pos []uint32) source.Span {
	switch len(pos) {
	case 0, 1:
		return source.Span{File: d.file}
	case 2, 3:
		return source.At(d.file, pos[0], pos[1])
	default:
		return source.Span{
			File:  d.file,
			Start: source.Pos{Line: pos[0], Col: pos[1]},
			End:   source.Pos{Line: pos[2], Col: pos[3]},
		}
	}
}

func (d *decoder) errorf(n *Node, code diag.Code, format string, args ...any) error {
	var sp source.Span
	if n != nil {
		sp = d.span(n.Pos)
	}
	return &TreeError{Path: d.path, Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) id(n *Node, raw uint32) (ast.NodeID, error) {
	id := ast.NodeID(raw)
	if !id.IsValid() {
		return ast.NoNodeID, nil
	}
	if _, dup := d.seen[id]; dup {
		return 0, d.errorf(n, diag.UpsDuplicateID, "duplicate node id %d", raw)
	}
	d.seen[id] = struct{}{}
	return id, nil
}

func (d *decoder) symbols(in map[string]*SymbolDTO, out *symbols.Table) error {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		raw, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return &TreeError{Path: d.path, Code: diag.UpsBadTree, Msg: fmt.Sprintf("symbol key %q is not a node id", k)}
		}
		s := in[k]
		if s == nil {
			continue
		}
		kind := symbols.ParseKind(s.Kind)
		if kind == symbols.SymbolInvalid {
			return &TreeError{Path: d.path, Code: diag.UpsBadTree, Msg: fmt.Sprintf("symbol %s: unknown kind %q", k, s.Kind)}
		}
		info := symbols.Info{
			Kind:      kind,
			Name:      s.Name,
			Type:      s.Type,
			Static:    s.Static,
			Container: s.Container,
			Namespace: s.Namespace,
			TypeArgs:  slices.Clone(s.TypeArgs),
			DeclFile:  s.DeclFile,
			Origin:    s.Origin,
			Tags:      slices.Clone(s.Tags),
		}
		if err := out.Add(ast.NodeID(raw), info); err != nil {
			return &TreeError{Path: d.path, Code: diag.UpsBadTree, Msg: err.Error()}
		}
	}
	return nil
}

func (d *decoder) diagnostic(in *DiagnosticDTO) diag.Diagnostic {
	sev, ok := diag.ParseSeverity(in.Severity)
	if !ok {
		sev = diag.SevError
	}
	code := diag.UpsBind
	switch {
	case sev == diag.SevInfo:
		code = diag.UpsInfo
	case in.Stage == "parse":
		code = diag.UpsParse
	}
	msg := in.Message
	if in.Code != "" {
		msg = in.Code + ": " + msg
	}
	return diag.New(sev, code, d.span(in.Pos), msg)
}

func (d *decoder) typeRef(t *TypeDTO) (*ast.TypeRef, error) {
	if t == nil {
		return nil, nil
	}
	if t.Name == "" {
		return nil, &TreeError{Path: d.path, Code: diag.UpsBadTree, Span: d.span(t.Pos), Msg: "type reference without a name"}
	}
	id, err := d.id(nil, t.ID)
	if err != nil {
		return nil, err
	}
	ref := &ast.TypeRef{ID: id, Span: d.span(t.Pos), Name: t.Name}
	for _, a := range t.Args {
		arg, err := d.typeRef(a)
		if err != nil {
			return nil, err
		}
		ref.Args = append(ref.Args, arg)
	}
	return ref, nil
}

func (d *decoder) typeRefs(in []*TypeDTO) ([]*ast.TypeRef, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ast.TypeRef, 0, len(in))
	for _, t := range in {
		ref, err := d.typeRef(t)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

func (d *decoder) block(n *Node, stmts []*Node) (*ast.Block, error) {
	out, err := d.stmts(stmts)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*ast.Stmt{}
	}
	var sp source.Span
	if n != nil {
		sp = d.span(n.Pos)
	}
	return &ast.Block{Span: sp, Stmts: out}, nil
}

func (d *decoder) params(in []*Node) ([]*ast.Param, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*ast.Param, 0, len(in))
	for _, n := range in {
		id, err := d.id(n, n.ID)
		if err != nil {
			return nil, err
		}
		typ, err := d.typeRef(n.Type)
		if err != nil {
			return nil, err
		}
		def, err := d.expr(n.Default)
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.Param{ID: id, Span: d.span(n.Pos), Name: n.Name, Type: typ, Default: def, Rest: n.Rest})
	}
	return out, nil
}

func (d *decoder) attrs(in []*Node) ([]ast.Attribute, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]ast.Attribute, 0, len(in))
	for _, n := range in {
		id, err := d.id(n, n.ID)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(n.Args)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Attribute{ID: id, Span: d.span(n.Pos), Name: n.Name, Args: args})
	}
	return out, nil
}
