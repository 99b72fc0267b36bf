package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"tide/internal/ast"
	"tide/internal/bound"
	"tide/internal/codegen"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/members"
	"tide/internal/observ"
	"tide/internal/project"
	"tide/internal/project/dag"
	"tide/internal/source"
	"tide/internal/symbols"
	"tide/internal/trace"
	"tide/internal/transform"
)

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	Config         *config.Config
	Inputs         []string // bound-tree files, see bound.Collect
	BaseDir        string
	Jobs           int // 0 = GOMAXPROCS
	MaxDiagnostics int
	Progress       ProgressSink
	Cache          *DiskCache          // nil disables the output cache
	Timer          *observ.Timer       // nil disables --timings collection
	Registry       *transform.Registry // nil = transform.DefaultRegistry
}

// Output is the generated text of one file.
type Output struct {
	Input  string // tree file as given
	Name   string // progress display name of Input
	Path   string // source path recorded in the tree, e.g. "Game/Player.cs"
	Text   string
	Cached bool
}

// CompileResult captures compilation artefacts and stage timings.
type CompileResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Members *members.Table
	Order   []string // source paths in generation order
	Outputs []Output // generation order; failed files have no entry
	Failed  []string // source paths (or tree files that did not decode) without output
	Timings Timings
}

type unitState struct {
	input  string
	name   string // display name for progress
	unit   *bound.Unit
	digest project.Digest
	failed bool
}

type fileResult struct {
	out       Output
	ok        bool
	bag       *diag.Bag
	transform time.Duration
	generate  time.Duration
}

// Compile loads every input, builds the member table, then transforms and generates the
// files in import order. Per-file problems land in the result bag and only fail that
// file; the returned error is reserved for configuration problems and cancellation.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if req.Config == nil {
		return result, fmt.Errorf("missing configuration")
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "build")
	defer span.End("")

	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 1 << 12
	}
	result.FileSet = source.NewFileSetWithBase(req.BaseDir)
	result.Bag = diag.NewBag(maxDiag)
	reporter := diag.BagReporter{Bag: result.Bag}

	names := displayNames(req.Inputs, req.BaseDir)
	emitQueued(req.Progress, names)

	// load
	loadStart := time.Now()
	phase := req.Timer.Begin("load")
	units := make([]*unitState, 0, len(req.Inputs))
	for i, in := range req.Inputs {
		st := &unitState{input: in, name: names[i]}
		units = append(units, st)
		emitFile(req.Progress, st.name, StageLoad, StatusWorking, nil, 0)
		if err := loadUnit(st, result.FileSet, reporter); err != nil {
			st.failed = true
			emitFile(req.Progress, st.name, StageLoad, StatusError, err, 0)
			continue
		}
		emitFile(req.Progress, st.name, StageLoad, StatusDone, nil, 0)
	}
	req.Timer.End(phase, fmt.Sprintf("%d files", len(units)))
	result.Timings.Set(StageLoad, time.Since(loadStart))
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// members + order
	membersStart := time.Now()
	phase = req.Timer.Begin("members")
	_, mspan := trace.Start(ctx, trace.ScopeDriver, "members")
	oracle := mergeSymbols(units, reporter)
	files := make([]*ast.File, 0, len(units))
	for _, st := range units {
		if st.unit != nil {
			files = append(files, st.unit.File)
		}
	}
	result.Members = members.Build(files)
	if err := ValidateEntry(req.Config, result.Members); err != nil {
		mspan.Fail(err)
		req.Timer.End(phase, "")
		emitStage(req.Progress, names, StageMembers, StatusError, err, 0)
		return result, err
	}
	work := orderUnits(units, reporter)
	for _, st := range work {
		result.Order = append(result.Order, st.unit.File.Path)
	}
	mspan.End("")
	req.Timer.End(phase, "")
	result.Timings.Set(StageMembers, time.Since(membersStart))

	pipeline, err := transform.NewPipeline(req.Config, req.Registry)
	if err != nil {
		emitStage(req.Progress, names, StageTransform, StatusError, err, 0)
		return result, err
	}

	// transform + generate
	g := &fileGenerator{
		req:       req,
		pipeline:  pipeline,
		oracle:    oracle,
		members:   result.Members,
		cfgDigest: req.Config.Digest(),
		memDigest: result.Members.Digest(),
		sink:      &LockedSink{Next: req.Progress},
		maxDiag:   maxDiag,
	}
	genStart := time.Now()
	phase = req.Timer.Begin("generate")
	results, err := g.run(ctx, work)
	req.Timer.End(phase, fmt.Sprintf("%d files", len(work)))
	result.Timings.Set(StageGenerate, time.Since(genStart))
	if err != nil {
		return result, err
	}

	failed := make(map[string]bool)
	for _, st := range units {
		if st.failed {
			failed[st.input] = true
		}
	}
	for i, r := range results {
		result.Bag.Merge(r.bag)
		result.Timings.Add(StageTransform, r.transform)
		if !r.ok {
			failed[work[i].input] = true
			continue
		}
		result.Outputs = append(result.Outputs, r.out)
	}
	for _, st := range units {
		if !failed[st.input] {
			continue
		}
		if st.unit != nil {
			result.Failed = append(result.Failed, st.unit.File.Path)
		} else {
			result.Failed = append(result.Failed, st.input)
		}
	}
	// фронтенд может прислать одну и ту же диагностику несколько раз
	result.Bag.Dedup()
	return result, nil
}

func loadUnit(st *unitState, fs *source.FileSet, reporter diag.Reporter) error {
	doc, err := bound.ReadFile(st.input)
	if err != nil {
		reporter.Report(diag.IOLoadFileError, diag.SevError, source.Span{}, fmt.Sprintf("failed to load %s: %v", st.input, err), nil)
		return err
	}
	if raw, encErr := bound.EncodeMsgpack(doc); encErr == nil {
		st.digest = project.Sum(raw)
	}
	unit, err := bound.Decode(doc, fs)
	if err != nil {
		var te *bound.TreeError
		if errors.As(err, &te) {
			reporter.Report(te.Code, diag.SevError, te.Span, te.Error(), nil)
		} else {
			reporter.Report(diag.UpsBadTree, diag.SevError, source.Span{}, fmt.Sprintf("%s: %v", st.input, err), nil)
		}
		return err
	}
	st.unit = unit
	var upstreamErr error
	for _, d := range unit.Diagnostics {
		reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		if d.Severity == diag.SevError && upstreamErr == nil {
			upstreamErr = fmt.Errorf("%s: front end reported errors", doc.Path)
		}
	}
	return upstreamErr
}

// mergeSymbols builds the whole-program oracle. A file whose node IDs collide with an
// earlier file fails: its bindings would be ambiguous.
func mergeSymbols(units []*unitState, reporter diag.Reporter) *symbols.Table {
	hint := 0
	for _, st := range units {
		if st.unit != nil {
			hint += st.unit.Symbols.Len()
		}
	}
	table := symbols.NewTable(hint)
	for _, st := range units {
		if st.unit == nil {
			continue
		}
		dup := table.Merge(st.unit.Symbols)
		if len(dup) == 0 {
			continue
		}
		st.failed = true
		reporter.Report(diag.UpsDuplicateID, diag.SevError, source.Span{File: st.unit.File.Source},
			fmt.Sprintf("%s: %d node ids already used by another file (first %d)", st.unit.File.Path, len(dup), dup[0]), nil)
	}
	return table
}

// orderUnits returns the decoded, non-failed units with dependencies first.
func orderUnits(units []*unitState, reporter diag.Reporter) []*unitState {
	byPath := make(map[string]*unitState, len(units))
	metas := make([]project.FileMeta, 0, len(units))
	for _, st := range units {
		if st.unit == nil {
			continue
		}
		f := st.unit.File
		meta, _, err := project.NewFileMeta(f.Path, source.Span{File: f.Source}, st.digest, f.Imports)
		if err != nil {
			// путь, который не нормализуется, всё равно генерируем, но без графа
			meta = project.FileMeta{Path: f.Path, Span: source.Span{File: f.Source}, ContentHash: st.digest}
		}
		if _, dup := byPath[meta.Path]; dup {
			st.failed = true
		} else {
			byPath[meta.Path] = st
		}
		metas = append(metas, meta)
	}
	order, _ := dag.Order(metas, func(string) diag.Reporter { return reporter })

	out := make([]*unitState, 0, len(order))
	for _, path := range order {
		st, ok := byPath[path]
		if !ok || st.failed {
			continue
		}
		out = append(out, st)
	}
	return out
}

type fileGenerator struct {
	req       *CompileRequest
	pipeline  *transform.Pipeline
	oracle    symbols.Oracle
	members   *members.Table
	cfgDigest project.Digest
	memDigest project.Digest
	sink      ProgressSink
	maxDiag   int
}

func (g *fileGenerator) run(ctx context.Context, work []*unitState) ([]fileResult, error) {
	results := make([]fileResult, len(work))
	if len(work) == 0 {
		return results, nil
	}
	jobs := g.req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(jobs, len(work)))
	for i, st := range work {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = g.one(gctx, st)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (g *fileGenerator) one(ctx context.Context, st *unitState) fileResult {
	f := st.unit.File
	ctx, span := trace.StartFile(ctx, f.Path)
	res := fileResult{bag: diag.NewBag(g.maxDiag), out: Output{Input: st.input, Name: st.name, Path: f.Path}}
	reporter := diag.BagReporter{Bag: res.bag}

	var key project.Digest
	if g.req.Cache != nil && !st.digest.IsZero() {
		key = project.Combine(st.digest, g.cfgDigest, g.memDigest)
		var payload OutputPayload
		hit, err := g.req.Cache.Get(key, &payload)
		if err != nil {
			reporter.Report(diag.IOCacheError, diag.SevWarning, source.Span{File: f.Source}, err.Error(), nil)
		}
		if hit {
			for _, d := range fromCached(payload.Diagnostics, f.Source) {
				res.bag.Add(d)
			}
			res.out.Text = payload.Text
			res.out.Cached = true
			res.ok = true
			emitCached(g.sink, st.name)
			span.End("cached")
			return res
		}
	}

	emitFile(g.sink, st.name, StageTransform, StatusWorking, nil, 0)
	start := time.Now()
	pc := &transform.Context{Config: g.req.Config, Symbols: g.oracle, Reporter: reporter}
	tf, err := g.pipeline.Run(ctx, pc, f)
	res.transform = time.Since(start)
	g.req.Timer.Add("transform", res.transform)
	if err != nil {
		emitFile(g.sink, st.name, StageTransform, StatusError, err, res.transform)
		span.Fail(err)
		return res
	}

	emitFile(g.sink, st.name, StageGenerate, StatusWorking, nil, 0)
	_, gspan := trace.Start(ctx, trace.ScopePass, "generate")
	start = time.Now()
	text, err := codegen.Generate(tf, g.oracle, g.members, g.req.Config, reporter)
	res.generate = time.Since(start)
	g.req.Timer.Add("codegen", res.generate)
	if err != nil {
		gspan.Fail(err)
		diag.ReportErr(reporter, source.Span{File: f.Source}, err)
		emitFile(g.sink, st.name, StageGenerate, StatusError, err, res.generate)
		span.Fail(err)
		return res
	}
	gspan.End("")
	res.out.Text = text
	res.ok = true

	if !key.IsZero() {
		payload := &OutputPayload{Path: f.Path, Text: text, Diagnostics: toCached(res.bag.Items())}
		if err := g.req.Cache.Put(key, payload); err != nil {
			reporter.Report(diag.IOCacheError, diag.SevWarning, source.Span{File: f.Source}, fmt.Sprintf("cache write: %v", err), nil)
		}
	}
	emitFile(g.sink, st.name, StageGenerate, StatusDone, nil, res.transform+res.generate)
	span.End("")
	return res
}
