package codegen

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/ast"
	"tide/internal/bound"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/members"
	"tide/internal/scenario"
	"tide/internal/source"
	"tide/internal/testkit"
	"tide/internal/transform"
)

func TestScenarios(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios.md"))
	be.Err(t, err, nil)
	cases, err := scenario.Extract(string(data))
	be.Err(t, err, nil)
	be.True(t, len(cases) > 0)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			runScenario(t, tc)
		})
	}
}

// Same tree, same config: the transformed tree and the text must not change between
// runs, and the first run must not disturb the input tree.
func TestGenerateIsIdempotent(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "scenarios.md"))
	be.Err(t, err, nil)
	cases, err := scenario.Extract(string(data))
	be.Err(t, err, nil)

	for _, tc := range cases {
		if tc.Error != "" {
			continue
		}
		t.Run(tc.Name, func(t *testing.T) {
			doc, err := bound.ParseJSON([]byte(tc.Tree))
			be.Err(t, err, nil)
			unit, err := bound.Decode(doc, source.NewFileSet())
			be.Err(t, err, nil)
			cfg, err := config.Parse(tc.Config, scenarioBase())
			be.Err(t, err, nil)
			table := members.Build([]*ast.File{unit.File})

			run := func() string {
				pipeline, err := transform.NewPipeline(cfg, nil)
				be.Err(t, err, nil)
				pc := &transform.Context{Config: cfg, Symbols: unit.Symbols, Reporter: diag.NopReporter{}}
				f, err := pipeline.Run(context.Background(), pc, unit.File)
				be.Err(t, err, nil)
				out, err := Generate(f, unit.Symbols, table, cfg, diag.NopReporter{})
				be.Err(t, err, nil)
				return out
			}
			first := run()
			second := run()
			if first != second {
				t.Fatalf("line %d: second run differs\n--- first\n%s\n--- second\n%s", tc.Line, first, second)
			}
		})
	}
}

func scenarioBase() *config.Config {
	cfg := config.Default()
	cfg.Runtime.Require = "require(Runtime)"
	return cfg
}

func runScenario(t *testing.T, tc scenario.Case) {
	t.Helper()
	doc, err := bound.ParseJSON([]byte(tc.Tree))
	if err != nil {
		t.Fatalf("line %d: %v", tc.Line, err)
	}
	fs := source.NewFileSet()
	unit, err := bound.Decode(doc, fs)
	if err != nil {
		t.Fatalf("line %d: %v", tc.Line, err)
	}
	if err := testkit.CheckTreeInvariants(unit.File, fs); err != nil {
		t.Fatalf("line %d: %v", tc.Line, err)
	}
	cfg, err := config.Parse(tc.Config, scenarioBase())
	if err != nil {
		t.Fatalf("line %d: config: %v", tc.Line, err)
	}

	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}
	pipeline, err := transform.NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("line %d: pipeline: %v", tc.Line, err)
	}
	pc := &transform.Context{Config: cfg, Symbols: unit.Symbols, Reporter: reporter}
	f, err := pipeline.Run(context.Background(), pc, unit.File)
	var out string
	if err == nil {
		out, err = Generate(f, unit.Symbols, members.Build([]*ast.File{unit.File}), cfg, reporter)
	}

	if tc.Error != "" {
		ce, ok := diag.AsCodegen(err)
		if !ok {
			t.Fatalf("line %d: expected %s, got err=%v\n%s", tc.Line, tc.Error, err, out)
		}
		be.Equal(t, ce.Code.ID(), tc.Error)
		return
	}
	if err != nil {
		t.Fatalf("line %d: %v", tc.Line, err)
	}
	got := strings.TrimRight(out, "\n")
	if got != tc.Lua {
		t.Fatalf("line %d: output mismatch\n--- got\n%s\n--- want\n%s", tc.Line, got, tc.Lua)
	}

	var warnings []string
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			warnings = append(warnings, d.Code.ID())
		}
	}
	slices.Sort(warnings)
	want := slices.Clone(tc.Warnings)
	slices.Sort(want)
	be.Equal(t, len(warnings), len(want))
	for i := range want {
		be.Equal(t, warnings[i], want[i])
	}
}
