package diag

import (
	"testing"

	"tide/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	userFile := fs.Add("/workspace/trees/Program.cs", nil, 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     GenMissingTypeArg,
			Message:  "first line\nsecond",
			Primary:  source.At(userFile, 1, 1),
			Notes: []Note{
				{Span: source.At(userFile, 2, 1), Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     GenUnimportedRef,
			Message:  "another",
			Primary:  source.At(userFile, 2, 1),
		},
	}

	expected := "error GEN3003 trees/Program.cs:1:1 first line second\n" +
		"note GEN3003 trees/Program.cs:2:1 note line\n" +
		"warning GEN3004 trees/Program.cs:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagSortDedupAndLimit(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}
	r.Report(GenUnsupported, SevError, source.At(0, 5, 1), "b", nil)
	r.Report(GenUnimportedRef, SevWarning, source.At(0, 2, 1), "a", nil)
	r.Report(GenUnimportedRef, SevWarning, source.At(0, 2, 1), "a", nil)
	r.Report(GenUnsupported, SevError, source.At(0, 9, 1), "dropped", nil)

	if bag.Len() != 3 {
		t.Fatalf("expected limit of 3, got %d", bag.Len())
	}
	bag.Dedup()
	bag.Sort()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Message != "a" || items[1].Message != "b" {
		t.Fatalf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestReportErrKeepsCodegenCode(t *testing.T) {
	bag := NewBag(10)
	span := source.At(1, 3, 4)
	ReportErr(BagReporter{Bag: bag}, source.Span{}, Codegenf(GenUndetermined, span, "literal %q", "default"))
	got := bag.Items()
	if len(got) != 1 || got[0].Code != GenUndetermined || got[0].Primary != span {
		t.Fatalf("unexpected diagnostics: %+v", got)
	}
}

func TestDedupReporterKeepsDistinctSpans(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	a := source.At(1, 2, 3)
	b := source.At(1, 4, 3)
	for range 3 {
		ReportWarning(r, GenUnimportedRef, a, "Enemy is not imported").
			WithNote(a, `add "Enemy.cs" to the file's imports`).
			Emit()
	}
	ReportWarning(r, GenUnimportedRef, b, "Enemy is not imported").Emit()

	got := bag.Items()
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(got))
	}
	if len(got[0].Notes) != 1 || got[1].Notes != nil {
		t.Fatalf("unexpected notes: %+v", got)
	}
}
