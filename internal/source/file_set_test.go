package source

import "testing"

func TestFileSetPathsAndLines(t *testing.T) {
	fs := NewFileSetWithBase("/work")

	id := fs.Add("src/Game/Program.cs", []byte("class A {}\r\nclass B {}\n"), 0)
	if id != 0 {
		t.Fatalf("expected first FileID to be 0, got %d", id)
	}
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected CRLF normalization flag")
	}
	if got := f.GetLine(2); got != "class B {}" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
	if _, ok := fs.GetByPath("src/Game/../Game/Program.cs"); !ok {
		t.Errorf("expected cleaned path lookup to succeed")
	}
}

func TestFileSetWithoutText(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("Other.cs", nil, 0)
	f := fs.Get(id)
	if f.HasText() {
		t.Fatalf("expected file without text")
	}
	if got := f.GetLine(1); got != "" {
		t.Errorf("GetLine on textless file = %q", got)
	}
	if fs.Get(FileID(7)) != nil {
		t.Errorf("expected nil for unknown id")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: Pos{Line: 2, Col: 5}, End: Pos{Line: 2, Col: 9}}
	b := Span{File: 1, Start: Pos{Line: 1, Col: 3}, End: Pos{Line: 3, Col: 1}}
	got := a.Cover(b)
	if got.Start != b.Start || got.End != b.End {
		t.Fatalf("Cover = %v", got)
	}
	if other := a.Cover(Span{File: 2, Start: Pos{Line: 1, Col: 1}}); other != a {
		t.Fatalf("cover across files changed span: %v", other)
	}
}
