package project

import (
	"testing"

	"tide/internal/source"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "Program.cs", want: "Program.cs"},
		{name: "backslashes", in: `Game\Player.cs`, want: "Game/Player.cs"},
		{name: "leading slash", in: "/Game/Player.cs", want: "Game/Player.cs"},
		{name: "dot segments", in: "./Game/./Player.cs", want: "Game/Player.cs"},
		{name: "parent inside", in: "Game/Util/../Player.cs", want: "Game/Player.cs"},
		{name: "escapes root", in: "../Player.cs", wantErr: true},
		{name: "empty segment", in: "Game//Player.cs", wantErr: true},
		{name: "trailing separator", in: "Game/", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "only dot", in: ".", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePath(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFileMeta(t *testing.T) {
	content := Sum([]byte("doc"))
	meta, bad, err := NewFileMeta(`Game\Program.cs`, source.At(0, 1, 1), content, []string{"Util.cs", "../x.cs", "./Game/Player.cs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Path != "Game/Program.cs" {
		t.Fatalf("path = %q", meta.Path)
	}
	if len(meta.Imports) != 2 || meta.Imports[0].Path != "Util.cs" || meta.Imports[1].Path != "Game/Player.cs" {
		t.Fatalf("imports = %+v", meta.Imports)
	}
	if len(bad) != 1 || bad[0] != "../x.cs" {
		t.Fatalf("bad = %v", bad)
	}
	if meta.ContentHash != content || meta.ContentHash.IsZero() {
		t.Fatalf("content hash not kept")
	}
}

func TestCombineOrderMatters(t *testing.T) {
	a, b := Sum([]byte("a")), Sum([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on argument order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine must be deterministic")
	}
	if len(a.Hex()) != 64 {
		t.Fatalf("hex length = %d", len(a.Hex()))
	}
}
