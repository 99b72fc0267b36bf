package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/diag"
	"tide/internal/source"
)

func span(file source.FileID, line, startCol, endCol uint32) source.Span {
	return source.Span{
		File:  file,
		Start: source.Pos{Line: line, Col: startCol},
		End:   source.Pos{Line: line, Col: endCol},
	}
}

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("class A {\n\tvoid M() { x = 1; }\n}\n")
	id := fs.AddVirtual("/home/user/project/src/Program.cs", content)

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.GenUnsupported, span(id, 2, 13, 17), "assignment to x is not supported")
	d.Notes = append(d.Notes, diag.Note{Span: span(id, 1, 7, 7), Msg: "declared here"})
	bag.Add(d)
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/Program.cs:2:13: "},
		{name: "Relative path", mode: PathModeRelative, contains: "\nsrc/Program.cs:2:13: "},
		{name: "Basename only", mode: PathModeBasename, contains: "\nProgram.cs:2:13: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			out := "\n" + buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("output does not contain %q:\n%s", tt.contains, out)
			}
		})
	}
}

func TestPrettySnippetAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true})

	want := strings.Join([]string{
		"src/Program.cs:2:13: ERROR GEN3001: assignment to x is not supported",
		" 2 |     void M() { x = 1; }",
		"   | " + strings.Repeat(" ", 15) + "^~~~~",
		"  src/Program.cs:1:7: note: declared here",
		"",
	}, "\n")
	be.Equal(t, buf.String(), want)
}

func TestPrettyContextAndWidth(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 3, Width: 10})
	out := buf.String()

	be.True(t, strings.Contains(out, " 1 | class A {"))
	be.True(t, strings.Contains(out, "GEN3001: assign"))
	be.True(t, strings.Contains(out, "…"))
	be.True(t, !strings.Contains(out, "supported"))
	be.True(t, !strings.Contains(out, "note:"))
}

func TestPrettyWithoutText(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("Game/Player.cs", nil, 0)
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.GenUnimportedRef, span(id, 4, 2, 8), "Enemy is not imported"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative})
	be.Equal(t, buf.String(), "Game/Player.cs:4:2: WARNING GEN3004: Enemy is not imported\n")
}

func TestUnderlineWideRunes(t *testing.T) {
	lead, width := underline("s = \"世界\";", span(0, 1, 5, 8))
	be.Equal(t, lead, 4)
	be.Equal(t, width, 6)

	lead, width = underline("x", source.Span{Start: source.Pos{Line: 1, Col: 9}, End: source.Pos{Line: 1, Col: 9}})
	be.Equal(t, lead, 1)
	be.Equal(t, width, 1)
}

func TestSummary(t *testing.T) {
	bag, _ := sampleBag(t)
	bag.Add(diag.New(diag.SevWarning, diag.ProjMissingFile, source.Span{}, "a"))
	bag.Add(diag.New(diag.SevWarning, diag.ProjMissingFile, source.Span{}, "b"))

	var buf bytes.Buffer
	Summary(&buf, bag, false)
	be.Equal(t, buf.String(), "1 error, 2 warnings\n")

	buf.Reset()
	Summary(&buf, diag.NewBag(1), false)
	be.Equal(t, buf.Len(), 0)
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative, IncludeNotes: true})
	be.Err(t, err, nil)

	var out DiagnosticsOutput
	be.Err(t, json.Unmarshal(buf.Bytes(), &out), nil)
	be.Equal(t, out.Count, 1)
	d := out.Diagnostics[0]
	be.Equal(t, d.Code, "GEN3001")
	be.Equal(t, d.Severity, "ERROR")
	be.Equal(t, d.Location.File, "src/Program.cs")
	be.Equal(t, d.Location.StartLine, uint32(2))
	be.Equal(t, d.Location.EndCol, uint32(17))
	be.Equal(t, len(d.Notes), 1)
}

func TestJSONMaxAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.New(diag.SevWarning, diag.ProjMissingFile, source.Span{}, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	be.Equal(t, out.Count, 1)
	be.Equal(t, len(out.Diagnostics[0].Notes), 0)
	be.Equal(t, out.Diagnostics[0].Location.StartLine, uint32(0))
}

func TestParsePathMode(t *testing.T) {
	m, ok := ParsePathMode("rel")
	be.True(t, ok)
	be.Equal(t, m, PathModeRelative)
	_, ok = ParsePathMode("weird")
	be.True(t, !ok)
}
