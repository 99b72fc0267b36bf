package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/diag"
)

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"Program.cs":         "Program.lua",
		"Game/Player.cs":     "Game/Player.lua",
		`Game\Enemy.cs`:      "Game/Enemy.lua",
		"./Game/../Util.cs":  "Util.lua",
		"../outside/Evil.cs": "Evil.lua",
		"NoExt":              "NoExt.lua",
	}
	for in, want := range tests {
		be.Equal(t, OutputPath("out", in), filepath.Join("out", filepath.FromSlash(want)))
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	outputs := []Output{
		{Name: "Program.tree.json", Path: "Program.cs", Text: "local CS = a\n"},
		{Name: "Player.tree.json", Path: "Game/Player.cs", Text: "local CS = b\n"},
	}
	sink := &recordingSink{}
	bag := diag.NewBag(4)
	n, err := WriteOutputs(context.Background(), dir, outputs, sink, diag.BagReporter{Bag: bag})
	be.Err(t, err, nil)
	be.Equal(t, n, 2)
	be.Equal(t, bag.Len(), 0)

	data, err := os.ReadFile(filepath.Join(dir, "Game", "Player.lua"))
	be.Err(t, err, nil)
	be.Equal(t, string(data), "local CS = b\n")
	be.True(t, sink.has("Player.tree.json", StageWrite, StatusDone))

	// перезапись существующего файла
	outputs[0].Text = "local CS = c\n"
	_, err = WriteOutputs(context.Background(), dir, outputs[:1], nil, nil)
	be.Err(t, err, nil)
	data, err = os.ReadFile(filepath.Join(dir, "Program.lua"))
	be.Err(t, err, nil)
	be.Equal(t, string(data), "local CS = c\n")
}

func TestWriteOutputsReportsFailures(t *testing.T) {
	dir := t.TempDir()
	// файл на месте каталога
	be.Err(t, os.WriteFile(filepath.Join(dir, "Game"), []byte("x"), 0o644), nil)
	bag := diag.NewBag(4)
	n, err := WriteOutputs(context.Background(), dir, []Output{
		{Path: "Game/Player.cs", Text: "a"},
		{Path: "Util.cs", Text: "b"},
	}, nil, diag.BagReporter{Bag: bag})
	be.Err(t, err, nil)
	be.Equal(t, n, 1)
	be.Equal(t, bag.Len(), 1)
	be.Equal(t, bag.Items()[0].Code, diag.IOWriteFileError)
}

func TestDisplayNames(t *testing.T) {
	base := t.TempDir()
	names := displayNames([]string{filepath.Join(base, "a", "x.tree.json"), "/elsewhere/y.tree.json"}, base)
	be.Equal(t, names[0], "a/x.tree.json")
	be.Equal(t, names[1], "/elsewhere/y.tree.json")
}
