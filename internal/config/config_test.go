package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"tide/internal/diag"
)

const sampleManifest = `
[project]
name = "game"
sources = ["trees"]

[pipeline]
passes = ["debug-location"]
indent = 2

[entry]
class = "Game.Program"

[runtime]
namespace = "Roblox"

[codegen]
no_full_qualification = ["Roblox"]

[debug]
console = ['^System\.Console\.Write(Line)?$']

[attributes]
"Roblox.NativeAttribute" = "@native"
`

func writeManifest(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeManifest(t, sampleManifest))
	be.Err(t, err, nil)

	be.Equal(t, cfg.Project.Name, "game")
	be.Equal(t, cfg.Project.Sources, []string{"trees"})
	be.Equal(t, cfg.Project.Out, "out")
	be.Equal(t, cfg.Pipeline.Passes, []string{"debug-location"})
	be.Equal(t, cfg.Pipeline.Indent, 2)
	be.Equal(t, cfg.Entry.Class, "Game.Program")
	be.Equal(t, cfg.Entry.Method, "Main")
	be.Equal(t, cfg.Runtime.Name, "CS")
	be.Equal(t, cfg.Runtime.Namespace, "Roblox")
	be.Equal(t, cfg.Attributes["Roblox.NativeAttribute"], "@native")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diag.Code
	}{
		{"missing project", "[pipeline]\nindent = 4\n", diag.CfgMissingField},
		{"missing name", "[project]\nout = \"x\"\n", diag.CfgMissingField},
		{"empty runtime name", "[project]\nname = \"a\"\n[runtime]\nname = \"\"\n", diag.CfgMissingField},
		{"bad indent", "[project]\nname = \"a\"\n[pipeline]\nindent = 0\n", diag.CfgBadIndentWidth},
		{"bad pattern", "[project]\nname = \"a\"\n[debug]\nseverity = ['[unclosed']\n", diag.CfgBadPattern},
		{"unknown key", "[project]\nname = \"a\"\nbogus = 1\n", diag.CfgInvalid},
		{"syntax", "[project\n", diag.CfgInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.text)
			_, err := Load(path)
			ce, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *config.Error, got %v", err)
			}
			be.Equal(t, ce.Code, tt.code)
			be.Equal(t, ce.Path, path)
		})
	}
}

func TestParseFragmentAndOverrides(t *testing.T) {
	cfg, err := Parse("[entry]\nclass = \"App\"\n", nil)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Entry.Class, "App")
	be.Equal(t, cfg.Pipeline.Indent, 4)

	out, err := cfg.Apply(Overrides{Passes: []string{}, Indent: 8, Entry: "Game.Boot:Start"})
	be.Err(t, err, nil)
	be.Equal(t, len(out.Pipeline.Passes), 0)
	be.Equal(t, out.Pipeline.Indent, 8)
	be.Equal(t, out.Entry, EntryConfig{Class: "Game.Boot", Method: "Start"})
	be.Equal(t, cfg.Pipeline.Indent, 4)

	_, err = cfg.Apply(Overrides{Indent: 99})
	ce, ok := AsError(err)
	be.True(t, ok)
	be.Equal(t, ce.Code, diag.CfgBadIndentWidth)
}

func TestDigestTracksContent(t *testing.T) {
	a := Default()
	a.Project.Name = "a"
	b := a.Clone()
	be.Equal(t, a.Digest(), b.Digest())
	b.Pipeline.Indent = 2
	be.True(t, a.Digest() != b.Digest())
}
