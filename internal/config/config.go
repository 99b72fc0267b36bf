// Package config loads and validates the pipeline configuration (tide.toml).
package config

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/BurntSushi/toml"

	"tide/internal/diag"
	"tide/internal/project"
)

// FileName is the manifest looked up by the CLI.
const FileName = "tide.toml"

// Config is the full pipeline configuration.
type Config struct {
	Project    ProjectConfig     `toml:"project"`
	Pipeline   PipelineConfig    `toml:"pipeline"`
	Entry      EntryConfig       `toml:"entry"`
	Runtime    RuntimeConfig     `toml:"runtime"`
	Codegen    CodegenConfig     `toml:"codegen"`
	Macros     MacroConfig       `toml:"macros"`
	Debug      DebugConfig       `toml:"debug"`
	Attributes map[string]string `toml:"attributes"` // qualified attribute name -> directive
}

type ProjectConfig struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
	Out     string   `toml:"out"`
}

type PipelineConfig struct {
	Passes []string `toml:"passes"` // optional passes, run after normalize in this order
	Indent int      `toml:"indent"`
}

// EntryConfig names the program entry point. An empty Class disables the entry check.
type EntryConfig struct {
	Class  string `toml:"class"`
	Method string `toml:"method"`
}

type RuntimeConfig struct {
	Name      string `toml:"name"`      // local binding of the runtime module
	Require   string `toml:"require"`   // expression loading the runtime module
	Namespace string `toml:"namespace"` // host namespace whose symbols are ambient
}

type CodegenConfig struct {
	NoFullQualification []string `toml:"no_full_qualification"`
	MapTypes            []string `toml:"map_types"` // keyed collections, indexed without shift
}

type MacroConfig struct {
	ToString        []string `toml:"tostring"`
	Instantiate     []string `toml:"instantiate"`
	InstantiateCall string   `toml:"instantiate_call"`
	TypeTest        []string `toml:"type_test"`
	TypeTestMethod  string   `toml:"type_test_method"`
	ServiceLocators []string `toml:"service_locators"`
	ServiceCall     string   `toml:"service_call"`
}

// DebugConfig lists regexp2 patterns matched against resolved call origins.
type DebugConfig struct {
	Console  []string `toml:"console"`
	Severity []string `toml:"severity"`
}

// Default returns a configuration with every optional field filled.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Sources: []string{"."},
			Out:     "out",
		},
		Pipeline: PipelineConfig{Indent: 4},
		Entry:    EntryConfig{Method: "Main"},
		Runtime: RuntimeConfig{
			Name:    "CS",
			Require: `require(game:GetService("ReplicatedStorage").Runtime)`,
		},
		Macros: MacroConfig{
			ToString:        []string{"System.Object.ToString"},
			InstantiateCall: "Instance.new",
			TypeTestMethod:  "IsA",
			ServiceCall:     "game:GetService",
		},
		Attributes: map[string]string{},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, &Error{Path: path, Code: diag.CfgInvalid, Msg: fmt.Sprintf("failed to parse TOML: %v", err), Err: err}
	}
	if !meta.IsDefined("project") {
		return nil, &Error{Path: path, Field: "[project]", Code: diag.CfgMissingField, Msg: "missing section"}
	}
	if !meta.IsDefined("project", "name") {
		return nil, &Error{Path: path, Field: "[project].name", Code: diag.CfgMissingField, Msg: "missing required field"}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &Error{Path: path, Field: undecoded[0].String(), Code: diag.CfgInvalid, Msg: "unknown key"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, withPath(err, path)
	}
	return cfg, nil
}

// Parse decodes a TOML fragment over base (or the defaults when base is nil) without
// requiring [project]. Used for inline configuration in tests and scenario files.
func Parse(text string, base *Config) (*Config, error) {
	cfg := Default()
	if base != nil {
		cfg = base.Clone()
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = "inline"
	}
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, &Error{Code: diag.CfgInvalid, Msg: fmt.Sprintf("failed to parse TOML: %v", err), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Project.Sources = append([]string(nil), c.Project.Sources...)
	out.Pipeline.Passes = append([]string(nil), c.Pipeline.Passes...)
	out.Codegen.NoFullQualification = append([]string(nil), c.Codegen.NoFullQualification...)
	out.Codegen.MapTypes = append([]string(nil), c.Codegen.MapTypes...)
	out.Macros.ToString = append([]string(nil), c.Macros.ToString...)
	out.Macros.Instantiate = append([]string(nil), c.Macros.Instantiate...)
	out.Macros.TypeTest = append([]string(nil), c.Macros.TypeTest...)
	out.Macros.ServiceLocators = append([]string(nil), c.Macros.ServiceLocators...)
	out.Debug.Console = append([]string(nil), c.Debug.Console...)
	out.Debug.Severity = append([]string(nil), c.Debug.Severity...)
	out.Attributes = make(map[string]string, len(c.Attributes))
	for k, v := range c.Attributes {
		out.Attributes[k] = v
	}
	return &out
}

// Overrides carries command-line settings that win over the file.
type Overrides struct {
	Passes []string // replaces [pipeline].passes when non-nil
	Indent int      // 0 keeps the file value
	Entry  string   // "Game.Program" or "Game.Program:Main"; "" keeps the file value
}

// Apply returns a validated copy of c with o applied.
func (c *Config) Apply(o Overrides) (*Config, error) {
	out := c.Clone()
	if o.Passes != nil {
		out.Pipeline.Passes = append([]string(nil), o.Passes...)
	}
	if o.Indent != 0 {
		out.Pipeline.Indent = o.Indent
	}
	if o.Entry != "" {
		out.Entry = parseEntry(o.Entry, out.Entry.Method)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Digest hashes the canonical TOML encoding; used as part of the output cache key.
func (c *Config) Digest() project.Digest {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		// encoding a plain struct only fails on unsupported types
		panic(fmt.Errorf("config digest: %w", err))
	}
	return sha256.Sum256(buf.Bytes())
}
