package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tide/internal/config"
	"tide/internal/project"
)

const noManifestMessage = "no tide.toml found\nplease pass the tree directories explicitly, e.g.:\n  tide build path/to/trees"

// projectSetup is the configuration a command runs with and the directory its relative
// paths resolve against.
type projectSetup struct {
	Config   *config.Config
	Root     string
	Manifest string // "" when running on defaults
}

// loadProject reads --config or the nearest tide.toml. Without a manifest the defaults
// are used and at least one path argument is required.
func loadProject(cmd *cobra.Command, args []string) (*projectSetup, error) {
	manifestPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	found := manifestPath != ""
	if !found {
		manifestPath, found, err = project.FindManifest(".")
		if err != nil {
			return nil, err
		}
	}
	if found {
		cfg, err := config.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		root, err := filepath.Abs(filepath.Dir(manifestPath))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project root: %w", err)
		}
		return &projectSetup{Config: cfg, Root: root, Manifest: manifestPath}, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%s", noManifestMessage)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg := config.Default()
	cfg.Project.Name = filepath.Base(cwd)
	return &projectSetup{Config: cfg, Root: cwd}, nil
}

// sourceRoots returns the path arguments, or the manifest sources resolved against the
// project root.
func (p *projectSetup) sourceRoots(args []string) []string {
	if len(args) > 0 {
		return args
	}
	out := make([]string, 0, len(p.Config.Project.Sources))
	for _, s := range p.Config.Project.Sources {
		out = append(out, p.resolve(s))
	}
	return out
}

func (p *projectSetup) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}
