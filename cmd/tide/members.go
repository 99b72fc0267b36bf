package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tide/internal/ast"
	"tide/internal/bound"
	"tide/internal/members"
	"tide/internal/source"
)

var membersCmd = &cobra.Command{
	Use:   "members [flags] [paths...]",
	Short: "Print the namespace member table built from the trees",
	RunE:  membersExecution,
}

func init() {
	membersCmd.Flags().String("format", "text", "output format (text|json)")
}

func membersExecution(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	setup, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	inputs, err := bound.Collect(setup.sourceRoots(args))
	if err != nil {
		return fmt.Errorf("collect trees: %w", err)
	}

	fs := source.NewFileSetWithBase(setup.Root)
	files := make([]*ast.File, 0, len(inputs))
	for _, in := range inputs {
		unit, err := bound.LoadFile(in, fs)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		files = append(files, unit.File)
	}
	table := members.Build(files)
	if format == "json" {
		return writeMembersJSON(cmd.OutOrStdout(), table)
	}
	return writeMembersText(cmd.OutOrStdout(), table)
}

func writeMembersText(w io.Writer, table *members.Table) error {
	for _, p := range table.Paths() {
		label := p
		if label == "" {
			label = "<global>"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", label, strings.Join(table.Members(p), " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeMembersJSON(w io.Writer, table *members.Table) error {
	out := make(map[string][]string, len(table.Paths()))
	for _, p := range table.Paths() {
		out[p] = table.Members(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
