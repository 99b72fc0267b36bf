package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	runtimeembed "tide/runtime"
)

var runtimeCmd = &cobra.Command{
	Use:   "runtime [flags]",
	Short: "Write the reference runtime module required by generated code",
	Args:  cobra.NoArgs,
	RunE:  runtimeExecution,
}

func init() {
	runtimeCmd.Flags().StringP("out", "o", ".", `directory to write Runtime.lua into ("-" for stdout)`)
}

func runtimeExecution(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	src := runtimeembed.Source()
	if dir == "-" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	target := filepath.Join(dir, runtimeembed.FileName)
	if err := os.WriteFile(target, src, 0o644); err != nil {
		return fmt.Errorf("write runtime: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
	}
	return err
}
