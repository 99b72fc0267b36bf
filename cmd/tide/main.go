// Package main implements the tide CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tide/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tide",
	Short: "C# bound-tree to Luau compiler",
	Long:  `tide lowers bound C# syntax trees produced by a front-end into Luau modules`,
	// ошибки печатает main, usage только для ошибок разбора флагов
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runTraceCleanup()
		stopProfiling(cmd)
	},
}

// main registers subcommands and persistent flags, then executes the root command.
// Any returned error is printed to stderr and the process exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(runtimeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to tide.toml (default: search upwards from the working directory)")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		runTraceCleanup()
		stopProfiling(rootCmd)
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
