package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tide/internal/prof"
)

var profileSession *prof.Session

func addProfileFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	cmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime execution trace to file")
}

// setupProfiling starts the profiles requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profileSession, err = prof.Start(opts)
	return err
}

func stopProfiling(cmd *cobra.Command) {
	if err := profileSession.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	profileSession = nil
}
