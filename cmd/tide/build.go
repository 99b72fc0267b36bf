package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tide/internal/bound"
	"tide/internal/buildpipeline"
	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/diagfmt"
	"tide/internal/observ"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [paths...]",
	Short: "Compile bound trees to Luau",
	Long: `Compile every *.tree.json / *.tree.mp file under the given paths (or the
[project].sources of tide.toml) and write one .lua file per source file.`,
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default: [project].out)")
	buildCmd.Flags().StringSlice("pass", nil, "optional passes to run after normalize, in order (replaces [pipeline].passes)")
	buildCmd.Flags().Int("indent", 0, "indentation width (default: [pipeline].indent)")
	buildCmd.Flags().String("entry", "", "entry point, Class or Class:Method")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel file workers (0 = GOMAXPROCS)")
	buildCmd.Flags().Bool("no-cache", false, "disable the output cache")
	buildCmd.Flags().Bool("clean-cache", false, "drop the output cache before building")
	buildCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	buildCmd.Flags().String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	buildCmd.Flags().Bool("notes", true, "show diagnostic notes")
	buildCmd.Flags().Bool("dry-run", false, "compile without writing output files")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

// errBuildFailed is returned when at least one file produced no output.
var errBuildFailed = errors.New("build failed")

type buildOutcome struct {
	result  buildpipeline.CompileResult
	written int
}

type buildOptions struct {
	outDir  string
	dryRun  bool
	format  string
	paths   diagfmt.PathMode
	notes   bool
	color   bool
	quiet   bool
	timings bool
	ui      uiMode
}

func buildExecution(cmd *cobra.Command, args []string) error {
	setup, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := applyBuildOverrides(cmd, setup.Config)
	if err != nil {
		return err
	}
	opts, err := readBuildOptions(cmd, setup, cfg)
	if err != nil {
		return err
	}

	inputs, err := bound.Collect(setup.sourceRoots(args))
	if err != nil {
		return fmt.Errorf("collect trees: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no *.tree.json or *.tree.mp files found")
	}

	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}

	req := buildpipeline.CompileRequest{
		Config:         cfg,
		Inputs:         inputs,
		BaseDir:        setup.Root,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Timer:          timer,
	}
	job := func(ctx context.Context, sink buildpipeline.ProgressSink) (buildOutcome, error) {
		return compileAndWrite(ctx, req, sink, opts)
	}

	var out buildOutcome
	if shouldUseTUI(opts.ui) && !opts.quiet {
		names := buildpipeline.DisplayNames(inputs, setup.Root)
		final := buildpipeline.StageWrite
		if opts.dryRun {
			final = buildpipeline.StageGenerate
		}
		out, err = runWithUI(cmd.Context(), "tide build", names, final, job)
	} else {
		out, err = job(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}
	return reportBuild(cmd.OutOrStdout(), out, opts, timer)
}

func compileAndWrite(ctx context.Context, req buildpipeline.CompileRequest, sink buildpipeline.ProgressSink, opts buildOptions) (buildOutcome, error) {
	req.Progress = sink
	res, err := buildpipeline.Compile(ctx, &req)
	out := buildOutcome{result: res}
	if err != nil || opts.dryRun {
		return out, err
	}
	start := time.Now()
	phase := req.Timer.Begin("write")
	written, err := buildpipeline.WriteOutputs(ctx, opts.outDir, res.Outputs, sink, diag.BagReporter{Bag: res.Bag})
	req.Timer.End(phase, fmt.Sprintf("%d files", written))
	out.result.Timings.Set(buildpipeline.StageWrite, time.Since(start))
	out.written = written
	return out, err
}

func reportBuild(w io.Writer, out buildOutcome, opts buildOptions, timer *observ.Timer) error {
	res := out.result
	if res.Bag != nil {
		res.Bag.Sort()
		switch opts.format {
		case "json":
			jsonOpts := diagfmt.JSONOpts{IncludePositions: true, PathMode: opts.paths, IncludeNotes: opts.notes}
			if err := diagfmt.JSON(w, res.Bag, res.FileSet, jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		default:
			diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:     opts.color,
				Context:   1,
				PathMode:  opts.paths,
				ShowNotes: opts.notes,
			})
			if res.Bag.Len() > 0 {
				diagfmt.Summary(w, res.Bag, opts.color)
			}
		}
	}
	if opts.timings {
		if err := printStageTimings(w, res.Timings); err != nil {
			return err
		}
		if err := printTimerSummary(w, timer); err != nil {
			return err
		}
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%w: %d of %d files failed", errBuildFailed, len(res.Failed), len(res.Failed)+len(res.Outputs))
	}
	if !opts.dryRun && out.written < len(res.Outputs) {
		return fmt.Errorf("%w: %d of %d files could not be written", errBuildFailed, len(res.Outputs)-out.written, len(res.Outputs))
	}
	if !opts.quiet && opts.format != "json" {
		verb := "wrote"
		n := out.written
		if opts.dryRun {
			verb, n = "compiled", len(res.Outputs)
		}
		cached := 0
		for _, o := range res.Outputs {
			if o.Cached {
				cached++
			}
		}
		if _, err := fmt.Fprintf(w, "%s %d files to %s (%d cached)\n", verb, n, opts.outDir, cached); err != nil {
			return err
		}
	}
	return nil
}

func applyBuildOverrides(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	var o config.Overrides
	var err error
	if cmd.Flags().Changed("pass") {
		if o.Passes, err = cmd.Flags().GetStringSlice("pass"); err != nil {
			return nil, err
		}
		if o.Passes == nil {
			o.Passes = []string{}
		}
	}
	if o.Indent, err = cmd.Flags().GetInt("indent"); err != nil {
		return nil, err
	}
	if o.Entry, err = cmd.Flags().GetString("entry"); err != nil {
		return nil, err
	}
	return cfg.Apply(o)
}

func readBuildOptions(cmd *cobra.Command, setup *projectSetup, cfg *config.Config) (buildOptions, error) {
	var opts buildOptions
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return opts, err
	}
	if outDir == "" {
		outDir = setup.resolve(cfg.Project.Out)
	}
	if opts.outDir, err = filepath.Abs(outDir); err != nil {
		return opts, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if opts.dryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return opts, err
	}
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, err
	}
	if opts.format != "pretty" && opts.format != "json" {
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}
	pathMode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, err
	}
	var ok bool
	if opts.paths, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}
	if opts.notes, err = cmd.Flags().GetBool("notes"); err != nil {
		return opts, err
	}
	if opts.color, err = useColor(cmd); err != nil {
		return opts, err
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	// JSON goes to stdout; a TUI would garble it
	if opts.format == "json" {
		opts.ui = uiModeOff
	}
	return opts, nil
}

func openCache(cmd *cobra.Command) (*buildpipeline.DiskCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	clean, err := cmd.Flags().GetBool("clean-cache")
	if err != nil {
		return nil, err
	}
	if noCache && !clean {
		return nil, nil
	}
	cache, err := buildpipeline.OpenDiskCache("tide")
	if err != nil {
		// кэш необязателен
		fmt.Fprintf(os.Stderr, "warning: output cache disabled: %v\n", err)
		return nil, nil
	}
	if clean {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("clean cache: %w", err)
		}
	}
	if noCache {
		return nil, nil
	}
	return cache, nil
}

// printError prints err the way the CLI reports fatal problems; configuration errors
// carry their diagnostic code.
func printError(w io.Writer, err error) {
	if ce, ok := config.AsError(err); ok {
		fmt.Fprintf(w, "error %s: %s\n", ce.Code.ID(), ce.Error())
		return
	}
	if errors.Is(err, errBuildFailed) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
