package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"tide/internal/diag"
	"tide/internal/project"
	"tide/internal/source"
	"tide/internal/trace"
)

// OutputExt is the extension of generated files.
const OutputExt = ".lua"

// OutputPath maps a source path recorded in a tree onto its file under outDir:
// "Game/Player.cs" becomes <outDir>/Game/Player.lua.
func OutputPath(outDir, sourcePath string) string {
	rel, err := project.NormalizePath(sourcePath)
	if err != nil {
		rel = path.Base(filepath.ToSlash(sourcePath))
	}
	rel = strings.TrimSuffix(rel, path.Ext(rel)) + OutputExt
	return filepath.Join(outDir, filepath.FromSlash(rel))
}

// WriteOutputs writes every output under outDir. Failures are reported per file and
// do not stop the remaining writes; the number of written files is returned.
func WriteOutputs(ctx context.Context, outDir string, outputs []Output, sink ProgressSink, reporter diag.Reporter) (int, error) {
	if outDir == "" {
		return 0, fmt.Errorf("missing output directory")
	}
	_, span := trace.Start(ctx, trace.ScopeDriver, "write")
	defer span.End("")

	written := 0
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		start := time.Now()
		target := OutputPath(outDir, out.Path)
		emitFile(sink, out.Name, StageWrite, StatusWorking, nil, 0)
		if err := writeFileAtomic(target, []byte(out.Text)); err != nil {
			if reporter != nil {
				reporter.Report(diag.IOWriteFileError, diag.SevError, source.Span{}, fmt.Sprintf("write %s: %v", target, err), nil)
			}
			emitFile(sink, out.Name, StageWrite, StatusError, err, time.Since(start))
			continue
		}
		written++
		emitFile(sink, out.Name, StageWrite, StatusDone, nil, time.Since(start))
	}
	return written, nil
}

func writeFileAtomic(target string, data []byte) (err error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tide-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), target)
}
