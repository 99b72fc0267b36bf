package buildpipeline

import (
	"path/filepath"
	"strings"
	"time"
)

// displayNames maps inputs to the names shown by the progress UI: relative to baseDir
// when below it, slash separated. The result is index-aligned with files.
func displayNames(files []string, baseDir string) []string {
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, len(files))
	for i, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		out[i] = filepath.ToSlash(path)
	}
	return out
}

// DisplayNames is displayNames for callers that set up the progress UI before Compile.
func DisplayNames(files []string, baseDir string) []string {
	return displayNames(files, baseDir)
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func emitCached(sink ProgressSink, file string) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: StageGenerate, Status: StatusDone, Cached: true})
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
