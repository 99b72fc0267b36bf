package buildpipeline

import "time"

// Stage is a pipeline phase. Stages run in declaration order.
type Stage uint8

const (
	StageLoad      Stage = iota // read and decode bound trees
	StageMembers                // merge symbols, build the member table, order files
	StageTransform              // run the pass pipeline
	StageGenerate               // emit Luau
	StageWrite                  // write output files
	stageCount
)

var stageNames = [stageCount]string{"load", "members", "transform", "generate", "write"}

func (s Stage) String() string {
	if s < stageCount {
		return stageNames[s]
	}
	return "unknown"
}

// Status is the state of a file (or of the whole build) within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Event reports progress for a file, or for the whole build when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Cached  bool // generate finished from the output cache
}

// ProgressSink consumes progress events. Compile calls it from several goroutines
// only through a LockedSink.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds per-stage durations. Per-file stages (transform) accumulate across
// workers, so their sum can exceed wall time.
type Timings struct {
	d   [stageCount]time.Duration
	set uint8 // bit per recorded stage
}

// Set stores dur for stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil || stage >= stageCount {
		return
	}
	t.d[stage] = dur
	t.set |= 1 << stage
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil || stage >= stageCount {
		return
	}
	t.d[stage] += dur
	t.set |= 1 << stage
}

// Has reports whether stage was recorded.
func (t Timings) Has(stage Stage) bool {
	return stage < stageCount && t.set&(1<<stage) != 0
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if stage >= stageCount {
		return 0
	}
	return t.d[stage]
}

// Sum adds up the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
