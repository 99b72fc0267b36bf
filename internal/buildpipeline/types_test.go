package buildpipeline

import (
	"testing"
	"time"

	"github.com/nalgeon/be"
)

func TestTimings(t *testing.T) {
	var tm Timings
	be.True(t, !tm.Has(StageLoad))

	tm.Set(StageLoad, 2*time.Millisecond)
	tm.Add(StageTransform, time.Millisecond)
	tm.Add(StageTransform, time.Millisecond)
	be.True(t, tm.Has(StageLoad))
	be.True(t, tm.Has(StageTransform))
	be.True(t, !tm.Has(StageWrite))
	be.Equal(t, tm.Duration(StageTransform), 2*time.Millisecond)
	be.Equal(t, tm.Sum(StageLoad, StageTransform, StageWrite), 4*time.Millisecond)

	tm.Set(Stage(42), time.Second)
	be.Equal(t, tm.Duration(Stage(42)), time.Duration(0))
}

func TestStageNames(t *testing.T) {
	be.Equal(t, StageMembers.String(), "members")
	be.Equal(t, StatusError.String(), "error")
	be.Equal(t, stageCount.String(), "unknown")
}
