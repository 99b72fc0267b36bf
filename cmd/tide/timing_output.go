package main

import (
	"fmt"
	"io"
	"time"

	"tide/internal/buildpipeline"
	"tide/internal/observ"
)

var timedStages = []struct {
	stage buildpipeline.Stage
	label string
}{
	{buildpipeline.StageLoad, "loaded"},
	{buildpipeline.StageMembers, "linked"},
	{buildpipeline.StageTransform, "transformed"},
	{buildpipeline.StageGenerate, "generated"},
	{buildpipeline.StageWrite, "written"},
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) error {
	for _, s := range timedStages {
		if !timings.Has(s.stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage))); err != nil {
			return err
		}
	}
	return nil
}

func printTimerSummary(out io.Writer, timer *observ.Timer) error {
	if timer == nil {
		return nil
	}
	_, err := io.WriteString(out, timer.Summary())
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
