package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAggregatesSamples(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("load")
	timer.End(idx, "3 files")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("generate", time.Millisecond)
		}()
	}
	wg.Wait()

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	gen := report.Phases[1]
	if gen.Name != "generate" || gen.Count != 4 || gen.DurationMS != 4 {
		t.Fatalf("unexpected generate phase %+v", gen)
	}
	if report.TotalMS != report.Phases[0].DurationMS {
		t.Fatalf("total must exclude summed phases: %v vs %v", report.TotalMS, report.Phases[0].DurationMS)
	}

	summary := timer.Summary()
	if !strings.Contains(summary, "(4 files)") || !strings.Contains(summary, "// 3 files") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.End(timer.Begin("x"), "")
	timer.Add("y", time.Second)
	if len(timer.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
