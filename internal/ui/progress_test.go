package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"

	"tide/internal/buildpipeline"
)

func newTestModel(final buildpipeline.Stage) *progressModel {
	return NewProgressModel("build", []string{"a.tree.json", "b.tree.json"}, final, nil).(*progressModel)
}

func TestProgressFinalStage(t *testing.T) {
	m := newTestModel(buildpipeline.StageWrite)
	m.apply(buildpipeline.Event{File: "a.tree.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond})
	be.Equal(t, m.items[0].label(), "generating")
	be.Equal(t, m.percent(), 0.35)

	m.apply(buildpipeline.Event{File: "a.tree.json", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone, Elapsed: time.Millisecond})
	be.Equal(t, m.items[0].label(), "done")
	be.Equal(t, m.items[0].elapsed, 3*time.Millisecond)
	be.Equal(t, m.percent(), 0.5)
}

func TestProgressCachedFiles(t *testing.T) {
	m := newTestModel(buildpipeline.StageGenerate)
	m.apply(buildpipeline.Event{File: "a.tree.json", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusDone, Cached: true})
	be.Equal(t, m.items[0].label(), "cached")

	finished, cached, failed := m.counts()
	be.Equal(t, finished, 1)
	be.Equal(t, cached, 1)
	be.Equal(t, failed, 0)
	be.True(t, strings.Contains(m.View(), "1/2 · 1 cached"))
}

func TestProgressErrorIsSticky(t *testing.T) {
	m := newTestModel(buildpipeline.StageGenerate)
	m.apply(buildpipeline.Event{File: "b.tree.json", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusError, Err: errors.New("bad tree\nmore")})
	m.apply(buildpipeline.Event{File: "b.tree.json", Stage: buildpipeline.StageTransform, Status: buildpipeline.StatusWorking})
	be.Equal(t, m.items[1].label(), "error")
	be.Equal(t, m.items[1].err, "bad tree")

	m.apply(buildpipeline.Event{File: "unknown", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusDone})
	m.apply(buildpipeline.Event{Stage: buildpipeline.StageMembers, Status: buildpipeline.StatusWorking})
	be.Equal(t, m.stage, "linking")

	view := m.View()
	be.True(t, strings.Contains(view, "build (linking)"))
	be.True(t, strings.Contains(view, "b.tree.json"))
	be.True(t, strings.Contains(view, "bad tree"))
	be.True(t, strings.Contains(view, "1 failed"))
}

func TestProgressClosed(t *testing.T) {
	m := newTestModel(buildpipeline.StageWrite)
	_, cmd := m.Update(closedMsg{})
	be.True(t, cmd != nil)
	be.True(t, m.closed)
	be.True(t, strings.HasPrefix(m.View(), styleTitle.Render("done: build")))
}

func TestTruncate(t *testing.T) {
	be.Equal(t, truncate("short", 10), "short")
	be.Equal(t, truncate("a/very/long/path.tree.json", 10), "a/very/...")
	be.Equal(t, truncate("abcdef", 3), "abc")
}
