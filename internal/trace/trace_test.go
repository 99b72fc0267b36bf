package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func ringTracer(t *testing.T, level Level, size int, out *bytes.Buffer) *writerTracer {
	t.Helper()
	tr, err := New(Config{Level: level, Mode: ModeRing, Format: FormatText, Output: out, RingSize: size})
	be.Err(t, err, nil)
	return tr.(*writerTracer)
}

func TestFileSpansAttributeChildren(t *testing.T) {
	var out bytes.Buffer
	ring := ringTracer(t, LevelDetail, 16, &out)
	ctx := WithTracer(context.Background(), ring)

	ctx, build := Start(ctx, ScopeDriver, "build")
	fileCtx, file := StartFile(ctx, "Game/Player.cs")
	_, pass := Start(fileCtx, ScopePass, "pass:normalize")
	_, node := Start(fileCtx, ScopeNode, "decl:Player") // filtered at LevelDetail
	node.End("")
	pass.End("")
	file.End("ok")
	build.End("")

	events := ring.Snapshot()
	be.Equal(t, len(events), 6)
	be.Equal(t, events[1].Name, "file:Game/Player.cs")
	be.Equal(t, events[1].ParentID, build.ID())
	be.Equal(t, events[2].File, "Game/Player.cs")
	be.Equal(t, events[2].ParentID, file.ID())
	be.Equal(t, events[4].Detail, "ok")
	be.Equal(t, events[4].Kind, KindEnd)
	be.Equal(t, events[0].File, "")
	be.Equal(t, events[5].Seq, uint64(6))
}

func TestRingWritesLastEventsOnClose(t *testing.T) {
	var out bytes.Buffer
	ring := ringTracer(t, LevelDebug, 2, &out)
	for _, name := range []string{"a", "b", "c"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	events := ring.Snapshot()
	be.Equal(t, len(events), 2)
	be.Equal(t, events[0].Name, "b")
	be.Equal(t, events[1].Name, "c")
	be.Equal(t, out.Len(), 0)

	be.Err(t, ring.Close(), nil)
	text := out.String()
	be.True(t, !strings.Contains(text, "• a"))
	be.True(t, strings.Contains(text, "• b"))
	be.True(t, strings.Contains(text, "• c"))
}

func TestStreamFormats(t *testing.T) {
	var text, nd bytes.Buffer
	textTr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatText, Output: &text})
	be.Err(t, err, nil)
	ndTr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &nd})
	be.Err(t, err, nil)

	for _, tr := range []Tracer{textTr, ndTr} {
		ctx, _ := StartFile(WithTracer(context.Background(), tr), "a.cs") // filtered at LevelPhase
		_, span := Start(ctx, ScopePass, "pass:normalize")
		span.End("")
	}

	be.True(t, strings.Contains(text.String(), "→ pass:normalize @a.cs"))
	be.True(t, !strings.Contains(text.String(), "file:a.cs"))
	be.True(t, strings.Contains(nd.String(), `"scope":"pass"`))
	be.True(t, strings.Contains(nd.String(), `"file":"a.cs"`))
}

func TestFailedSpansSurviveErrorLevel(t *testing.T) {
	var out bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeStream, Format: FormatText, Output: &out})
	be.Err(t, err, nil)
	ctx := WithTracer(context.Background(), tr)

	_, ok := Start(ctx, ScopeDriver, "members")
	ok.End("")
	_, bad := StartFile(ctx, "Broken.cs")
	bad.Fail(errors.New("GEN3001"))

	be.Equal(t, strings.Count(out.String(), "\n"), 1)
	be.True(t, strings.Contains(out.String(), "✗ file:Broken.cs (GEN3001)"))
}

func TestNopIsSilent(t *testing.T) {
	ctx, span := Start(context.Background(), ScopeDriver, "build")
	be.Equal(t, span.ID(), uint64(0))
	be.Equal(t, parentOf(ctx).id, uint64(0))
	span.End("")
	Point(ctx, ScopeDriver, "noop", "")
}

func TestParseHelpers(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	be.Err(t, err, nil)
	be.Equal(t, lvl, LevelDetail)
	f, err := ParseFormat("ndjson")
	be.Err(t, err, nil)
	be.Equal(t, f, FormatNDJSON)
	_, err = ParseMode("disk")
	be.True(t, err != nil)
	_, err = ParseLevel("loud")
	be.True(t, err != nil)
}
