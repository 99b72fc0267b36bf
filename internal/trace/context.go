package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type tracerKey struct{}

type spanKey struct{}

// spanInfo is what child spans inherit from their parent.
type spanInfo struct {
	id   uint64
	file string
}

var spanIDs atomic.Uint64

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

func parentOf(ctx context.Context) spanInfo {
	if ctx == nil {
		return spanInfo{}
	}
	info, _ := ctx.Value(spanKey{}).(spanInfo)
	return info
}

// Span is an open trace span. A nil *Span is valid and does nothing.
type Span struct {
	tracer  Tracer
	info    spanInfo
	parent  uint64
	scope   Scope
	name    string
	started time.Time
}

// Start opens a span under the span carried by ctx and returns a context carrying the
// new span. The caller must End the returned span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	return start(ctx, scope, name, parentOf(ctx).file)
}

// StartFile opens the file span for path; spans below it are attributed to path.
func StartFile(ctx context.Context, path string) (context.Context, *Span) {
	return start(ctx, ScopeFile, "file:"+path, path)
}

func start(ctx context.Context, scope Scope, name, file string) (context.Context, *Span) {
	t := FromContext(ctx)
	if t.Level() == LevelOff {
		return ctx, nil
	}
	parent := parentOf(ctx)
	s := &Span{
		tracer:  t,
		info:    spanInfo{id: spanIDs.Add(1), file: file},
		parent:  parent.id,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.info.id,
		ParentID: s.parent,
		Name:     name,
		File:     file,
	})
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey{}, s.info), s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.info.id
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	return s.end(detail, false)
}

// Fail closes the span as failed; failed spans are kept even at LevelError.
func (s *Span) Fail(err error) time.Duration {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return s.end(detail, true)
}

func (s *Span) end(detail string, failed bool) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.info.id,
		ParentID: s.parent,
		Name:     s.name,
		File:     s.info.file,
		Detail:   detail,
		Dur:      dur,
		Failed:   failed,
	})
	return dur
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if t.Level() == LevelOff {
		return
	}
	parent := parentOf(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent.id,
		Name:     name,
		File:     parent.file,
		Detail:   detail,
	})
}
