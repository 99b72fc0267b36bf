package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close writes pending events and releases the output.
	Close() error
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write every event immediately
	ModeRing                          // keep the last RingSize events, write them on Close
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring)", s)
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // wins over OutputPath
	OutputPath string    // file path, "" or "-" for stderr
	RingSize   int       // ring mode capacity, default 4096
}

// New creates a Tracer for cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeRing {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	w, closer, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	t := &writerTracer{w: w, closer: closer, level: cfg.Level, format: format, start: time.Now()}
	if cfg.Mode == ModeRing {
		size := cfg.RingSize
		if size <= 0 {
			size = 4096
		}
		t.ring = make([]Event, 0, size)
	}
	return t, nil
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f, nil
}

// writerTracer writes to w directly, or through a ring of the last events when ring
// is non-nil.
type writerTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	level  Level
	format Format
	start  time.Time
	seq    uint64

	ring []Event
	head int // next slot once the ring is full
	full bool
}

func (t *writerTracer) Level() Level { return t.level }

func (t *writerTracer) Emit(ev *Event) {
	if !t.level.keeps(ev.Scope, ev.Failed) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	if t.ring == nil {
		// trace errors must not break the build
		_, _ = t.w.Write(ev.Encode(t.format, t.start))
		return
	}
	if !t.full {
		t.ring = append(t.ring, *ev)
		t.full = len(t.ring) == cap(t.ring)
		return
	}
	t.ring[t.head] = *ev
	t.head = (t.head + 1) % len(t.ring)
}

// Snapshot returns the events held by a ring tracer, oldest first.
func (t *writerTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.ring))
	out = append(out, t.ring[t.head:]...)
	return append(out, t.ring[:t.head]...)
}

func (t *writerTracer) Close() error {
	var errs []error
	for _, ev := range t.Snapshot() {
		if _, err := t.w.Write(ev.Encode(t.format, t.start)); err != nil {
			errs = append(errs, err)
			break
		}
	}
	t.mu.Lock()
	t.ring, t.head, t.full = t.ring[:0], 0, false
	t.mu.Unlock()
	if t.closer != nil {
		errs = append(errs, t.closer.Close())
	}
	return errors.Join(errs...)
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}
