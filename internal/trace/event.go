package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64        // 0 for root spans
	Name     string        // e.g. "members", "pass:normalize", "file:Game/Player.cs"
	File     string        // source path of the enclosing file span
	Detail   string        // end detail, point message
	Dur      time.Duration // set on end events
	Failed   bool          // end event of a span closed with Fail
}

// Format is the output encoding of events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path: .ndjson -> NDJSON, else text
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

type jsonEvent struct {
	Time     string  `json:"time"`
	Seq      uint64  `json:"seq"`
	Kind     string  `json:"kind"`
	Scope    string  `json:"scope"`
	SpanID   uint64  `json:"span_id,omitempty"`
	ParentID uint64  `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	File     string  `json:"file,omitempty"`
	Detail   string  `json:"detail,omitempty"`
	DurMS    float64 `json:"dur_ms,omitempty"`
	Failed   bool    `json:"failed,omitempty"`
}

// Encode renders ev in format f, newline terminated. start anchors the relative
// timestamps of the text format.
func (ev *Event) Encode(f Format, start time.Time) []byte {
	if f == FormatNDJSON {
		data, err := json.Marshal(jsonEvent{
			Time:     ev.Time.Format(time.RFC3339Nano),
			Seq:      ev.Seq,
			Kind:     ev.Kind.String(),
			Scope:    ev.Scope.String(),
			SpanID:   ev.SpanID,
			ParentID: ev.ParentID,
			Name:     ev.Name,
			File:     ev.File,
			Detail:   ev.Detail,
			DurMS:    float64(ev.Dur.Microseconds()) / 1000,
			Failed:   ev.Failed,
		})
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}

	// [   1.234ms] → pass:normalize @Game/Player.cs (detail) 0.120ms
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(ev.Time.Sub(start).Microseconds())/1000)
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	switch ev.Kind {
	case KindBegin:
		sb.WriteString("→ ")
	case KindEnd:
		if ev.Failed {
			sb.WriteString("✗ ")
		} else {
			sb.WriteString("← ")
		}
	default:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Name)
	if ev.File != "" && ev.Scope != ScopeFile {
		sb.WriteString(" @")
		sb.WriteString(ev.File)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " %.3fms", float64(ev.Dur.Microseconds())/1000)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
