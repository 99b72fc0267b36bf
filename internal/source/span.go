package source

import (
	"fmt"
)

// Span is a start/end range inside one file. End is inclusive of the last token.
type Span struct {
	File  FileID
	Start Pos
	End   Pos
}

func (s Span) Empty() bool {
	return !s.Start.IsValid()
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Cover extends s so it also spans other. Spans from different files are ignored.
func (s Span) Cover(other Span) Span {
	if s.File != other.File || other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// At builds a single-point span.
func At(file FileID, line, col uint32) Span {
	p := Pos{Line: line, Col: col}
	return Span{File: file, Start: p, End: p}
}
