package codegen

import (
	"bytes"
	"strings"
)

// Writer accumulates generated text. Indentation is written lazily, only when the
// first byte of a line is written, so callers never emit it twice.
type Writer struct {
	buf         []byte
	width       int
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer indenting by width spaces per level.
func NewWriter(width int) *Writer {
	if width <= 0 {
		width = 4
	}
	return &Writer{width: width, atLineStart: true}
}

// String returns the accumulated output.
func (w *Writer) String() string {
	return string(w.buf)
}

// Len reports the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel * w.width {
		w.buf = append(w.buf, ' ')
	}
	w.atLineStart = false
}

// WriteString writes s, indenting first if s starts a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Newline ends the current line. Blank lines carry no indentation.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// BlankLine writes an empty line unless the output already ends with one.
func (w *Writer) BlankLine() {
	if !w.atLineStart {
		w.Newline()
	}
	if len(w.buf) > 0 && !bytes.HasSuffix(w.buf, []byte("\n\n")) {
		w.Newline()
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Indent returns the indentation of the current level.
func (w *Writer) Indent() string {
	return strings.Repeat(" ", w.indentLevel*w.width)
}

// child returns an empty writer one level deeper, for blocks rendered inside expressions.
func (w *Writer) child() *Writer {
	return &Writer{width: w.width, indentLevel: w.indentLevel + 1, atLineStart: true}
}
