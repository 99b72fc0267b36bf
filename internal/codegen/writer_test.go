package codegen

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestWriterIndentsLazily(t *testing.T) {
	w := NewWriter(2)
	w.Line("do")
	w.IndentPush()
	w.WriteString("local x")
	w.WriteString(" = 1")
	w.Newline()
	w.Newline()
	w.IndentPop()
	w.Line("end")
	be.Equal(t, w.String(), "do\n  local x = 1\n\nend\n")
}

func TestWriterBlankLine(t *testing.T) {
	w := NewWriter(4)
	w.BlankLine()
	be.Equal(t, w.Len(), 0)

	w.WriteString("a")
	w.BlankLine()
	w.BlankLine()
	w.Line("b")
	be.Equal(t, w.String(), "a\n\nb\n")
}

func TestWriterChild(t *testing.T) {
	w := NewWriter(0)
	w.IndentPush()
	c := w.child()
	c.Line("return x")
	be.Equal(t, c.String(), "        return x\n")
	be.Equal(t, w.Indent(), "    ")

	w.IndentPop()
	w.IndentPop()
	be.Equal(t, w.Indent(), "")
}

func TestScopeShadowing(t *testing.T) {
	outer := NewScope[string](nil)
	outer.Insert("x", "x")
	inner := NewScope(outer)
	inner.Insert("x", "x_")

	v, ok := inner.Lookup("x")
	be.True(t, ok)
	be.Equal(t, v, "x_")
	v, _ = outer.Lookup("x")
	be.Equal(t, v, "x")
	_, ok = inner.Lookup("y")
	be.True(t, !ok)
}
