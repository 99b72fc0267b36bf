package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tide/internal/diag"
	"tide/internal/source"
)

type palette struct {
	err, warn, info, note, code, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span (если текст передан), затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		msg := d.Message
		if opts.Width > 0 {
			msg = runewidth.Truncate(msg, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s%s %s: %s\n",
			location(fs, d.Primary, opts.PathMode, p),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			msg,
		)
		writeSnippet(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s%s %s\n", location(fs, n.Span, opts.PathMode, p), p.note.Sprint("note:"), n.Msg)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, p palette) string {
	path := formatPath(fs, sp.File, mode)
	switch {
	case path == "":
		return ""
	case sp.Empty():
		return p.path.Sprint(path) + ": "
	}
	return p.path.Sprintf("%s:%d:%d", path, sp.Start.Line, sp.Start.Col) + ": "
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int8, p palette) {
	if fs == nil || sp.Empty() {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || !f.HasText() {
		return
	}
	line := sp.Start.Line
	first := line
	if context > 0 && uint32(context) < line {
		first = line - uint32(context)
	} else if context > 0 {
		first = 1
	}
	num := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(num))

	for l := first; l <= line; l++ {
		text := strings.ReplaceAll(f.GetLine(l), "\t", "    ")
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", len(num), l), p.gutter.Sprint("|"), text)
	}
	lead, width := underline(f.GetLine(line), sp)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", lead), p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// underline returns the display offset and width of the span on its first line.
// Columns count runes; tabs are expanded the same way the snippet is.
func underline(text string, sp source.Span) (lead, width int) {
	runes := []rune(text)
	start := min(int(sp.Start.Col)-1, len(runes))
	start = max(start, 0)
	end := start + 1
	if sp.End.Line == sp.Start.Line && sp.End.Col >= sp.Start.Col {
		end = int(sp.End.Col)
	} else if sp.End.Line > sp.Start.Line {
		end = len(runes)
	}
	end = max(min(end, len(runes)), start+1)

	lead = displayWidth(runes[:start])
	if start < len(runes) {
		width = displayWidth(runes[start:min(end, len(runes))])
	}
	return lead, max(width, 1)
}

func displayWidth(rs []rune) int {
	n := 0
	for _, r := range rs {
		if r == '\t' {
			n += 4
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}

// Summary prints "N errors, M warnings" for the bag, or nothing when it is empty.
func Summary(w io.Writer, bag *diag.Bag, useColor bool) {
	if bag == nil {
		return
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return
	}
	p := newPalette(useColor)
	fmt.Fprintf(w, "%s, %s\n",
		p.err.Sprint(plural(errs, "error")),
		p.warn.Sprint(plural(warns, "warning")),
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
