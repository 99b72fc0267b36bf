// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tide/internal/buildpipeline"
)

type fileState uint8

const (
	stateQueued fileState = iota
	stateWorking
	stateDone
	stateFailed
)

type fileItem struct {
	name    string
	state   fileState
	stage   buildpipeline.Stage
	cached  bool
	elapsed time.Duration
	err     string
}

// label is the status column text.
func (it *fileItem) label() string {
	switch it.state {
	case stateQueued:
		return "queued"
	case stateDone:
		if it.cached {
			return "cached"
		}
		return "done"
	case stateFailed:
		return "error"
	}
	return stageVerb[it.stage]
}

var stageVerb = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:      "loading",
	buildpipeline.StageMembers:   "linking",
	buildpipeline.StageTransform: "transforming",
	buildpipeline.StageGenerate:  "generating",
	buildpipeline.StageWrite:     "writing",
}

// share of a file's work that is behind it once the stage starts
var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StageLoad:      0.1,
	buildpipeline.StageMembers:   0.2,
	buildpipeline.StageTransform: 0.4,
	buildpipeline.StageGenerate:  0.7,
	buildpipeline.StageWrite:     0.9,
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleCached  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWorking = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	final   buildpipeline.Stage // stage whose completion finishes a file
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	byName  map[string]int
	stage   string // build-wide stage from file-less events
	width   int
	closed  bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file pipeline progress.
// A file is finished once final reports done, or once any stage reports an error.
// The program quits when events is closed.
func NewProgressModel(title string, files []string, final buildpipeline.Stage, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWorking

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		final:   final,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		byName:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{name: f}
		m.byName[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if v, ok := stageVerb[ev.Stage]; ok && ev.Status == buildpipeline.StatusWorking {
			m.stage = v
		}
		return nil
	}
	i, ok := m.byName[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[i]
	if it.state == stateDone || it.state == stateFailed {
		return nil
	}
	it.elapsed += ev.Elapsed
	switch ev.Status {
	case buildpipeline.StatusQueued:
		it.state = stateQueued
	case buildpipeline.StatusWorking:
		it.state, it.stage = stateWorking, ev.Stage
	case buildpipeline.StatusDone:
		it.stage = ev.Stage
		it.cached = it.cached || ev.Cached
		if ev.Stage == m.final {
			it.state = stateDone
		} else {
			it.state = stateWorking
		}
	case buildpipeline.StatusError:
		it.state, it.stage = stateFailed, ev.Stage
		if ev.Err != nil {
			it.err, _, _ = strings.Cut(ev.Err.Error(), "\n")
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		switch it.state {
		case stateDone, stateFailed:
			total++
		case stateWorking:
			total += stageWeight[it.stage]
		}
	}
	return total / float64(len(m.items))
}

// counts returns finished, cached and failed files.
func (m *progressModel) counts() (finished, cached, failed int) {
	for _, it := range m.items {
		switch it.state {
		case stateDone:
			finished++
			if it.cached {
				cached++
			}
		case stateFailed:
			finished++
			failed++
		}
	}
	return finished, cached, failed
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder

	header := m.title
	if m.stage != "" && !m.closed {
		header += " (" + m.stage + ")"
	}
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	finished, cached, failed := m.counts()
	summary := fmt.Sprintf("  %d/%d", finished, len(m.items))
	if cached > 0 {
		summary += fmt.Sprintf(" · %d cached", cached)
	}
	if failed > 0 {
		summary += styleFailed.Render(fmt.Sprintf(" · %d failed", failed))
	}
	b.WriteString(styleTitle.Render(header))
	b.WriteString(summary)
	b.WriteString("\n\n")

	const statusWidth, timeWidth = 12, 10
	nameWidth := max(m.width-statusWidth-timeWidth-6, 20)
	for _, it := range m.items {
		label := it.label()
		fmt.Fprintf(&b, "  %s %s", statusStyle(it).Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(it.name, nameWidth))
		if it.elapsed > 0 {
			fmt.Fprintf(&b, "  %s", styleIdle.Render(fmt.Sprintf("%.1fms", float64(it.elapsed.Microseconds())/1000)))
		}
		b.WriteByte('\n')
		if it.err != "" {
			fmt.Fprintf(&b, "  %*s %s\n", statusWidth, "", styleFailed.Render(truncate(it.err, nameWidth)))
		}
	}

	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func statusStyle(it fileItem) lipgloss.Style {
	switch it.state {
	case stateDone:
		if it.cached {
			return styleCached
		}
		return styleDone
	case stateFailed:
		return styleFailed
	case stateWorking:
		return styleWorking
	}
	return styleIdle
}

// truncate shortens value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
