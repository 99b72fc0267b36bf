package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tide/internal/buildpipeline"
	"tide/internal/ui"
)

// runWithUI runs job in the background while the progress model renders the events it
// produces. The job must send every event through the sink it is given.
func runWithUI(ctx context.Context, title string, files []string, final buildpipeline.Stage, job func(ctx context.Context, sink buildpipeline.ProgressSink) (buildOutcome, error)) (buildOutcome, error) {
	events := make(chan buildpipeline.Event, 256)
	type done struct {
		out buildOutcome
		err error
	}
	doneCh := make(chan done, 1)

	go func() {
		out, err := job(ctx, buildpipeline.ChannelSink{Ch: events})
		doneCh <- done{out: out, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, final, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// дочитываем события, если модель вышла раньше времени
	for range events {
	}
	res := <-doneCh
	if uiErr != nil {
		return res.out, uiErr
	}
	return res.out, res.err
}
