package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fedcompose/internal/compose"
	"fedcompose/internal/engine"
	"fedcompose/internal/pipeline"
	"fedcompose/internal/ui"
)

// runComposeWithUI runs the orchestrator in the background while a Bubble
// Tea program renders its progress events on stderr.
func runComposeWithUI(ctx context.Context, title string, orch *compose.Orchestrator, host compose.HybridComposition, subgraphs []engine.SubgraphDefinition) (compose.Report, error) {
	events := make(chan pipeline.Event, 256)
	reportCh := make(chan compose.Report, 1)

	go func() {
		o := *orch
		o.Progress = pipeline.ChannelSink{Ch: events}
		reportCh <- o.Compose(ctx, host, subgraphs)
		close(events)
	}()

	names := make([]string, len(subgraphs))
	for i, sub := range subgraphs {
		names[i] = sub.Name
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы горутина не заблокировалась
		go func() {
			for range events {
			}
		}()
	}
	return <-reportCh, uiErr
}
