package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/nutriscout/internal/flow"
)

func analyzeJob(orch *flow.Orchestrator, ticket flow.Ticket) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		event := orch.Run(ctx, ticket)
		if failed, ok := event.(flow.Failed); ok {
			return analyzeResultMsg{event: event}, failed.Err
		}
		return analyzeResultMsg{event: event}, nil
	}
}
