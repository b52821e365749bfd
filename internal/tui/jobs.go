package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/nutriscout/internal/logger"
)

type jobKind string

type jobStatus string

const (
	jobKindAnalyze jobKind = "analyze"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

// jobSnapshot describes one background request. Generation ties it to the
// submission that started it.
type jobSnapshot struct {
	Kind        jobKind
	Generation  uint64
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
}

func (s jobSnapshot) ID() string {
	return fmt.Sprintf("%s#%d", s.Kind, s.Generation)
}

func (s jobSnapshot) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

// supersedes reports whether s should replace prev in the status bar. Output
// from an older generation never hides a newer job.
func (s jobSnapshot) supersedes(prev jobSnapshot) bool {
	return s.Generation >= prev.Generation
}

func (s jobSnapshot) badge() string {
	switch s.Status {
	case jobStatusRunning:
		return fmt.Sprintf("%s running", s.ID())
	case jobStatusSucceeded:
		return fmt.Sprintf("%s ok %s", s.ID(), s.Duration().Round(time.Millisecond))
	case jobStatusFailed:
		return fmt.Sprintf("%s failed %s", s.ID(), s.Duration().Round(time.Millisecond))
	default:
		return ""
	}
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	log *logger.Logger
	now func() time.Time
}

func newJobBus(log *logger.Logger) *jobBus {
	return &jobBus{log: log.WithComponent("jobs"), now: time.Now}
}

// Start announces the job for generation, then runs it and wraps its payload
// with the final snapshot.
func (b *jobBus) Start(kind jobKind, generation uint64, runner jobRunner) tea.Cmd {
	started := jobSnapshot{Kind: kind, Generation: generation, Status: jobStatusRunning, StartedAt: b.now()}
	announce := func() tea.Msg {
		return jobSignalMsg{Snapshot: started}
	}
	run := func() tea.Msg {
		payload, err := runner(context.Background())
		done := started
		done.CompletedAt = b.now()
		done.Status = jobStatusSucceeded
		if err != nil {
			done.Status = jobStatusFailed
			done.Err = err.Error()
			b.log.WarnWithFields("%s %s", []logger.Field{
				logger.Duration(done.Duration()),
				logger.Err(err),
			}, done.ID(), done.Status)
		} else {
			b.log.InfoWithFields("%s %s", []logger.Field{
				logger.Duration(done.Duration()),
			}, done.ID(), done.Status)
		}
		return jobResultEnvelope{Snapshot: done, Payload: payload}
	}
	return tea.Sequence(announce, run)
}
