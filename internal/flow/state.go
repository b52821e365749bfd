// Package flow owns the analysis panel state machine and the orchestration
// of classifier requests. It imports no UI toolkit so every transition can be
// exercised directly.
package flow

import "github.com/csheth/nutriscout/internal/health"

// Panel identifies the one visible section of the screen.
type Panel int

const (
	PanelIdle Panel = iota
	PanelLoading
	PanelResults
	PanelError
)

func (p Panel) String() string {
	switch p {
	case PanelIdle:
		return "idle"
	case PanelLoading:
		return "loading"
	case PanelResults:
		return "results"
	case PanelError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the complete visible state. View is meaningful only on
// PanelResults and Message only on PanelError.
type State struct {
	Panel          Panel
	View           health.View
	Message        string
	TriggerEnabled bool
	// Generation numbers the latest submission. Completions carrying an
	// older number are stale.
	Generation uint64
	// ScrollToResults asks the host to bring the results panel into view.
	// It is cleared with ScrollHandled.
	ScrollToResults bool
}

// Initial is the state before any submission.
func Initial() State {
	return State{Panel: PanelIdle, TriggerEnabled: true}
}

// InFlight reports whether the latest submission is still waiting for its
// response.
func (s State) InFlight() bool {
	return !s.TriggerEnabled
}

// Event is an input to Transition.
type Event interface {
	event()
}

// Submitted starts generation Generation.
type Submitted struct {
	Generation uint64
}

// Rejected is a submission refused before any request was made.
type Rejected struct {
	Generation uint64
	Message    string
}

// Succeeded completes a generation with a rendered result.
type Succeeded struct {
	Generation uint64
	View       health.View
}

// Failed completes a generation with a user-facing message. Err keeps the
// underlying cause for logging.
type Failed struct {
	Generation uint64
	Message    string
	Err        error
}

// ScrollHandled acknowledges a scroll request.
type ScrollHandled struct{}

func (Submitted) event()     {}
func (Rejected) event()      {}
func (Succeeded) event()     {}
func (Failed) event()        {}
func (ScrollHandled) event() {}

// Transition applies e to s. Every panel change rebuilds the state from
// scratch, so nothing from the previous panel survives. Completions for any
// generation other than s.Generation leave s untouched.
func Transition(s State, e Event) State {
	switch e := e.(type) {
	case Submitted:
		return State{
			Panel:      PanelLoading,
			Generation: e.Generation,
		}
	case Rejected:
		return State{
			Panel:          PanelError,
			Message:        e.Message,
			TriggerEnabled: true,
			Generation:     e.Generation,
		}
	case Succeeded:
		if e.Generation != s.Generation {
			return s
		}
		return State{
			Panel:           PanelResults,
			View:            e.View,
			TriggerEnabled:  true,
			Generation:      e.Generation,
			ScrollToResults: true,
		}
	case Failed:
		if e.Generation != s.Generation {
			return s
		}
		return State{
			Panel:          PanelError,
			Message:        e.Message,
			TriggerEnabled: true,
			Generation:     e.Generation,
		}
	case ScrollHandled:
		s.ScrollToResults = false
		return s
	default:
		return s
	}
}
