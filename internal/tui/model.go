package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/nutriscout/internal/classifier"
	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/logger"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Orchestrator *flow.Orchestrator
	Presets      []flow.Preset
	Endpoint     string
	InitialInput string
	Logger       *logger.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Orchestrator == nil {
		client := classifier.New(classifier.Config{Endpoint: config.Endpoint})
		config.Orchestrator = flow.NewOrchestrator(client, flow.Policy{}, config.Logger)
	}
	if config.Presets == nil {
		config.Presets = flow.DefaultPresets()
	}

	layout := newPageLayout()

	input := textarea.New()
	input.Placeholder = inputPlaceholder
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(layout.inputWidth)
	input.SetHeight(layout.inputHeight)
	input.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	input.Focus()
	if config.InitialInput != "" {
		input.SetValue(config.InitialInput)
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(layout.resultsSize())
	vp.MouseWheelEnabled = true

	return &model{
		config:   config,
		orch:     config.Orchestrator,
		presets:  config.Presets,
		log:      config.Logger.WithComponent("tui"),
		state:    flow.Initial(),
		focus:    focusInput,
		input:    input,
		spinner:  spin,
		viewport: vp,
		layout:   layout,
		jobs:     newJobBus(config.Logger),
		now:      time.Now,
	}
}

// pasteWindow is the longest gap between a typed character and Enter for the
// Enter to count as part of a paste. The terminal delivers pasted text as a
// burst of key messages with no paste markers.
const pasteWindow = 15 * time.Millisecond

type model struct {
	config  Config
	orch    *flow.Orchestrator
	presets []flow.Preset
	log     *logger.Logger

	state flow.State
	focus focusTarget

	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout
	jobs     *jobBus

	lastJob     jobSnapshot
	helpVisible bool

	now      func() time.Time
	lastText time.Time
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state.Panel == flow.PanelLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.input.SetWidth(m.layout.inputWidth)
		m.input.SetHeight(m.layout.inputHeight)
		m.viewport.Width, m.viewport.Height = m.layout.resultsSize()
		m.refreshResults()
		return m, nil
	case tea.MouseMsg:
		if m.state.Panel == flow.PanelResults {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.trackJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.trackJob(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case analyzeResultMsg:
		m.apply(msg.event)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// apply moves the flow state forward and honours a pending scroll request.
func (m *model) apply(event flow.Event) {
	before := m.state.Generation
	m.state = flow.Transition(m.state, event)
	if m.state.Panel == flow.PanelResults {
		m.refreshResults()
	}
	if m.state.ScrollToResults {
		m.viewport.GotoTop()
		m.state = flow.Transition(m.state, flow.ScrollHandled{})
	}
	if m.state.Generation != before {
		m.log.Debug("state %s (generation %d)", m.state.Panel, m.state.Generation)
	}
}

func (m *model) trackJob(s jobSnapshot) {
	if s.supersedes(m.lastJob) {
		m.lastJob = s
	}
}

// submit routes every submission source through the orchestrator. It
// returns nil when no request is needed.
func (m *model) submit(raw string) tea.Cmd {
	next, ticket := m.orch.Begin(m.state, raw)
	m.state = next
	if ticket == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindAnalyze, ticket.Generation, analyzeJob(m.orch, *ticket)))
}

// activatePreset overwrites the input with preset idx and submits it.
func (m *model) activatePreset(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.presets) {
		return nil
	}
	if !m.orch.Accepts(m.state) {
		return nil
	}
	m.input.SetValue(m.presets[idx].Ingredients)
	return m.submit(m.input.Value())
}

var presetKeys = []tea.KeyType{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5,
	tea.KeyF6, tea.KeyF7, tea.KeyF8, tea.KeyF9,
}

func functionKeyPreset(key tea.KeyMsg) (int, bool) {
	for i, k := range presetKeys {
		if key.Type == k {
			return i, true
		}
	}
	return 0, false
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	pasting := !m.lastText.IsZero() && now.Sub(m.lastText) < pasteWindow
	if key.Type == tea.KeyRunes || key.Type == tea.KeySpace || (pasting && key.Type == tea.KeyEnter) {
		m.lastText = now
	}

	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyCtrlS:
		return m, m.submit(m.input.Value())
	case tea.KeyTab:
		return m, m.cycleFocus(1)
	case tea.KeyShiftTab:
		return m, m.cycleFocus(-1)
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	case tea.KeyEsc:
		if m.helpVisible {
			m.helpVisible = false
			return m, nil
		}
		return m, m.setFocus(focusInput)
	}
	if idx, ok := functionKeyPreset(key); ok {
		return m, m.activatePreset(idx)
	}
	if m.focus == focusInput {
		return m.handleInputKey(key, pasting)
	}
	return m.handleButtonKey(key)
}

// handleInputKey submits on Enter unless the Enter is a line break inside
// pasted text, which goes into the input instead.
func (m *model) handleInputKey(key tea.KeyMsg, pasting bool) (tea.Model, tea.Cmd) {
	if flow.SubmitsOnKey(toFlowKey(key)) {
		if pasting {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
			return m, cmd
		}
		return m, m.submit(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *model) handleButtonKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Type == tea.KeyEnter || key.Type == tea.KeySpace:
		if m.focus == focusTrigger {
			return m, m.submit(m.input.Value())
		}
		if idx, ok := m.focus.presetIndex(); ok {
			return m, m.activatePreset(idx)
		}
		return m, nil
	case key.String() == "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Type == tea.KeyRunes:
		focusCmd := m.setFocus(focusInput)
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, tea.Batch(focusCmd, cmd)
	}
	return m, nil
}

// toFlowKey maps a terminal key to the toolkit-neutral form. Terminals do
// not report shift+enter, so alt+enter and ctrl+j carry the modifier.
func toFlowKey(key tea.KeyMsg) flow.Key {
	switch key.Type {
	case tea.KeyEnter:
		return flow.Key{Enter: true, Shift: key.Alt}
	case tea.KeyCtrlJ:
		return flow.Key{Enter: true, Shift: true}
	default:
		return flow.Key{}
	}
}

func (m *model) focusCount() int {
	return int(focusFirstPreset) + len(m.presets)
}

func (m *model) cycleFocus(delta int) tea.Cmd {
	n := m.focusCount()
	next := (int(m.focus) + delta + n) % n
	return m.setFocus(focusTarget(next))
}

func (m *model) setFocus(target focusTarget) tea.Cmd {
	m.focus = target
	if target == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *model) refreshResults() {
	if m.state.Panel != flow.PanelResults {
		return
	}
	m.viewport.SetContent(m.resultsContent())
}
