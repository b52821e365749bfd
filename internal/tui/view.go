package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/health"
)

func (m *model) View() string {
	parts := []string{m.heroView(), m.inputPanel(), m.activePanel()}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if m.layout.compactHero() {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			logoFaceStyle.Render(" NUTRISCOUT "),
			taglineStyle.Render(heroTagline),
		)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderLogo(),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) inputPanel() string {
	return joinLines([]string{
		sectionHeaderStyle.Render("Ingredients"),
		inputBoxStyle.Render(m.input.View()),
		m.buttonRow(),
		helperStyle.Render("Enter: analyze • Alt+Enter/Ctrl+J: newline • Tab: buttons • F1-F9: presets • Ctrl+C: quit"),
	})
}

func (m *model) buttonRow() string {
	buttons := []string{m.triggerButton()}
	for i, preset := range m.presets {
		label := preset.Label
		if label == "" {
			label = preset.Ingredients
		}
		if i < maxPresetShortcuts {
			label = fmt.Sprintf("F%d %s", i+1, label)
		}
		buttons = append(buttons, renderButton(presetButtonStyle, label, m.focus == presetFocus(i)))
	}
	for i := range buttons[:len(buttons)-1] {
		buttons[i] = buttonGapStyle.Render(buttons[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m *model) triggerButton() string {
	label := triggerLabel
	if !m.state.TriggerEnabled {
		label = "Analyzing…"
	}
	style := buttonPassiveStyle
	if m.state.TriggerEnabled && flow.TriggerOpacity(m.input.Value()) >= flow.TriggerOpacityReady {
		style = buttonStyle
	}
	return renderButton(style, label, m.focus == focusTrigger)
}

func renderButton(style lipgloss.Style, label string, focused bool) string {
	if focused {
		style = style.Copy().Inherit(buttonFocusStyle)
		label = "▸ " + label
	}
	return style.Render(label)
}

func (m *model) activePanel() string {
	switch m.state.Panel {
	case flow.PanelLoading:
		return helperStyle.Render(fmt.Sprintf("%s Analyzing ingredients…", m.spinner.View()))
	case flow.PanelResults:
		return resultBoxStyle.Render(m.viewport.View())
	case flow.PanelError:
		return errorBoxStyle.Render(errorStyle.Render(m.state.Message))
	default:
		return helperStyle.Render("Type ingredients or pick a preset, then press Enter to rate them.")
	}
}

func (m *model) resultsContent() string {
	v := m.state.View
	style := levelStyle(v.Color)
	wrap := m.wrapWidth(4)

	lines := []string{
		sectionHeaderStyle.Render("Health Rating"),
		lipgloss.JoinHorizontal(lipgloss.Top, style.Render(v.Rating+" / 10"), "  ", style.Render(v.Level)),
		renderGaugeBar(v.Gauge, m.layout.gaugeWidth),
		helperStyle.Render(fmt.Sprintf("dash offset %.2f of %.0f", v.Gauge.DashOffset, health.Circumference)),
	}
	if v.Description != "" {
		lines = append(lines, "", wordwrap.String(v.Description, wrap))
	}
	lines = append(lines,
		"",
		sectionHeaderStyle.Render("Ingredients analyzed"),
		indentMultiline(wordwrap.String(v.Ingredients, wrap), "  "),
	)
	return strings.Join(lines, "\n")
}

// gaugeCells is how many of width cells the gauge fills. The drawing is
// always bounded even when the gauge itself overshoots.
func gaugeCells(g health.Gauge, width int) int {
	if width <= 0 {
		return 0
	}
	filled := int(math.Round(g.Fraction() * float64(width)))
	if filled < 0 {
		return 0
	}
	if filled > width {
		return width
	}
	return filled
}

func renderGaugeBar(g health.Gauge, width int) string {
	filled := gaugeCells(g, width)
	var b strings.Builder
	b.WriteString("[")
	if filled > 0 {
		b.WriteString(levelStyle(g.Stroke).Render(strings.Repeat("█", filled)))
	}
	if filled < width {
		b.WriteString(gaugeEmptyStyle.Render(strings.Repeat("░", width-filled)))
	}
	b.WriteString("]")
	return b.String()
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Endpoint %s", m.orch.Endpoint()),
		fmt.Sprintf("State %s", m.state.Panel),
		fmt.Sprintf("Overlap %s", m.orch.Policy().Overlap),
	}
	if badge := m.lastJob.badge(); badge != "" {
		stats = append(stats, badge)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Analyze"},
		{"Alt+Enter", "Newline"},
		{"Paste", "Line breaks stay in input"},
		{"Ctrl+S", "Analyze from anywhere"},
		{"Tab", "Next button"},
		{"Shift+Tab", "Previous button"},
		{"F1-F9", "Run preset"},
		{"PgUp/PgDn", "Scroll results"},
		{"Esc", "Back to input"},
		{"?", "Toggle cheatsheet"},
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	return joinParts(parts, "\n\n")
}

func joinLines(parts []string) string {
	return joinParts(parts, "\n")
}

// joinParts joins the parts that render something, skipping blank ones.
func joinParts(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// renderLogo draws the banner with a one-cell drop shadow to the lower right.
func renderLogo() string {
	rows := make([][]rune, len(logoArtLines))
	width := 0
	for i, line := range logoArtLines {
		rows[i] = []rune(line)
		width = max(width, len(rows[i]))
	}
	if width == 0 {
		return ""
	}
	ink := func(x, y int) bool {
		return y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) && rows[y][x] != ' '
	}

	var b strings.Builder
	for y := 0; y <= len(rows); y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x <= width; x++ {
			switch {
			case ink(x, y):
				b.WriteString(logoFaceStyle.Render(string(rows[y][x])))
			case ink(x-1, y-1):
				b.WriteString(logoShadowStyle.Render(string(rows[y-1][x-1])))
			default:
				b.WriteByte(' ')
			}
		}
	}
	return logoContainerStyle.Render(b.String())
}
