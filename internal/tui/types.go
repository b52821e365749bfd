package tui

import "github.com/csheth/nutriscout/internal/flow"

// focusTarget indexes the focus ring: the input, the Analyze button, then
// one slot per preset.
type focusTarget int

const (
	focusInput focusTarget = iota
	focusTrigger
	focusFirstPreset
)

func presetFocus(index int) focusTarget {
	return focusFirstPreset + focusTarget(index)
}

func (f focusTarget) presetIndex() (int, bool) {
	if f < focusFirstPreset {
		return 0, false
	}
	return int(f - focusFirstPreset), true
}

const heroTagline = "Know what goes into your food with NutriScout."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	maxPresetShortcuts        = 9
	minResultsWidth           = 20
	minResultsHeight          = 3
	inputPlaceholder          = "Enter ingredients, e.g. apple, spinach, water"
	triggerLabel              = "Analyze"
)

// analyzeResultMsg carries the completion event of one submission.
type analyzeResultMsg struct {
	event flow.Event
}
