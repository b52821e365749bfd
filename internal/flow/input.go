package flow

import "strings"

// Key is a toolkit-neutral key press on the ingredient input.
type Key struct {
	Enter bool
	Shift bool
}

// SubmitsOnKey reports whether k submits. Only plain Enter does; the caller
// must then suppress the newline the input would otherwise insert.
func SubmitsOnKey(k Key) bool {
	return k.Enter && !k.Shift
}

// Opacity levels for the trigger control.
const (
	TriggerOpacityReady   = 1.0
	TriggerOpacityPassive = 0.8
)

// TriggerOpacity is purely cosmetic: full when the input holds non-blank
// text. Submissions are validated independently in Begin.
func TriggerOpacity(input string) float64 {
	if strings.TrimSpace(input) != "" {
		return TriggerOpacityReady
	}
	return TriggerOpacityPassive
}

// Preset is an example ingredient list bound to a shortcut button.
type Preset struct {
	Label       string `yaml:"label" json:"label"`
	Ingredients string `yaml:"ingredients" json:"ingredients"`
}

// DefaultPresets are shown when the configuration does not name any.
func DefaultPresets() []Preset {
	return []Preset{
		{Label: "Garden salad", Ingredients: "apple, spinach, water"},
		{Label: "Breakfast bowl", Ingredients: "whole grain oats, almonds, honey, cinnamon"},
		{Label: "Candy bar", Ingredients: "sugar, palm oil, corn syrup, artificial flavor"},
	}
}
