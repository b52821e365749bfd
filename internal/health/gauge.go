package health

import (
	"fmt"
	"strings"
)

const (
	// Circumference is the total arc length of the rating gauge.
	Circumference = 534.0
	// MaxRating is the top of the classifier's rating scale.
	MaxRating = 10.0
)

// GaugePolicy decides how ratings outside [0, MaxRating] map onto the arc.
type GaugePolicy string

const (
	// GaugePreserve applies the scaling as-is, so out-of-range ratings
	// overshoot or invert the fill.
	GaugePreserve GaugePolicy = "preserve"
	// GaugeClamp bounds the rating to [0, MaxRating] before scaling.
	GaugeClamp GaugePolicy = "clamp"
)

// ParseGaugePolicy accepts "preserve" or "clamp" (case-insensitive). An empty
// value means GaugePreserve.
func ParseGaugePolicy(value string) (GaugePolicy, error) {
	switch GaugePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", GaugePreserve:
		return GaugePreserve, nil
	case GaugeClamp:
		return GaugeClamp, nil
	default:
		return "", fmt.Errorf("unknown gauge policy %q (want preserve or clamp)", value)
	}
}

// Gauge is the fill of the circular rating indicator.
type Gauge struct {
	Progress   float64 `json:"progress"`
	DashOffset float64 `json:"dashOffset"`
	Stroke     string  `json:"stroke"`
}

// NewGauge maps a rating onto the arc: progress = rating/10 * C and
// dashOffset = C - progress.
func NewGauge(rating float64, stroke string, policy GaugePolicy) Gauge {
	if policy == GaugeClamp {
		if rating < 0 {
			rating = 0
		} else if rating > MaxRating {
			rating = MaxRating
		}
	}
	progress := (rating / MaxRating) * Circumference
	return Gauge{
		Progress:   progress,
		DashOffset: Circumference - progress,
		Stroke:     stroke,
	}
}

// Fraction reports how much of the arc is filled. It is not bounded when the
// gauge was built with GaugePreserve.
func (g Gauge) Fraction() float64 {
	return g.Progress / Circumference
}
