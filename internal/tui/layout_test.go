package tui

import (
	"strings"
	"testing"

	"github.com/csheth/nutriscout/internal/health"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
		inputWidth     int
		gaugeWidth     int
		resultsWidth   int
		resultsHeight  int
		compact        bool
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 7, inputWidth: 72, gaugeWidth: 38, resultsWidth: 72, resultsHeight: 5, compact: true},
		{name: "wide", width: 200, height: 40, viewportWidth: 196, viewportHeight: 23, inputWidth: 192, gaugeWidth: 50, resultsWidth: 192, resultsHeight: 21, compact: false},
		{name: "tiny", width: 20, height: 10, viewportWidth: 40, viewportHeight: 6, inputWidth: 36, gaugeWidth: 20, resultsWidth: 36, resultsHeight: 4, compact: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.viewportWidth != tc.viewportWidth {
				t.Fatalf("viewport width mismatch: got %d want %d", layout.viewportWidth, tc.viewportWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
			if layout.inputWidth != tc.inputWidth {
				t.Fatalf("input width mismatch: got %d want %d", layout.inputWidth, tc.inputWidth)
			}
			if layout.gaugeWidth != tc.gaugeWidth {
				t.Fatalf("gauge width mismatch: got %d want %d", layout.gaugeWidth, tc.gaugeWidth)
			}
			if w, h := layout.resultsSize(); w != tc.resultsWidth || h != tc.resultsHeight {
				t.Fatalf("results size mismatch: got %dx%d want %dx%d", w, h, tc.resultsWidth, tc.resultsHeight)
			}
			if layout.compactHero() != tc.compact {
				t.Fatalf("compact hero mismatch: got %v want %v", layout.compactHero(), tc.compact)
			}
		})
	}
}

func TestGaugeCells(t *testing.T) {
	cases := []struct {
		name   string
		rating float64
		policy health.GaugePolicy
		want   int
	}{
		{name: "nine", rating: 9, policy: health.GaugePreserve, want: 18},
		{name: "zero", rating: 0, policy: health.GaugePreserve, want: 0},
		{name: "full", rating: 10, policy: health.GaugePreserve, want: 20},
		{name: "overshoot drawn bounded", rating: 12, policy: health.GaugePreserve, want: 20},
		{name: "negative drawn empty", rating: -3, policy: health.GaugePreserve, want: 0},
		{name: "clamped", rating: 25, policy: health.GaugeClamp, want: 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := health.NewGauge(tc.rating, "", tc.policy)
			if got := gaugeCells(g, 20); got != tc.want {
				t.Fatalf("expected %d filled cells, got %d", tc.want, got)
			}
		})
	}
}

func TestRenderGaugeBar(t *testing.T) {
	bar := renderGaugeBar(health.NewGauge(5, "", health.GaugePreserve), 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Fatalf("unexpected bar %q", bar)
	}
	if !strings.HasPrefix(bar, "[") || !strings.HasSuffix(bar, "]") {
		t.Fatalf("bar should be bracketed: %q", bar)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	if got := joinNonEmpty([]string{"a", "  ", "", "b"}); got != "a\n\nb" {
		t.Fatalf("unexpected join %q", got)
	}
}
