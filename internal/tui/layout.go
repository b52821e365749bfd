package tui

import "strings"

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	inputWidth     int
	inputHeight    int
	viewportWidth  int
	viewportHeight int
	gaugeWidth     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		inputWidth:     76,
		inputHeight:    3,
		viewportWidth:  80,
		viewportHeight: 14,
		gaugeWidth:     40,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.inputWidth = innerWidth - 4
	l.inputHeight = 3
	// hero, input border, buttons, status bar and the gaps between them
	const chrome = 14
	usable := height - chrome - l.inputHeight
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
	l.gaugeWidth = innerWidth / 2
	if l.gaugeWidth > 50 {
		l.gaugeWidth = 50
	}
	if l.gaugeWidth < 10 {
		l.gaugeWidth = 10
	}
}

// resultsSize is the viewport area left inside the results box.
func (l pageLayout) resultsSize() (width, height int) {
	width = max(l.viewportWidth-resultBoxStyle.GetHorizontalFrameSize(), minResultsWidth)
	height = max(l.viewportHeight-resultBoxStyle.GetVerticalFrameSize(), minResultsHeight)
	return width, height
}

// compactHero reports whether the window is too narrow for the logo art.
func (l pageLayout) compactHero() bool {
	return l.windowWidth > 0 && l.windowWidth < logoWidth()+2
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	return width + 1
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
