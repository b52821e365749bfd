package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 2)
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#52b788")
	heroLeafColor          = lipgloss.Color("#081c15")
	heroTextColor          = lipgloss.Color("#d8f3dc")
	heroSecondaryTextColor = lipgloss.Color("#95d5b2")

	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)

	// Buttons. The trigger has a ready and a passive look that stand in for
	// full and 0.8 opacity.
	buttonStyle        = lipgloss.NewStyle().Foreground(heroTextColor).Background(lipgloss.Color("#2d6a4f")).Padding(0, 2)
	buttonPassiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#74a892")).Background(lipgloss.Color("#1b4332")).Padding(0, 2)
	buttonFocusStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	presetButtonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Background(lipgloss.Color("#393552")).Padding(0, 1)
	buttonGapStyle     = lipgloss.NewStyle().PaddingRight(1)

	ratingStyle     = lipgloss.NewStyle().Bold(true)
	gaugeEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a"))

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroLeafColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#02110b"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███╗   ██╗ ██╗   ██╗ ████████╗ ██████╗  ██╗ ███████╗  ██████╗  ██████╗  ██╗   ██╗ ████████╗",
		"████╗  ██║ ██║   ██║ ╚══██╔══╝ ██╔══██╗ ██║ ██╔════╝ ██╔════╝ ██╔═══██╗ ██║   ██║ ╚══██╔══╝",
		"██╔██╗ ██║ ██║   ██║    ██║    ██████╔╝ ██║ ███████╗ ██║      ██║   ██║ ██║   ██║    ██║   ",
		"██║╚██╗██║ ██║   ██║    ██║    ██╔══██╗ ██║ ╚════██║ ██║      ██║   ██║ ██║   ██║    ██║   ",
		"██║ ╚████║ ╚██████╔╝    ██║    ██║  ██║ ██║ ███████║ ╚██████╗ ╚██████╔╝ ╚██████╔╝    ██║   ",
		"╚═╝  ╚═══╝  ╚═════╝     ╚═╝    ╚═╝  ╚═╝ ╚═╝ ╚══════╝  ╚═════╝  ╚═════╝   ╚═════╝     ╚═╝   ",
	}
)

// levelStyle colours text with the classifier's stroke colour when it is a
// usable terminal colour.
func levelStyle(color string) lipgloss.Style {
	if color == "" {
		return ratingStyle
	}
	return ratingStyle.Foreground(lipgloss.Color(color))
}
