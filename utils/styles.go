package utils

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/gripview/internal/grip"
)

var (
	CriticalColor = lipgloss.Color("#CC3333") // Dark red
	WarningColor  = lipgloss.Color("#FF8800") // Orange
	GoodColor     = lipgloss.Color("#228B22") // Forest green
	InfoColor     = lipgloss.Color("#4682B4") // Steel blue
	TextColor     = lipgloss.Color("#CCCCCC") // Light gray
	MutedColor    = lipgloss.Color("#888888") // Medium gray
	BorderColor   = lipgloss.Color("#666666") // Dark gray

	CriticalLightColor = lipgloss.Color("#FF6666") // Lighter red
	WarningLightColor  = lipgloss.Color("#FFAA44") // Lighter orange
	GoodLightColor     = lipgloss.Color("#66BB66") // Lighter green
	InfoLightColor     = lipgloss.Color("#88AACC") // Lighter blue
	PurpleColor        = lipgloss.Color("#B48EAD")
)

var (
	CriticalStyle = lipgloss.NewStyle().Foreground(CriticalColor).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	GoodStyle     = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	TextStyle     = lipgloss.NewStyle().Foreground(TextColor)

	CriticalLightStyle = lipgloss.NewStyle().Foreground(CriticalLightColor)
	WarningLightStyle  = lipgloss.NewStyle().Foreground(WarningLightColor)
	GoodLightStyle     = lipgloss.NewStyle().Foreground(GoodLightColor)
	InfoLightStyle     = lipgloss.NewStyle().Foreground(InfoLightColor)
	PurpleStyle        = lipgloss.NewStyle().Foreground(PurpleColor)
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("#1a1a1a")).
			Bold(true).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(MutedColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(CriticalColor).
			Background(lipgloss.Color("#1a1a1a")).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CriticalColor)

	HelpBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Background(lipgloss.Color("#1a1a1a")).
			Width(0). // Will be set dynamically
			Padding(0, 1)
)

// ValueStyle picks the color a value is rendered in.
func ValueStyle(v *grip.Value) lipgloss.Style {
	if v.Grip() == nil {
		switch v.Primitive().(type) {
		case string:
			return GoodLightStyle
		case float64, bool:
			return InfoLightStyle
		default:
			return MutedStyle
		}
	}

	switch v.Kind() {
	case grip.KindLongString:
		return GoodLightStyle
	case grip.KindSymbol:
		return PurpleStyle
	case grip.KindFunction:
		return WarningLightStyle
	case grip.KindError:
		return CriticalLightStyle
	case grip.KindPrimitive:
		return MutedStyle
	default:
		return TextStyle
	}
}

// TruncateString cuts s to maxWidth cells, marking the cut with an ellipsis.
func TruncateString(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth < 2 {
		return strings.Repeat(".", max(maxWidth, 0))
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > maxWidth-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads a string to the right to reach the specified width
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
