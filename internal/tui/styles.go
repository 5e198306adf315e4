package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/utils"
)

var (
	CursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#2a3a4a")).
			Bold(true)

	NameStyle      = lipgloss.NewStyle().Foreground(utils.InfoLightColor)
	SyntheticStyle = lipgloss.NewStyle().Foreground(utils.MutedColor).Italic(true)
	ArrowStyle     = lipgloss.NewStyle().Foreground(utils.MutedColor)
)

func nameStyle(n *node.Node) lipgloss.Style {
	switch n.Type {
	case node.TypeGrip:
		return NameStyle
	default:
		return SyntheticStyle
	}
}
