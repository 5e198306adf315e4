package tui

import (
	"fmt"
	"strings"

	"github.com/mabhi256/gripview/utils"
)

// applyScrolling keeps the cursor inside the viewport and renders the visible
// window of lines.
func (m *Model) applyScrolling(lines []string, viewportHeight int) string {
	totalLines := len(lines)

	// No scrolling needed if content fits
	if totalLines <= viewportHeight {
		m.offset = 0
		return strings.Join(lines, "\n")
	}

	// The last visible line is taken by the scroll indicator.
	visible := max(viewportHeight-1, 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = min(max(m.offset, 0), totalLines-visible)

	endPos := m.offset + visible
	visibleLines := append([]string(nil), lines[m.offset:endPos]...)

	scrollInfo := fmt.Sprintf("%s (Line %d-%d of %d) %s",
		utils.MutedStyle.Render("▲"),
		m.offset+1,
		endPos,
		totalLines,
		utils.MutedStyle.Render("▼"))

	return strings.Join(append(visibleLines, scrollInfo), "\n")
}
