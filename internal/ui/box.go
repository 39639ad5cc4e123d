package ui

import "github.com/charmbracelet/lipgloss"

// renderBox draws content in a rounded border with title on the first row.
// width and height are the outer dimensions; overflowing content is clipped.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	bgColor := m.theme.Surface
	if focused {
		borderColor = m.theme.BorderFocus
		bgColor = m.theme.FocusBg
	}

	heading := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Background(lipgloss.Color(bgColor)).
		Bold(true).
		Render(title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(maxInt(width-2, 0)).
		Height(maxInt(height-2, 0)).
		MaxHeight(maxInt(height, 0)).
		Render(heading + "\n" + content)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
