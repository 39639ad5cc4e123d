package ui

import "github.com/charmbracelet/lipgloss"

// renderPanel lays out the form beside the result pane, or above it on
// narrow terminals.
func (m Model) renderPanel(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)

	if width < LayoutCompactWidth {
		formHeight := minInt(len(m.form.fields)+3, height/2)
		form := m.renderBox("Parameters", m.form.render(styles, bg, width-4), width, formHeight, true)
		result := m.renderResult(width, height-formHeight)
		return lipgloss.JoinVertical(lipgloss.Left, form, result)
	}

	form := m.renderBox("Parameters", m.form.render(styles, bg, formWidth-4), formWidth, height, true)
	result := m.renderResult(width-formWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, form, result)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
