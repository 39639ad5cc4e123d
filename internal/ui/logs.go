package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cattery/internal/logtail"
)

// updateLogViewport resizes the log viewport and refills it, keeping the
// view pinned to the bottom when it already was.
func (m *Model) updateLogViewport() {
	width := maxInt(m.width-4, 1)
	height := maxInt(m.contentHeight()-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogContent(width))
	if follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogContent colours each line by its classified level.
func (m Model) renderLogContent(width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	if len(m.logLines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logLines {
		style := styles.Text
		switch logtail.Classify(line) {
		case logtail.LevelError:
			style = styles.DangerText
		case logtail.LevelWarn:
			style = styles.WarningText
		}
		content := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText) + bg.Render(line, style)
		b.WriteString(bg.FillLine(content, width))
		if i < len(m.logLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLogs renders the log view.
func (m Model) renderLogs(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	title := "Log"
	if m.logPath != "" {
		title = "Log " + truncateMiddle(m.logPath, maxInt(width-20, 10))
	}
	status := bg.Render(fmt.Sprintf("%d lines", len(m.logLines)), styles.FaintText)
	return m.renderBox(title, m.logViewport.View()+"\n"+status, width, height, true)
}

// handleLogsKey scrolls the log viewport.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}
