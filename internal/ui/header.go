package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/state"
)

// flash is a transient message shown in the header.
type flash struct {
	seq   int
	text  string
	isErr bool
}

// setFlash shows text in the header until it expires or is replaced.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flash = flash{seq: m.flash.seq + 1, text: text, isErr: isErr}
	return flashExpireCmd(m.flash.seq)
}

// currentStatus is the status of the tracker for the active mode.
func (m Model) currentStatus() state.Status {
	if m.session == nil {
		return state.StatusIdle
	}
	switch m.mode {
	case cataas.ModeHTML:
		return m.session.HTML.Snapshot().Status
	case cataas.ModeJSON:
		return m.session.JSON.Snapshot().Status
	default:
		return m.session.Image.Snapshot().Status
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	status := m.currentStatus()
	parts := []string{
		bg.Render("cattery", styles.Logo),
		bg.Render(strings.ToUpper(status.String()), m.theme.Styles().StatusStyle(status)),
		bg.Render("Mode:", styles.MutedText) + bg.Space() + bg.Render(m.mode.String(), styles.Text),
		bg.Render("Favs:", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", len(m.favList)), styles.Text),
	}

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(truncateMiddle(m.domain, 30), styles.FaintText))
	}

	if m.flash.text != "" {
		style := styles.SuccessText
		if m.flash.isErr {
			style = styles.DangerText
		}
		used := lipgloss.Width(bg.Join(parts, sep))
		parts = append(parts, bg.Render(truncate(m.flash.text, maxInt(m.width-used-6, 10)), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the command hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewFavorites:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Load"},
			{"x", "Remove"},
			{"p", "Panel"},
			{"?", "More"},
		}
	case ViewTags:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Add tag"},
			{"r", "Reload"},
			{"p", "Panel"},
			{"?", "More"},
		}
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"p", "Panel"},
			{"?", "More"},
		}
	default:
		if m.form.editing {
			commands = []cmd{
				{"enter", "Apply"},
				{"esc", "Cancel"},
			}
			break
		}
		commands = []cmd{
			{"enter", "Edit"},
			{"r", "Fetch"},
			{"m", m.mode.String()},
			{"s", "Save"},
			{"f", "Favourites"},
			{"t", "Tags"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
