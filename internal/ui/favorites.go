package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/five82/cattery/internal/favorites"
)

func (m *Model) clampFavSelection() {
	if m.favSelected >= len(m.favList) {
		m.favSelected = len(m.favList) - 1
	}
	if m.favSelected < 0 {
		m.favSelected = 0
	}
}

func (m Model) selectedFavorite() (favorites.FavoriteCat, bool) {
	if m.favSelected < 0 || m.favSelected >= len(m.favList) {
		return favorites.FavoriteCat{}, false
	}
	return m.favList[m.favSelected], true
}

// handleFavoritesKey processes keyboard input for the favourites list.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.favList)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.favSelected < count-1 {
			m.favSelected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.favSelected > 0 {
			m.favSelected--
		}
	case key.Matches(msg, m.keys.Top):
		m.favSelected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.favSelected = count - 1
	case key.Matches(msg, m.keys.Edit):
		fav, ok := m.selectedFavorite()
		if !ok {
			return m, nil
		}
		m.form.setRequest(fav.Request())
		m.form.syncMode(m.mode)
		m.currentView = ViewPanel
		cmd := m.fetch()
		return m, cmd
	case key.Matches(msg, m.keys.Remove):
		fav, ok := m.selectedFavorite()
		if !ok || m.favStore == nil {
			return m, nil
		}
		return m, removeFavoriteCmd(m.ctx, m.favStore, fav.ID)
	}
	return m, nil
}

// renderFavorites renders the favourites list.
func (m Model) renderFavorites(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	inner := width - 4

	if len(m.favList) == 0 {
		content := bg.FillLine(bg.Render("No favourites yet. Press s on the panel to save one.", styles.MutedText), inner)
		return m.renderBox("Favourites", content, width, height, true)
	}

	rows := height - 3
	start := 0
	if m.favSelected >= rows {
		start = m.favSelected - rows + 1
	}

	var b strings.Builder
	for i := start; i < len(m.favList) && i < start+rows; i++ {
		fav := m.favList[i]
		caption := ""
		if fav.Customization != nil && fav.Customization.Text != "" {
			caption = "says " + fav.Customization.Text
		}
		saved := humanize.Time(fav.SavedAt)

		rowStyle, idStyle := styles.Text, styles.AccentText
		prefix := "  "
		if i == m.favSelected {
			prefix = "> "
			rowStyle = rowStyle.Bold(true)
		}
		line := bg.Render(prefix, styles.AccentText) +
			bg.Render(padRight(fav.ID, 10), idStyle) +
			bg.Render(padRight(truncate(fav.CataasID, 20), 22), rowStyle) +
			bg.Render(padRight(saved, 16), styles.MutedText) +
			bg.Render(truncate(caption, maxInt(inner-50, 0)), styles.FaintText)
		b.WriteString(bg.FillLine(line, inner))
		if i < len(m.favList)-1 && i < start+rows-1 {
			b.WriteString("\n")
		}
	}
	return m.renderBox("Favourites", b.String(), width, height, true)
}
