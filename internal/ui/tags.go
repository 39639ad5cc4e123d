package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) tags() []string {
	if m.session == nil {
		return nil
	}
	return m.session.Tags.Snapshot().Value
}

// handleTagsKey processes keyboard input for the tag list.
func (m Model) handleTagsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Fetch) && m.session != nil {
		return m, loadTagsCmd(m.ctx, m.session)
	}

	tags := m.tags()
	count := len(tags)
	if count == 0 {
		return m, nil
	}
	if m.tagSelected >= count {
		m.tagSelected = count - 1
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.tagSelected < count-1 {
			m.tagSelected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.tagSelected > 0 {
			m.tagSelected--
		}
	case key.Matches(msg, m.keys.Top):
		m.tagSelected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.tagSelected = count - 1
	case key.Matches(msg, m.keys.Edit):
		tag := tags[m.tagSelected]
		m.form.appendTag(tag)
		cmd := m.setFlash(fmt.Sprintf("Tags: %s", m.form.field("tags").value), false)
		return m, cmd
	}
	return m, nil
}

// renderTags renders the tag vocabulary as a scrolling list.
func (m Model) renderTags(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	inner := width - 4

	title := "Tags"
	if m.session == nil {
		return m.renderBox(title, "", width, height, true)
	}
	snap := m.session.Tags.Snapshot()
	switch {
	case snap.Loading():
		return m.renderBox(title, bg.FillLine(bg.Render("Loading tags...", styles.WarningText), inner), width, height, true)
	case snap.Err != nil:
		return m.renderBox(title, bg.FillLine(bg.Render(truncate(snap.Err.Error(), inner), styles.DangerText), inner), width, height, true)
	case len(snap.Value) == 0:
		return m.renderBox(title, bg.FillLine(bg.Render("No tags loaded. Press r to load.", styles.MutedText), inner), width, height, true)
	}

	tags := snap.Value
	selected := minInt(m.tagSelected, len(tags)-1)
	chosen := map[string]bool{}
	for _, t := range splitList(m.form.field("tags").value) {
		chosen[t] = true
	}

	rows := height - 3
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}

	var b strings.Builder
	for i := start; i < len(tags) && i < start+rows; i++ {
		prefix := "  "
		style := styles.Text
		if i == selected {
			prefix = "> "
			style = styles.AccentText.Bold(true)
		}
		mark := ""
		if chosen[tags[i]] {
			mark = " *"
		}
		b.WriteString(bg.FillLine(bg.Render(prefix, styles.AccentText)+bg.Render(truncate(tags[i], inner-4), style)+bg.Render(mark, styles.SuccessText), inner))
		if i < len(tags)-1 && i < start+rows-1 {
			b.WriteString("\n")
		}
	}
	title = fmt.Sprintf("Tags (%d)", len(tags))
	return m.renderBox(title, b.String(), width, height, true)
}
