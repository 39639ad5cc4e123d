package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/favorites"
	"github.com/five82/cattery/internal/logtail"
	"github.com/five82/cattery/internal/session"
)

// Messages

type sessionChangedMsg struct{}

type favoritesChangedMsg []favorites.FavoriteCat

type fetchDoneMsg struct {
	mode cataas.Mode
	err  error
}

type favoriteDoneMsg struct {
	text string
	err  error
}

type flashExpiredMsg struct{ seq int }

type logTickMsg time.Time

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

// fetchCmd runs the fetch off the event loop. The tracker publishes the
// result; the message only carries the error for the flash line.
func fetchCmd(ctx context.Context, s *session.Session, mode cataas.Mode, req cataas.Request) tea.Cmd {
	return func() tea.Msg {
		err := s.Fetch(ctx, mode, req)
		if errors.Is(err, session.ErrSuperseded) {
			err = nil
		}
		return fetchDoneMsg{mode: mode, err: err}
	}
}

func loadTagsCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		err := s.LoadTags(ctx)
		if errors.Is(err, session.ErrSuperseded) {
			err = nil
		}
		return fetchDoneMsg{err: err}
	}
}

func addFavoriteCmd(ctx context.Context, store *favorites.Store, cataasID string, custom *favorites.Customization) tea.Cmd {
	return func() tea.Msg {
		fav, err := store.Add(ctx, cataasID, custom)
		if err != nil {
			return favoriteDoneMsg{err: err}
		}
		return favoriteDoneMsg{text: fmt.Sprintf("Saved %s as favourite %s", fav.CataasID, fav.ID)}
	}
}

func removeFavoriteCmd(ctx context.Context, store *favorites.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if err := store.Remove(ctx, id); err != nil {
			return favoriteDoneMsg{err: err}
		}
		return favoriteDoneMsg{text: "Removed favourite " + id}
	}
}

func logTickCmd() tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func flashExpireCmd(seq int) tea.Cmd {
	return tea.Tick(StatusMessageTTL, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
