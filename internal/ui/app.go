package ui

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/favorites"
	"github.com/five82/cattery/internal/prefs"
	"github.com/five82/cattery/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewPanel View = iota
	ViewFavorites
	ViewTags
	ViewLogs
)

var viewOrder = []View{ViewPanel, ViewFavorites, ViewTags, ViewLogs}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Favorites *favorites.Store
	Domain    string
	LogPath   string
	ThemeName string
	Mode      cataas.Mode
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *session.Session
	favStore  *favorites.Store
	domain    string
	logPath   string
	prefsPath string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	flash       flash

	// Panel state
	mode cataas.Mode
	form panelForm

	// List state
	favList     []favorites.FavoriteCat
	favSelected int
	tagSelected int

	// Log state
	logViewport viewport.Model
	logLines    []string
	logTicking  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	domain := opts.Domain
	if domain == "" {
		domain = cataas.DefaultDomain
	}

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		favStore:    opts.Favorites,
		domain:      domain,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewPanel,
		mode:        opts.Mode,
		form:        newPanelForm(),
	}
	m.form.syncMode(m.mode)
	if m.favStore != nil {
		m.favList = m.favStore.List()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case sessionChangedMsg:
		// Trackers are read during View.
		return m, nil

	case favoritesChangedMsg:
		m.favList = []favorites.FavoriteCat(msg)
		m.clampFavSelection()
		return m, nil

	case fetchDoneMsg:
		if msg.err != nil {
			cmd := m.setFlash(msg.err.Error(), true)
			return m, cmd
		}
		return m, nil

	case favoriteDoneMsg:
		if msg.err != nil {
			cmd := m.setFlash(msg.err.Error(), true)
			return m, cmd
		}
		if m.favStore != nil {
			m.favList = m.favStore.List()
			m.clampFavSelection()
		}
		cmd := m.setFlash(msg.text, false)
		return m, cmd

	case flashExpiredMsg:
		if msg.seq == m.flash.seq {
			m.flash = flash{seq: m.flash.seq}
		}
		return m, nil

	case logTickMsg:
		if m.currentView != ViewLogs {
			m.logTicking = false
			return m, nil
		}
		return m, tea.Batch(readLogCmd(m.logPath), logTickCmd())

	case logLinesMsg:
		if msg.err != nil {
			log.Printf("read log: %v", msg.err)
			return m, nil
		}
		m.logLines = msg.lines
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// contentHeight is the height left below the header and command bar.
func (m Model) contentHeight() int {
	return maxInt(m.height-2, 3)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFavorites:
		return m.renderFavorites(m.width, m.contentHeight())
	case ViewTags:
		return m.renderTags(m.width, m.contentHeight())
	case ViewLogs:
		return m.renderLogs(m.width, m.contentHeight())
	default:
		return m.renderPanel(m.width, m.contentHeight())
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// An active text input swallows everything but its own controls.
	if m.form.editing {
		switch msg.Type {
		case tea.KeyEnter:
			m.form.commit()
			return m, nil
		case tea.KeyEsc:
			m.form.cancelEdit()
			return m, nil
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		cmd := m.form.updateInput(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(nextView(m.currentView))

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewPanel):
		return m.switchView(ViewPanel)

	case key.Matches(msg, m.keys.ViewFavorites):
		return m.switchView(ViewFavorites)

	case key.Matches(msg, m.keys.ViewTags):
		return m.switchView(ViewTags)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	}

	switch m.currentView {
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewTags:
		return m.handleTagsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handlePanelKey(msg)
	}
}

func nextView(current View) View {
	for i, v := range viewOrder {
		if v == current {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewPanel
}

// switchView changes the active view and starts whatever loading it needs.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	switch v {
	case ViewTags:
		if m.session != nil && !m.session.Tags.Snapshot().HasValue && !m.session.Tags.Snapshot().Loading() {
			return m, loadTagsCmd(m.ctx, m.session)
		}
	case ViewLogs:
		cmds := []tea.Cmd{readLogCmd(m.logPath)}
		if !m.logTicking {
			m.logTicking = true
			cmds = append(cmds, logTickCmd())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// handlePanelKey processes keyboard input for the parameter panel.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.form.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.form.move(1)
	case key.Matches(msg, m.keys.Top):
		m.form.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.form.cursor = len(m.form.fields) - 1
	case key.Matches(msg, m.keys.Edit):
		cmd := m.form.activate()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.form.clearCurrent()
	case key.Matches(msg, m.keys.CycleMode):
		m.mode = nextMode(m.mode)
		m.form.syncMode(m.mode)
		m.savePrefs()
	case key.Matches(msg, m.keys.Fetch):
		cmd := m.fetch()
		return m, cmd
	case key.Matches(msg, m.keys.Favorite):
		cmd := m.saveFavorite()
		return m, cmd
	}
	return m, nil
}

func nextMode(current cataas.Mode) cataas.Mode {
	for i, mode := range cataas.Modes {
		if mode == current {
			return cataas.Modes[(i+1)%len(cataas.Modes)]
		}
	}
	return cataas.ModeImage
}

// fetch validates the form and starts a fetch in the current mode. Query
// misuse such as type with width is reported without fetching; format flags
// that contradict the mode are left for the fetch wrapper to reject.
func (m *Model) fetch() tea.Cmd {
	if m.session == nil {
		return nil
	}
	req, err := m.form.Request()
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	if err := req.Query.Check(); err != nil && !formatOnly(req.Query) {
		return m.setFlash(strings.ReplaceAll(err.Error(), "\n", "; "), true)
	}
	return fetchCmd(m.ctx, m.session, m.mode, req)
}

// formatOnly reports whether the only problem with q is html together with
// json, which the fetch itself reports per mode.
func formatOnly(q cataas.QueryParams) bool {
	q.HTML, q.JSON = false, false
	return q.Check() == nil
}

// currentCataasID returns the remote id of what is on screen: the fetched
// record or card, falling back to the id typed in the form.
func (m Model) currentCataasID() string {
	if m.session != nil {
		switch m.mode {
		case cataas.ModeJSON:
			if snap := m.session.JSON.Snapshot(); snap.HasValue && snap.Value != nil {
				return snap.Value.ID
			}
		case cataas.ModeHTML:
			if snap := m.session.HTML.Snapshot(); snap.HasValue && snap.Value != nil && snap.Value.CataasID != "" {
				return snap.Value.CataasID
			}
		}
	}
	return m.form.field("id").value
}

// saveFavorite stores the current cat with the form's caption and query.
func (m *Model) saveFavorite() tea.Cmd {
	if m.favStore == nil {
		return nil
	}
	id := strings.TrimSpace(m.currentCataasID())
	if id == "" {
		return m.setFlash("No cat id to save: fetch in json or html mode, or set id", true)
	}
	req, err := m.form.Request()
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	query := req.Query
	query.HTML, query.JSON = false, false
	custom := &favorites.Customization{Text: req.Path.Text, Query: query}
	return addFavoriteCmd(m.ctx, m.favStore, id, custom)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Mode: m.mode.String()}); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// Run starts the Bubble Tea program. Tracker and favourites changes are
// forwarded to the program as messages until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	if opts.Session != nil {
		cancel := opts.Session.Subscribe(func() { p.Send(sessionChangedMsg{}) })
		defer cancel()
	}
	if opts.Favorites != nil {
		cancel := opts.Favorites.Subscribe(func(list []favorites.FavoriteCat) {
			p.Send(favoritesChangedMsg(list))
		})
		defer cancel()
	}

	_, err := p.Run()
	return err
}
