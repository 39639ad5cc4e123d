package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/config"
	"github.com/five82/cattery/internal/favorites"
	"github.com/five82/cattery/internal/preview"
	"github.com/five82/cattery/internal/prefs"
	"github.com/five82/cattery/internal/session"
	"github.com/five82/cattery/internal/storage"
	"github.com/five82/cattery/internal/ui"
)

// previewMaxAge is how old a leftover preview file must be before startup
// removes it.
const previewMaxAge = time.Hour

// Options configure the cattery application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cattery/prefs.toml
}

// Run boots the cattery TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs := prefs.Load(opts.PrefsPath)

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "cattery ")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.Default()

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}

	kv, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	defer kv.Close()

	favs, err := favorites.Open(ctx, kv)
	if err != nil {
		return fmt.Errorf("load favourites: %w", err)
	}

	if n, err := preview.Sweep(cfg.PreviewDir(), time.Now().Add(-previewMaxAge)); err != nil {
		log.Printf("sweep previews: %v", err)
	} else if n > 0 {
		log.Printf("removed %d stale preview files", n)
	}

	sess := session.New(client, cfg.PreviewDir(), logger)
	defer sess.Close()

	prefetchCtx, stopPrefetch := context.WithCancel(ctx)
	prefetchDone := StartTagPrefetch(prefetchCtx, sess, 0)
	defer func() {
		stopPrefetch()
		<-prefetchDone
	}()

	log.Printf("cattery started: base=%s storage=%s favourites=%d", client.Domain(), cfg.Storage, favs.Len())

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   sess,
		Favorites: favs,
		Domain:    client.Domain(),
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		Mode:      userPrefs.FetchMode(),
		PrefsPath: opts.PrefsPath,
	})
}

// NewClient builds the API client described by cfg.
func NewClient(cfg config.Config, logger *log.Logger) (*cataas.Client, error) {
	client, err := cataas.NewClient(cfg.BaseURL,
		cataas.WithTimeout(cfg.Timeout),
		cataas.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init cataas client: %w", err)
	}
	return client, nil
}

// PrintURL loads the config at configPath and returns the URL req would fetch,
// after checking the query for combinations the API rejects.
func PrintURL(configPath string, req cataas.Request) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	if err := req.Query.Check(); err != nil {
		return "", err
	}
	client, err := NewClient(cfg, log.Default())
	if err != nil {
		return "", err
	}
	return client.URL(req), nil
}
