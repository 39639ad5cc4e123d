// Package prefs handles cattery user preferences persistence.
// Preferences are stored in ~/.config/cattery/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/config"
)

// Prefs holds user preferences for cattery.
type Prefs struct {
	Theme string `toml:"theme"`
	Mode  string `toml:"mode"`
}

const (
	defaultPrefsPath = "~/.config/cattery/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used when none are saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Mode: cataas.ModeImage.String()}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// FetchMode returns the preferred fetch mode.
func (p Prefs) FetchMode() cataas.Mode {
	return cataas.ParseMode(p.Mode)
}

// Load reads preferences from path. Any problem reading or parsing the file
// yields defaults.
func Load(path string) Prefs {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Default()
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	prefs.Mode = prefs.FetchMode().String()
	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
