package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds cattery's runtime settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Storage string
	DataDir string
	LogFile string
}

const (
	defaultConfigPath = "~/.config/cattery/config.toml"
	defaultDataDir    = "~/.local/share/cattery"
	defaultBaseURL    = "https://cataas.com"
	defaultStorage    = "file"
	defaultTimeout    = 15 * time.Second
	logFileName       = "cattery.log"
)

// raw mirrors the file format. Environment variables override file values.
type raw struct {
	BaseURL string `toml:"base_url" env:"CATTERY_BASE_URL"`
	Timeout string `toml:"timeout"  env:"CATTERY_TIMEOUT"`
	Storage string `toml:"storage"  env:"CATTERY_STORAGE"`
	DataDir string `toml:"data_dir" env:"CATTERY_DATA_DIR"`
	LogFile string `toml:"log_file" env:"CATTERY_LOG_FILE"`
}

// Load reads the config at path (or the default path), applies environment
// overrides and fills in defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var r raw
	data, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&r); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return r.resolve()
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return data, nil
}

func (r raw) resolve() (Config, error) {
	cfg := Config{
		BaseURL: strings.TrimSpace(r.BaseURL),
		Timeout: defaultTimeout,
		Storage: strings.ToLower(strings.TrimSpace(r.Storage)),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if t := strings.TrimSpace(r.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout %q: %w", t, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}

	switch cfg.Storage {
	case "":
		cfg.Storage = defaultStorage
	case "file", "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", r.Storage)
	}

	dataDir := strings.TrimSpace(r.DataDir)
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(dataDir)

	logFile := strings.TrimSpace(r.LogFile)
	if logFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	} else {
		cfg.LogFile = mustExpand(logFile)
	}
	return cfg, nil
}

// PreviewDir is where fetched images are written while displayed.
func (c Config) PreviewDir() string {
	return filepath.Join(c.DataDir, "previews")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and makes path
// absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
