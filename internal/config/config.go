package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings the daylist client needs.
type Config struct {
	APIURL       string
	DataDir      string
	CacheVersion string
	OfflineCache bool
	PollSeconds  int
}

const (
	defaultConfigPath   = "~/.config/daylist/config.toml"
	defaultDataDir      = "~/.local/share/daylist"
	defaultAPIURL       = "http://127.0.0.1:8000"
	defaultCacheVersion = "v1.0.0"
	defaultPollSeconds  = 30
)

// Load locates and parses the daylist config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:       defaultAPIURL,
		DataDir:      defaultDataDir,
		CacheVersion: defaultCacheVersion,
		OfflineCache: true,
		PollSeconds:  defaultPollSeconds,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.DataDir = mustExpand(defaultDataDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL       string `toml:"api_url"`
		DataDir      string `toml:"data_dir"`
		CacheVersion string `toml:"cache_version"`
		OfflineCache *bool  `toml:"offline_cache"`
		PollSeconds  int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(raw.CacheVersion); v != "" {
		cfg.CacheVersion = v
	}
	if raw.OfflineCache != nil {
		cfg.OfflineCache = *raw.OfflineCache
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	cfg.DataDir = mustExpand(cfg.DataDir)

	return cfg, nil
}

// SnapshotPath returns the path of the task snapshot file.
func (c Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

// CacheRoot returns the directory holding the offline cache stores.
func (c Config) CacheRoot() string {
	return filepath.Join(c.DataDir, "cache")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
