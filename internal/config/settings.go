package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings is the optional settings.toml in the config directory.
type Settings struct {
	DefaultView string `toml:"default_view"`
	CacheSize   int    `toml:"cache_size"`
}

// LoadSettings reads settings.toml from dir. A missing file or an empty dir
// yields zero settings.
func LoadSettings(dir string) (Settings, error) {
	if strings.TrimSpace(dir) == "" {
		return Settings{}, nil
	}
	path := filepath.Join(dir, "settings.toml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %q: %w", path, err)
	}
	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings %q: %w", path, err)
	}
	settings.DefaultView = strings.ToLower(strings.TrimSpace(settings.DefaultView))
	if settings.CacheSize < 0 {
		settings.CacheSize = 0
	}
	return settings, nil
}

func defaultConfigDir(env map[string]string) string {
	if xdg := strings.TrimSpace(env["XDG_CONFIG_HOME"]); xdg != "" {
		return filepath.Join(xdg, "flowview")
	}
	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, ".config", "flowview")
	}
	return ""
}
