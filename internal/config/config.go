package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user config dir.
const FileName = "teleprompter.yaml"

// Config holds application options read from YAML.
type Config struct {
	// DataDir holds the key-value store and the import cache.
	DataDir string `yaml:"data_dir"`
	// SocketPath is where the remote-control server listens.
	SocketPath string `yaml:"socket_path"`

	// PreviewStyle is a glamour style name ("dark", "light", "notty", "auto")
	// or a path to a JSON style file.
	PreviewStyle string `yaml:"preview_style"`

	// Cell size in pixels used to map the terminal onto the pixel model.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`

	// AutoSaveDelay in milliseconds after the last edit.
	AutoSaveDelayMS int `yaml:"autosave_delay_ms"`

	path string
}

const (
	defaultCellWidth     = 8
	defaultCellHeight    = 16
	defaultAutoSaveDelay = 1000
)

func defaultConfig() *Config {
	c := &Config{}
	c.DataDir = defaultDataDir()
	c.SocketPath = ""
	c.PreviewStyle = "auto"
	c.CellWidth = defaultCellWidth
	c.CellHeight = defaultCellHeight
	c.AutoSaveDelayMS = defaultAutoSaveDelay
	return c
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := defaultConfig()
	c.normalize()
	return c
}

// DefaultPath is teleprompter.yaml inside the user config directory.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(base, "teleprompter", FileName)
}

// Load overlays the YAML file at path onto the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := defaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Path is the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// StorePath is the JSON key-value file holding settings and scripts.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store.json")
}

// CacheDir holds downloaded scripts.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

func (c *Config) normalize() {
	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	c.DataDir = filepath.Clean(expandHome(c.DataDir))

	c.SocketPath = strings.TrimSpace(c.SocketPath)
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(c.DataDir, "teleprompter.sock")
	}
	c.SocketPath = filepath.Clean(expandHome(c.SocketPath))

	c.PreviewStyle = strings.TrimSpace(c.PreviewStyle)
	if c.PreviewStyle == "" {
		c.PreviewStyle = "auto"
	}
	if c.CellWidth <= 0 {
		c.CellWidth = defaultCellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = defaultCellHeight
	}
	if c.AutoSaveDelayMS <= 0 {
		c.AutoSaveDelayMS = defaultAutoSaveDelay
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "teleprompter")
	}
	return filepath.Join(base, "teleprompter")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
