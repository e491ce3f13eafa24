// Package config loads settings from defaults, a TOML file, .env and the
// environment, and root flags, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/idilsaglam/todolist/internal/kv"
)

// Default values.
const (
	DefaultBackend  = kv.BackendFile
	DefaultDataDir  = "~/.todo"
	DefaultKey      = "todos"
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"

	FileName = "todo.toml"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds everything the todo binary can be told.
type Config struct {
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	SQLitePath string `toml:"sqlite_path"`
	RedisURL   string `toml:"redis_url"`
	Key        string `toml:"key"`
	Theme      string `toml:"theme"`
	Group      bool   `toml:"group"`

	Log LogConfig `toml:"log"`

	// Source is the config file that was read, empty if none.
	Source string `toml:"-"`
}

// LogConfig selects log verbosity and destination. File "-" means stderr.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Overrides carries root flag values; empty fields and a nil Group leave the
// config alone.
type Overrides struct {
	ConfigFile string
	Backend    string
	DataDir    string
	Theme      string
	Group      *bool
}

// Load builds the final configuration.
func Load(ov Overrides) (*Config, error) {
	cfg := Default()

	path := ov.ConfigFile
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	loadFromEnv(cfg)

	if ov.Backend != "" {
		cfg.Backend = ov.Backend
	}
	if ov.DataDir != "" {
		cfg.DataDir = ov.DataDir
	}
	if ov.Theme != "" {
		cfg.Theme = ov.Theme
	}
	if ov.Group != nil {
		cfg.Group = *ov.Group
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every default applied.
func Default() *Config {
	return &Config{
		Backend: DefaultBackend,
		DataDir: DefaultDataDir,
		Key:     DefaultKey,
		Theme:   DefaultTheme,
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

func loadFromEnv(cfg *Config) {
	set := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	set("TODO_BACKEND", &cfg.Backend)
	set("TODO_DATA_DIR", &cfg.DataDir)
	set("TODO_SQLITE_PATH", &cfg.SQLitePath)
	set("TODO_REDIS_URL", &cfg.RedisURL)
	set("TODO_KEY", &cfg.Key)
	set("TODO_THEME", &cfg.Theme)
	set("TODO_LOG_LEVEL", &cfg.Log.Level)
	set("TODO_LOG_FILE", &cfg.Log.File)
}

// finalize expands paths, fills derived values and validates.
func (c *Config) finalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	dir, err := expandHome(c.DataDir)
	if err != nil {
		return err
	}
	c.DataDir = dir

	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "todo.db")
	} else if c.SQLitePath, err = expandHome(c.SQLitePath); err != nil {
		return err
	}
	if c.RedisURL == "" {
		c.RedisURL = "redis://localhost:6379/0"
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "todo.log")
	} else if c.Log.File != "-" {
		if c.Log.File, err = expandHome(c.Log.File); err != nil {
			return err
		}
	}
	return c.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(kv.Backends(), c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(kv.Backends(), ", "))
	}
	if !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(Themes, ", "))
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if strings.TrimSpace(c.Key) == "" {
		return errors.New("key must not be empty")
	}
	if c.Backend == kv.BackendFile && strings.ContainsAny(c.Key, `/\`) {
		return fmt.Errorf("key %q must not contain path separators", c.Key)
	}
	return nil
}

func findConfigFile() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "todo", FileName))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
