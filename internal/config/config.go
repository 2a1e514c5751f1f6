package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultDirName        = ".todo"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "todo.log"

	// EnvHome overrides the data directory.
	EnvHome = "TODO_HOME"
)

// Keymap holds the full-screen UI key bindings
type Keymap struct {
	Quit          string `toml:"quit"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	New           string `toml:"new"`
	Edit          string `toml:"edit"`
	Toggle        string `toml:"toggle"`
	Delete        string `toml:"delete"`
	HideLow       string `toml:"hide_low"`
	HideNormal    string `toml:"hide_normal"`
	HideHigh      string `toml:"hide_high"`
	SortPriority  string `toml:"sort_priority"`
	SortDue       string `toml:"sort_due"`
	SortAlpha     string `toml:"sort_alpha"`
	SortDirection string `toml:"sort_direction"`
	About         string `toml:"about"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	LogLevel         string `toml:"log_level"`
	LogFile          string `toml:"log_file"`
	LoadPolicy       string `toml:"load_policy"`
	DefaultSort      string `toml:"default_sort"`
	DefaultDirection string `toml:"default_direction"`
	Keys             Keymap `toml:"keys"`
}

// ResolveDir returns the data directory: $TODO_HOME or ~/.todo
func ResolveDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, DefaultDirName), nil
}

// ResolveConfigPath returns the default config file location
func ResolveConfigPath() (string, error) {
	dir, err := ResolveDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing defaults first when the
// file does not exist yet. Relative paths inside the file are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	dir := filepath.Dir(path)
	cfg := Default(dir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	defaults := Default(dir)
	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaults.LogFile
	}
	cfg.DBPath = resolve(dir, cfg.DBPath)
	cfg.LogFile = resolve(dir, cfg.LogFile)
	cfg.Keys = cfg.Keys.withDefaults(defaults.Keys)
	return cfg, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration written on first launch
func Default(dir string) Config {
	return Config{
		DBPath:           filepath.Join(dir, DefaultDBName),
		LogLevel:         "warn",
		LogFile:          filepath.Join(dir, DefaultLogName),
		LoadPolicy:       "skip",
		DefaultSort:      "",
		DefaultDirection: "asc",
		Keys: Keymap{
			Quit:          "q",
			Up:            "k",
			Down:          "j",
			New:           "n",
			Edit:          "e",
			Toggle:        " ",
			Delete:        "x",
			HideLow:       "1",
			HideNormal:    "2",
			HideHigh:      "3",
			SortPriority:  "p",
			SortDue:       "d",
			SortAlpha:     "a",
			SortDirection: "r",
			About:         "?",
		},
	}
}

// withDefaults fills bindings left empty in a user's file
func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.New, d.New)
	fill(&k.Edit, d.Edit)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.HideLow, d.HideLow)
	fill(&k.HideNormal, d.HideNormal)
	fill(&k.HideHigh, d.HideHigh)
	fill(&k.SortPriority, d.SortPriority)
	fill(&k.SortDue, d.SortDue)
	fill(&k.SortAlpha, d.SortAlpha)
	fill(&k.SortDirection, d.SortDirection)
	fill(&k.About, d.About)
	return k
}
