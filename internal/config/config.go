// Package config loads the umlterm settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath overrides the settings file location.
const EnvPath = "UMLTERM_CONFIG"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultSaveTimeout = 5 * time.Second
)

// Config holds the user settings. Field tags are the TOML keys.
type Config struct {
	SaveDirectory string   `toml:"save_directory"`
	Backend       string   `toml:"backend"`
	Database      string   `toml:"database"`
	User          string   `toml:"user"`
	Confirmations bool     `toml:"confirmations"`
	LogFile       string   `toml:"log_file"`
	SaveTimeout   Duration `toml:"save_timeout"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		SaveDirectory: filepath.Join(home, ".umlterm"),
		Backend:       BackendFile,
		User:          defaultUser(),
		Confirmations: true,
		SaveTimeout:   Duration{DefaultSaveTimeout},
	}
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "local"
}

// Path returns the settings file location: $UMLTERM_CONFIG when set,
// otherwise ~/.config/umlterm/config.toml.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "umlterm", "config.toml")
}

// Load reads the settings at path on top of Default. A missing file is not
// an error; a file that is not valid TOML is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		default:
			for _, k := range md.Undecoded() {
				cfg.Unknown = append(cfg.Unknown, k.String())
			}
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// normalize expands paths and fills values derived from other keys.
func (c *Config) normalize() error {
	home, _ := os.UserHomeDir()
	c.SaveDirectory = expandPath(home, c.SaveDirectory)
	c.Database = expandPath(home, c.Database)
	c.LogFile = expandPath(home, c.LogFile)

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendFile
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.SaveDirectory, "umlterm.db")
	}
	if c.User == "" {
		c.User = defaultUser()
	}
	if c.SaveTimeout.Duration <= 0 {
		c.SaveTimeout = Duration{DefaultSaveTimeout}
	}
	return nil
}

// ExportPath returns where an exported image named filename is written,
// creating the save directory if needed.
func (c *Config) ExportPath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func expandPath(home, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}
