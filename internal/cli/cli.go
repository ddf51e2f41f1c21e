// Package cli implements the umlterm command-line interface.
//
// The root command opens the interactive editor on the configured user's
// diagram. Subcommands work on stored diagrams without a terminal UI:
//   - export: render a stored diagram to PNG or SVG
//   - inspect: print the stored JSON payload
//   - list: show the stored diagram ids
//
// All commands read the TOML config (see internal/config); --user and
// --backend override it. --verbose (-v) switches logging to debug level.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"umlterm/internal/config"
	"umlterm/internal/store"
)

const appName = "umlterm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	user       string
	backend    string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "umlterm edits UML class diagrams in the terminal",
		Long:         `umlterm is a terminal editor for UML class diagrams: classes and interfaces with attributes and methods, linked by typed connectors, saved per user and exportable to PNG or SVG.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: c.runEditor,
	}
	root.SetVersionTemplate(versionTemplate())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+" or ~/.config/umlterm/config.toml)")
	pf.StringVarP(&c.user, "user", "u", "", "diagram owner id (default from config, then $USER)")
	pf.StringVar(&c.backend, "backend", "", "storage backend: file, sqlite or memory")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.listCommand())
	return root
}

// loadConfig reads the config file and applies the flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, k := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", k, "file", path)
	}
	if c.user != "" {
		cfg.User = c.user
	}
	if c.backend != "" {
		cfg.Backend = c.backend
	}
	c.Logger.Debug("config loaded", "file", path, "backend", cfg.Backend, "user", cfg.User)
	return cfg, nil
}

func (c *CLI) openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(store.Options{
		Backend:  cfg.Backend,
		Dir:      cfg.SaveDirectory,
		Database: cfg.Database,
		Logger:   c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return st, nil
}

// setup loads the config and opens its store. The caller closes the store.
func (c *CLI) setup() (*config.Config, store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := c.openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}
