package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"umlterm/internal/tui"
)

// runEditor opens the interactive editor on the configured user's diagram.
func (c *CLI) runEditor(cmd *cobra.Command, args []string) error {
	cfg, st, err := c.setup()
	if err != nil {
		return err
	}
	defer st.Close()

	logger, closeLog, err := fileLogger(cfg.LogFile, c.Logger.GetLevel())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	logger.Info("editor started", "user", cfg.User, "backend", cfg.Backend)
	return tui.Run(cmd.Context(), tui.Options{Store: st, Config: cfg, Logger: logger})
}
