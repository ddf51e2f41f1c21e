package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"umlterm/pkg/diagram"
)

// inspectCommand prints the saved payload as indented JSON.
func (c *CLI) inspectCommand() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the saved diagram as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := c.setup()
			if err != nil {
				return err
			}
			defer st.Close()

			d, err := loadDiagram(cmd.Context(), st, cfg.User)
			if err != nil {
				return err
			}
			data, err := diagram.MarshalIndent(d)
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				printSuccess(cmd.OutOrStdout(), "Copied diagram of %s to clipboard", cfg.User)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the JSON to the clipboard instead of printing it")
	return cmd
}
