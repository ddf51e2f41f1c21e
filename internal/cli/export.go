package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"umlterm/internal/export"
	"umlterm/internal/store"
	"umlterm/pkg/diagram"
)

// exportCommand renders a stored diagram to an image file.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the saved diagram to PNG or SVG",
		Long: `Render the saved diagram of the configured user to an image.

The format follows the output extension (.png or .svg). Text fields are not
part of the saved payload and are therefore not drawn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			if _, err := export.FormatFromPath(output); err != nil {
				return err
			}
			cfg, st, err := c.setup()
			if err != nil {
				return err
			}
			defer st.Close()

			d, err := loadDiagram(cmd.Context(), st, cfg.User)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			if err := export.File(output, d, export.Options{}); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %d boxes, %d connectors", len(d.Boxes), len(d.Connectors)))

			w := cmd.OutOrStdout()
			printSuccess(w, "Exported diagram of %s", cfg.User)
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png or .svg)")
	return cmd
}

// loadDiagram returns the diagram saved for user, failing when there is none.
func loadDiagram(ctx context.Context, st store.Store, user string) (diagram.Diagram, error) {
	d, ok, err := st.Load(ctx, user)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("load diagram: %w", err)
	}
	if !ok {
		return diagram.Diagram{}, fmt.Errorf("no saved diagram for %q", user)
	}
	return d, nil
}
