package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"umlterm/internal/store"
)

// listCommand shows every stored diagram.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := c.setup()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list diagrams: %w", err)
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				printInfo(w, "No saved diagrams")
				return nil
			}
			fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Saved diagrams (%s)", cfg.Backend)))
			fmt.Fprintln(w, renderEntries(entries, cfg.User))
			return nil
		},
	}
}

// renderEntries draws entries as a table. The current user's row is bold.
func renderEntries(entries []store.Entry, current string) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		updated := "-"
		if !e.UpdatedAt.IsZero() {
			updated = e.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{e.ID, updated})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("User", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(entries) && entries[row].ID == current {
				return cellStyle.Bold(true)
			}
			return cellStyle.Foreground(colorGray)
		})
	return t.Render()
}
