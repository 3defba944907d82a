package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/badgepress/pkg/assets"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// templatesCommand creates the templates command.
func (c *CLI) templatesCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Print the template resolution table",
		Long: `Print every (category, ticket type) pair the resolver accepts, with the
template image it maps to and whether that image exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				settings, err := c.loadSettings()
				if err != nil {
					return err
				}
				path = settings.Templates
			}
			tbl, err := pipeline.LoadTable(path)
			if err != nil {
				return err
			}

			source := path
			if source == "" {
				source = "embedded"
			}
			fmt.Println(StyleTitle.Render("Templates"))
			printKeyValue("Table", source)
			printKeyValue("Root", tbl.Root)
			fmt.Println(templateTable(tbl.Pairs()))

			if missing := countMissing(tbl.Pairs()); missing > 0 {
				printWarning("%d template images not found", missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "templates", "", "template table TOML file (default from BADGE_TEMPLATES or embedded)")
	return cmd
}

// templateTable renders the resolvable pairs with an existence column.
func templateTable(pairs []assets.Pair) string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		status := iconSuccess
		if !exists(p.Path) {
			status = iconError
		}
		rows = append(rows, []string{p.Category, p.TicketType, p.Path, status})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("CATEGORY", "TICKET TYPE", "TEMPLATE", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 3 && rows[row][3] == iconError:
				return styleCell.Foreground(colorRed)
			case col == 3:
				return styleCell.Foreground(colorGreen)
			}
			return styleCell
		}).
		String()
}

func countMissing(pairs []assets.Pair) int {
	n := 0
	for _, p := range pairs {
		if !exists(p.Path) {
			n++
		}
	}
	return n
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
