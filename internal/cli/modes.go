package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/mode"
)

func (c *CLI) modesCommand() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Show the operating modes and what each permits",
		Long: `Print the viewer's operating modes with their permitted operations, or the
mode state diagram as Graphviz DOT or SVG.`,
		Example: `  spycer modes
  spycer modes --format svg -o modes.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			switch format {
			case "table":
				fmt.Println(modesTable())
				return nil
			case "dot":
				data = []byte(mode.DOT())
			case "svg":
				svg, err := mode.SVG(cmd.Context())
				if err != nil {
					return err
				}
				data = svg
			default:
				return fmt.Errorf("unknown format %q (want table, dot or svg)", format)
			}
			if out == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return err
			}
			printFile(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

// modesTable renders a mode × operation grid.
func modesTable() string {
	headers := []string{"Mode"}
	for _, op := range mode.Operations {
		headers = append(headers, strings.ReplaceAll(op.String(), "_", " "))
	}
	rows := make([][]string, len(mode.Modes))
	for i, m := range mode.Modes {
		mask := mode.Capabilities(m)
		row := []string{m.String()}
		for _, op := range mode.Operations {
			cell := "·"
			if mask.Has(op) {
				cell = iconSuccess
			}
			row = append(row, cell)
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Align(lipgloss.Left).Foreground(colorCyan)
			case rows[row][col] == iconSuccess:
				return cellStyle.Foreground(colorGreen)
			}
			return cellStyle.Foreground(colorDim)
		}).
		Render()
}
