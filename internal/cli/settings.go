package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or write the settings document",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.settings.Path()
			if path == "" {
				path = "(defaults)"
			}
			fmt.Println(StyleTitle.Render("Settings") + " " + StyleDim.Render(path))
			style, err := c.settings.Style()
			if err != nil {
				return err
			}
			printKeyValue("background", style.Background.Hex())
			printKeyValue("layer", style.Layer.Hex())
			printKeyValue("last layer", style.LastLayer.Hex())
			printKeyValue("figure", style.Figure.Hex())
			printKeyValue("command", c.settings.Command())
			params := c.settings.SlicingParams()
			for _, k := range c.settings.SlicingKeys() {
				printKeyValue(k, params[k])
			}
			cfg, err := c.settings.Cache()
			if err != nil {
				return err
			}
			printKeyValue("cache", cfg.Backend)
			printKeyValue("server", c.settings.ServerAddr())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the settings, defaults included, to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.settings.Path()
			if len(args) == 1 {
				path = args[0]
			}
			if err := c.settings.Save(path); err != nil {
				return err
			}
			printSuccess("Settings written")
			printFile(path)
			return nil
		},
	})
	return cmd
}
