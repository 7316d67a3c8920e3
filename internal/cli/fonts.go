package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nanotex/pkg/fontmap"
)

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Manage font maps",
	}
	cmd.AddCommand(c.fontsMapCommand())
	return cmd
}

// fontsMapCommand creates the "fonts map" subcommand.
func (c *CLI) fontsMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "map [package]...",
		Short: "Add Type 1 font map entries of packages to the main map",
		Long: `Collect the font maps declared by the given packages (all installed
packages when none are given) and append every .pfb entry whose font is not
yet mapped to the main pdfTeX map file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &fontmap.Updater{
				Repo:    c.repo(),
				MapDir:  c.cfg.MapDir,
				MapFile: c.cfg.MapFile,
				Logger:  loggerFromContext(cmd.Context()),
			}
			n, err := u.Update(args)
			if err != nil {
				return err
			}
			printSuccess("Added %d font map entries", n)
			printDetail("Map file: %s", c.cfg.MapFile)
			return nil
		},
	}
}
