package cli

import (
	"github.com/spf13/cobra"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			printKeyValue("dist_dir", c.cfg.DistDir)
			printKeyValue("meta_dir", c.cfg.MetaDir)
			printKeyValue("db", c.cfg.DB)
			printKeyValue("bin_dir", c.cfg.BinDir)
			printKeyValue("tmp_dir", c.cfg.TmpDir)
			printKeyValue("archive_dir", c.cfg.ArchiveDir)
			printKeyValue("base_uri", c.cfg.BaseURI)
			printKeyValue("map_dir", c.cfg.MapDir)
			printKeyValue("map_file", c.cfg.MapFile)
			return nil
		},
	}
}
