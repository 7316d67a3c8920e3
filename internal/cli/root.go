package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nanotex/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. Configuration is loaded and the logger attached to the
// context before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nanotex manages a minimal TeX Live installation",
		Long:         `nanotex manages a minimal TeX Live distribution: it installs packages from a mirror, keeps font maps up to date and discovers which packages a document needs by probing the compiler.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.configureLogging()
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nanotex/config.toml)")
	flags.StringVar(&c.opts.db, "db", "", "package database: file path, http(s) URL or redis:// URL")
	flags.BoolVar(&c.opts.tenacious, "tenacious", false, "continue past failures of individual inputs")
	flags.BoolVar(&c.opts.trace, "trace", false, "print full error details")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.probeCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.lsCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
