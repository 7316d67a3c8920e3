package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/httputil"
	"github.com/matzehuels/nanotex/pkg/remote"
)

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Install packages from the mirror",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := newToolWriter(logger, "mktexlsr")
			defer out.Flush()

			inst := &remote.Installer{
				Repo:       c.repo(),
				Client:     httputil.NewClient(nil),
				BaseURI:    c.cfg.BaseURI,
				ArchiveDir: c.cfg.ArchiveDir,
				DistDir:    c.cfg.DistDir,
				Extractor:  remote.Tar{},
				Indexer:    remote.Mktexlsr{BinDir: c.cfg.BinDir, Output: out},
				Logger:     logger,
			}

			prog := newProgress(logger)
			added, err := inst.Install(ctx, args)
			if err != nil {
				return err
			}
			prog.done("install finished", "added", added, "requested", len(args))
			printSuccess("%d package(s) added", added)
			return nil
		},
	}
}

// lsCommand creates the ls command.
func (c *CLI) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <package>...",
		Short: "List the files a package owns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := c.repo()
			for _, pkg := range args {
				m, err := repo.Manifest(pkg)
				if err != nil {
					if c.opts.tenacious && nterrors.Is(err, nterrors.ErrCodeManifestMissing) {
						printWarning("%s is not installed", pkg)
						continue
					}
					return err
				}
				for _, f := range m.Files {
					fmt.Fprintln(c.Stdout, f)
				}
			}
			return nil
		},
	}
}
