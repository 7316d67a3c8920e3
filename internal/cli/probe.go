package cli

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nanotex/pkg/probe"
)

// probeCommand creates the probe command.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		class    string
		packages bool
		each     bool
	)

	cmd := &cobra.Command{
		Use:   "probe <module|package>...",
		Short: "Discover dependencies by compiling a probe document",
		Long: `Compile a minimal document loading the given modules and record, from the
compiler's trace log, which packages load which other packages.

Modules take options as "[opts]name" or "name:opts". With --pkg the
arguments are package names; every module and class they ship is probed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := probe.Options{Class: class, Packages: packages, Tenacious: c.opts.tenacious}
			return c.runProbe(cmd.Context(), args, opts, each)
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "document class (default: first class of --pkg packages, else article)")
	cmd.Flags().BoolVar(&packages, "pkg", false, "treat arguments as package names")
	cmd.Flags().BoolVar(&each, "each", false, "probe every argument in its own document")

	return cmd
}

func (c *CLI) runProbe(ctx context.Context, inputs []string, opts probe.Options, each bool) error {
	logger := loggerFromContext(ctx)

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	out := newToolWriter(logger, "pdflatex")
	defer out.Flush()

	p := &probe.Prober{
		Store:      store,
		Repo:       c.repo(),
		Compiler:   probe.PDFLaTeX{BinDir: c.cfg.BinDir, Output: out},
		TmpDir:     c.cfg.TmpDir,
		DistMarker: c.distMarker(),
		Logger:     logger,
	}

	run := p.Probe
	if each {
		run = p.ProbeEach
	}

	prog := newProgress(logger)
	deps, err := run(ctx, inputs, opts)
	if err != nil {
		return err
	}
	prog.done("probe finished", "inputs", len(inputs), "packages", len(deps))

	if len(deps) == 0 {
		printWarning("No package dependencies recorded")
		return nil
	}
	for _, pkg := range slices.Sorted(maps.Keys(deps)) {
		printInfo("%s %s %s", StyleHighlight.Render(pkg), iconArrow, strings.Join(deps[pkg], ", "))
	}
	printSuccess("Recorded dependencies of %d package(s)", len(deps))
	printDetail("Database: %s", store.Location())
	return nil
}
