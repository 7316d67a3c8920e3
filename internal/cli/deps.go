package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nanotex/pkg/depgraph"
	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/predict"
	"github.com/matzehuels/nanotex/pkg/texsrc"
)

// Graph output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

type depsOptions struct {
	graph  bool
	format string
	output string
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var opts depsOptions

	cmd := &cobra.Command{
		Use:   "deps <source|module>...",
		Short: "Predict the packages a document needs",
		Long: `Predict the distribution packages needed to compile LaTeX sources.

Arguments containing "." or "/" are source files; anything else is a module
name loaded in addition to what the sources reference. The prediction uses
dependencies recorded by earlier probes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.graph, "graph", false, "print the dependency graph instead of a package list")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "graph format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runDeps(ctx context.Context, args []string, opts depsOptions) error {
	if opts.graph && opts.format != formatDOT && opts.format != formatSVG {
		return nterrors.New(nterrors.ErrCodeInvalidInput, "unknown graph format %q (want dot or svg)", opts.format)
	}

	sources, modules, err := texsrc.ReadSources(args)
	if err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "read sources")
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	r := predict.NewResolver(store)
	pkgs := r.Predict(sources, modules)
	loggerFromContext(ctx).Debug("predicted", "packages", len(pkgs))

	if !opts.graph {
		var b strings.Builder
		for _, pkg := range pkgs {
			b.WriteString(pkg + "\n")
		}
		return c.writeOutput([]byte(b.String()), opts.output)
	}

	dot, err := r.DOT(pkgs)
	if err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "build dependency graph")
	}
	data := []byte(dot)
	if opts.format == formatSVG {
		if data, err = depgraph.RenderSVG(ctx, dot); err != nil {
			return nterrors.Wrap(nterrors.ErrCodeInternal, err, "render graph")
		}
	}

	return c.writeOutput(data, opts.output)
}

// writeOutput writes data to path, or to Stdout when path is empty.
func (c *CLI) writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := c.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
