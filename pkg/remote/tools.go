package remote

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

// Extractor unpacks an archive into a directory and reports how many
// entries it wrote.
type Extractor interface {
	Extract(ctx context.Context, archive, destDir string) (int, error)
}

// Indexer rebuilds the distribution's file name database.
type Indexer interface {
	Refresh(ctx context.Context) error
}

// Tar extracts archives with the system tar, which handles xz natively.
type Tar struct {
	// Command is the tar binary; empty means "tar" on PATH.
	Command string
}

func (t Tar) Extract(ctx context.Context, archive, destDir string) (int, error) {
	bin := t.Command
	if bin == "" {
		bin = "tar"
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "xvf", archive, "-C", destDir)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, nterrors.Wrap(nterrors.ErrCodeBuildFailure, err,
			"extract %s: %s", filepath.Base(archive), strings.TrimSpace(out.String()))
	}
	return countLines(out.String()), nil
}

func countLines(s string) int {
	n := 0
	for _, ln := range strings.Split(s, "\n") {
		if strings.TrimSpace(ln) != "" {
			n++
		}
	}
	return n
}

// Mktexlsr runs the distribution's mktexlsr with BinDir first on PATH so
// it finds the distribution's own kpathsea tools.
type Mktexlsr struct {
	BinDir string
	Output io.Writer
}

func (m Mktexlsr) Refresh(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, filepath.Join(m.BinDir, "mktexlsr"))
	cmd.Env = append(os.Environ(), "PATH="+m.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	cmd.Stdout = m.Output
	cmd.Stderr = m.Output
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nterrors.Wrap(nterrors.ErrCodeBuildFailure, err, "mktexlsr")
	}
	return nil
}
