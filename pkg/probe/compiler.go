package probe

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

// Compiler turns texFile into output under outDir. On success the trace
// log is at outDir/<stem>.log, where stem is texFile's base name without
// extension. A non-nil error means the compiler failed.
type Compiler interface {
	Compile(ctx context.Context, texFile, outDir string) error
}

// maxPrintLine keeps pdflatex from wrapping long paths in its log, which
// would split file tokens.
const maxPrintLine = "max_print_line=99999"

// PDFLaTeX runs the pdflatex binary of a distribution.
type PDFLaTeX struct {
	// BinDir holds the pdflatex binary. Empty means look it up on PATH.
	BinDir string
	// Output receives the compiler's terminal output. Nil discards it.
	Output io.Writer
}

// Path returns the binary that Compile runs.
func (p PDFLaTeX) Path() string {
	if p.BinDir == "" {
		return "pdflatex"
	}
	return filepath.Join(p.BinDir, "pdflatex")
}

// Compile runs pdflatex in non-interactive mode, so a broken document
// exits non-zero instead of waiting for input.
func (p PDFLaTeX) Compile(ctx context.Context, texFile, outDir string) error {
	cmd := exec.CommandContext(ctx, p.Path(),
		"-output-directory="+outDir, "-interaction", "nonstopmode", texFile)
	cmd.Env = append(os.Environ(), maxPrintLine)
	cmd.Stdout = p.Output
	cmd.Stderr = p.Output

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nterrors.Wrap(nterrors.ErrCodeCompilerFailure, err,
			"pdflatex terminated with code=%d", exitErr.ExitCode())
	}
	if err != nil {
		return nterrors.Wrap(nterrors.ErrCodeCompilerFailure, err, "run %s", p.Path())
	}
	return nil
}
