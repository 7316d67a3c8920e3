package probe

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/manifest"
	"github.com/matzehuels/nanotex/pkg/observability"
	"github.com/matzehuels/nanotex/pkg/tracelog"
)

const (
	// JobName is the stem of every file a probe produces in its work
	// directory: probe.tex, probe.aux, probe.log.
	JobName = "probe"

	// DefaultClass is loaded when neither the options nor a scanned
	// package name a document class.
	DefaultClass = "article"
)

// Recorder is the write side of the package database.
// [*pkginfo.Store] implements it.
type Recorder interface {
	RecordDeps(pkg string, deps ...string)
	RecordModules(pkg string, provides []string)
	Save(ctx context.Context) error
}

// Options controls a single probe.
type Options struct {
	// Class is the document class; empty picks the first class of a
	// scanned package, then DefaultClass.
	Class string
	// Packages treats inputs as package names to expand via manifests.
	Packages bool
	// Tenacious logs and skips failures instead of returning them.
	Tenacious bool
}

// Prober runs probes in a work directory and records what they find.
type Prober struct {
	Store    Recorder
	Repo     *manifest.Repository
	Compiler Compiler
	TmpDir   string
	// DistMarker selects distribution paths in the trace log; empty
	// means tracelog.DefaultDistMarker.
	DistMarker string
	Logger     *log.Logger
}

func (p *Prober) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// Probe compiles one document loading every input and records the
// observed package dependencies. It returns the lifted package graph, or
// nil when a tenacious probe was skipped.
func (p *Prober) Probe(ctx context.Context, inputs []string, opts Options) (deps map[string][]string, err error) {
	hooks := observability.Probe()
	hooks.OnProbeStart(ctx, inputs)
	start := time.Now()
	defer func() {
		hooks.OnProbeComplete(ctx, inputs, len(deps), time.Since(start), err)
	}()
	return p.probe(ctx, inputs, opts)
}

func (p *Prober) probe(ctx context.Context, inputs []string, opts Options) (map[string][]string, error) {
	logger := p.logger()

	modules := inputs
	var scanned []*manifest.Manifest
	if opts.Packages {
		var err error
		if scanned, err = p.scan(inputs, opts); err != nil {
			return nil, err
		}
		if len(scanned) == 0 {
			logger.Warn("nothing to probe", "inputs", inputs)
			return nil, nil
		}
		modules = nil
		for _, m := range scanned {
			modules = append(modules, m.Modules()...)
		}
	}

	class := opts.Class
	if class == "" {
		for _, m := range scanned {
			if cls := m.Classes(); len(cls) > 0 {
				class = cls[0]
				break
			}
		}
	}
	if class == "" {
		class = DefaultClass
	}

	texFile, err := p.prepare(class, modules)
	if err != nil {
		return nil, err
	}

	logger.Info("compiling probe", "class", class, "modules", len(modules))
	compileStart := time.Now()
	err = p.Compiler.Compile(ctx, texFile, p.TmpDir)
	observability.Probe().OnCompile(ctx, texFile, time.Since(compileStart), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !nterrors.Is(err, nterrors.ErrCodeCompilerFailure) {
			err = nterrors.Wrap(nterrors.ErrCodeCompilerFailure, err, "compile %s", texFile)
		}
		if opts.Tenacious {
			logger.Warn("probe skipped", "inputs", inputs, "err", err)
			return nil, nil
		}
		return nil, err
	}

	logFile := p.path(".log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeCompilerFailure, err, "read trace log %s", logFile)
	}
	res := tracelog.Parse(string(data), tracelog.Options{DistMarker: p.DistMarker})
	if !res.Balanced() {
		logger.Warn("dependency stack not empty",
			"code", nterrors.ErrCodeMalformedLog, "log", logFile, "open", res.Unbalanced)
	}

	idx, err := p.Repo.Index()
	if err != nil {
		return nil, err
	}
	deps := Lift(res.Graph, idx)

	for _, m := range scanned {
		p.Store.RecordModules(m.Package, m.Provided())
	}
	for _, pkg := range slices.Sorted(maps.Keys(deps)) {
		p.Store.RecordDeps(pkg, deps[pkg]...)
	}
	if err := p.Store.Save(ctx); err != nil {
		return nil, err
	}

	logger.Debug("probe recorded", "packages", len(deps))
	return deps, nil
}

// ProbeEach probes every input on its own, strictly one after another,
// and returns the union of the recorded graphs.
func (p *Prober) ProbeEach(ctx context.Context, inputs []string, opts Options) (map[string][]string, error) {
	all := make(map[string][]string)
	for i, in := range inputs {
		p.logger().Info("probing", "input", in, "n", i+1, "of", len(inputs))
		deps, err := p.Probe(ctx, []string{in}, opts)
		if err != nil {
			return all, err
		}
		for pkg, ds := range deps {
			for _, d := range ds {
				if !slices.Contains(all[pkg], d) {
					all[pkg] = append(all[pkg], d)
				}
			}
		}
	}
	return all, nil
}

// scan reads the manifests of the named packages. Unreadable manifests
// are fatal unless opts.Tenacious is set.
func (p *Prober) scan(pkgs []string, opts Options) ([]*manifest.Manifest, error) {
	var out []*manifest.Manifest
	for _, pkg := range pkgs {
		m, err := p.Repo.Manifest(pkg)
		if err != nil {
			skippable := nterrors.Is(err, nterrors.ErrCodeManifestMissing) ||
				nterrors.Is(err, nterrors.ErrCodeInvalidManifest)
			if opts.Tenacious && skippable {
				p.logger().Warn("package skipped", "package", pkg, "err", err)
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// prepare writes the probe document and removes the aux file of an
// earlier run, which would otherwise feed stale state into the compile.
func (p *Prober) prepare(class string, modules []string) (string, error) {
	if err := os.MkdirAll(p.TmpDir, 0o755); err != nil {
		return "", nterrors.Wrap(nterrors.ErrCodeInternal, err, "create %s", p.TmpDir)
	}
	texFile := p.path(".tex")
	if err := os.WriteFile(texFile, []byte(Document(class, modules)), 0o644); err != nil {
		return "", nterrors.Wrap(nterrors.ErrCodeInternal, err, "write %s", texFile)
	}
	if err := os.Remove(p.path(".aux")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", nterrors.Wrap(nterrors.ErrCodeInternal, err, "remove stale aux")
	}
	return texFile, nil
}

func (p *Prober) path(ext string) string {
	return filepath.Join(p.TmpDir, JobName+ext)
}

// Lift turns file-level edges into package-level edges: every package
// owning the calling file depends on every package owning the called
// file. Files no manifest owns are dropped, as are self edges.
func Lift(files tracelog.Graph, idx *manifest.FileIndex) map[string][]string {
	pkgs := make(map[string][]string)
	for _, e := range files.Edges() {
		for _, from := range idx.Owners(e.From) {
			for _, to := range idx.Owners(e.To) {
				if from == to || slices.Contains(pkgs[from], to) {
					continue
				}
				pkgs[from] = append(pkgs[from], to)
			}
		}
	}
	return pkgs
}
