// Package pkg provides the libraries behind nanotex, a manager for minimal
// TeX Live installations.
//
// # Overview
//
// nanotex keeps a small distribution tree and a database of how its
// packages depend on each other. The database is filled by probing: a
// generated document loads some modules, the compiler's trace log shows
// which distribution files were opened from inside which others, and the
// manifests map those files to packages. Prediction then answers which
// packages a document needs without compiling it.
//
// # Architecture
//
// Probing:
//
//	modules / package names
//	         ↓
//	    [probe] (generate document, run pdflatex)
//	         ↓
//	    [tracelog] (file caller → callee edges)
//	         ↓
//	    [manifest] (file → owning packages)
//	         ↓
//	    [pkginfo] (package deps, persisted)
//
// Prediction:
//
//	LaTeX sources
//	         ↓
//	    [texsrc] (\usepackage and \documentclass references)
//	         ↓
//	    [predict] (providers + dependency closure)
//	         ↓
//	    [depgraph] (package list, DOT, SVG)
//
// # Quick Start
//
// Predict the packages a document needs:
//
//	store, _, err := pkginfo.Open(ctx, "data/pkg-info.json", logger)
//	if err != nil {
//	    return err
//	}
//	pkgs := predict.NewResolver(store).Predict([]string{src}, nil)
//
// # Main Packages
//
// [manifest] - Package manifest (tlpobj) parsing and the file ownership
// index.
//
// [tracelog] - Compiler trace log parsing into a file dependency graph.
// Tolerates unbalanced logs.
//
// [probe] - Probe orchestration and the pdflatex compiler adapter.
//
// [pkginfo] - The package database with file, HTTP and Redis backends.
//
// [texsrc] - Module reference extraction from LaTeX sources.
//
// [predict] - Provider lookup and dependency closure.
//
// [depgraph] - Directed graph, worklist closure, DOT and SVG rendering.
//
// ## Infrastructure
//
// [httputil] - HTTP client with retry and a file-based response cache.
//
// [remote] - Package installation from a tlnet mirror.
//
// [fontmap] - Merging package font maps into the main pdfTeX map.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Instrumentation hooks for probes, cache and HTTP.
//
// [buildinfo] - Version information set at build time.
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/manifest
// [tracelog]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/tracelog
// [probe]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/probe
// [pkginfo]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/pkginfo
// [texsrc]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/texsrc
// [predict]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/predict
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/depgraph
// [httputil]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/httputil
// [remote]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/remote
// [fontmap]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/fontmap
// [errors]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/nanotex/pkg/buildinfo
package pkg
