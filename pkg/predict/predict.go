// Package predict answers "which distribution packages does this document
// need?" from what earlier probes recorded in the package database.
//
// Prediction is deliberately generous: every package that provides a
// referenced module is taken, together with everything it was ever
// observed to load. A document may end up with packages it never uses;
// it will not miss one the database knows about.
package predict

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/nanotex/pkg/depgraph"
	"github.com/matzehuels/nanotex/pkg/texsrc"
)

// DevSuffix marks development snapshots of packages. They are never
// predicted.
const DevSuffix = "-dev"

// Database is the read side of the package database.
// [*pkginfo.Store] implements it.
type Database interface {
	Packages() []string
	Deps(pkg string) []string
	Provides(pkg string) []string
}

// Resolver maps module references to packages and closes them over the
// recorded dependencies.
type Resolver struct {
	DB Database
}

// NewResolver returns a Resolver reading from db.
func NewResolver(db Database) *Resolver {
	return &Resolver{DB: db}
}

// IsExcluded reports whether pkg is a development snapshot or an empty
// name, which no package can carry.
func IsExcluded(pkg string) bool {
	return pkg == "" || strings.HasSuffix(pkg, DevSuffix)
}

// Providers returns, in package name order, every non-excluded package
// that provides at least one of modules. When several packages provide
// the same module all of them are returned.
func (r *Resolver) Providers(modules []string) []string {
	var out []string
	for _, pkg := range r.DB.Packages() {
		if IsExcluded(pkg) {
			continue
		}
		provides := r.DB.Provides(pkg)
		if slices.ContainsFunc(modules, func(m string) bool { return slices.Contains(provides, m) }) {
			out = append(out, pkg)
		}
	}
	return out
}

// Deps returns the recorded dependencies of pkg without excluded ones.
func (r *Resolver) Deps(pkg string) []string {
	var out []string
	for _, d := range r.DB.Deps(pkg) {
		if !IsExcluded(d) {
			out = append(out, d)
		}
	}
	return out
}

// ReferencedPackages returns the providers of every module referenced by
// sources plus the additional module names.
func (r *Resolver) ReferencedPackages(sources []string, additional []string) []string {
	return r.Providers(texsrc.Names(texsrc.ExpandModuleNames(sources, additional)))
}

// Predict returns the packages needed to compile sources, which also load
// the additional modules: the referenced providers first, then their
// transitive dependencies in discovery order.
func (r *Resolver) Predict(sources []string, additional []string) []string {
	return depgraph.Closure(r.ReferencedPackages(sources, additional), r.Deps)
}

// Graph builds the direct-dependency graph of pkgs: one node per package
// and one edge per recorded, non-excluded dependency. An empty name in
// pkgs is an error.
func (r *Resolver) Graph(pkgs []string) (*depgraph.Graph, error) {
	g := depgraph.New()
	for _, pkg := range pkgs {
		if err := g.AddNode(pkg); err != nil {
			return nil, fmt.Errorf("package %q: %w", pkg, err)
		}
		for _, d := range r.Deps(pkg) {
			if err := g.AddNode(d); err != nil {
				return nil, fmt.Errorf("dependency %q of %s: %w", d, pkg, err)
			}
			if err := g.AddEdge(pkg, d); err != nil {
				return nil, fmt.Errorf("edge %s -> %s: %w", pkg, d, err)
			}
		}
	}
	return g, nil
}

// DOT renders [Resolver.Graph] of pkgs as a Graphviz digraph.
func (r *Resolver) DOT(pkgs []string) (string, error) {
	g, err := r.Graph(pkgs)
	if err != nil {
		return "", err
	}
	return depgraph.ToDOT(g), nil
}
