package pkginfo

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

// Record is what is known about one package. Deps never contains the
// package itself; both lists are duplicate-free and their order carries
// no meaning.
type Record struct {
	Deps     []string `json:"deps,omitempty"`
	Provides []string `json:"provides,omitempty"`
}

// Document is the persisted form of the database.
type Document struct {
	Packages map[string]*Record `json:"packages"`
}

// Status tells how [Open] initialised the store.
type Status int

const (
	// Loaded means an existing database was read.
	Loaded Status = iota
	// NotFound means no database existed; the store starts empty.
	NotFound
)

func (s Status) String() string {
	if s == NotFound {
		return "not found"
	}
	return "loaded"
}

// Store is the in-memory package database. It is meant to be opened once
// at process start and shared by reference; it is not safe for concurrent
// use.
type Store struct {
	backend Backend
	doc     Document
	dirty   bool
	logger  *log.Logger
}

// Open resolves locator with [NewBackend] and loads the database from it.
func Open(ctx context.Context, locator string, logger *log.Logger) (*Store, Status, error) {
	b, err := NewBackend(locator, BackendOptions{})
	if err != nil {
		return nil, 0, err
	}
	return OpenBackend(ctx, b, logger)
}

// OpenBackend loads the database from b. A missing database is not an
// error: the store starts empty, a warning is logged and NotFound is
// returned.
func OpenBackend(ctx context.Context, b Backend, logger *log.Logger) (*Store, Status, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		backend: b,
		doc:     Document{Packages: make(map[string]*Record)},
		logger:  logger,
	}

	data, found, err := b.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		logger.Warn("package database not found, starting empty",
			"code", nterrors.ErrCodeStoreMissing, "db", b.String())
		return s, NotFound, nil
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, 0, nterrors.Wrap(nterrors.ErrCodeInvalidStore, err, "decode package database %s", b.String())
	}
	if s.doc.Packages == nil {
		s.doc.Packages = make(map[string]*Record)
	}
	// A null entry stands for a package with nothing recorded yet.
	for pkg, r := range s.doc.Packages {
		if r == nil {
			s.doc.Packages[pkg] = &Record{}
		}
	}
	logger.Debug("package database loaded", "db", b.String(), "packages", len(s.doc.Packages))
	return s, Loaded, nil
}

// Location describes where the store is persisted.
func (s *Store) Location() string { return s.backend.String() }

// Dirty reports whether the store has unsaved changes.
func (s *Store) Dirty() bool { return s.dirty }

// Len returns the number of packages with a record.
func (s *Store) Len() int { return len(s.doc.Packages) }

// Packages returns all recorded package names, sorted.
func (s *Store) Packages() []string {
	return slices.Sorted(maps.Keys(s.doc.Packages))
}

// Record returns a copy of the record for pkg.
func (s *Store) Record(pkg string) (Record, bool) {
	r, ok := s.doc.Packages[pkg]
	if !ok {
		return Record{}, false
	}
	return Record{Deps: slices.Clone(r.Deps), Provides: slices.Clone(r.Provides)}, true
}

// Deps returns the recorded dependencies of pkg.
func (s *Store) Deps(pkg string) []string {
	if r, ok := s.doc.Packages[pkg]; ok {
		return r.Deps
	}
	return nil
}

// Provides returns the modules and classes pkg is recorded to provide.
func (s *Store) Provides(pkg string) []string {
	if r, ok := s.doc.Packages[pkg]; ok {
		return r.Provides
	}
	return nil
}

// RecordDeps adds deps to the dependency set of pkg. Already known
// dependencies and pkg itself are skipped, so repeating a call is a no-op.
func (s *Store) RecordDeps(pkg string, deps ...string) {
	r := s.record(pkg)
	for _, d := range deps {
		if d == pkg || slices.Contains(r.Deps, d) {
			continue
		}
		r.Deps = append(r.Deps, d)
		s.dirty = true
	}
}

// RecordAllDeps applies [Store.RecordDeps] to every entry of deps, in
// package name order.
func (s *Store) RecordAllDeps(deps map[string][]string) {
	for _, pkg := range slices.Sorted(maps.Keys(deps)) {
		s.RecordDeps(pkg, deps[pkg]...)
	}
}

// RecordModules replaces the provided module set of pkg.
func (s *Store) RecordModules(pkg string, provides []string) {
	r := s.record(pkg)
	var uniq []string
	for _, p := range provides {
		if !slices.Contains(uniq, p) {
			uniq = append(uniq, p)
		}
	}
	r.Provides = uniq
	s.dirty = true
}

func (s *Store) record(pkg string) *Record {
	r, ok := s.doc.Packages[pkg]
	if !ok {
		r = &Record{}
		s.doc.Packages[pkg] = r
		s.dirty = true
	}
	return r
}

// Save writes the store back if it changed since it was opened or last
// saved.
func (s *Store) Save(ctx context.Context) error {
	if !s.dirty {
		s.logger.Debug("package database unchanged, not saving", "db", s.backend.String())
		return nil
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "encode package database")
	}
	if err := s.backend.Save(ctx, append(data, '\n')); err != nil {
		return err
	}
	s.dirty = false
	s.logger.Debug("package database saved", "db", s.backend.String(), "packages", len(s.doc.Packages))
	return nil
}

// Close releases the backend's resources, if it holds any.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
