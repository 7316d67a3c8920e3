package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

// Repository locates manifests inside a distribution metadata tree
// (conventionally <dist>/tlpkg, with records under tlpobj/).
type Repository struct {
	MetaDir string
}

// NewRepository returns a Repository rooted at metaDir.
func NewRepository(metaDir string) *Repository {
	return &Repository{MetaDir: metaDir}
}

// Path returns the expected manifest path for pkg. Package names are
// case-insensitive on the archive side, so the name is lower-cased.
func (r *Repository) Path(pkg string) string {
	return filepath.Join(r.MetaDir, "tlpobj", strings.ToLower(pkg)+Ext)
}

// Has reports whether a manifest for pkg is present, i.e. whether the
// package is installed.
func (r *Repository) Has(pkg string) bool {
	info, err := os.Stat(r.Path(pkg))
	return err == nil && !info.IsDir()
}

// Manifest reads the manifest of pkg. A missing record yields an error
// coded [nterrors.ErrCodeManifestMissing], as does a name no record can
// carry.
func (r *Repository) Manifest(pkg string) (*Manifest, error) {
	if err := nterrors.ValidatePackageName(pkg); err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeManifestMissing, err, "no manifest for package %q", pkg)
	}
	if !r.Has(pkg) {
		return nil, nterrors.New(nterrors.ErrCodeManifestMissing, "no manifest for package %q", pkg)
	}
	m, err := ReadFile(r.Path(pkg))
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidManifest, err, "read manifest for %q", pkg)
	}
	return m, nil
}

// Paths lists every manifest file under MetaDir, recursively, in lexical
// order. A missing MetaDir yields an empty list.
func (r *Repository) Paths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(r.MetaDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == r.MetaDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, Ext) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Scan reads every manifest under MetaDir.
func (r *Repository) Scan() ([]*Manifest, error) {
	paths, err := r.Paths()
	if err != nil {
		return nil, err
	}
	out := make([]*Manifest, 0, len(paths))
	for _, p := range paths {
		m, err := ReadFile(p)
		if err != nil {
			return nil, nterrors.Wrap(nterrors.ErrCodeInvalidManifest, err, "read %s", p)
		}
		out = append(out, m)
	}
	return out, nil
}

// Index scans all manifests and builds a fresh [FileIndex].
func (r *Repository) Index() (*FileIndex, error) {
	ms, err := r.Scan()
	if err != nil {
		return nil, err
	}
	return BuildIndex(ms), nil
}

// Actions returns the post-install actions of every package declaring at
// least one.
func (r *Repository) Actions() (map[string][]Action, error) {
	ms, err := r.Scan()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Action)
	for _, m := range ms {
		if len(m.Actions) > 0 {
			out[m.Package] = m.Actions
		}
	}
	return out, nil
}
