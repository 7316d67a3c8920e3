// Package remote installs distribution packages from a TeX Live mirror:
// it downloads each package archive, unpacks it into the distribution
// tree and refreshes the file name database afterwards.
package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/httputil"
	"github.com/matzehuels/nanotex/pkg/manifest"
)

// DefaultBaseURI is the tlnet mirror used when none is configured.
const DefaultBaseURI = "https://ftp.cc.uoc.gr/mirrors/CTAN/systems/texlive/tlnet"

// ArchiveExt is the extension of package archives on the mirror.
const ArchiveExt = ".tar.xz"

// Installer fetches missing packages into DistDir.
type Installer struct {
	Repo       *manifest.Repository
	Client     *httputil.Client
	BaseURI    string
	ArchiveDir string
	DistDir    string
	Extractor  Extractor
	Indexer    Indexer
	Logger     *log.Logger
}

func (in *Installer) logger() *log.Logger {
	if in.Logger == nil {
		return log.Default()
	}
	return in.Logger
}

// ArchiveURL returns the mirror location of pkg's archive. Mirror
// archive names are lower case, like manifest file names.
func (in *Installer) ArchiveURL(pkg string) string {
	base := in.BaseURI
	if base == "" {
		base = DefaultBaseURI
	}
	return strings.TrimSuffix(base, "/") + "/archive/" + archiveName(pkg)
}

func archiveName(pkg string) string {
	return strings.ToLower(pkg) + ArchiveExt
}

// Install fetches every package in pkgs that has no manifest yet and
// returns how many were added. The file name database is refreshed once
// at the end if anything was added.
func (in *Installer) Install(ctx context.Context, pkgs []string) (int, error) {
	added := 0
	for _, pkg := range pkgs {
		if err := nterrors.ValidatePackageName(pkg); err != nil {
			return added, err
		}
		if in.Repo.Has(pkg) {
			in.logger().Info("already installed", "package", pkg)
			continue
		}
		if err := in.Fetch(ctx, pkg); err != nil {
			return added, err
		}
		added++
	}

	in.logger().Info(fmt.Sprintf("%d package(s) added", added))
	if added > 0 && in.Indexer != nil {
		if err := in.Indexer.Refresh(ctx); err != nil {
			return added, err
		}
	}
	return added, nil
}

// Fetch downloads the archive of pkg into ArchiveDir and unpacks it into
// DistDir. The download goes to a uniquely named part file that is only
// renamed once complete, so an interrupted fetch never leaves a truncated
// archive under the final name.
func (in *Installer) Fetch(ctx context.Context, pkg string) error {
	if err := os.MkdirAll(in.ArchiveDir, 0o755); err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "create %s", in.ArchiveDir)
	}
	if err := os.MkdirAll(in.DistDir, 0o755); err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "create %s", in.DistDir)
	}

	url := in.ArchiveURL(pkg)
	archive := filepath.Join(in.ArchiveDir, archiveName(pkg))
	part := archive + "." + uuid.NewString() + ".part"

	in.logger().Info("downloading", "package", pkg, "url", url)
	if err := in.download(ctx, url, part); err != nil {
		os.Remove(part)
		return err
	}
	if err := os.Rename(part, archive); err != nil {
		os.Remove(part)
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "rename %s", part)
	}

	n, err := in.Extractor.Extract(ctx, archive, in.DistDir)
	if err != nil {
		return err
	}
	in.logger().Info("extracted", "package", pkg, "files", n)
	return nil
}

func (in *Installer) download(ctx context.Context, url, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "create %s", dest)
	}
	n, err := in.Client.Download(ctx, url, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = nterrors.Wrap(nterrors.ErrCodeInternal, cerr, "close %s", dest)
	}
	if err != nil {
		return err
	}
	in.logger().Debug("downloaded", "url", url, "bytes", n)
	return nil
}
