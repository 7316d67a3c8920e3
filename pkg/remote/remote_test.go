package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/httputil"
	"github.com/matzehuels/nanotex/pkg/manifest"
)

type fakeExtractor struct{ archives []string }

func (f *fakeExtractor) Extract(_ context.Context, archive, _ string) (int, error) {
	data, err := os.ReadFile(archive)
	if err != nil {
		return 0, err
	}
	f.archives = append(f.archives, string(data))
	return 3, nil
}

type fakeIndexer struct{ refreshed int }

func (f *fakeIndexer) Refresh(context.Context) error {
	f.refreshed++
	return nil
}

func newInstaller(t *testing.T, srv *httptest.Server) (*Installer, *fakeExtractor, *fakeIndexer) {
	t.Helper()
	root := t.TempDir()
	meta := filepath.Join(root, "tldist", "tlpkg")
	if err := os.MkdirAll(filepath.Join(meta, "tlpobj"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(meta, "tlpobj", "latex.tlpobj"), []byte("name latex\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	x, idx := &fakeExtractor{}, &fakeIndexer{}
	client := httputil.NewClient(nil)
	client.Attempts = 1
	return &Installer{
		Repo:       manifest.NewRepository(meta),
		Client:     client,
		BaseURI:    srv.URL + "/tlnet/",
		ArchiveDir: filepath.Join(root, "tlarchive"),
		DistDir:    filepath.Join(root, "tldist"),
		Extractor:  x,
		Indexer:    idx,
		Logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}, x, idx
}

func TestInstall_MixedCaseName(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/tlnet/archive/amsmath.tar.xz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	in, x, _ := newInstaller(t, srv)
	added, err := in.Install(context.Background(), []string{"AMSmath", "LaTeX"})
	if err != nil {
		t.Fatalf("Install: %v (requested %v)", err, paths)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1 (LaTeX is installed as latex)", added)
	}
	if len(x.archives) != 1 {
		t.Errorf("extracted %d archives, want 1", len(x.archives))
	}
	if _, err := os.Stat(filepath.Join(in.ArchiveDir, "amsmath.tar.xz")); err != nil {
		t.Errorf("archive not stored under its lower-case name: %v", err)
	}
	if got := in.ArchiveURL("AMSmath"); !strings.HasSuffix(got, "/archive/amsmath.tar.xz") {
		t.Errorf("ArchiveURL(AMSmath) = %q", got)
	}
}

func TestInstall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tlnet/archive/amsmath.tar.xz" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	in, x, idx := newInstaller(t, srv)
	added, err := in.Install(context.Background(), []string{"latex", "amsmath"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(x.archives) != 1 || x.archives[0] != "archive-bytes" {
		t.Errorf("extracted = %v", x.archives)
	}
	if idx.refreshed != 1 {
		t.Errorf("refreshed = %d, want 1", idx.refreshed)
	}

	entries, _ := os.ReadDir(in.ArchiveDir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".part") {
			t.Errorf("leftover part file %s", e.Name())
		}
	}
}

func TestInstall_NothingAdded(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	in, _, idx := newInstaller(t, srv)
	added, err := in.Install(context.Background(), []string{"latex"})
	if err != nil || added != 0 {
		t.Fatalf("Install = %d, %v", added, err)
	}
	if idx.refreshed != 0 {
		t.Error("index refreshed although nothing was added")
	}
}

func TestInstall_NotOnMirror(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	in, _, _ := newInstaller(t, srv)
	_, err := in.Install(context.Background(), []string{"nosuch"})
	if !nterrors.Is(err, nterrors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	entries, _ := os.ReadDir(in.ArchiveDir)
	if len(entries) != 0 {
		t.Errorf("archive dir not cleaned: %v", entries)
	}
}

func TestInstall_InvalidName(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	in, _, _ := newInstaller(t, srv)
	if _, err := in.Install(context.Background(), []string{"../etc"}); !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestArchiveURL(t *testing.T) {
	in := &Installer{}
	want := DefaultBaseURI + "/archive/amsmath.tar.xz"
	if got := in.ArchiveURL("amsmath"); got != want {
		t.Errorf("ArchiveURL() = %q, want %q", got, want)
	}
}

func TestCountLines(t *testing.T) {
	if got := countLines("a\nb\n\n c \n"); got != 3 {
		t.Errorf("countLines() = %d, want 3", got)
	}
}
