// Package cli implements the nanotex command-line interface.
//
// The commands manage a minimal TeX Live tree and the package database
// that records how its packages depend on each other:
//   - probe: compile a probe document and record observed dependencies
//   - deps: predict the packages a document needs
//   - install: fetch packages from a mirror
//   - ls: list the files a package owns
//   - fonts map: merge package font maps into the main pdfTeX map
//   - cache: manage the HTTP response cache
//   - config: show the effective settings
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so library code logs with the same
// settings.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nanotex/internal/config"
	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/httputil"
	"github.com/matzehuels/nanotex/pkg/manifest"
	"github.com/matzehuels/nanotex/pkg/pkginfo"
)

const (
	// appName is the application name used for directories and display.
	appName = "nanotex"

	// cacheTTL bounds how old a cached package database may be when it
	// stands in for an unreachable mirror.
	cacheTTL = 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	db         string
	tenacious  bool
	trace      bool
	verbose    bool
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Stdout receives machine-readable output (package lists, DOT).
	Stdout io.Writer

	opts globalOptions
	cfg  config.Config
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// ErrorMessage formats err for the terminal. Build failures are reduced
// to their own message unless --trace was given; everything else keeps
// its cause chain.
func (c *CLI) ErrorMessage(err error) string {
	if nterrors.IsBuildFailure(err) && !c.opts.trace {
		return nterrors.UserMessage(err)
	}
	return err.Error()
}

// loadConfig reads the configuration file and applies flag overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.opts.configPath)
	if err != nil {
		return err
	}
	if c.opts.db != "" {
		cfg.DB = c.opts.db
	}
	c.cfg = cfg
	return nil
}

func (c *CLI) repo() *manifest.Repository {
	return manifest.NewRepository(c.cfg.MetaDir)
}

// distMarker is the directory name that identifies distribution files in
// compiler logs.
func (c *CLI) distMarker() string {
	return filepath.Base(filepath.Clean(c.cfg.DistDir))
}

// openStore opens the configured package database. Remote databases are
// fetched on every run; the response cache keeps the last copy for when
// the mirror is unreachable.
func (c *CLI) openStore(ctx context.Context) (*pkginfo.Store, error) {
	b, err := pkginfo.NewBackend(c.cfg.DB, pkginfo.BackendOptions{
		Client: c.cachedClient("pkginfo"),
		Logger: loggerFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}
	store, _, err := pkginfo.OpenBackend(ctx, b, loggerFromContext(ctx))
	return store, err
}

// cachedClient returns an HTTP client caching under the given namespace,
// or an uncached one when the cache directory is unusable.
func (c *CLI) cachedClient(namespace string) *httputil.Client {
	cache, err := newCache()
	if err != nil {
		c.Logger.Debug("response cache disabled", "err", err)
		return httputil.NewClient(nil)
	}
	return httputil.NewClient(cache.Namespace(namespace))
}

func newCache() (*httputil.Cache, error) {
	dir, err := httputil.DefaultDir()
	if err != nil {
		return nil, err
	}
	return httputil.NewCache(dir, cacheTTL)
}
