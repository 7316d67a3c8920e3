package pkginfo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/httputil"
)

// RedisKey is the key under which the redis backend keeps the document.
const RedisKey = "nanotex:pkginfo"

// Backend loads and stores the raw database document.
type Backend interface {
	// Load returns the document, or found=false when none exists yet.
	Load(ctx context.Context) (data []byte, found bool, err error)
	Save(ctx context.Context, data []byte) error
	String() string
}

// BackendOptions configures [NewBackend].
type BackendOptions struct {
	// Client fetches http(s) locators. Nil uses an uncached client.
	Client *httputil.Client
	// Logger reports fallbacks to a cached remote document. Nil uses
	// log.Default().
	Logger *log.Logger
}

// NewBackend picks a backend for locator: redis:// and rediss:// URLs map
// to [RedisBackend], http:// and https:// URLs to the read-only
// [HTTPBackend], anything else is a file path.
func NewBackend(locator string, opts BackendOptions) (Backend, error) {
	switch {
	case locator == "":
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput, "empty package database locator")
	case strings.HasPrefix(locator, "redis://"), strings.HasPrefix(locator, "rediss://"):
		return NewRedisBackend(locator)
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		if err := nterrors.ValidateURL(locator); err != nil {
			return nil, err
		}
		client := opts.Client
		if client == nil {
			client = httputil.NewClient(nil)
		}
		return &HTTPBackend{URL: locator, Client: client, Logger: opts.Logger}, nil
	default:
		return FileBackend{Path: locator}, nil
	}
}

// FileBackend keeps the document in a local JSON file.
type FileBackend struct {
	Path string
}

func (b FileBackend) String() string { return b.Path }

func (b FileBackend) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, nterrors.Wrap(nterrors.ErrCodeInternal, err, "read %s", b.Path)
	}
	return data, true, nil
}

// Save replaces the file through a rename so readers never observe a
// partially written document.
func (b FileBackend) Save(_ context.Context, data []byte) error {
	if dir := filepath.Dir(b.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nterrors.Wrap(nterrors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "write %s", tmp)
	}
	if err := os.Rename(tmp, b.Path); err != nil {
		os.Remove(tmp)
		return nterrors.Wrap(nterrors.ErrCodeInternal, err, "replace %s", b.Path)
	}
	return nil
}

// HTTPBackend reads the document from a mirror. It cannot be saved to.
type HTTPBackend struct {
	URL    string
	Client *httputil.Client
	Logger *log.Logger
}

func (b *HTTPBackend) String() string { return b.URL }

// Load always fetches the current document. The client's response cache
// only stands in when the mirror cannot be reached.
func (b *HTTPBackend) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := b.Client.GetBytes(ctx, b.URL, true)
	if nterrors.Is(err, nterrors.ErrCodeNotFound) {
		return nil, false, nil
	}
	if err != nil {
		if ctx.Err() != nil || !nterrors.Is(err, nterrors.ErrCodeNetwork) {
			return nil, false, err
		}
		cached, ok := b.Client.Cached(ctx, b.URL)
		if !ok {
			return nil, false, err
		}
		b.logger().Warn("package database unreachable, using cached copy", "db", b.URL, "err", err)
		return cached, true, nil
	}
	return data, true, nil
}

func (b *HTTPBackend) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

func (b *HTTPBackend) Save(context.Context, []byte) error {
	return nterrors.New(nterrors.ErrCodeUnsupported, "package database %s is read-only", b.URL)
}

// RedisBackend keeps the document under [RedisKey], letting a team share
// one database.
type RedisBackend struct {
	client *redis.Client
	addr   string
}

// NewRedisBackend connects lazily; the first Load or Save dials the server.
func NewRedisBackend(url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "parse redis url")
	}
	return &RedisBackend{client: redis.NewClient(opts), addr: opts.Addr}, nil
}

func (b *RedisBackend) String() string { return "redis://" + b.addr + "/" + RedisKey }

func (b *RedisBackend) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, RedisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, nterrors.Wrap(nterrors.ErrCodeNetwork, err, "redis get %s", RedisKey)
	}
	return data, true, nil
}

func (b *RedisBackend) Save(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, RedisKey, data, 0).Err(); err != nil {
		return nterrors.Wrap(nterrors.ErrCodeNetwork, err, "redis set %s", RedisKey)
	}
	return nil
}

func (b *RedisBackend) Close() error { return b.client.Close() }
