package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/observability"
)

const headerTimeout = 30 * time.Second

// Client performs GET requests with retry and optional response caching.
// There is no overall request timeout since archive downloads can be
// large; cancellation goes through the context.
type Client struct {
	http  *http.Client
	cache *Cache

	// Attempts and Backoff configure [Retry]; zero values use 3 and 1s.
	Attempts int
	Backoff  time.Duration
}

// NewClient returns a Client caching through cache, which may be nil.
func NewClient(cache *Cache) *Client {
	return &Client{
		http: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: headerTimeout,
		}},
		cache: cache,
	}
}

// GetBytes fetches url and returns the body. With a cache configured, a
// fresh cached copy is served unless refresh is set, and successful
// fetches are stored.
func (c *Client) GetBytes(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if c.cache != nil && !refresh {
		var data []byte
		if ok, _ := c.cache.Get(url, &data); ok {
			observability.Cache().OnCacheHit(ctx, url)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, url)
	}

	var data []byte
	err := c.retry(ctx, func() error {
		body, err := c.open(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		if err != nil {
			return Retryable(nterrors.Wrap(nterrors.ErrCodeNetwork, err, "read %s", url))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(url, data); err == nil {
			observability.Cache().OnCacheSet(ctx, url, len(data))
		}
	}
	return data, nil
}

// Cached returns the body of url from the response cache without any
// request, if a copy within the cache TTL is held.
func (c *Client) Cached(ctx context.Context, url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	var data []byte
	if ok, _ := c.cache.Get(url, &data); !ok {
		observability.Cache().OnCacheMiss(ctx, url)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, url)
	return data, true
}

// Download streams url into w and returns the number of bytes written.
// Only the request is retried; a failure mid-body is returned as is since
// w may already hold a partial copy.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	var body io.ReadCloser
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.open(ctx, url)
		return err
	})
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, nterrors.Wrap(nterrors.ErrCodeNetwork, err, "download %s", url)
	}
	return n, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	attempts, backoff := c.Attempts, c.Backoff
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return Retry(ctx, attempts, backoff, fn)
}

func (c *Client) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "bad URL %s", url)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, Retryable(nterrors.Wrap(nterrors.ErrCodeNetwork, err, "GET %s", url))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return nterrors.New(nterrors.ErrCodeNotFound, "GET %s: not found", url)
	case code >= 500:
		return Retryable(nterrors.New(nterrors.ErrCodeNetwork, "GET %s: status %d", url, code))
	default:
		return nterrors.New(nterrors.ErrCodeNetwork, "GET %s: status %d", url, code)
	}
}
