package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogHooks installs LogHooks on logger for all event categories.
func RegisterLogHooks(logger *log.Logger) {
	h := LogHooks{Logger: logger}
	SetProbeHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnProbeStart(_ context.Context, inputs []string) {
	h.Logger.Debug("probe start", "inputs", inputs)
}

func (h LogHooks) OnCompile(_ context.Context, texFile string, d time.Duration, err error) {
	h.Logger.Debug("compile", "file", texFile, "took", d.Round(time.Millisecond), "err", err)
}

func (h LogHooks) OnProbeComplete(_ context.Context, inputs []string, packages int, d time.Duration, err error) {
	h.Logger.Debug("probe done", "inputs", inputs, "packages", packages, "took", d.Round(time.Millisecond), "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, key string)  { h.Logger.Debug("cache hit", "key", key) }
func (h LogHooks) OnCacheMiss(_ context.Context, key string) { h.Logger.Debug("cache miss", "key", key) }

func (h LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.Logger.Debug("cache set", "key", key, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

func (h LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
