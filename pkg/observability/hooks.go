// Package observability provides hooks for instrumenting probes, the
// response cache and HTTP calls.
//
// Libraries emit events through the registered hooks; by default every
// hook is a no-op. The command line registers logging hooks in verbose
// mode, and other front ends can register their own (metrics, tracing)
// without the libraries depending on them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetProbeHooks(&myProbeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Probe().OnProbeStart(ctx, inputs)
//	// ... compile and record ...
//	observability.Probe().OnProbeComplete(ctx, inputs, packages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Probe Hooks
// =============================================================================

// ProbeHooks receives events from dependency probes.
type ProbeHooks interface {
	OnProbeStart(ctx context.Context, inputs []string)
	// OnCompile reports the compiler run of a probe.
	OnCompile(ctx context.Context, texFile string, duration time.Duration, err error)
	// OnProbeComplete reports how many packages got dependencies recorded.
	OnProbeComplete(ctx context.Context, inputs []string, packages int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProbeHooks is a no-op implementation of ProbeHooks.
type NoopProbeHooks struct{}

func (NoopProbeHooks) OnProbeStart(context.Context, []string)                               {}
func (NoopProbeHooks) OnCompile(context.Context, string, time.Duration, error)              {}
func (NoopProbeHooks) OnProbeComplete(context.Context, []string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	probeHooks ProbeHooks = NoopProbeHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetProbeHooks registers custom probe hooks.
// This should be called once at application startup before any probe runs.
func SetProbeHooks(h ProbeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		probeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Probe returns the registered probe hooks.
func Probe() ProbeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return probeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	probeHooks = NoopProbeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
