package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopProbeHooks{}
	p.OnProbeStart(ctx, []string{"amsmath"})
	p.OnCompile(ctx, "/tmp/nanotex/probe.tex", time.Second, nil)
	p.OnProbeComplete(ctx, []string{"amsmath"}, 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "https://mirror/db.json")
	c.OnCacheMiss(ctx, "https://mirror/db.json")
	c.OnCacheSet(ctx, "https://mirror/db.json", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "ctan.org", "/tlnet/archive/amsmath.tar.xz")
	h.OnResponse(ctx, "GET", "ctan.org", "/tlnet/archive/amsmath.tar.xz", 200, time.Second)
	h.OnError(ctx, "GET", "ctan.org", "/tlnet/archive/amsmath.tar.xz", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Probe().(NoopProbeHooks); !ok {
		t.Error("Probe() should return NoopProbeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customProbe := &testProbeHooks{}
	SetProbeHooks(customProbe)
	if Probe() != customProbe {
		t.Error("SetProbeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Probe().(NoopProbeHooks); !ok {
		t.Error("Reset() should restore NoopProbeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testProbeHooks{}
	SetProbeHooks(custom)
	SetProbeHooks(nil)

	if Probe() != custom {
		t.Error("SetProbeHooks(nil) should be ignored")
	}
}

func TestRegisterLogHooks(t *testing.T) {
	defer Reset()
	var buf bytes.Buffer
	RegisterLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	ctx := context.Background()
	Probe().OnCompile(ctx, "probe.tex", time.Second, errors.New("exit status 1"))
	HTTP().OnResponse(ctx, "GET", "ctan.org", "/tlnet", 404, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"compile", "exit status 1", "http response", "404"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testProbeHooks struct{ NoopProbeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
