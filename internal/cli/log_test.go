package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nanotex/pkg/observability"
)

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(observability.Reset)

	tests := []struct {
		name      string
		verbose   bool
		wantLevel log.Level
		wantHooks bool
	}{
		{name: "default", verbose: false, wantLevel: log.InfoLevel, wantHooks: false},
		{name: "verbose", verbose: true, wantLevel: log.DebugLevel, wantHooks: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.opts.verbose = tt.verbose
			c.configureLogging()

			if got := c.Logger.GetLevel(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}
			_, probeLogged := observability.Probe().(observability.LogHooks)
			_, cacheLogged := observability.Cache().(observability.LogHooks)
			_, httpLogged := observability.HTTP().(observability.LogHooks)
			if probeLogged != tt.wantHooks || cacheLogged != tt.wantHooks || httpLogged != tt.wantHooks {
				t.Errorf("log hooks registered = %v/%v/%v, want %v", probeLogged, cacheLogged, httpLogged, tt.wantHooks)
			}
		})
	}
}

func TestConfigureLogging_VerboseThenQuiet(t *testing.T) {
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	c.opts.verbose = true
	c.configureLogging()
	c.opts.verbose = false
	c.configureLogging()

	if _, ok := observability.Probe().(observability.NoopProbeHooks); !ok {
		t.Errorf("probe hooks = %T, want NoopProbeHooks after leaving verbose mode", observability.Probe())
	}
}

func TestVerboseHookEventsReachLog(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.opts.verbose = true
	c.configureLogging()

	observability.Probe().OnProbeStart(context.Background(), []string{"amsmath"})
	if !strings.Contains(buf.String(), "probe start") || !strings.Contains(buf.String(), "amsmath") {
		t.Errorf("log = %q, want a probe start record for amsmath", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	tests := []struct {
		msg     string
		keyvals []any
		want    []string
	}{
		{"probe finished", []any{"inputs", 3, "packages", 2}, []string{"probe finished", "inputs=3", "packages=2", "elapsed="}},
		{"install finished", []any{"added", 1, "requested", 2}, []string{"install finished", "added=1", "requested=2", "elapsed="}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			var buf bytes.Buffer
			newProgress(newLogger(&buf, log.InfoLevel)).done(tt.msg, tt.keyvals...)

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("log = %q, missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestToolWriter(t *testing.T) {
	var buf bytes.Buffer
	w := newToolWriter(newLogger(&buf, log.DebugLevel), "pdflatex")

	fmt.Fprint(w, "This is pdfTeX\r\n\n(./probe.")
	fmt.Fprint(w, "tex\nOutput written on probe.pdf")
	if strings.Contains(buf.String(), "Output written") {
		t.Error("unterminated line logged before Flush")
	}
	w.Flush()

	got := buf.String()
	for _, want := range []string{"This is pdfTeX", "(./probe.tex", "Output written on probe.pdf", "tool=pdflatex"} {
		if !strings.Contains(got, want) {
			t.Errorf("log = %q, missing %q", got, want)
		}
	}
	if n := strings.Count(got, "tool=pdflatex"); n != 3 {
		t.Errorf("logged %d tool lines, want 3 (blank lines skipped)", n)
	}
}

func TestToolWriter_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	w := newToolWriter(newLogger(&buf, log.InfoLevel), "mktexlsr")

	n, err := fmt.Fprintln(w, "mktexlsr: Updating tldist/ls-R...")
	if err != nil || n == 0 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	w.Flush()
	if buf.Len() != 0 {
		t.Errorf("tool output logged at info level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}
