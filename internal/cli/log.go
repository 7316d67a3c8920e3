package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nanotex/pkg/observability"
)

// timeFormat renders log timestamps as "14:32:01.45".
const timeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           level,
	})
}

// configureLogging applies --verbose: debug level plus log-backed probe,
// cache and HTTP hooks, or info level with the hooks silenced.
func (c *CLI) configureLogging() {
	if c.opts.verbose {
		c.SetLogLevel(LogDebug)
		observability.RegisterLogHooks(c.Logger)
		return
	}
	c.SetLogLevel(LogInfo)
	observability.Reset()
}

// progress times one command and logs its outcome with the elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and an "elapsed" field rounded
// to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

// toolWriter turns the terminal output of an external program (pdflatex,
// mktexlsr) into debug records, one per non-blank line. Below debug level
// the output is dropped.
type toolWriter struct {
	logger *log.Logger
	tool   string
	buf    []byte
}

func newToolWriter(l *log.Logger, tool string) *toolWriter {
	return &toolWriter{logger: l, tool: tool}
}

func (w *toolWriter) Write(p []byte) (int, error) {
	if w.logger.GetLevel() > log.DebugLevel {
		return len(p), nil
	}
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a final line the program did not terminate.
func (w *toolWriter) Flush() {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *toolWriter) emit(line []byte) {
	s := strings.TrimRight(string(line), "\r")
	if strings.TrimSpace(s) == "" {
		return
	}
	w.logger.Debug(s, "tool", w.tool)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() for contexts that never passed through it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
