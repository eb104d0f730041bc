package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// RunLog is the append-only ordered message log of a run. It implements
// slog.Handler so the pipeline logs once and the presentation layer observes
// the exact same stream, in emission order, through Text/Lines. Safe for
// concurrent use: the pipeline appends off the caller's goroutine.
type RunLog struct {
	mu    sync.Mutex
	lines []string
}

// Text returns the log as monotonically growing text, one message per line.
func (l *RunLog) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}

// Lines returns a copy of the messages appended so far.
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Reset discards the previous run's messages.
func (l *RunLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

func (l *RunLog) append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// NewLogHandler returns a slog.Handler that appends formatted records to log.
// The format mirrors the source tool's "[LEVEL] message" lines with key=value
// attrs after the message.
func NewLogHandler(log *RunLog, level slog.Level) slog.Handler {
	return &logHandler{log: log, level: level}
}

type logHandler struct {
	log    *RunLog
	level  slog.Level
	prefix string // preformatted WithAttrs/WithGroup context
}

func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logHandler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", rec.Time.Format("15:04:05"), rec.Level, rec.Message)
	if h.prefix != "" {
		b.WriteString(h.prefix)
	}
	rec.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	h.log.append(b.String())
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	next.prefix = b.String()
	return &next
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	// Groups are not used by the pipeline; keep the handler flat.
	return h
}
