package controller

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NightNord/odis2vcp/constants"
	"github.com/NightNord/odis2vcp/internal/common"
)

// Version is the user-visible tool version.
const Version = "1.0"

// Model is the configuration surface the presentation layer binds to. It owns
// the RunLog and the runner; the UI never sees pipeline-internal state, only
// this facade plus the optional finish callback. All accessors are safe to
// call from the UI thread while a run is in flight.
type Model struct {
	mu          sync.Mutex
	path        string
	description string
	raw         bool
	running     bool
	cancelRun   context.CancelFunc
	onFinish    func(Summary)

	runlog *RunLog
	runner *Runner
}

// NewModel wires a RunLog-backed logger into a fresh runner.
func NewModel(level slog.Level) *Model {
	rl := &RunLog{}
	logger := slog.New(NewLogHandler(rl, level))
	return &Model{runlog: rl, runner: NewRunner(logger)}
}

func (m *Model) Version() string { return Version }

// Path returns the input path.
func (m *Model) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// SetPath sets the input path and defaults the description to the input's base
// name without extension, as the original tool does on file selection.
func (m *Model) SetPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
	base := filepath.Base(path)
	m.description = strings.TrimSuffix(base, filepath.Ext(base))
}

// Description returns the output suffix.
func (m *Model) Description() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.description
}

func (m *Model) SetDescription(desc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.description = desc
}

// IsRaw returns the raw-mode flag.
func (m *Model) IsRaw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}

func (m *Model) SetRaw(raw bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = raw
}

// IsValid reports whether a run may start: both path and description non-empty.
// This is the "Run" control's enabled condition.
func (m *Model) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path != "" && m.description != ""
}

// Log returns the monotonically growing run log text.
func (m *Model) Log() string { return m.runlog.Text() }

// Status returns the runner's current state.
func (m *Model) Status() constants.RunStatus { return m.runner.Status() }

// SetOnFinish registers the completion signal: the callback fires once per run
// with the final summary, from the run's goroutine.
func (m *Model) SetOnFinish(fn func(Summary)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinish = fn
}

// Run starts the pipeline asynchronously. Invalid configuration is a silent
// no-op (the UI never enables Run in that state); a request while a run is in
// progress is rejected, leaving the in-flight run and its log untouched. The
// run is reserved under the model lock, so concurrent Run calls cannot reset
// the log or clobber the cancel handle of the run that won.
func (m *Model) Run() {
	m.mu.Lock()
	if m.running || m.path == "" || m.description == "" {
		m.mu.Unlock()
		return
	}
	cfg := common.ExtractionConfig{
		InputPath:    m.path,
		OutputSuffix: m.description,
		RawMode:      m.raw,
	}
	m.running = true
	m.runlog.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	onFinish := m.onFinish
	m.mu.Unlock()

	go func() {
		defer cancel()
		sum, _ := m.runner.Run(ctx, cfg)
		m.mu.Lock()
		m.running = false
		m.cancelRun = nil
		m.mu.Unlock()
		if onFinish != nil {
			onFinish(sum)
		}
	}()
}

// Cancel signals the in-flight run to stop; the runner notices between records.
func (m *Model) Cancel() {
	m.mu.Lock()
	cancel := m.cancelRun
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
