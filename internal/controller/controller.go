// Package controller orchestrates the extraction pipeline: container reader ->
// record validator -> transcoder -> dataset writer, under the run state machine
// Idle -> Reading -> Writing -> Done, with Failed/Cancelled terminals.
package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/NightNord/odis2vcp/constants"
	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/container"
	"github.com/NightNord/odis2vcp/internal/dataset"
	"github.com/NightNord/odis2vcp/internal/record"
	"github.com/NightNord/odis2vcp/internal/transcode"
)

// RecordOutcome is the per-record result kept for the summary and report.
type RecordOutcome struct {
	Index     int // 1-based position in the container
	Kind      int
	Module    string
	Name      string
	Version   string
	SizeBytes int
	Accepted  bool
	Reason    string // empty when accepted
}

// Summary is the final account of a run.
type Summary struct {
	RunID      uuid.UUID
	Status     constants.RunStatus
	InputPath  string
	OutputPath string
	Total      int
	Accepted   int
	Skipped    int
	Records    []RecordOutcome
}

// Runner executes one extraction run at a time. A second Run while one is in
// progress is rejected with ErrBusy (rejected, not queued). Per-record faults
// are skipped and logged; only I/O and container-structure errors fail a run.
type Runner struct {
	logger *slog.Logger

	statusMu sync.Mutex
	status   constants.RunStatus
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, status: constants.RunStatusIdle}
}

// Status returns the current run state.
func (r *Runner) Status() constants.RunStatus {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	return r.status
}

func (r *Runner) setStatus(s constants.RunStatus) {
	r.statusMu.Lock()
	r.status = s
	r.statusMu.Unlock()
}

// begin moves Idle (or a terminal state) to Reading, rejecting concurrent runs.
func (r *Runner) begin() error {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	if r.status != constants.RunStatusIdle && !r.status.Terminal() {
		return common.NewAppError("BUSY", "run rejected", common.ErrBusy)
	}
	r.status = constants.RunStatusReading
	return nil
}

// Run executes the pipeline synchronously. Cancellation is cooperative: ctx is
// checked between records, and a cancelled run cleans up like a failed one.
// The returned Summary is valid in every outcome, including failures.
func (r *Runner) Run(ctx context.Context, cfg common.ExtractionConfig) (Summary, error) {
	sum := Summary{RunID: uuid.New(), InputPath: cfg.InputPath}

	if err := r.begin(); err != nil {
		return sum, err
	}

	log := r.logger.With("run_id", sum.RunID)

	if err := cfg.Validate(); err != nil {
		log.Error("run.config.invalid", "error", err)
		r.setStatus(constants.RunStatusFailed)
		sum.Status = constants.RunStatusFailed
		return sum, err
	}
	sum.OutputPath = cfg.OutputPath()

	reader, err := container.Open(cfg.InputPath)
	if err != nil {
		return r.fail(log, sum, err)
	}
	defer reader.Close()

	writer, err := dataset.NewWriter(sum.OutputPath, cfg.RawMode)
	if err != nil {
		return r.fail(log, sum, err)
	}
	defer writer.Discard()

	format := "vcp"
	if cfg.RawMode {
		format = "raw"
	}
	log.Info("run.start", "input", cfg.InputPath, "size_bytes", reader.Size(), "format", format)

	for {
		if err := ctx.Err(); err != nil {
			return r.cancel(log, sum)
		}

		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.fail(log, sum, err)
		}
		sum.Total++

		outcome := RecordOutcome{
			Index:  sum.Total,
			Kind:   raw.Kind,
			Module: raw.Module,
			Name:   raw.Name,
		}

		validated := record.Validate(raw)
		outcome.Version = validated.Version
		if !validated.Valid {
			outcome.Reason = validated.Reason
			sum.Skipped++
			sum.Records = append(sum.Records, outcome)
			log.Warn("record.skipped", "index", outcome.Index, "module", raw.Module, "reason", validated.Reason)
			continue
		}

		target, err := transcode.Transcode(validated, cfg.RawMode)
		if err != nil {
			outcome.Reason = err.Error()
			sum.Skipped++
			sum.Records = append(sum.Records, outcome)
			log.Warn("record.skipped", "index", outcome.Index, "module", raw.Module, "reason", err)
			continue
		}

		if err := writer.Append(target); err != nil {
			return r.fail(log, sum, common.WrapError(err, "append record"))
		}
		outcome.Accepted = true
		outcome.SizeBytes = target.SizeBytes
		sum.Accepted++
		sum.Records = append(sum.Records, outcome)
		log.Info("record.accepted",
			"index", outcome.Index,
			"module", raw.Module,
			"name", raw.Name,
			"version", raw.Version,
			"start_address", raw.StartAddress,
			"size_bytes", target.SizeBytes,
		)
	}

	r.setStatus(constants.RunStatusWriting)
	if err := ctx.Err(); err != nil {
		return r.cancel(log, sum)
	}
	if err := writer.Finalize(); err != nil {
		return r.fail(log, sum, err)
	}

	r.setStatus(constants.RunStatusDone)
	sum.Status = constants.RunStatusDone
	log.Info("run.done",
		"output", sum.OutputPath,
		"accepted", sum.Accepted,
		"skipped", sum.Skipped,
		"total", sum.Total,
	)
	return sum, nil
}

// fail marks the run Failed. The writer's deferred Discard removes any partial
// output; nothing ever exists at the final path before Finalize.
func (r *Runner) fail(log *slog.Logger, sum Summary, err error) (Summary, error) {
	r.setStatus(constants.RunStatusFailed)
	sum.Status = constants.RunStatusFailed
	log.Error("run.failed", "error", err)
	return sum, err
}

func (r *Runner) cancel(log *slog.Logger, sum Summary) (Summary, error) {
	r.setStatus(constants.RunStatusCancelled)
	sum.Status = constants.RunStatusCancelled
	log.Warn("run.cancelled", "accepted", sum.Accepted, "skipped", sum.Skipped, "total", sum.Total)
	return sum, common.NewAppError("CANCELLED", "run cancelled", common.ErrCancelled)
}
