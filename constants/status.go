package constants

// RunStatus is the canonical state of an extraction run.
type RunStatus string

// Stable values (these exact strings appear in logs and run summaries).
const (
	RunStatusIdle      RunStatus = "IDLE"      // no run in progress
	RunStatusReading   RunStatus = "READING"   // streaming records out of the container
	RunStatusWriting   RunStatus = "WRITING"   // finalizing the output dataset
	RunStatusDone      RunStatus = "DONE"      // terminal success
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure, partial output removed
	RunStatusCancelled RunStatus = "CANCELLED" // user cancel, cleaned up like FAILED
)

// Terminal reports whether a run in this status has finished.
func (s RunStatus) Terminal() bool {
	return s == RunStatusDone || s == RunStatusFailed || s == RunStatusCancelled
}
