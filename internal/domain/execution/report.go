// Package execution sequences steps: planning probes every step, the
// executor runs the corrective actions front-to-back with per-step
// failure policy, and the run report records every outcome.
package execution

import (
	"time"

	"github.com/google/uuid"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
)

// ReportEntry is the per-step outcome record.
type ReportEntry struct {
	StepID      compiler.StepID
	Criticality compiler.Criticality
	// Prior is the probed status before any action ran.
	Prior compiler.StepStatus
	// ActionTaken reports whether the corrective action was invoked.
	ActionTaken bool
	// Result is the final status: satisfied, skipped, or failed.
	Result    compiler.StepStatus
	Err       error
	Diff      compiler.Diff
	Duration  time.Duration
	Timestamp time.Time
}

// Failed returns true if the step's action failed.
func (e ReportEntry) Failed() bool {
	return e.Result == compiler.StatusFailed
}

// RunReport aggregates one run's outcomes. It is append-only for the
// duration of the run and discarded at process exit; the filesystem and
// package database are the persisted state.
type RunReport struct {
	id         string
	startedAt  time.Time
	finishedAt time.Time
	outcome    RunState
	entries    []ReportEntry
}

// NewRunReport creates a report with a fresh run ID.
func NewRunReport() *RunReport {
	return &RunReport{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		outcome:   RunPending,
	}
}

// ID returns the run identifier.
func (r *RunReport) ID() string {
	return r.id
}

// StartedAt returns the run start time.
func (r *RunReport) StartedAt() time.Time {
	return r.startedAt
}

// FinishedAt returns the run end time (zero until finished).
func (r *RunReport) FinishedAt() time.Time {
	return r.finishedAt
}

// Outcome returns the final run state.
func (r *RunReport) Outcome() RunState {
	return r.outcome
}

// Append records a step outcome.
func (r *RunReport) Append(entry ReportEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	r.entries = append(r.entries, entry)
}

// Entries returns all recorded outcomes in execution order.
func (r *RunReport) Entries() []ReportEntry {
	return r.entries
}

// Finish stamps the end time and final outcome.
func (r *RunReport) Finish(outcome RunState) {
	r.finishedAt = time.Now()
	r.outcome = outcome
}

// Summary aggregates the entries.
type Summary struct {
	Total     int
	Satisfied int // already satisfied, no action
	Applied   int // action ran and succeeded
	Failed    int // action ran and failed (any criticality)
	Tolerated int // failed but tolerant, run continued
	Skipped   int // never reached (run aborted earlier)
}

// Summary computes aggregate statistics for the run.
func (r *RunReport) Summary() Summary {
	s := Summary{Total: len(r.entries)}
	for _, e := range r.entries {
		switch {
		case e.Result == compiler.StatusFailed:
			s.Failed++
			if e.Criticality == compiler.Tolerant {
				s.Tolerated++
			}
		case e.ActionTaken:
			s.Applied++
		case e.Prior == compiler.StatusSatisfied:
			s.Satisfied++
		default:
			s.Skipped++
		}
	}
	return s
}

// FailedEntries returns the entries whose action failed.
func (r *RunReport) FailedEntries() []ReportEntry {
	var failed []ReportEntry
	for _, e := range r.entries {
		if e.Failed() {
			failed = append(failed, e)
		}
	}
	return failed
}
