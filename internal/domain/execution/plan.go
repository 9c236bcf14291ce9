package execution

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
)

// PlanEntry is one step's probed state ahead of execution.
type PlanEntry struct {
	step     compiler.Step
	status   compiler.StepStatus
	diff     compiler.Diff
	probeErr error
}

// NewPlanEntry creates a new PlanEntry.
func NewPlanEntry(step compiler.Step, status compiler.StepStatus, diff compiler.Diff) PlanEntry {
	return PlanEntry{step: step, status: status, diff: diff}
}

// WithProbeError returns the entry annotated with a failed probe. The
// status stays divergent so the action is re-attempted.
func (e PlanEntry) WithProbeError(err error) PlanEntry {
	e.probeErr = err
	return e
}

// Step returns the step to be executed.
func (e PlanEntry) Step() compiler.Step {
	return e.step
}

// Status returns the probed status of the step.
func (e PlanEntry) Status() compiler.StepStatus {
	return e.status
}

// Diff returns the planned change.
func (e PlanEntry) Diff() compiler.Diff {
	return e.diff
}

// ProbeError returns the probe failure, if any.
func (e PlanEntry) ProbeError() error {
	return e.probeErr
}

// PlanSummary provides aggregate statistics about the plan.
type PlanSummary struct {
	Total      int
	NeedsApply int
	Satisfied  int
	Unknown    int
}

// Plan is the ordered list of probed steps for one run.
type Plan struct {
	entries []PlanEntry
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Add appends a plan entry.
func (p *Plan) Add(entry PlanEntry) {
	p.entries = append(p.entries, entry)
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// IsEmpty returns true if there are no entries.
func (p *Plan) IsEmpty() bool {
	return len(p.entries) == 0
}

// Entries returns all plan entries in execution order.
func (p *Plan) Entries() []PlanEntry {
	return p.entries
}

// HasChanges returns true if any step is divergent.
func (p *Plan) HasChanges() bool {
	for _, e := range p.entries {
		if e.status.Divergent() {
			return true
		}
	}
	return false
}

// Summary returns aggregate statistics.
func (p *Plan) Summary() PlanSummary {
	summary := PlanSummary{Total: len(p.entries)}
	for _, e := range p.entries {
		switch e.status {
		case compiler.StatusNeedsApply:
			summary.NeedsApply++
		case compiler.StatusSatisfied:
			summary.Satisfied++
		case compiler.StatusUnknown:
			summary.Unknown++
		case compiler.StatusFailed, compiler.StatusSkipped:
			// Plans never carry terminal execution statuses.
		}
	}
	return summary
}
