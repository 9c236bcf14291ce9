package compiler

// StepStatus represents the observed or resulting state of a step.
type StepStatus string

const (
	// StatusSatisfied indicates the step's desired state is already met.
	StatusSatisfied StepStatus = "satisfied"
	// StatusNeedsApply indicates the step's state diverges from the
	// desired state and the action must run.
	StatusNeedsApply StepStatus = "needs-apply"
	// StatusUnknown indicates the probe itself failed. The engine treats
	// this as divergent, preferring to re-attempt the action over
	// silently skipping.
	StatusUnknown StepStatus = "unknown"
	// StatusFailed indicates the step's action failed.
	StatusFailed StepStatus = "failed"
	// StatusSkipped indicates the step did not run (already satisfied or
	// the run aborted before reaching it).
	StatusSkipped StepStatus = "skipped"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// Divergent returns true if the status calls for the corrective action.
func (s StepStatus) Divergent() bool {
	return s == StatusNeedsApply || s == StatusUnknown
}

// IsTerminal returns true if this status represents a final state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StatusSatisfied, StatusFailed, StatusSkipped:
		return true
	case StatusNeedsApply, StatusUnknown:
		return false
	}
	return false
}
