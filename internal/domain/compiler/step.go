// Package compiler defines the step model for idempotent convergence:
// each step probes the host's current state and applies a corrective
// action only when the probe reports a mismatch.
package compiler

// Criticality declares how the run reacts when a step's action fails.
type Criticality string

const (
	// FailFast aborts the whole run on action failure.
	FailFast Criticality = "fail-fast"
	// Tolerant records the failure and continues with the next step.
	Tolerant Criticality = "tolerant"
)

// String returns the string representation of the criticality.
func (c Criticality) String() string {
	return string(c)
}

// Step is an idempotent unit of convergence.
//
// Check is the read-only probe: it may read files, query package
// databases, or run read-only subcommands, but must not mutate the host,
// and must be safe to call any number of times. Apply is the corrective
// action; running it when Check already reports satisfied must be a
// no-op in observable effect.
type Step interface {
	// ID returns the unique, run-stable identifier for this step.
	ID() StepID

	// Criticality declares the failure policy for this step.
	Criticality() Criticality

	// Check determines the current status of this step.
	Check(ctx RunContext) (StepStatus, error)

	// Plan returns the diff describing what changes this step will make.
	Plan(ctx RunContext) (Diff, error)

	// Apply executes the step's corrective action.
	Apply(ctx RunContext) error
}
