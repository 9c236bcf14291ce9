package compiler

import (
	"errors"
	"fmt"
)

// PrivilegeError indicates the process lacks required elevation or failed
// to assume the target identity. Always fatal; the run aborts before or at
// the failing step and nothing else executes.
type PrivilegeError struct {
	Reason     string
	Underlying error
}

// Error returns the formatted error message.
func (e *PrivilegeError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("privilege error: %s: %v", e.Reason, e.Underlying)
	}
	return fmt.Sprintf("privilege error: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *PrivilegeError) Unwrap() error {
	return e.Underlying
}

// NewPrivilegeError creates a PrivilegeError.
func NewPrivilegeError(reason string, underlying error) *PrivilegeError {
	return &PrivilegeError{Reason: reason, Underlying: underlying}
}

// ProbeError indicates the inspection command itself failed, which is
// distinct from the probe reporting divergence. The planner treats the
// step as divergent so the action is re-attempted instead of silently
// skipped.
type ProbeError struct {
	StepID     StepID
	Underlying error
}

// Error returns the formatted error message.
func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe for step %q failed: %v", e.StepID.String(), e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ProbeError) Unwrap() error {
	return e.Underlying
}

// NewProbeError creates a ProbeError.
func NewProbeError(stepID StepID, underlying error) *ProbeError {
	return &ProbeError{StepID: stepID, Underlying: underlying}
}

// ActionError indicates a corrective command exited non-zero. Fatal for
// fail-fast steps; recorded and skipped past for tolerant steps. Output
// carries the failing command's captured output for the report.
type ActionError struct {
	StepID     StepID
	Output     string
	Underlying error
}

// Error returns the formatted error message.
func (e *ActionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("action for step %q failed: %v\n%s", e.StepID.String(), e.Underlying, e.Output)
	}
	return fmt.Sprintf("action for step %q failed: %v", e.StepID.String(), e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ActionError) Unwrap() error {
	return e.Underlying
}

// NewActionError creates an ActionError.
func NewActionError(stepID StepID, output string, underlying error) *ActionError {
	return &ActionError{StepID: stepID, Output: output, Underlying: underlying}
}

// MalformedStateError indicates on-disk state the engine refuses to
// repair automatically, such as a managed block with a start marker but
// no matching end marker. Always fatal: a partial delete could corrupt
// user-owned content.
type MalformedStateError struct {
	Path   string
	Detail string
}

// Error returns the formatted error message.
func (e *MalformedStateError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed state in %s: %s", e.Path, e.Detail)
	}
	return fmt.Sprintf("malformed state: %s", e.Detail)
}

// NewMalformedStateError creates a MalformedStateError.
func NewMalformedStateError(path, detail string) *MalformedStateError {
	return &MalformedStateError{Path: path, Detail: detail}
}

// IsFatal reports whether err must abort the run regardless of the
// failing step's declared criticality.
func IsFatal(err error) bool {
	var privErr *PrivilegeError
	var malformedErr *MalformedStateError
	return errors.As(err, &privErr) || errors.As(err, &malformedErr)
}
