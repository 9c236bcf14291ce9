package execution

import (
	"github.com/felixgeelhaar/statekit"
)

// RunState is the lifecycle state of a whole run.
type RunState string

const (
	// RunPending means the run has not started executing steps.
	RunPending RunState = "pending"
	// RunRunning means steps are executing.
	RunRunning RunState = "running"
	// RunCompleted means the last step resolved, tolerant failures
	// included.
	RunCompleted RunState = "completed"
	// RunAborted means a fail-fast step failed or privilege
	// establishment failed; later steps never ran.
	RunAborted RunState = "aborted"
)

// Event types for the run lifecycle machine.
const (
	EventBegin    = "BEGIN"
	EventComplete = "COMPLETE"
	EventAbort    = "ABORT"
)

// lifecycleContext carries no runtime data; the report holds the run's
// facts, the machine only guards legal transitions.
type lifecycleContext struct{}

// stateID converts a RunState to the machine's state identifier type.
func stateID(s RunState) statekit.StateID {
	return statekit.StateID(s)
}

// Lifecycle tracks the run through pending -> running -> {completed,
// aborted} using a statekit machine.
type Lifecycle struct {
	interp *statekit.Interpreter[lifecycleContext]
}

// NewLifecycle builds the run state machine.
func NewLifecycle() (*Lifecycle, error) {
	machine, err := statekit.NewMachine[lifecycleContext]("provision-run").
		WithInitial(stateID(RunPending)).
		WithContext(lifecycleContext{}).
		State(stateID(RunPending)).
		On(EventBegin).Target(stateID(RunRunning)).Done().
		State(stateID(RunRunning)).
		On(EventComplete).Target(stateID(RunCompleted)).
		On(EventAbort).Target(stateID(RunAborted)).Done().
		State(stateID(RunCompleted)).Done().
		State(stateID(RunAborted)).Done().
		Build()
	if err != nil {
		return nil, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &Lifecycle{interp: interp}, nil
}

// Begin transitions the run to running.
func (l *Lifecycle) Begin() {
	l.interp.Send(statekit.Event{Type: EventBegin})
}

// Complete transitions the run to completed and stops the machine.
func (l *Lifecycle) Complete() {
	l.interp.Send(statekit.Event{Type: EventComplete})
	l.interp.Stop()
}

// Abort transitions the run to aborted and stops the machine.
func (l *Lifecycle) Abort() {
	l.interp.Send(statekit.Event{Type: EventAbort})
	l.interp.Stop()
}

// State returns the current run state.
func (l *Lifecycle) State() RunState {
	return RunState(l.interp.State().Value)
}
