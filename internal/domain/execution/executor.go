package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Executor runs a plan strictly sequentially: one step's action completes
// fully before the next step is considered, and each step is probed again
// immediately before acting so state left by earlier actions in the same
// run is observed.
//
// By default the executor does not re-probe after acting: it trusts each
// action's idempotence contract. That is a simplicity and speed trade-off,
// not a correctness guarantee; WithVerify enables a post-apply re-probe
// for hardened runs.
type Executor struct {
	log         ports.Logger
	dryRun      bool
	verify      bool
	stepTimeout time.Duration
}

// NewExecutor creates a new Executor.
func NewExecutor(log ports.Logger) *Executor {
	return &Executor{log: log}
}

// WithDryRun returns an Executor that simulates execution without applying.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	clone := *e
	clone.dryRun = dryRun
	return &clone
}

// WithVerify returns an Executor that re-probes after each apply and
// fails the step if it still reports divergent.
func (e *Executor) WithVerify(verify bool) *Executor {
	clone := *e
	clone.verify = verify
	return &clone
}

// WithStepTimeout returns an Executor that bounds each step's action.
// Expiry is an ordinary step failure, subject to the step's criticality.
func (e *Executor) WithStepTimeout(d time.Duration) *Executor {
	clone := *e
	clone.stepTimeout = d
	return &clone
}

// Execute runs the plan front-to-back and returns the run report. The
// returned error is non-nil only when the run aborted: a fail-fast step
// failed, malformed on-disk state was found, or privilege was lost.
// Tolerant failures are recorded in the report and do not abort.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (*RunReport, error) {
	report := NewRunReport()

	lifecycle, err := NewLifecycle()
	if err != nil {
		return report, fmt.Errorf("build run lifecycle: %w", err)
	}
	lifecycle.Begin()

	runCtx := compiler.NewRunContext(ctx).WithDryRun(e.dryRun)

	var abortErr error

	for i, entry := range plan.Entries() {
		if err := ctx.Err(); err != nil {
			abortErr = err
			e.recordUnreached(report, plan.Entries()[i:])
			break
		}

		result := e.executeEntry(entry, runCtx)
		report.Append(result)

		if !result.Failed() {
			continue
		}

		fatal := compiler.IsFatal(result.Err)
		if entry.Step().Criticality() == compiler.Tolerant && !fatal {
			e.log.Warn(ctx, "tolerant step failed, continuing",
				ports.F("step", result.StepID.String()),
				ports.F("error", result.Err.Error()))
			continue
		}

		abortErr = result.Err
		e.recordUnreached(report, plan.Entries()[i+1:])
		break
	}

	if abortErr != nil {
		lifecycle.Abort()
		report.Finish(RunAborted)
		return report, abortErr
	}

	lifecycle.Complete()
	report.Finish(RunCompleted)
	return report, nil
}

func (e *Executor) executeEntry(entry PlanEntry, ctx compiler.RunContext) ReportEntry {
	step := entry.Step()
	result := ReportEntry{
		StepID:      step.ID(),
		Criticality: step.Criticality(),
		Prior:       entry.Status(),
		Diff:        entry.Diff(),
		Timestamp:   time.Now(),
	}

	// The plan's status is advisory: an earlier step's action in this
	// run may have created or removed this step's divergence. Probe
	// again now, after every prior action has fully completed. Dry runs
	// change nothing and keep the plan's statuses.
	if !ctx.DryRun() {
		status, checkErr := step.Check(ctx)
		if checkErr != nil {
			if compiler.IsFatal(checkErr) {
				result.Result = compiler.StatusFailed
				result.Err = checkErr
				return result
			}
			e.log.Warn(ctx.Context(), "probe failed, re-attempting action",
				ports.F("step", step.ID().String()),
				ports.F("error", checkErr.Error()))
			status = compiler.StatusUnknown
		}
		result.Prior = status
	}

	// Already satisfied: record the skip, never invoke the action.
	if result.Prior == compiler.StatusSatisfied {
		result.Result = compiler.StatusSkipped
		return result
	}

	if ctx.DryRun() {
		result.Result = compiler.StatusSkipped
		return result
	}

	stepCtx := ctx.Context()
	cancel := func() {}
	if e.stepTimeout > 0 {
		stepCtx, cancel = context.WithTimeout(stepCtx, e.stepTimeout)
	}
	defer cancel()
	runCtx := ctx.WithContext(stepCtx)

	result.ActionTaken = true
	start := time.Now()
	err := step.Apply(runCtx)
	result.Duration = time.Since(start)

	if err == nil && e.verify {
		status, checkErr := step.Check(runCtx)
		switch {
		case checkErr != nil:
			err = compiler.NewProbeError(step.ID(), checkErr)
		case status.Divergent():
			err = fmt.Errorf("step %q still divergent after apply", step.ID().String())
		}
	}

	if err != nil {
		result.Result = compiler.StatusFailed
		result.Err = err
		return result
	}

	result.Result = compiler.StatusSatisfied
	return result
}

// recordUnreached marks the rest of the plan as skipped after an abort.
func (e *Executor) recordUnreached(report *RunReport, remaining []PlanEntry) {
	for _, entry := range remaining {
		report.Append(ReportEntry{
			StepID:      entry.Step().ID(),
			Criticality: entry.Step().Criticality(),
			Prior:       entry.Status(),
			Result:      compiler.StatusSkipped,
			Timestamp:   time.Now(),
		})
	}
}
