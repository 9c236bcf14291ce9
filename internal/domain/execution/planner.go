package execution

import (
	"context"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Planner probes every step's current state and produces the Plan.
type Planner struct {
	log ports.Logger
}

// NewPlanner creates a new Planner.
func NewPlanner(log ports.Logger) *Planner {
	return &Planner{log: log}
}

// Plan probes the steps in order. A probe that itself fails does not
// abort planning: the step is conservatively marked divergent so the
// engine re-attempts the action rather than silently skipping it.
func (p *Planner) Plan(ctx context.Context, steps []compiler.Step) (*Plan, error) {
	plan := NewPlan()
	runCtx := compiler.NewRunContext(ctx)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan.Add(p.planStep(step, runCtx))
	}

	return plan, nil
}

func (p *Planner) planStep(step compiler.Step, ctx compiler.RunContext) PlanEntry {
	status, err := step.Check(ctx)
	if err != nil {
		probeErr := compiler.NewProbeError(step.ID(), err)
		p.log.Warn(ctx.Context(), "probe failed, treating step as divergent",
			ports.F("step", step.ID().String()),
			ports.F("error", err.Error()))
		return NewPlanEntry(step, compiler.StatusUnknown, compiler.Diff{}).WithProbeError(probeErr)
	}

	var diff compiler.Diff
	if status.Divergent() {
		diff, err = step.Plan(ctx)
		if err != nil {
			// A failed diff is cosmetic; the action still runs.
			diff = compiler.Diff{}
		}
	}

	return NewPlanEntry(step, status, diff)
}
