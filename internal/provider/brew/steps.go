package brew

import (
	"fmt"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/validation"
)

// FormulaStep ensures a Homebrew formula is installed for the target
// user. Brew packages are convenience tooling, so the step is tolerant:
// one broken formula does not abort the run.
type FormulaStep struct {
	formula string
	runner  ports.CommandRunner
}

// NewFormulaStep creates a step for a single formula.
func NewFormulaStep(formula string, runner ports.CommandRunner) *FormulaStep {
	return &FormulaStep{formula: formula, runner: runner}
}

// ID returns the step identifier.
func (s *FormulaStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("brew:formula:%s", s.formula))
}

// Criticality reports that brew failures are tolerated.
func (s *FormulaStep) Criticality() compiler.Criticality {
	return compiler.Tolerant
}

// Check probes the formula with `brew list`.
func (s *FormulaStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "brew", "list", "--formula", s.formula)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if result.Success() {
		return compiler.StatusSatisfied, nil
	}
	// brew list exits non-zero for formulae that are not installed.
	return compiler.StatusNeedsApply, nil
}

// Plan describes the pending install.
func (s *FormulaStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "formula", s.formula, "", "installed"), nil
}

// Apply installs the formula.
func (s *FormulaStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	if err := validation.ValidatePackageName(s.formula); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}

	result, err := s.runner.Run(ctx.Context(), "brew", "install", s.formula)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if !result.Success() {
		return compiler.NewActionError(s.ID(), result.Output(),
			fmt.Errorf("brew install %s exited with code %d", s.formula, result.ExitCode))
	}
	return nil
}

var _ compiler.Step = (*FormulaStep)(nil)
