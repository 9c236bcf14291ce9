package service

import (
	"fmt"
	"strings"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/validation"
)

// EnableStep ensures a systemd unit starts at boot. The probe is
// `systemctl is-enabled`; only the exact "enabled" state satisfies it,
// so masked and static units count as divergent and get an enable
// attempt whose output lands in the report.
type EnableStep struct {
	unit   string
	runner ports.CommandRunner
}

// NewEnableStep creates a step enabling unit at boot.
func NewEnableStep(unit string, runner ports.CommandRunner) *EnableStep {
	return &EnableStep{unit: unit, runner: runner}
}

// ID returns the step identifier.
func (s *EnableStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("service:enable:%s", s.unit))
}

// Criticality reports that service failures abort the run.
func (s *EnableStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check probes the unit's enablement state.
func (s *EnableStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "is-enabled", s.unit)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	// is-enabled exits non-zero for disabled units while still printing
	// the state, so only the output matters here.
	if strings.TrimSpace(result.Stdout) == "enabled" {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the pending enable.
func (s *EnableStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "service", s.unit, "", "enabled"), nil
}

// Apply enables the unit.
func (s *EnableStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	if err := validation.ValidateServiceName(s.unit); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}

	result, err := s.runner.Run(ctx.Context(), "systemctl", "enable", s.unit)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if !result.Success() {
		return compiler.NewActionError(s.ID(), result.Output(),
			fmt.Errorf("systemctl enable %s exited with code %d", s.unit, result.ExitCode))
	}
	return nil
}

var _ compiler.Step = (*EnableStep)(nil)
