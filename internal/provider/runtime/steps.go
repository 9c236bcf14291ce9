package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/ports"
)

var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?`)

// ToolStep ensures a tool is present at or above a minimum version,
// probed through the user's login shell so version-manager shims are on
// PATH. The install command is the version manager's own ("nvm install
// 20"), run the same way.
type ToolStep struct {
	cfg    config.ToolConfig
	runner ports.CommandRunner
}

// NewToolStep creates a step for one tool requirement.
func NewToolStep(cfg config.ToolConfig, runner ports.CommandRunner) *ToolStep {
	return &ToolStep{cfg: cfg, runner: runner}
}

// ID returns the step identifier.
func (s *ToolStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("runtime:tool:%s", s.cfg.Name))
}

// Criticality reports that tool failures are tolerated: one broken
// runtime must not block the remaining setup.
func (s *ToolStep) Criticality() compiler.Criticality {
	return compiler.Tolerant
}

// Check runs `<tool> --version` and compares against the declared floor.
// A non-zero exit means the tool is absent, which is divergence rather
// than a probe failure.
func (s *ToolStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), s.cfg.Name, "--version")
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if !result.Success() {
		return compiler.StatusNeedsApply, nil
	}
	if s.cfg.MinVersion == "" {
		return compiler.StatusSatisfied, nil
	}

	have := versionPattern.FindString(result.Output())
	if have == "" {
		return compiler.StatusUnknown,
			compiler.NewProbeError(s.ID(), fmt.Errorf("no version in %q output: %s", s.cfg.Name, result.Output()))
	}
	if semver.Compare(canonical(have), canonical(s.cfg.MinVersion)) >= 0 {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the pending install or upgrade.
func (s *ToolStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	want := s.cfg.MinVersion
	if want == "" {
		want = "present"
	}
	return compiler.NewDiff(compiler.DiffTypeAdd, "tool", s.cfg.Name, "", want), nil
}

// Apply runs the declared install command under the login shell.
func (s *ToolStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	if s.cfg.InstallCommand == "" {
		return compiler.NewActionError(s.ID(), "",
			fmt.Errorf("tool %s is divergent but declares no install command", s.cfg.Name))
	}

	result, err := s.runner.Run(ctx.Context(), "bash", "-c", s.cfg.InstallCommand)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if !result.Success() {
		return compiler.NewActionError(s.ID(), result.Output(),
			fmt.Errorf("install command for %s exited with code %d", s.cfg.Name, result.ExitCode))
	}
	return nil
}

// canonical normalizes a version for comparison: leading v, three
// components.
func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if c := semver.Canonical(v); c != "" {
		return c
	}
	return v
}

var _ compiler.Step = (*ToolStep)(nil)
