package bootstrap

import (
	"fmt"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
)

// InstallerStep downloads and runs a vendor install script as the target
// user. The marker directory is the only probe: once the installer has
// created it, the step is considered satisfied forever.
type InstallerStep struct {
	cfg       config.InstallerConfig
	markerDir string
	fs        ports.FileSystem
	runner    ports.CommandRunner
}

// NewInstallerStep creates a step for one installer entry. Relative
// marker paths are expanded against the target user's home, not the
// invoking process's.
func NewInstallerStep(cfg config.InstallerConfig, home string, fs ports.FileSystem, runner ports.CommandRunner) *InstallerStep {
	return &InstallerStep{
		cfg:       cfg,
		markerDir: pathutil.ExpandFor(home, cfg.MarkerDir),
		fs:        fs,
		runner:    runner,
	}
}

// ID returns the step identifier.
func (s *InstallerStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("bootstrap:installer:%s", s.cfg.Name))
}

// Criticality reports whether a failure of this installer aborts the run.
func (s *InstallerStep) Criticality() compiler.Criticality {
	if s.cfg.Tolerant {
		return compiler.Tolerant
	}
	return compiler.FailFast
}

// Check probes for the installer's marker directory.
func (s *InstallerStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if s.fs.Exists(s.markerDir) && s.fs.IsDir(s.markerDir) {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the pending install.
func (s *InstallerStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "installer", s.cfg.Name, "", s.cfg.URL), nil
}

// Apply fetches the script and pipes it through bash as the target user.
func (s *InstallerStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}

	script := fmt.Sprintf("curl -fsSL %s | bash", s.cfg.URL)
	result, err := s.runner.Run(ctx.Context(), "bash", "-c", script)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if !result.Success() {
		return compiler.NewActionError(s.ID(), result.Output(),
			fmt.Errorf("installer %s exited with code %d", s.cfg.Name, result.ExitCode))
	}
	return nil
}

var _ compiler.Step = (*InstallerStep)(nil)
