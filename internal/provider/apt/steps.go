package apt

import (
	"fmt"
	"strings"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/validation"
)

// PackageStep ensures one apt package is installed.
type PackageStep struct {
	pkg    string
	id     compiler.StepID
	runner ports.CommandRunner
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(pkg string, runner ports.CommandRunner) *PackageStep {
	return &PackageStep{
		pkg:    pkg,
		id:     compiler.MustNewStepID("apt:package:" + pkg),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() compiler.StepID {
	return s.id
}

// Criticality returns fail-fast: later steps assume system packages
// (zsh, git, curl) are present.
func (s *PackageStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check queries the dpkg status database for the package.
func (s *PackageStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${Package}\t${db:Status-Status}\n", s.pkg)
	if err != nil {
		return compiler.StatusUnknown, err
	}

	// dpkg-query exits 1 when the package is unknown
	if !result.Success() {
		return compiler.StatusNeedsApply, nil
	}
	// Output is "<name>\t<status>". Known-but-removed packages report
	// statuses like "not-installed" or "config-files", so only an exact
	// "installed" counts.
	_, status, found := strings.Cut(strings.TrimSpace(result.Stdout), "\t")
	if found && status == "installed" {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackageStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "package", s.pkg, "", "latest"), nil
}

// Apply installs the package non-interactively.
func (s *PackageStep) Apply(ctx compiler.RunContext) error {
	// Validated at manifest load; revalidate before handing to a shell
	// command in case the step was constructed directly.
	if err := validation.ValidatePackageName(s.pkg); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "apt-get", "install", "-y", s.pkg)
	if err != nil {
		return compiler.NewActionError(s.id, "", err)
	}
	if !result.Success() {
		return compiler.NewActionError(s.id, result.Output(),
			fmt.Errorf("apt-get install %s exited %d", s.pkg, result.ExitCode))
	}
	return nil
}
