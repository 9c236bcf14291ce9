// Package command provides command execution adapters, including the
// privilege-dropping runner used for steps that act as the target user.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/saveligulas/debian-setup/internal/ports"
)

// RealRunner executes commands directly under the current process identity.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command with captured output. A non-zero exit code is
// reported through the result, not as an error; a returned error means
// the command could not be started at all.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	runErr := cmd.Run()
	result := ports.CommandResult{
		Stdout: out.String(),
		Stderr: errOut.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, runErr
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
