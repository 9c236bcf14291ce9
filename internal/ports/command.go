// Package ports defines the interfaces the provisioning engine uses to
// reach the host: command execution, filesystem access, identity lookups,
// and logging. Real implementations live under internal/adapters.
package ports

import (
	"context"
	"strings"
)

// CommandResult is the outcome of one command invocation.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Output returns the combined captured output, used when surfacing a
// failed command to the operator.
func (r CommandResult) Output() string {
	out := strings.TrimSpace(r.Stdout)
	errOut := strings.TrimSpace(r.Stderr)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	default:
		return out + "\n" + errOut
	}
}

// CommandCall records a command invocation for inspection in tests.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes commands on the host. Implementations decide
// under which identity and shell semantics the command runs; see
// adapters/command.UserRunner for the privilege-dropping variant.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
