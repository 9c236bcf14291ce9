package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/provider/service"
	"github.com/saveligulas/debian-setup/internal/ports"
)

func TestEnableStepCheck(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("enabled unit is satisfied", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("systemctl", []string{"is-enabled", "docker"},
			ports.CommandResult{ExitCode: 0, Stdout: "enabled\n"})

		status, err := service.NewEnableStep("docker", runner).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("disabled unit needs apply", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("systemctl", []string{"is-enabled", "docker"},
			ports.CommandResult{ExitCode: 1, Stdout: "disabled\n"})

		status, err := service.NewEnableStep("docker", runner).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})

	t.Run("masked unit needs apply", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("systemctl", []string{"is-enabled", "ssh"},
			ports.CommandResult{ExitCode: 1, Stdout: "masked\n"})

		status, err := service.NewEnableStep("ssh", runner).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})
}

func TestEnableStepApply(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("enables the unit", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("systemctl", []string{"enable", "docker"}, ports.CommandResult{ExitCode: 0})

		require.NoError(t, service.NewEnableStep("docker", runner).Apply(ctx))
	})

	t.Run("failure carries systemctl output", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("systemctl", []string{"enable", "ghost"},
			ports.CommandResult{ExitCode: 1, Stderr: "Failed to enable unit: Unit file ghost.service does not exist."})

		err := service.NewEnableStep("ghost", runner).Apply(ctx)
		var actionErr *compiler.ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Contains(t, actionErr.Output, "does not exist")
	})
}
