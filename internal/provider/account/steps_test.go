package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/provider/account"
	"github.com/saveligulas/debian-setup/internal/ports"
)

func TestUserStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("existing account is satisfied", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev", UID: 1000, GID: 1000, Home: "/home/dev"})

		status, err := account.NewUserStep("dev", identity).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("missing account is created on apply", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		step := account.NewUserStep("dev", identity)

		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)

		require.NoError(t, step.Apply(ctx))

		exists, err := identity.UserExists(context.Background(), "dev")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestGroupStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("membership is satisfied", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev"}, "dev", "sudo")

		status, err := account.NewGroupStep("dev", "sudo", identity).Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("missing membership is added", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev"}, "dev")
		step := account.NewGroupStep("dev", "docker", identity)

		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)

		require.NoError(t, step.Apply(ctx))

		groups, err := identity.GroupsOf(context.Background(), "dev")
		require.NoError(t, err)
		assert.Contains(t, groups, "docker")
	})
}

func TestProviderCompile(t *testing.T) {
	t.Parallel()

	manifest := &config.Manifest{
		User: config.UserConfig{Name: "dev", Groups: []string{"sudo", "docker"}},
	}

	provider := account.NewProvider(ports.NewMockIdentity())
	steps, err := provider.Compile(compiler.NewCompileContext(manifest))
	require.NoError(t, err)

	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID().String())
	}
	assert.Equal(t, []string{
		"account:user:dev",
		"account:group:dev:sudo",
		"account:group:dev:docker",
	}, ids)

	// Account steps gate everything user-scoped.
	for _, s := range steps {
		assert.Equal(t, compiler.FailFast, s.Criticality())
	}
}
