package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/provider/git"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
	"github.com/saveligulas/debian-setup/internal/ports"
)

const gitconfigPath = "/home/dev/.gitconfig"

func owner() userfile.Owner { return userfile.StaticOwner(1000, 1000) }

func TestConfigStepCheck(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("matching value is satisfied", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(gitconfigPath, []byte("[user]\nname = Jane Developer\n"), 0644))

		step := git.NewConfigStep(gitconfigPath, "user.name", "Jane Developer", fs, owner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("different value needs apply", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(gitconfigPath, []byte("[user]\nname = Someone Else\n"), 0644))

		step := git.NewConfigStep(gitconfigPath, "user.name", "Jane Developer", fs, owner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})

	t.Run("missing file needs apply", func(t *testing.T) {
		t.Parallel()
		step := git.NewConfigStep(gitconfigPath, "user.email", "jane@example.com", ports.NewMockFileSystem(), owner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})
}

func TestConfigStepApply(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("preserves unrelated sections", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(gitconfigPath,
			[]byte("[core]\neditor = vim\n\n[user]\nname = Old Name\n"), 0644))

		step := git.NewConfigStep(gitconfigPath, "user.name", "Jane Developer", fs, owner())
		require.NoError(t, step.Apply(ctx))

		data, err := fs.ReadFile(gitconfigPath)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "editor")
		assert.Contains(t, content, "Jane Developer")
		assert.NotContains(t, content, "Old Name")
	})

	t.Run("creates file owned by principal", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		step := git.NewConfigStep(gitconfigPath, "init.defaultBranch", "main", fs, owner())
		require.NoError(t, step.Apply(ctx))

		fileOwner, ok := fs.OwnerOf(gitconfigPath)
		require.True(t, ok)
		assert.Equal(t, ports.Owner{UID: 1000, GID: 1000}, fileOwner)

		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})
}

func TestProviderCompileOrder(t *testing.T) {
	t.Parallel()

	manifest := &config.Manifest{
		Git: config.GitConfig{
			Name:  "Jane Developer",
			Email: "jane@example.com",
			Extra: map[string]string{
				"pull.rebase":        "true",
				"init.defaultBranch": "main",
			},
		},
	}

	provider := git.NewProvider(ports.NewMockFileSystem())
	cctx := compiler.NewCompileContext(manifest).WithOwner("/home/dev", func() (int, int, error) { return 1000, 1000, nil })
	steps, err := provider.Compile(cctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID().String())
	}
	assert.Equal(t, []string{
		"git:config:user.name",
		"git:config:user.email",
		"git:config:init.defaultBranch",
		"git:config:pull.rebase",
	}, ids)
}
