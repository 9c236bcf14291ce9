package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/provider/shell"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
	"github.com/saveligulas/debian-setup/internal/ports"
)

const rcPath = "/home/dev/.zshrc"

func devOwner() userfile.Owner {
	return userfile.StaticOwner(1000, 1000)
}

func TestLoginShellStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("matching shell is satisfied", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev", Shell: "/usr/bin/zsh"})
		runner := ports.NewMockCommandRunner()
		runner.AddResult("which", []string{"zsh"}, ports.CommandResult{ExitCode: 0, Stdout: "/usr/bin/zsh\n"})

		step := shell.NewLoginShellStep("dev", "zsh", runner, identity)
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("divergent shell is changed", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev", Shell: "/bin/bash"})
		runner := ports.NewMockCommandRunner()
		runner.AddResult("which", []string{"zsh"}, ports.CommandResult{ExitCode: 0, Stdout: "/usr/bin/zsh\n"})

		step := shell.NewLoginShellStep("dev", "zsh", runner, identity)
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)

		require.NoError(t, step.Apply(ctx))

		p, err := identity.Lookup("dev")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/zsh", p.Shell)
	})

	t.Run("absolute path skips resolution", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev", Shell: "/usr/bin/zsh"})

		step := shell.NewLoginShellStep("dev", "/usr/bin/zsh", ports.NewMockCommandRunner(), identity)
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("shell not on PATH is a probe failure", func(t *testing.T) {
		t.Parallel()
		identity := ports.NewMockIdentity()
		identity.AddUser(ports.Principal{Name: "dev", Shell: "/bin/bash"})
		runner := ports.NewMockCommandRunner()
		runner.AddResult("which", []string{"fish"}, ports.CommandResult{ExitCode: 1})

		step := shell.NewLoginShellStep("dev", "fish", runner, identity)
		status, err := step.Check(ctx)
		require.Error(t, err)
		assert.Equal(t, compiler.StatusUnknown, status)
	})
}

func TestRCBlockStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())
	aliases := map[string]string{"ll": "ls -lah", "gs": "git status"}
	env := map[string]string{"EDITOR": "vim"}

	t.Run("missing file needs apply and is created owned", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		step := shell.NewRCBlockStep(rcPath, aliases, env, fs, devOwner())

		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)

		require.NoError(t, step.Apply(ctx))

		data, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "export EDITOR=\"vim\"")
		assert.Contains(t, content, "alias gs='git status'")
		assert.Contains(t, content, "alias ll='ls -lah'")

		owner, ok := fs.OwnerOf(rcPath)
		require.True(t, ok)
		assert.Equal(t, ports.Owner{UID: 1000, GID: 1000}, owner)
	})

	t.Run("converged file is satisfied and apply is idempotent", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		step := shell.NewRCBlockStep(rcPath, aliases, env, fs, devOwner())
		require.NoError(t, step.Apply(ctx))

		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)

		before, _ := fs.ReadFile(rcPath)
		require.NoError(t, step.Apply(ctx))
		after, _ := fs.ReadFile(rcPath)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("content outside the block survives resync", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		step := shell.NewRCBlockStep(rcPath, aliases, env, fs, devOwner())
		require.NoError(t, step.Apply(ctx))

		data, _ := fs.ReadFile(rcPath)
		tampered := string(data) + "unmanaged tail\n"
		require.NoError(t, fs.WriteFile(rcPath, []byte(tampered), 0644))

		require.NoError(t, step.Apply(ctx))
		after, _ := fs.ReadFile(rcPath)
		assert.Contains(t, string(after), "unmanaged tail")
	})

	t.Run("orphaned marker is malformed state", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(rcPath, []byte("# >>> debsetup managed >>>\nno end\n"), 0644))

		step := shell.NewRCBlockStep(rcPath, aliases, env, fs, devOwner())
		_, err := step.Check(ctx)
		require.Error(t, err)
		assert.True(t, compiler.IsFatal(err))
	})
}

func TestThemeStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("rewrites installer default", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(rcPath, []byte("ZSH_THEME=\"robbyrussell\"\nplugins=(git)\n"), 0644))

		step := shell.NewThemeStep(rcPath, "agnoster", fs, devOwner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)

		require.NoError(t, step.Apply(ctx))
		data, _ := fs.ReadFile(rcPath)
		assert.Contains(t, string(data), "ZSH_THEME=\"agnoster\"")
		assert.NotContains(t, string(data), "robbyrussell")
	})

	t.Run("missing rc file is satisfied", func(t *testing.T) {
		t.Parallel()
		step := shell.NewThemeStep(rcPath, "agnoster", ports.NewMockFileSystem(), devOwner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("no theme line is satisfied", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile(rcPath, []byte("# bare rc\n"), 0644))

		step := shell.NewThemeStep(rcPath, "agnoster", fs, devOwner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})
}

func TestPluginsStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	fs := ports.NewMockFileSystem()
	require.NoError(t, fs.WriteFile(rcPath, []byte("plugins=(git)\n"), 0644))

	step := shell.NewPluginsStep(rcPath, []string{"git", "fzf", "docker"}, fs, devOwner())
	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	require.NoError(t, step.Apply(ctx))
	data, _ := fs.ReadFile(rcPath)
	assert.Equal(t, "plugins=(git fzf docker)\n", string(data))

	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}

func TestLineStep(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())
	profile := "/home/dev/.profile"
	line := `eval "$(/home/linuxbrew/.linuxbrew/bin/brew shellenv)"`
	id := compiler.MustNewStepID("shell:profile-line:0")

	fs := ports.NewMockFileSystem()
	step := shell.NewLineStep(id, profile, line, fs, devOwner())

	status, err := step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusNeedsApply, status)

	require.NoError(t, step.Apply(ctx))
	data, _ := fs.ReadFile(profile)
	assert.Equal(t, line+"\n", string(data))

	// Second run sees it and leaves the file alone.
	status, err = step.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, compiler.StatusSatisfied, status)
}
