package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/provider/bootstrap"
	"github.com/saveligulas/debian-setup/internal/ports"
)

func ohMyZsh() config.InstallerConfig {
	return config.InstallerConfig{
		Name:      "oh-my-zsh",
		URL:       "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh",
		MarkerDir: "~/.oh-my-zsh",
	}
}

func TestInstallerStepCheck(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("marker directory satisfies", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.MkdirAll("/home/dev/.oh-my-zsh", 0755))

		step := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", fs, ports.NewMockCommandRunner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusSatisfied, status)
	})

	t.Run("missing marker needs apply", func(t *testing.T) {
		t.Parallel()
		step := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", ports.NewMockFileSystem(), ports.NewMockCommandRunner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})

	t.Run("plain file at marker path is not enough", func(t *testing.T) {
		t.Parallel()
		fs := ports.NewMockFileSystem()
		require.NoError(t, fs.WriteFile("/home/dev/.oh-my-zsh", []byte("not a dir"), 0644))

		step := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", fs, ports.NewMockCommandRunner())
		status, err := step.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, compiler.StatusNeedsApply, status)
	})
}

func TestInstallerStepApply(t *testing.T) {
	t.Parallel()
	ctx := compiler.NewRunContext(context.Background())

	t.Run("pipes the script through bash", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("bash",
			[]string{"-c", "curl -fsSL https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh | bash"},
			ports.CommandResult{ExitCode: 0})

		step := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", ports.NewMockFileSystem(), runner)
		require.NoError(t, step.Apply(ctx))
	})

	t.Run("non-zero exit carries output", func(t *testing.T) {
		t.Parallel()
		runner := ports.NewMockCommandRunner()
		runner.AddResult("bash",
			[]string{"-c", "curl -fsSL https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh | bash"},
			ports.CommandResult{ExitCode: 22, Stderr: "curl: (22) The requested URL returned error: 404"})

		step := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", ports.NewMockFileSystem(), runner)
		err := step.Apply(ctx)
		var actionErr *compiler.ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Contains(t, actionErr.Output, "404")
	})
}

func TestInstallerStepCriticality(t *testing.T) {
	t.Parallel()

	failFast := bootstrap.NewInstallerStep(ohMyZsh(), "/home/dev", ports.NewMockFileSystem(), ports.NewMockCommandRunner())
	assert.Equal(t, compiler.FailFast, failFast.Criticality())

	cfg := ohMyZsh()
	cfg.Tolerant = true
	tolerant := bootstrap.NewInstallerStep(cfg, "/home/dev", ports.NewMockFileSystem(), ports.NewMockCommandRunner())
	assert.Equal(t, compiler.Tolerant, tolerant.Criticality())
}

func TestProviderPicksRunnerPerInstaller(t *testing.T) {
	t.Parallel()

	manifest := &config.Manifest{
		Installers: []config.InstallerConfig{
			{Name: "plain", URL: "https://example.com/a.sh", MarkerDir: "~/.a"},
			{Name: "login", URL: "https://example.com/b.sh", MarkerDir: "~/.b", Login: true},
		},
	}

	provider := bootstrap.NewProvider(ports.NewMockFileSystem(), ports.NewMockCommandRunner(), ports.NewMockCommandRunner())
	cctx := compiler.NewCompileContext(manifest).WithOwner("/home/dev", nil)
	steps, err := provider.Compile(cctx)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "bootstrap:installer:plain", steps[0].ID().String())
	assert.Equal(t, "bootstrap:installer:login", steps[1].ID().String())
}
