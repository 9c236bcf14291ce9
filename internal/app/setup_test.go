package app

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/adapters/logging"
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/ports"
)

func testSetup() *Setup {
	identity := ports.NewMockIdentity()
	identity.AddUser(ports.Principal{Name: "dev", UID: 1000, GID: 1000, Home: "/home/dev", Shell: "/bin/bash"})
	return &Setup{
		log:      logging.NewNopLogger(),
		out:      io.Discard,
		runner:   ports.NewMockCommandRunner(),
		fs:       ports.NewMockFileSystem(),
		identity: identity,
		loader:   config.NewLoader(),
		euid:     func() int { return 0 },
	}
}

func TestPlanRequiresRoot(t *testing.T) {
	t.Parallel()

	s := testSetup()
	s.euid = func() int { return 1000 }

	_, err := s.Plan(context.Background(), "setup.yaml")
	require.Error(t, err)

	var privErr *compiler.PrivilegeError
	require.ErrorAs(t, err, &privErr)
	assert.True(t, compiler.IsFatal(err))
}

func TestCompileGroupsStepsByProviderOrder(t *testing.T) {
	t.Parallel()

	manifest, err := config.ParseManifest([]byte(`
user:
  name: dev
  groups: [sudo]
  shell: zsh
apt:
  packages: [git, zsh]
brew:
  packages: [gh]
installers:
  - name: oh-my-zsh
    url: https://example.com/install.sh
    marker_dir: ~/.oh-my-zsh
shell:
  theme: agnoster
  aliases:
    ll: ls -lah
runtime:
  path_line: 'export PATH="$HOME/.local/bin:$PATH"'
git:
  name: Jane Developer
services:
  enable: [ssh]
`))
	require.NoError(t, err)

	steps, err := testSetup().compile(manifest)
	require.NoError(t, err)

	providers := make([]string, 0, len(steps))
	for _, s := range steps {
		providers = append(providers, s.ID().Provider())
	}
	assert.Equal(t, []string{
		"account", "account",
		"apt", "apt",
		"bootstrap",
		"brew",
		"shell", "shell", "shell",
		"runtime",
		"ssh",
		"git",
		"service",
	}, providers)
}

func TestHomeOfFallsBackToUseraddDefault(t *testing.T) {
	t.Parallel()

	s := testSetup()
	assert.Equal(t, "/home/dev", s.homeOf("dev"))
	assert.Equal(t, "/home/ghost", s.homeOf("ghost"))
}

func TestOwnerOfResolvesLazily(t *testing.T) {
	t.Parallel()

	s := testSetup()
	resolve := s.ownerOf("ghost")

	// Account does not exist yet: resolution fails.
	_, _, err := resolve()
	require.Error(t, err)

	// Once the account provider has created it, the same func succeeds.
	require.NoError(t, s.identity.CreateUser(context.Background(), "ghost", ""))
	uid, gid, err := resolve()
	require.NoError(t, err)
	assert.NotZero(t, uid)
	assert.NotZero(t, gid)
}
