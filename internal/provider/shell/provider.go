// Package shell converges the target user's shell environment: the login
// shell itself, a managed alias/env block in the rc file, the theme and
// plugin lines an oh-my-zsh install leaves behind, and one-off profile
// lines.
package shell

import (
	"fmt"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// Markers delimiting the managed rc block. Content outside them is never
// touched.
const (
	blockStart = "# >>> debsetup managed >>>"
	blockEnd   = "# <<< debsetup managed <<<"
)

// Provider compiles the shell section into steps.
type Provider struct {
	fs       ports.FileSystem
	runner   ports.CommandRunner
	identity ports.Identity
}

// NewProvider creates a new shell Provider. The runner executes as root
// and is only used to resolve shell binary paths.
func NewProvider(fs ports.FileSystem, runner ports.CommandRunner, identity ports.Identity) *Provider {
	return &Provider{fs: fs, runner: runner, identity: identity}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "shell"
}

// Compile emits the login shell step first, then the rc file edits, then
// profile line upserts. Later steps assume the rc file's owner exists,
// which the account provider guarantees by registration order.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	m := ctx.Manifest()
	owner := userfile.NewOwner(ctx.Owner())
	rcPath := pathutil.ExpandFor(ctx.Home(), m.Shell.RCFile)
	profilePath := pathutil.ExpandFor(ctx.Home(), m.Shell.ProfileFile)

	var steps []compiler.Step

	if m.User.Shell != "" {
		steps = append(steps, NewLoginShellStep(m.User.Name, m.User.Shell, p.runner, p.identity))
	}

	if len(m.Shell.Aliases) > 0 || len(m.Shell.Env) > 0 {
		steps = append(steps, NewRCBlockStep(rcPath, m.Shell.Aliases, m.Shell.Env, p.fs, owner))
	}

	if m.Shell.Theme != "" {
		steps = append(steps, NewThemeStep(rcPath, m.Shell.Theme, p.fs, owner))
	}

	if len(m.Shell.Plugins) > 0 {
		steps = append(steps, NewPluginsStep(rcPath, m.Shell.Plugins, p.fs, owner))
	}

	for i, line := range m.Shell.ProfileLines {
		id := compiler.MustNewStepID(fmt.Sprintf("shell:profile-line:%d", i))
		steps = append(steps, NewLineStep(id, profilePath, line, p.fs, owner))
	}

	return steps, nil
}

var _ compiler.Provider = (*Provider)(nil)
