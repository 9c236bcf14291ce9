// Package bootstrap runs network-fetched installer scripts (oh-my-zsh,
// Homebrew, a version manager) as the target user. Each installer is one
// opaque action whose probe is a local marker directory; network failures
// surface as ordinary action failures.
package bootstrap

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Provider compiles the installers section into bootstrap steps.
type Provider struct {
	fs          ports.FileSystem
	userRunner  ports.CommandRunner
	loginRunner ports.CommandRunner
}

// NewProvider creates a new bootstrap Provider. Both runners must
// impersonate the target user; loginRunner additionally sources the
// user's profile.
func NewProvider(fs ports.FileSystem, userRunner, loginRunner ports.CommandRunner) *Provider {
	return &Provider{
		fs:          fs,
		userRunner:  userRunner,
		loginRunner: loginRunner,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "bootstrap"
}

// Compile emits one step per declared installer, in manifest order.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	installers := ctx.Manifest().Installers

	steps := make([]compiler.Step, 0, len(installers))
	for _, inst := range installers {
		runner := p.userRunner
		if inst.Login {
			runner = p.loginRunner
		}
		steps = append(steps, NewInstallerStep(inst, ctx.Home(), p.fs, runner))
	}
	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)
