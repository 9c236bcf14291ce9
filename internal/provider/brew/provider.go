// Package brew manages Homebrew formulae for the target user. Homebrew
// refuses to run as root, so every command goes through the login-shell
// runner where the brew shims are on PATH.
package brew

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Provider compiles the brew package list into install steps.
type Provider struct {
	loginRunner ports.CommandRunner
}

// NewProvider creates a new brew Provider using the given login-shell runner.
func NewProvider(loginRunner ports.CommandRunner) *Provider {
	return &Provider{loginRunner: loginRunner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "brew"
}

// Compile emits one step per formula, in manifest order.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	formulae := ctx.Manifest().Brew.Packages

	steps := make([]compiler.Step, 0, len(formulae))
	for _, formula := range formulae {
		steps = append(steps, NewFormulaStep(formula, p.loginRunner))
	}
	return steps, nil
}

var _ compiler.Provider = (*Provider)(nil)
