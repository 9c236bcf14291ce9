// Package apt converges system-level packages through dpkg and apt-get.
package apt

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Provider compiles the apt section into package steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new apt Provider. The runner must carry root
// identity; apt's namespace is system-wide.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "apt"
}

// Compile emits one step per declared package, in manifest order.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	packages := ctx.Manifest().Apt.Packages

	steps := make([]compiler.Step, 0, len(packages))
	for _, pkg := range packages {
		steps = append(steps, NewPackageStep(pkg, p.runner))
	}
	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)
