// Package service enables systemd units at boot. Probes and actions run
// as root through systemctl.
package service

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Provider compiles the services section into enable steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new service Provider with the root runner.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "service"
}

// Compile emits one step per unit, in manifest order.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	units := ctx.Manifest().Services.Enable

	steps := make([]compiler.Step, 0, len(units))
	for _, unit := range units {
		steps = append(steps, NewEnableStep(unit, p.runner))
	}
	return steps, nil
}

var _ compiler.Provider = (*Provider)(nil)
