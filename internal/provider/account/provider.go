// Package account converges the target user account: existence and
// supplementary group memberships. It runs first; nearly every later
// step depends on the account existing.
package account

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Provider compiles the user section into account steps.
type Provider struct {
	identity ports.Identity
}

// NewProvider creates a new account Provider.
func NewProvider(identity ports.Identity) *Provider {
	return &Provider{identity: identity}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "account"
}

// Compile emits the user-creation step followed by one step per group.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	user := ctx.Manifest().User

	steps := make([]compiler.Step, 0, len(user.Groups)+1)
	steps = append(steps, NewUserStep(user.Name, p.identity))
	for _, group := range user.Groups {
		steps = append(steps, NewGroupStep(user.Name, group, p.identity))
	}
	return steps, nil
}

// Ensure Provider implements compiler.Provider.
var _ compiler.Provider = (*Provider)(nil)
