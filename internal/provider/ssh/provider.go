// Package ssh generates the target user's ed25519 key pair in process,
// keyed on the private key file's existence. An existing key is never
// regenerated or inspected.
package ssh

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// Provider compiles the ssh section into the keygen step.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new ssh Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ssh"
}

// Compile emits the single keygen step.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	m := ctx.Manifest()
	owner := userfile.NewOwner(ctx.Owner())
	keyPath := pathutil.ExpandFor(ctx.Home(), m.SSH.KeyPath)

	comment := m.SSH.Comment
	if comment == "" {
		comment = m.User.Name
	}

	return []compiler.Step{NewKeygenStep(keyPath, comment, p.fs, owner)}, nil
}

var _ compiler.Provider = (*Provider)(nil)
