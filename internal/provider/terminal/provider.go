// Package terminal converges the managed subset of the user's
// alacritty.toml. Only the declared keys are touched; the rest of the
// document round-trips untouched through the TOML tree.
package terminal

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// Provider compiles the terminal section.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new terminal Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "terminal"
}

// Compile emits the alacritty step when any setting is declared.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	cfg := ctx.Manifest().Terminal.Alacritty
	if cfg.FontFamily == "" && cfg.FontSize == 0 && cfg.Opacity == 0 {
		return nil, nil
	}

	owner := userfile.NewOwner(ctx.Owner())
	path := pathutil.ExpandFor(ctx.Home(), "~/.config/alacritty/alacritty.toml")
	return []compiler.Step{NewAlacrittyStep(path, cfg, p.fs, owner)}, nil
}

var _ compiler.Provider = (*Provider)(nil)
