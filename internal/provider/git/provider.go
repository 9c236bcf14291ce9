// Package git converges scalar values in the target user's ~/.gitconfig.
// Each declared key is its own step so the report shows exactly which
// values were set; unrelated sections and keys are preserved.
package git

import (
	"sort"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// Provider compiles the git section into per-key config steps.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new git Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "git"
}

// Compile emits user.name and user.email first, then the extra keys in
// sorted order so step order is stable across runs.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	m := ctx.Manifest()
	owner := userfile.NewOwner(ctx.Owner())
	path := pathutil.ExpandFor(ctx.Home(), "~/.gitconfig")

	var steps []compiler.Step
	if m.Git.Name != "" {
		steps = append(steps, NewConfigStep(path, "user.name", m.Git.Name, p.fs, owner))
	}
	if m.Git.Email != "" {
		steps = append(steps, NewConfigStep(path, "user.email", m.Git.Email, p.fs, owner))
	}

	extra := make([]string, 0, len(m.Git.Extra))
	for key := range m.Git.Extra {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		steps = append(steps, NewConfigStep(path, key, m.Git.Extra[key], p.fs, owner))
	}

	return steps, nil
}

var _ compiler.Provider = (*Provider)(nil)
