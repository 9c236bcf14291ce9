// Package runtime converges the version-manager-provided toolchain: the
// profile line that puts the manager's shims on PATH, and per-tool
// minimum-version requirements probed through the user's login shell.
package runtime

import (
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/pathutil"
	"github.com/saveligulas/debian-setup/internal/provider/shell"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// Provider compiles the runtime section into steps.
type Provider struct {
	fs          ports.FileSystem
	loginRunner ports.CommandRunner
}

// NewProvider creates a new runtime Provider. The login runner is what
// makes the version manager's shims visible to probes and installs.
func NewProvider(fs ports.FileSystem, loginRunner ports.CommandRunner) *Provider {
	return &Provider{fs: fs, loginRunner: loginRunner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "runtime"
}

// Compile emits the PATH line upsert first so tool probes that follow in
// the same run already see the shims, then one step per declared tool.
func (p *Provider) Compile(ctx compiler.CompileContext) ([]compiler.Step, error) {
	m := ctx.Manifest()
	owner := userfile.NewOwner(ctx.Owner())

	var steps []compiler.Step

	if m.Runtime.PathLine != "" {
		profilePath := pathutil.ExpandFor(ctx.Home(), m.Shell.ProfileFile)
		id := compiler.MustNewStepID("runtime:path-line")
		steps = append(steps, shell.NewLineStep(id, profilePath, m.Runtime.PathLine, p.fs, owner))
	}

	for _, tool := range m.Runtime.Tools {
		steps = append(steps, NewToolStep(tool, p.loginRunner))
	}

	return steps, nil
}

var _ compiler.Provider = (*Provider)(nil)
