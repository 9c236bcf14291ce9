// Package app wires the adapters, providers and engine into the
// provisioning application.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/saveligulas/debian-setup/internal/adapters/command"
	"github.com/saveligulas/debian-setup/internal/adapters/filesystem"
	identityadapter "github.com/saveligulas/debian-setup/internal/adapters/identity"
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/domain/execution"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/account"
	"github.com/saveligulas/debian-setup/internal/provider/apt"
	"github.com/saveligulas/debian-setup/internal/provider/bootstrap"
	"github.com/saveligulas/debian-setup/internal/provider/brew"
	"github.com/saveligulas/debian-setup/internal/provider/git"
	"github.com/saveligulas/debian-setup/internal/provider/runtime"
	"github.com/saveligulas/debian-setup/internal/provider/service"
	"github.com/saveligulas/debian-setup/internal/provider/shell"
	"github.com/saveligulas/debian-setup/internal/provider/ssh"
	"github.com/saveligulas/debian-setup/internal/provider/terminal"
)

// Setup is the application orchestrator: it loads the manifest, wires
// the providers for the declared target user, and drives the plan and
// converge phases.
type Setup struct {
	log      ports.Logger
	out      io.Writer
	runner   ports.CommandRunner
	fs       ports.FileSystem
	identity ports.Identity
	loader   *config.Loader

	dryRun      bool
	verify      bool
	stepTimeout time.Duration

	// euid is swapped in tests; the real binary answers for root.
	euid func() int
}

// New creates the application with real adapters.
func New(out io.Writer, log ports.Logger) *Setup {
	runner := command.NewRealRunner()
	return &Setup{
		log:      log,
		out:      out,
		runner:   runner,
		fs:       filesystem.NewRealFileSystem(),
		identity: identityadapter.NewLocal(runner),
		loader:   config.NewLoader(),
		euid:     os.Geteuid,
	}
}

// WithAdapters returns a Setup using the given command, filesystem and
// identity backends instead of the real ones.
func (s *Setup) WithAdapters(runner ports.CommandRunner, fs ports.FileSystem, identity ports.Identity) *Setup {
	clone := *s
	clone.runner = runner
	clone.fs = fs
	clone.identity = identity
	return &clone
}

// WithPrivilegeCheck returns a Setup using the given effective-uid probe.
func (s *Setup) WithPrivilegeCheck(euid func() int) *Setup {
	clone := *s
	clone.euid = euid
	return &clone
}

// WithDryRun returns a Setup that plans and reports without applying.
func (s *Setup) WithDryRun(dryRun bool) *Setup {
	clone := *s
	clone.dryRun = dryRun
	return &clone
}

// WithVerify returns a Setup that re-probes each step after its action.
func (s *Setup) WithVerify(verify bool) *Setup {
	clone := *s
	clone.verify = verify
	return &clone
}

// WithStepTimeout returns a Setup bounding each step's action.
func (s *Setup) WithStepTimeout(d time.Duration) *Setup {
	clone := *s
	clone.stepTimeout = d
	return &clone
}

// Run is the full pipeline: load, compile, plan, print the plan,
// converge, print the report. The returned report is never nil once
// planning succeeded; the error is non-nil when the run aborted.
func (s *Setup) Run(ctx context.Context, configPath string) (*execution.RunReport, error) {
	plan, err := s.Plan(ctx, configPath)
	if err != nil {
		return nil, err
	}

	s.PrintPlan(plan)

	report, err := s.Converge(ctx, plan)
	s.PrintReport(report)
	return report, err
}

// Plan loads the manifest and probes every compiled step. It refuses to
// proceed without root: half the steps would fail with permission errors
// in a partially-converged, confusing order.
func (s *Setup) Plan(ctx context.Context, configPath string) (*execution.Plan, error) {
	if s.euid() != 0 {
		return nil, compiler.NewPrivilegeError("debsetup must run as root", nil)
	}

	manifest, err := s.loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	steps, err := s.compile(manifest)
	if err != nil {
		return nil, fmt.Errorf("compile manifest: %w", err)
	}

	planner := execution.NewPlanner(s.log)
	plan, err := planner.Plan(ctx, steps)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return plan, nil
}

// Converge executes the plan front-to-back.
func (s *Setup) Converge(ctx context.Context, plan *execution.Plan) (*execution.RunReport, error) {
	executor := execution.NewExecutor(s.log).
		WithDryRun(s.dryRun).
		WithVerify(s.verify).
		WithStepTimeout(s.stepTimeout)
	return executor.Execute(ctx, plan)
}

// compile registers the providers in dependency order and flattens the
// manifest into steps. Order is load-bearing: account precedes everything
// touching the user's home, apt precedes the installers that need curl
// and git, the installers precede the shell and runtime steps that edit
// the files they create.
func (s *Setup) compile(manifest *config.Manifest) ([]compiler.Step, error) {
	user := manifest.User.Name
	userRunner := command.NewUserRunner(s.runner, user, false)
	loginRunner := command.NewUserRunner(s.runner, user, true)

	comp := compiler.NewCompiler()
	comp.RegisterProvider(account.NewProvider(s.identity))
	comp.RegisterProvider(apt.NewProvider(s.runner))
	comp.RegisterProvider(bootstrap.NewProvider(s.fs, userRunner, loginRunner))
	comp.RegisterProvider(brew.NewProvider(loginRunner))
	comp.RegisterProvider(shell.NewProvider(s.fs, s.runner, s.identity))
	comp.RegisterProvider(runtime.NewProvider(s.fs, loginRunner))
	comp.RegisterProvider(ssh.NewProvider(s.fs))
	comp.RegisterProvider(git.NewProvider(s.fs))
	comp.RegisterProvider(terminal.NewProvider(s.fs))
	comp.RegisterProvider(service.NewProvider(s.runner))

	cctx := compiler.NewCompileContext(manifest).
		WithOwner(s.homeOf(user), s.ownerOf(user))
	return comp.Compile(cctx)
}

// homeOf returns the account's home directory, falling back to the
// useradd default when the account does not exist yet.
func (s *Setup) homeOf(user string) string {
	if p, err := s.identity.Lookup(user); err == nil && p.Home != "" {
		return p.Home
	}
	return "/home/" + user
}

// ownerOf defers uid/gid resolution to the first chown, by which time
// the account steps have created the user.
func (s *Setup) ownerOf(user string) compiler.OwnerFunc {
	return func() (int, int, error) {
		p, err := s.identity.Lookup(user)
		if err != nil {
			return 0, 0, fmt.Errorf("resolve account %q: %w", user, err)
		}
		return p.UID, p.GID, nil
	}
}
