package command

import (
	"context"
	"strings"

	"github.com/saveligulas/debian-setup/internal/ports"
)

// UserRunner re-invokes every command under a named non-root principal via
// runuser. The process itself runs as root; this decorator is the only way
// user-scoped probes and actions reach the host, so a user step can never
// silently execute with root identity.
//
// In login mode the command runs through `runuser -l`, which sources the
// principal's profile first. Steps that depend on per-user environment
// additions (a version manager's shims, brew's PATH entry) need login mode;
// everything else uses the cheaper non-login form.
type UserRunner struct {
	base      ports.CommandRunner
	principal string
	login     bool
}

// NewUserRunner creates a runner for one (principal, shell mode) pair.
// Runners are stateless; the application constructs one per distinct pair
// and shares it across steps.
func NewUserRunner(base ports.CommandRunner, principal string, login bool) *UserRunner {
	return &UserRunner{
		base:      base,
		principal: principal,
		login:     login,
	}
}

// Principal returns the user the runner impersonates.
func (r *UserRunner) Principal() string {
	return r.principal
}

// LoginShell reports whether commands run through a login shell.
func (r *UserRunner) LoginShell() bool {
	return r.login
}

// Run executes the command as the target principal.
func (r *UserRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	if r.login {
		// runuser -l starts a fresh login shell; the command has to travel
		// as a single -c string, so each word is shell-quoted.
		words := make([]string, 0, len(args)+1)
		words = append(words, shellQuote(command))
		for _, arg := range args {
			words = append(words, shellQuote(arg))
		}
		return r.base.Run(ctx, "runuser", "-l", r.principal, "-c", strings.Join(words, " "))
	}

	argv := append([]string{"-u", r.principal, "--", command}, args...)
	return r.base.Run(ctx, "runuser", argv...)
}

// shellQuote wraps a word in single quotes, escaping embedded single quotes
// so the login shell sees it as one literal argument.
func shellQuote(word string) string {
	if word == "" {
		return "''"
	}
	if !strings.ContainsAny(word, " \t\n'\"\\$`&|;()<>*?[]#~") {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

// Ensure UserRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*UserRunner)(nil)
