// Package identity implements the ports.Identity boundary against the
// local account database, shelling out for mutations and using os/user
// for lookups.
package identity

import (
	"context"
	"fmt"
	"os/user"
	"strconv"
	"strings"

	"github.com/saveligulas/debian-setup/internal/ports"
)

// Local manages accounts on the local machine via getent, useradd,
// usermod and chsh. Mutations require the process to run as root.
type Local struct {
	runner ports.CommandRunner
}

// NewLocal creates a new Local identity adapter.
func NewLocal(runner ports.CommandRunner) *Local {
	return &Local{runner: runner}
}

// UserExists reports whether the named account exists.
func (l *Local) UserExists(ctx context.Context, name string) (bool, error) {
	result, err := l.runner.Run(ctx, "getent", "passwd", name)
	if err != nil {
		return false, err
	}
	// getent exits 2 when the key is not found
	return result.Success(), nil
}

// CreateUser creates the account with a home directory.
func (l *Local) CreateUser(ctx context.Context, name, shell string) error {
	args := []string{"-m"}
	if shell != "" {
		args = append(args, "-s", shell)
	}
	args = append(args, name)

	result, err := l.runner.Run(ctx, "useradd", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("useradd %s failed: %s", name, result.Output())
	}
	return nil
}

// GroupsOf returns the user's group memberships as reported by id.
func (l *Local) GroupsOf(ctx context.Context, name string) ([]string, error) {
	result, err := l.runner.Run(ctx, "id", "-nG", name)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("id -nG %s failed: %s", name, result.Output())
	}
	return strings.Fields(result.Stdout), nil
}

// AddToGroup appends the user to a supplementary group.
func (l *Local) AddToGroup(ctx context.Context, name, group string) error {
	result, err := l.runner.Run(ctx, "usermod", "-aG", group, name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("usermod -aG %s %s failed: %s", group, name, result.Output())
	}
	return nil
}

// SetLoginShell changes the user's registered login shell.
func (l *Local) SetLoginShell(ctx context.Context, name, shell string) error {
	result, err := l.runner.Run(ctx, "chsh", "-s", shell, name)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("chsh -s %s %s failed: %s", shell, name, result.Output())
	}
	return nil
}

// Lookup resolves the account via the passwd database. The login shell is
// read from getent since os/user does not expose it portably.
func (l *Local) Lookup(name string) (ports.Principal, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return ports.Principal{}, err
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return ports.Principal{}, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return ports.Principal{}, fmt.Errorf("parse gid %q: %w", u.Gid, err)
	}

	p := ports.Principal{
		Name: u.Username,
		UID:  uid,
		GID:  gid,
		Home: u.HomeDir,
	}

	result, err := l.runner.Run(context.Background(), "getent", "passwd", name)
	if err == nil && result.Success() {
		// passwd format: name:x:uid:gid:gecos:home:shell
		fields := strings.Split(strings.TrimSpace(result.Stdout), ":")
		if len(fields) == 7 {
			p.Shell = fields[6]
		}
	}

	return p, nil
}

// Ensure Local implements ports.Identity.
var _ ports.Identity = (*Local)(nil)
