package ports

import "context"

// Principal describes a local user account.
type Principal struct {
	Name  string
	UID   int
	GID   int
	Home  string
	Shell string
}

// Identity is the boundary to the host's account database. Probes use the
// read side; corrective actions use the write side.
type Identity interface {
	// UserExists reports whether a user account with the given name exists.
	UserExists(ctx context.Context, name string) (bool, error)

	// CreateUser creates the account with a home directory and the given
	// login shell.
	CreateUser(ctx context.Context, name, shell string) error

	// GroupsOf returns the groups the user is a member of.
	GroupsOf(ctx context.Context, name string) ([]string, error)

	// AddToGroup appends the user to a supplementary group.
	AddToGroup(ctx context.Context, name, group string) error

	// SetLoginShell changes the user's registered login shell.
	SetLoginShell(ctx context.Context, name, shell string) error

	// Lookup resolves the account's uid, gid, home directory and current
	// login shell.
	Lookup(name string) (Principal, error)
}
