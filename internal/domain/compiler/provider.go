package compiler

import "github.com/saveligulas/debian-setup/internal/domain/config"

// Provider compiles one section of the manifest into executable steps.
// Each provider handles a specific resource kind (apt, account, shell...).
//
// Providers emit steps in the order they must run. The engine executes
// strictly front-to-back and performs no dependency inference: a provider
// that creates a precondition must be registered before every provider
// that depends on it.
type Provider interface {
	// Name returns the provider's identifier (e.g., "apt", "account").
	Name() string

	// Compile transforms the manifest into an ordered list of steps.
	// Returning an empty list means the manifest declares nothing for
	// this provider.
	Compile(ctx CompileContext) ([]Step, error)
}

// OwnerFunc resolves the target principal's numeric identity. Steps call
// it when they first need to chown, never at compile time: on a fresh
// host the account does not exist until the account steps have run.
type OwnerFunc func() (uid, gid int, err error)

// CompileContext carries the declared desired state and the target
// principal's resolved account to providers during compilation.
type CompileContext struct {
	manifest *config.Manifest
	home     string
	owner    OwnerFunc
}

// NewCompileContext creates a CompileContext for the manifest.
func NewCompileContext(manifest *config.Manifest) CompileContext {
	return CompileContext{manifest: manifest}
}

// Manifest returns the declared desired state.
func (c CompileContext) Manifest() *config.Manifest {
	return c.manifest
}

// WithOwner returns a context carrying the target user's home directory
// and deferred numeric identity, for steps that create files inside the
// home.
func (c CompileContext) WithOwner(home string, owner OwnerFunc) CompileContext {
	c.home = home
	c.owner = owner
	return c
}

// Home returns the target user's home directory.
func (c CompileContext) Home() string {
	return c.home
}

// Owner returns the deferred identity resolver.
func (c CompileContext) Owner() OwnerFunc {
	return c.owner
}
