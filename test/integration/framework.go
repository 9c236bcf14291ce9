// Package integration provides test utilities for integration testing.
package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/saveligulas/debian-setup/internal/adapters/logging"
	"github.com/saveligulas/debian-setup/internal/app"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// Harness drives the full pipeline against in-memory adapters. The
// manifest lives on the real disk (the loader reads files); the host
// state it converges is entirely mocked.
type Harness struct {
	T      *testing.T
	Output *bytes.Buffer

	Runner   *ports.MockCommandRunner
	FS       *ports.MockFileSystem
	Identity *ports.MockIdentity

	setup *app.Setup
}

// NewHarness creates a harness with an existing "dev" account whose
// login shell is bash and whose only group is its own.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	output := &bytes.Buffer{}
	runner := ports.NewMockCommandRunner()
	fs := ports.NewMockFileSystem()
	identity := ports.NewMockIdentity()
	identity.AddUser(ports.Principal{
		Name:  "dev",
		UID:   1000,
		GID:   1000,
		Home:  "/home/dev",
		Shell: "/bin/bash",
	}, "dev")

	setup := app.New(output, logging.NewNopLogger()).
		WithAdapters(runner, fs, identity).
		WithPrivilegeCheck(func() int { return 0 })

	return &Harness{
		T:        t,
		Output:   output,
		Runner:   runner,
		FS:       fs,
		Identity: identity,
		setup:    setup,
	}
}

// Setup returns the application instance.
func (h *Harness) Setup() *app.Setup {
	return h.setup
}

// WriteManifest writes manifest YAML to a temp file and returns its path.
func (h *Harness) WriteManifest(manifest string) string {
	h.T.Helper()

	path := filepath.Join(h.T.TempDir(), "setup.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		h.T.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

// SeedPackageInstalled registers the dpkg probe answering "installed".
func (h *Harness) SeedPackageInstalled(pkg string) {
	h.Runner.AddResult("dpkg-query",
		[]string{"-W", "-f=${Package}\t${db:Status-Status}\n", pkg},
		ports.CommandResult{ExitCode: 0, Stdout: pkg + "\tinstalled\n"})
}

// SeedPackageMissing registers the dpkg probe answering "unknown package".
func (h *Harness) SeedPackageMissing(pkg string) {
	h.Runner.AddResult("dpkg-query",
		[]string{"-W", "-f=${Package}\t${db:Status-Status}\n", pkg},
		ports.CommandResult{ExitCode: 1, Stderr: "dpkg-query: no packages found matching " + pkg})
}

// SeedShellPath registers the `which` resolution for a shell name.
func (h *Harness) SeedShellPath(shell, path string) {
	h.Runner.AddResult("which", []string{shell},
		ports.CommandResult{ExitCode: 0, Stdout: path + "\n"})
}

// SeedServiceEnabled registers the systemd probe answering "enabled".
func (h *Harness) SeedServiceEnabled(unit string) {
	h.Runner.AddResult("systemctl", []string{"is-enabled", unit},
		ports.CommandResult{ExitCode: 0, Stdout: "enabled\n"})
}

// ReadFile reads a file from the mocked filesystem.
func (h *Harness) ReadFile(path string) string {
	h.T.Helper()

	data, err := h.FS.ReadFile(path)
	if err != nil {
		h.T.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// OutputContains checks if the printed output contains a string.
func (h *Harness) OutputContains(s string) bool {
	return bytes.Contains(h.Output.Bytes(), []byte(s))
}
