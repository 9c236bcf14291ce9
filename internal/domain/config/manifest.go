// Package config loads and validates the setup manifest: the declared
// desired state the provisioning run converges the host towards.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/saveligulas/debian-setup/internal/validation"
)

// Manifest is the full declared desired state for one host.
type Manifest struct {
	User     UserConfig     `yaml:"user"`
	Apt      AptConfig      `yaml:"apt"`
	Brew     BrewConfig     `yaml:"brew"`
	Shell    ShellConfig    `yaml:"shell"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	SSH      SSHConfig      `yaml:"ssh"`
	Git      GitConfig      `yaml:"git"`
	Terminal TerminalConfig `yaml:"terminal"`
	Services ServicesConfig `yaml:"services"`

	// Installers are third-party bootstrap scripts fetched over the
	// network (oh-my-zsh, Homebrew, a version manager). Each is one
	// opaque action keyed on a local marker directory.
	Installers []InstallerConfig `yaml:"installers"`
}

// UserConfig declares the target account.
type UserConfig struct {
	Name   string   `yaml:"name"`
	Groups []string `yaml:"groups"`
	// Shell is the desired login shell binary name or path ("zsh").
	Shell string `yaml:"shell"`
}

// AptConfig declares system-level packages.
type AptConfig struct {
	Packages []string `yaml:"packages"`
}

// BrewConfig declares packages for the user-level secondary manager.
// Installs are tolerant: one formula's failure must not block the rest.
type BrewConfig struct {
	Packages []string `yaml:"packages"`
}

// InstallerConfig declares one network-fetched bootstrap script.
type InstallerConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	// MarkerDir is the directory whose existence means "already
	// installed". Paths starting with ~/ resolve against the target
	// user's home.
	MarkerDir string `yaml:"marker_dir"`
	// Login runs the installer through the user's login shell so the
	// profile is sourced first.
	Login bool `yaml:"login"`
	// Tolerant downgrades failures to logged-and-continue.
	Tolerant bool `yaml:"tolerant"`
}

// ShellConfig declares the managed parts of the user's shell setup.
type ShellConfig struct {
	// RCFile is the shell startup file carrying the managed block.
	RCFile string `yaml:"rc_file"`
	// Aliases and Env render into the managed block, sorted by key.
	Aliases map[string]string `yaml:"aliases"`
	Env     map[string]string `yaml:"env"`
	// Theme rewrites the ZSH_THEME line left by the oh-my-zsh installer.
	Theme string `yaml:"theme"`
	// Plugins rewrites the plugins=(...) line the same way.
	Plugins []string `yaml:"plugins"`
	// ProfileLines are exact lines upserted into ProfileFile.
	ProfileFile  string   `yaml:"profile_file"`
	ProfileLines []string `yaml:"profile_lines"`
}

// RuntimeConfig declares the version-manager-provided toolchain.
type RuntimeConfig struct {
	// PathLine is the environment-setup line upserted into the profile
	// so the manager's shims are reachable.
	PathLine string `yaml:"path_line"`
	// Tools are minimum-version requirements checked through the user's
	// login shell.
	Tools []ToolConfig `yaml:"tools"`
}

// ToolConfig is one minimum-version requirement.
type ToolConfig struct {
	Name string `yaml:"name"`
	// MinVersion is a semver floor ("20.0.0"). Empty means presence only.
	MinVersion string `yaml:"min_version"`
	// InstallCommand runs under the user's login shell when divergent.
	InstallCommand string `yaml:"install_command"`
}

// SSHConfig declares the key pair step.
type SSHConfig struct {
	// KeyPath is the private key location; ~/ resolves to the target
	// user's home. Default: ~/.ssh/id_ed25519.
	KeyPath string `yaml:"key_path"`
	Comment string `yaml:"comment"`
}

// GitConfig declares scalar values in the user's git config store.
type GitConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	// Extra maps "section.key" to a literal value.
	Extra map[string]string `yaml:"extra"`
}

// TerminalConfig declares managed terminal emulator settings.
type TerminalConfig struct {
	Alacritty AlacrittyConfig `yaml:"alacritty"`
}

// AlacrittyConfig is the managed subset of alacritty.toml.
type AlacrittyConfig struct {
	FontFamily string  `yaml:"font_family"`
	FontSize   float64 `yaml:"font_size"`
	Opacity    float64 `yaml:"opacity"`
}

// ServicesConfig declares service units that must start at boot.
type ServicesConfig struct {
	Enable []string `yaml:"enable"`
}

// ParseManifest parses and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Shell.RCFile == "" {
		m.Shell.RCFile = "~/.zshrc"
	}
	if m.Shell.ProfileFile == "" {
		m.Shell.ProfileFile = "~/.profile"
	}
	if m.SSH.KeyPath == "" {
		m.SSH.KeyPath = "~/.ssh/id_ed25519"
	}
}

// Validate rejects manifests the engine cannot act on safely.
func (m *Manifest) Validate() error {
	if m.User.Name == "" {
		return NewValidationError("user.name is required", "declare the target account under the user: section")
	}
	if err := validation.ValidateUsername(m.User.Name); err != nil {
		return NewValidationError(fmt.Sprintf("invalid user.name: %v", err), "")
	}
	for _, group := range m.User.Groups {
		if err := validation.ValidateGroupName(group); err != nil {
			return NewValidationError(fmt.Sprintf("invalid group %q: %v", group, err), "")
		}
	}
	for _, pkg := range m.Apt.Packages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return NewValidationError(fmt.Sprintf("invalid apt package %q: %v", pkg, err), "")
		}
	}
	for _, pkg := range m.Brew.Packages {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return NewValidationError(fmt.Sprintf("invalid brew package %q: %v", pkg, err), "")
		}
	}
	for _, tool := range m.Runtime.Tools {
		if err := validation.ValidateToolName(tool.Name); err != nil {
			return NewValidationError(fmt.Sprintf("invalid tool name %q: %v", tool.Name, err), "")
		}
	}
	for key := range m.Git.Extra {
		if err := validation.ValidateGitConfigKey(key); err != nil {
			return NewValidationError(fmt.Sprintf("invalid git config key %q: %v", key, err),
				"extra keys must be dotted, like init.defaultBranch")
		}
	}
	for _, inst := range m.Installers {
		if inst.Name == "" {
			return NewValidationError("installer name is required", "")
		}
		if err := validation.ValidateInstallerName(inst.Name); err != nil {
			return NewValidationError(fmt.Sprintf("invalid installer name %q: %v", inst.Name, err), "")
		}
		if err := validation.ValidateInstallerURL(inst.URL); err != nil {
			return NewValidationError(fmt.Sprintf("installer %q: %v", inst.Name, err), "installer scripts must be fetched over https")
		}
		if inst.MarkerDir == "" {
			return NewValidationError(fmt.Sprintf("installer %q: marker_dir is required", inst.Name),
				"the marker directory is the probe that makes the installer idempotent")
		}
	}
	for _, svc := range m.Services.Enable {
		if err := validation.ValidateServiceName(svc); err != nil {
			return NewValidationError(fmt.Sprintf("invalid service %q: %v", svc, err), "")
		}
	}
	return nil
}
