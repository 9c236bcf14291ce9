package shell

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
	"github.com/saveligulas/debian-setup/internal/textblock"
)

// LoginShellStep ensures the target user's login shell is the declared
// one. The shell name is resolved to a binary path on the host, so the
// manifest can say "zsh" without hard-coding a distribution's layout.
type LoginShellStep struct {
	user     string
	shell    string
	runner   ports.CommandRunner
	identity ports.Identity
}

// NewLoginShellStep creates a step ensuring user's login shell is shell.
func NewLoginShellStep(user, shell string, runner ports.CommandRunner, identity ports.Identity) *LoginShellStep {
	return &LoginShellStep{user: user, shell: shell, runner: runner, identity: identity}
}

// ID returns the step identifier.
func (s *LoginShellStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("shell:login-shell:%s", s.user))
}

// Criticality reports that a wrong login shell aborts the run: every
// later login-shell command would run under the wrong interpreter.
func (s *LoginShellStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check compares the account's current shell with the resolved target.
func (s *LoginShellStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	current, err := s.identity.Lookup(s.user)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	target, err := s.resolve(ctx)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if current.Shell == target {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the shell change.
func (s *LoginShellStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	current, err := s.identity.Lookup(s.user)
	if err != nil {
		return compiler.Diff{}, err
	}
	return compiler.NewDiff(compiler.DiffTypeModify, "login-shell", s.user, current.Shell, s.shell), nil
}

// Apply changes the login shell via the identity adapter.
func (s *LoginShellStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	target, err := s.resolve(ctx)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	if err := s.identity.SetLoginShell(ctx.Context(), s.user, target); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

// resolve maps a shell name to its binary path. Absolute paths pass
// through untouched.
func (s *LoginShellStep) resolve(ctx compiler.RunContext) (string, error) {
	if filepath.IsAbs(s.shell) {
		return s.shell, nil
	}
	result, err := s.runner.Run(ctx.Context(), "which", s.shell)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("shell %q not found on PATH", s.shell)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// RCBlockStep maintains the managed alias/env block in the rc file. The
// whole block is replaced on every divergence; it is never merged with
// what is on disk.
type RCBlockStep struct {
	path    string
	aliases map[string]string
	env     map[string]string
	fs      ports.FileSystem
	owner   userfile.Owner
	block   textblock.Block
}

// NewRCBlockStep creates a step converging the managed block in path.
func NewRCBlockStep(path string, aliases, env map[string]string, fs ports.FileSystem, owner userfile.Owner) *RCBlockStep {
	return &RCBlockStep{
		path:    path,
		aliases: aliases,
		env:     env,
		fs:      fs,
		owner:   owner,
		block:   textblock.Block{Start: blockStart, End: blockEnd},
	}
}

// ID returns the step identifier.
func (s *RCBlockStep) ID() compiler.StepID {
	return compiler.MustNewStepID("shell:rc-block")
}

// Criticality reports that rc block failures abort the run.
func (s *RCBlockStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check compares the on-disk block body with the rendered desired body.
func (s *RCBlockStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	content, err := s.read()
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	body, found, err := s.block.Body(content)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewMalformedStateError(s.path, err.Error())
	}
	if found && body == s.render() {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the block update.
func (s *RCBlockStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	n := len(s.aliases) + len(s.env)
	detail := fmt.Sprintf("%d managed entries", n)
	if !s.fs.Exists(s.path) {
		return compiler.NewDiff(compiler.DiffTypeAdd, "rc-block", s.path, "", detail), nil
	}
	return compiler.NewDiff(compiler.DiffTypeModify, "rc-block", s.path, "", detail), nil
}

// Apply rewrites the managed block and restores the principal's
// ownership.
func (s *RCBlockStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	content, err := s.read()
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	out, err := s.block.Sync(content, s.render())
	if err != nil {
		return compiler.NewMalformedStateError(s.path, err.Error())
	}
	if err := userfile.Write(s.fs, s.path, []byte(out), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

func (s *RCBlockStep) read() (string, error) {
	if !s.fs.Exists(s.path) {
		return "", nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// render produces the block body: exports first, then aliases, each
// group sorted by key so the output is deterministic.
func (s *RCBlockStep) render() string {
	var b strings.Builder
	for _, k := range sortedKeys(s.env) {
		fmt.Fprintf(&b, "export %s=%q\n", k, s.env[k])
	}
	for _, k := range sortedKeys(s.aliases) {
		fmt.Fprintf(&b, "alias %s='%s'\n", k, s.aliases[k])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var themePattern = regexp.MustCompile(`^ZSH_THEME=`)

// ThemeStep rewrites the ZSH_THEME line the oh-my-zsh installer created.
// When no such line exists the step is satisfied doing nothing: there is
// no installation to re-theme.
type ThemeStep struct {
	path  string
	theme string
	fs    ports.FileSystem
	owner userfile.Owner
}

// NewThemeStep creates a step setting the theme line in path.
func NewThemeStep(path, theme string, fs ports.FileSystem, owner userfile.Owner) *ThemeStep {
	return &ThemeStep{path: path, theme: theme, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *ThemeStep) ID() compiler.StepID {
	return compiler.MustNewStepID("shell:theme")
}

// Criticality reports that theme failures are tolerated.
func (s *ThemeStep) Criticality() compiler.Criticality {
	return compiler.Tolerant
}

func (s *ThemeStep) replacement() string {
	return fmt.Sprintf("ZSH_THEME=%q", s.theme)
}

// Check probes whether the theme line needs rewriting.
func (s *ThemeStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return compiler.StatusSatisfied, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	_, changed := textblock.ReplaceFirstMatch(string(data), themePattern, s.replacement())
	if changed {
		return compiler.StatusNeedsApply, nil
	}
	return compiler.StatusSatisfied, nil
}

// Plan describes the theme change.
func (s *ThemeStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "zsh-theme", s.path, "", s.theme), nil
}

// Apply rewrites the theme line in place.
func (s *ThemeStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() || !s.fs.Exists(s.path) {
		return nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	out, changed := textblock.ReplaceFirstMatch(string(data), themePattern, s.replacement())
	if !changed {
		return nil
	}
	if err := userfile.Write(s.fs, s.path, []byte(out), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

var pluginsPattern = regexp.MustCompile(`^plugins=`)

// PluginsStep rewrites the plugins=(...) line the same way ThemeStep
// handles the theme line.
type PluginsStep struct {
	path    string
	plugins []string
	fs      ports.FileSystem
	owner   userfile.Owner
}

// NewPluginsStep creates a step setting the plugins line in path.
func NewPluginsStep(path string, plugins []string, fs ports.FileSystem, owner userfile.Owner) *PluginsStep {
	return &PluginsStep{path: path, plugins: plugins, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *PluginsStep) ID() compiler.StepID {
	return compiler.MustNewStepID("shell:plugins")
}

// Criticality reports that plugin list failures are tolerated.
func (s *PluginsStep) Criticality() compiler.Criticality {
	return compiler.Tolerant
}

func (s *PluginsStep) replacement() string {
	return fmt.Sprintf("plugins=(%s)", strings.Join(s.plugins, " "))
}

// Check probes whether the plugins line needs rewriting.
func (s *PluginsStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return compiler.StatusSatisfied, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	_, changed := textblock.ReplaceFirstMatch(string(data), pluginsPattern, s.replacement())
	if changed {
		return compiler.StatusNeedsApply, nil
	}
	return compiler.StatusSatisfied, nil
}

// Plan describes the plugins change.
func (s *PluginsStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeModify, "zsh-plugins", s.path, "", strings.Join(s.plugins, " ")), nil
}

// Apply rewrites the plugins line in place.
func (s *PluginsStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() || !s.fs.Exists(s.path) {
		return nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	out, changed := textblock.ReplaceFirstMatch(string(data), pluginsPattern, s.replacement())
	if !changed {
		return nil
	}
	if err := userfile.Write(s.fs, s.path, []byte(out), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

// LineStep upserts one exact line into a file, creating the file when
// missing. Equal lines are never duplicated across runs.
type LineStep struct {
	id    compiler.StepID
	path  string
	line  string
	fs    ports.FileSystem
	owner userfile.Owner
}

// NewLineStep creates a step upserting line into path.
func NewLineStep(id compiler.StepID, path, line string, fs ports.FileSystem, owner userfile.Owner) *LineStep {
	return &LineStep{id: id, path: path, line: line, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *LineStep) ID() compiler.StepID {
	return s.id
}

// Criticality reports that line upsert failures abort the run: profile
// lines commonly set up PATH for later steps.
func (s *LineStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check probes for an exactly equal line.
func (s *LineStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	if !s.fs.Exists(s.path) {
		return compiler.StatusNeedsApply, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if textblock.HasLine(string(data), s.line) {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the line to append.
func (s *LineStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "line", s.path, "", s.line), nil
}

// Apply appends the line, preserving the principal's ownership.
func (s *LineStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	var content string
	if s.fs.Exists(s.path) {
		data, err := s.fs.ReadFile(s.path)
		if err != nil {
			return compiler.NewActionError(s.ID(), "", err)
		}
		content = string(data)
	}
	out, changed := textblock.EnsureLine(content, s.line)
	if !changed {
		return nil
	}
	if err := userfile.Write(s.fs, s.path, []byte(out), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

var (
	_ compiler.Step = (*LoginShellStep)(nil)
	_ compiler.Step = (*RCBlockStep)(nil)
	_ compiler.Step = (*ThemeStep)(nil)
	_ compiler.Step = (*PluginsStep)(nil)
	_ compiler.Step = (*LineStep)(nil)
)
