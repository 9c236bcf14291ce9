package git

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// ConfigStep ensures one "section.key" in the config file holds a literal
// value. The probe is an exact string comparison; any other value is
// divergence and gets overwritten.
type ConfigStep struct {
	path    string
	section string
	key     string
	value   string
	fs      ports.FileSystem
	owner   userfile.Owner
}

// NewConfigStep creates a step for one config key. The key is given in
// git's dotted form ("user.name", "alias.co").
func NewConfigStep(path, dottedKey, value string, fs ports.FileSystem, owner userfile.Owner) *ConfigStep {
	section, key, found := strings.Cut(dottedKey, ".")
	if !found {
		// A bare key lives in git's unnamed top-level section.
		section, key = "", dottedKey
	}
	return &ConfigStep{path: path, section: section, key: key, value: value, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() compiler.StepID {
	return compiler.MustNewStepID(fmt.Sprintf("git:config:%s", s.dotted()))
}

// Criticality reports that git config failures abort the run.
func (s *ConfigStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

func (s *ConfigStep) dotted() string {
	if s.section == "" {
		return s.key
	}
	return s.section + "." + s.key
}

// Check compares the stored value with the declared literal.
func (s *ConfigStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	current, err := s.current()
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if current == s.value {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the value change.
func (s *ConfigStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	current, err := s.current()
	if err != nil {
		return compiler.Diff{}, err
	}
	if current == "" {
		return compiler.NewDiff(compiler.DiffTypeAdd, "git-config", s.dotted(), "", s.value), nil
	}
	return compiler.NewDiff(compiler.DiffTypeModify, "git-config", s.dotted(), current, s.value), nil
}

// Apply sets the key, preserving everything else in the file.
func (s *ConfigStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	cfg, err := s.load()
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	cfg.Section(s.section).Key(s.key).SetValue(s.value)

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return compiler.NewActionError(s.ID(), "", fmt.Errorf("serialize %s: %w", s.path, err))
	}
	if err := userfile.Write(s.fs, s.path, buf.Bytes(), 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

func (s *ConfigStep) current() (string, error) {
	cfg, err := s.load()
	if err != nil {
		return "", err
	}
	return cfg.Section(s.section).Key(s.key).String(), nil
}

func (s *ConfigStep) load() (*ini.File, error) {
	if !s.fs.Exists(s.path) {
		return ini.Empty(), nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return cfg, nil
}

var _ compiler.Step = (*ConfigStep)(nil)
