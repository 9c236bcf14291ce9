package terminal

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/ports"
	"github.com/saveligulas/debian-setup/internal/provider/userfile"
)

// AlacrittyStep converges the declared alacritty settings. The document
// is read into a generic TOML tree, the managed keys are compared and
// set, and everything else survives the rewrite.
type AlacrittyStep struct {
	path  string
	cfg   config.AlacrittyConfig
	fs    ports.FileSystem
	owner userfile.Owner
}

// NewAlacrittyStep creates the alacritty step.
func NewAlacrittyStep(path string, cfg config.AlacrittyConfig, fs ports.FileSystem, owner userfile.Owner) *AlacrittyStep {
	return &AlacrittyStep{path: path, cfg: cfg, fs: fs, owner: owner}
}

// ID returns the step identifier.
func (s *AlacrittyStep) ID() compiler.StepID {
	return compiler.MustNewStepID("terminal:alacritty")
}

// Criticality reports that terminal config failures are tolerated.
func (s *AlacrittyStep) Criticality() compiler.Criticality {
	return compiler.Tolerant
}

// Check compares each declared setting with the stored tree.
func (s *AlacrittyStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	tree, err := s.load()
	if err != nil {
		return compiler.StatusUnknown, compiler.NewProbeError(s.ID(), err)
	}
	if s.diverged(tree) {
		return compiler.StatusNeedsApply, nil
	}
	return compiler.StatusSatisfied, nil
}

// Plan describes the pending settings.
func (s *AlacrittyStep) Plan(ctx compiler.RunContext) (compiler.Diff, error) {
	kind := compiler.DiffTypeModify
	if !s.fs.Exists(s.path) {
		kind = compiler.DiffTypeAdd
	}
	return compiler.NewDiff(kind, "alacritty", s.path, "", s.describe()), nil
}

// Apply merges the declared settings into the tree and rewrites it.
func (s *AlacrittyStep) Apply(ctx compiler.RunContext) error {
	if ctx.DryRun() {
		return nil
	}
	tree, err := s.load()
	if err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	s.merge(tree)

	data, err := toml.Marshal(tree)
	if err != nil {
		return compiler.NewActionError(s.ID(), "", fmt.Errorf("serialize %s: %w", s.path, err))
	}
	if err := userfile.Write(s.fs, s.path, data, 0644, s.owner); err != nil {
		return compiler.NewActionError(s.ID(), "", err)
	}
	return nil
}

func (s *AlacrittyStep) load() (map[string]any, error) {
	tree := map[string]any{}
	if !s.fs.Exists(s.path) {
		return tree, nil
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return tree, nil
}

func (s *AlacrittyStep) diverged(tree map[string]any) bool {
	if s.cfg.FontFamily != "" {
		if v, _ := lookup(tree, "font", "normal", "family").(string); v != s.cfg.FontFamily {
			return true
		}
	}
	if s.cfg.FontSize != 0 && number(lookup(tree, "font", "size")) != s.cfg.FontSize {
		return true
	}
	if s.cfg.Opacity != 0 && number(lookup(tree, "window", "opacity")) != s.cfg.Opacity {
		return true
	}
	return false
}

func (s *AlacrittyStep) merge(tree map[string]any) {
	if s.cfg.FontFamily != "" {
		set(tree, s.cfg.FontFamily, "font", "normal", "family")
	}
	if s.cfg.FontSize != 0 {
		set(tree, s.cfg.FontSize, "font", "size")
	}
	if s.cfg.Opacity != 0 {
		set(tree, s.cfg.Opacity, "window", "opacity")
	}
}

func (s *AlacrittyStep) describe() string {
	return fmt.Sprintf("font=%s size=%g opacity=%g", s.cfg.FontFamily, s.cfg.FontSize, s.cfg.Opacity)
}

// lookup walks nested tables, returning nil when any segment is missing
// or not a table.
func lookup(tree map[string]any, path ...string) any {
	var cur any = tree
	for _, seg := range path {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = table[seg]
	}
	return cur
}

// set walks nested tables creating them as needed, then stores value at
// the final segment. A non-table in the way is replaced.
func set(tree map[string]any, value any, path ...string) {
	cur := tree
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// number widens TOML's integer and float decodings for comparison.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

var _ compiler.Step = (*AlacrittyStep)(nil)
