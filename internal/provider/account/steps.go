package account

import (
	"fmt"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/ports"
)

// UserStep ensures the target account exists.
type UserStep struct {
	name     string
	id       compiler.StepID
	identity ports.Identity
}

// NewUserStep creates a new UserStep.
func NewUserStep(name string, identity ports.Identity) *UserStep {
	return &UserStep{
		name:     name,
		id:       compiler.MustNewStepID("account:user:" + name),
		identity: identity,
	}
}

// ID returns the step identifier.
func (s *UserStep) ID() compiler.StepID {
	return s.id
}

// Criticality returns fail-fast: without the account nothing user-scoped
// can run.
func (s *UserStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check determines if the account already exists.
func (s *UserStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	exists, err := s.identity.UserExists(ctx.Context(), s.name)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if exists {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *UserStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "user", s.name, "", s.name), nil
}

// Apply creates the account with a home directory. The login shell is
// left at the system default; the shell provider changes it once the
// desired shell binary is installed.
func (s *UserStep) Apply(ctx compiler.RunContext) error {
	if err := s.identity.CreateUser(ctx.Context(), s.name, ""); err != nil {
		return compiler.NewActionError(s.id, "", err)
	}
	return nil
}

// GroupStep ensures the account is a member of one supplementary group.
type GroupStep struct {
	name     string
	group    string
	id       compiler.StepID
	identity ports.Identity
}

// NewGroupStep creates a new GroupStep.
func NewGroupStep(name, group string, identity ports.Identity) *GroupStep {
	return &GroupStep{
		name:     name,
		group:    group,
		id:       compiler.MustNewStepID("account:group:" + name + ":" + group),
		identity: identity,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() compiler.StepID {
	return s.id
}

// Criticality returns fail-fast.
func (s *GroupStep) Criticality() compiler.Criticality {
	return compiler.FailFast
}

// Check determines if the account is already in the group.
func (s *GroupStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	groups, err := s.identity.GroupsOf(ctx.Context(), s.name)
	if err != nil {
		return compiler.StatusUnknown, err
	}
	for _, g := range groups {
		if g == s.group {
			return compiler.StatusSatisfied, nil
		}
	}
	return compiler.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *GroupStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "group-member", s.group, "", s.name), nil
}

// Apply appends the account to the group.
func (s *GroupStep) Apply(ctx compiler.RunContext) error {
	if err := s.identity.AddToGroup(ctx.Context(), s.name, s.group); err != nil {
		return compiler.NewActionError(s.id, "", fmt.Errorf("add %s to group %s: %w", s.name, s.group, err))
	}
	return nil
}
