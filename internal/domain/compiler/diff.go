package compiler

import "fmt"

// DiffType classifies the planned change.
type DiffType string

const (
	// DiffTypeAdd means the resource does not exist yet.
	DiffTypeAdd DiffType = "add"
	// DiffTypeModify means the resource exists with the wrong value.
	DiffTypeModify DiffType = "modify"
	// DiffTypeNone means the resource already matches.
	DiffTypeNone DiffType = "none"
)

// Diff is the planned before/after for one step. Its Summary is the
// per-step line shown to the operator during planning.
type Diff struct {
	Type     DiffType
	Resource string
	Name     string
	Old      string
	New      string
}

// NewDiff creates a Diff.
func NewDiff(t DiffType, resource, name, oldValue, newValue string) Diff {
	return Diff{Type: t, Resource: resource, Name: name, Old: oldValue, New: newValue}
}

// IsEmpty reports whether the diff carries no change at all.
func (d Diff) IsEmpty() bool {
	return (d.Type == DiffTypeNone || d.Type == "") && d.Resource == "" && d.Name == ""
}

// Summary renders the diff as one line: "+" for additions, "~" for
// modifications, two spaces for no-ops.
func (d Diff) Summary() string {
	switch d.Type {
	case DiffTypeAdd:
		return fmt.Sprintf("+ %s %s (%s)", d.Resource, d.Name, d.New)
	case DiffTypeModify:
		if d.Old != "" {
			return fmt.Sprintf("~ %s %s (%s -> %s)", d.Resource, d.Name, d.Old, d.New)
		}
		return fmt.Sprintf("~ %s %s (%s)", d.Resource, d.Name, d.New)
	default:
		return fmt.Sprintf("  %s %s", d.Resource, d.Name)
	}
}
