package compiler

import (
	"errors"
	"regexp"
	"strings"
)

// StepID uniquely identifies a step within a run, as colon-separated
// segments: provider, action, resource ("apt:package:git"). The first
// segment names the provider that compiled the step.
type StepID struct {
	value string
}

var (
	ErrEmptyStepID   = errors.New("step ID cannot be empty")
	ErrInvalidStepID = errors.New("step ID format invalid: must be alphanumeric with colons, hyphens, underscores, dots, or slashes")
)

// Each colon-separated segment must be non-empty and start alphanumeric.
var stepIDSegment = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_./-]*$`)

// NewStepID validates and creates a StepID.
func NewStepID(value string) (StepID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StepID{}, ErrEmptyStepID
	}
	for _, segment := range strings.Split(trimmed, ":") {
		if !stepIDSegment.MatchString(segment) {
			return StepID{}, ErrInvalidStepID
		}
	}
	return StepID{value: trimmed}, nil
}

// MustNewStepID is NewStepID panicking on error, for literal IDs.
func MustNewStepID(value string) StepID {
	id, err := NewStepID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

func (id StepID) String() string {
	return id.value
}

// Equals reports whether both IDs name the same step.
func (id StepID) Equals(other StepID) bool {
	return id.value == other.value
}

// Provider returns the ID's first segment.
func (id StepID) Provider() string {
	provider, _, _ := strings.Cut(id.value, ":")
	return provider
}

// IsZero reports whether the ID is the zero value.
func (id StepID) IsZero() bool {
	return id.value == ""
}
