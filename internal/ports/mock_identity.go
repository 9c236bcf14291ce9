package ports

import (
	"context"
	"fmt"
	"sync"
)

// MockIdentity is an in-memory Identity test double.
type MockIdentity struct {
	mu     sync.RWMutex
	users  map[string]Principal
	groups map[string][]string
}

// NewMockIdentity creates an empty MockIdentity.
func NewMockIdentity() *MockIdentity {
	return &MockIdentity{
		users:  make(map[string]Principal),
		groups: make(map[string][]string),
	}
}

// AddUser seeds an existing account.
func (m *MockIdentity) AddUser(p Principal, groups ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[p.Name] = p
	m.groups[p.Name] = append([]string(nil), groups...)
}

// UserExists reports whether the account was seeded or created.
func (m *MockIdentity) UserExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[name]
	return ok, nil
}

// CreateUser records a new account with a conventional home directory.
func (m *MockIdentity) CreateUser(_ context.Context, name, shell string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[name]; ok {
		return fmt.Errorf("user %q already exists", name)
	}
	m.users[name] = Principal{
		Name:  name,
		UID:   1000 + len(m.users),
		GID:   1000 + len(m.users),
		Home:  "/home/" + name,
		Shell: shell,
	}
	m.groups[name] = []string{name}
	return nil
}

// GroupsOf returns the recorded group memberships.
func (m *MockIdentity) GroupsOf(_ context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groups, ok := m.groups[name]
	if !ok {
		return nil, fmt.Errorf("user %q not found", name)
	}
	return append([]string(nil), groups...), nil
}

// AddToGroup appends the group membership.
func (m *MockIdentity) AddToGroup(_ context.Context, name, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[name]; !ok {
		return fmt.Errorf("user %q not found", name)
	}
	m.groups[name] = append(m.groups[name], group)
	return nil
}

// SetLoginShell updates the recorded login shell.
func (m *MockIdentity) SetLoginShell(_ context.Context, name, shell string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[name]
	if !ok {
		return fmt.Errorf("user %q not found", name)
	}
	p.Shell = shell
	m.users[name] = p
	return nil
}

// Lookup resolves the seeded account.
func (m *MockIdentity) Lookup(name string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.users[name]
	if !ok {
		return Principal{}, fmt.Errorf("user %q not found", name)
	}
	return p, nil
}

// Ensure MockIdentity implements Identity.
var _ Identity = (*MockIdentity)(nil)
