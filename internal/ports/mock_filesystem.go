package ports

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Owner records a Chown applied to a path.
type Owner struct {
	UID int
	GID int
}

// MockFileSystem is an in-memory FileSystem test double.
type MockFileSystem struct {
	mu     sync.RWMutex
	files  map[string][]byte
	modes  map[string]os.FileMode
	dirs   map[string]bool
	owners map[string]Owner
}

// NewMockFileSystem creates an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:  make(map[string][]byte),
		modes:  make(map[string]os.FileMode),
		dirs:   make(map[string]bool),
		owners: make(map[string]Owner),
	}
}

// ReadFile returns the stored content for path.
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores content for path.
func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = stored
	m.modes[path] = perm
	return nil
}

// Exists reports whether path is a stored file or directory.
func (m *MockFileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

// IsDir reports whether path was created as a directory.
func (m *MockFileSystem) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

// IsExecutable reports whether path has an executable bit set.
func (m *MockFileSystem) IsExecutable(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mode, ok := m.modes[path]
	return ok && mode&0111 != 0
}

// MkdirAll records the directory and all its parents.
func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	m.modes[path] = perm
	return nil
}

// Remove deletes a stored file or directory entry.
func (m *MockFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		delete(m.modes, path)
		return nil
	}
	if m.dirs[path] {
		delete(m.dirs, path)
		return nil
	}
	return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
}

// Chown records the ownership applied to path.
func (m *MockFileSystem) Chown(path string, uid, gid int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok && !m.dirs[path] {
		return &os.PathError{Op: "chown", Path: path, Err: os.ErrNotExist}
	}
	m.owners[path] = Owner{UID: uid, GID: gid}
	return nil
}

// Chmod records the mode applied to path.
func (m *MockFileSystem) Chmod(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok && !m.dirs[path] {
		return &os.PathError{Op: "chmod", Path: path, Err: os.ErrNotExist}
	}
	m.modes[path] = perm
	return nil
}

// OwnerOf returns the ownership recorded for path, if any.
func (m *MockFileSystem) OwnerOf(path string) (Owner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.owners[path]
	return o, ok
}

// ModeOf returns the mode recorded for path, if any.
func (m *MockFileSystem) ModeOf(path string) (os.FileMode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mode, ok := m.modes[path]
	return mode, ok
}

// Paths returns all stored file paths in sorted order.
func (m *MockFileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Ensure MockFileSystem implements FileSystem.
var _ FileSystem = (*MockFileSystem)(nil)
