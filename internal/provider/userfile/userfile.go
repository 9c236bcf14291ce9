// Package userfile writes files into a user's home on behalf of the
// root-run process, keeping ownership with the target principal so the
// run never leaves root-owned artifacts behind.
package userfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/saveligulas/debian-setup/internal/ports"
)

// Owner yields the principal's numeric identity for chown. Resolution is
// deferred to first use: on a fresh host the account provider creates the
// user during the same run, so the uid and gid do not exist yet when
// steps are compiled.
type Owner struct {
	resolve func() (uid, gid int, err error)
}

// NewOwner creates an Owner resolved through resolve on every use; the
// caller memoizes if resolution is expensive.
func NewOwner(resolve func() (uid, gid int, err error)) Owner {
	return Owner{resolve: resolve}
}

// StaticOwner creates an Owner with known ids.
func StaticOwner(uid, gid int) Owner {
	return Owner{resolve: func() (int, int, error) { return uid, gid, nil }}
}

func chown(fs ports.FileSystem, path string, owner Owner) error {
	if owner.resolve == nil {
		return fmt.Errorf("no owner configured for %s", path)
	}
	uid, gid, err := owner.resolve()
	if err != nil {
		return fmt.Errorf("resolve owner of %s: %w", path, err)
	}
	return fs.Chown(path, uid, gid)
}

// Ensure creates the file empty if it is missing, creating and chowning
// parent directories as needed. Existing files are left untouched.
func Ensure(fs ports.FileSystem, path string, perm os.FileMode, owner Owner) error {
	if fs.Exists(path) {
		return nil
	}
	if err := ensureDir(fs, filepath.Dir(path), owner); err != nil {
		return err
	}
	if err := fs.WriteFile(path, nil, perm); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return chown(fs, path, owner)
}

// Write writes data and hands ownership to the principal, creating
// parent directories first.
func Write(fs ports.FileSystem, path string, data []byte, perm os.FileMode, owner Owner) error {
	if err := ensureDir(fs, filepath.Dir(path), owner); err != nil {
		return err
	}
	if err := fs.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return chown(fs, path, owner)
}

// EnsureDir creates the directory with the given mode, owned by the
// principal.
func EnsureDir(fs ports.FileSystem, path string, perm os.FileMode, owner Owner) error {
	if fs.IsDir(path) {
		return nil
	}
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return chown(fs, path, owner)
}

func ensureDir(fs ports.FileSystem, dir string, owner Owner) error {
	if dir == "." || dir == "/" || fs.IsDir(dir) {
		return nil
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return chown(fs, dir, owner)
}
