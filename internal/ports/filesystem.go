package ports

import "os"

// FileSystem provides the filesystem operations steps need. The process
// runs as root, so writes into a user's home must be followed by Chown to
// keep the files owned by the target principal.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	IsExecutable(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
	Chown(path string, uid, gid int) error
	Chmod(path string, perm os.FileMode) error
}
