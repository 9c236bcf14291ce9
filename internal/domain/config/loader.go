package config

import (
	"errors"
	"os"
)

// Loader loads the manifest from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the manifest at path.
func (l *Loader) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			return nil, userErr
		}
		return nil, NewParseError(path, err)
	}
	return manifest, nil
}
