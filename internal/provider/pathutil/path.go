// Package pathutil resolves manifest paths against the target user's
// home directory. The process runs as root, so expanding ~ against the
// current user would silently point every path at /root.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ExpandFor expands a leading ~/ against the given home directory and
// returns other paths unchanged.
func ExpandFor(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
