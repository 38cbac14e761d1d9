// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveRepoDir normalizes user input for the repository to watch.
//
// Input normalization:
//   - "" -> current working directory
//   - "~/src/proj" -> "$HOME/src/proj"
//   - relative paths -> absolute
//
// The result is a cleaned absolute path; whether it is actually a git
// repository is checked separately.
func ResolveRepoDir(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}
	path = ExpandHome(path)
	return filepath.Abs(filepath.Clean(path))
}

// ExpandHome replaces a leading "~" or "~/" with the user's home
// directory. Paths like "~user" are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
