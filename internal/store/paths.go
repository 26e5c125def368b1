package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDBPath returns $XDG_DATA_HOME/coursekit/activity.db, or the same
// file under ~/.local/share when XDG_DATA_HOME is unset. The parent
// directory is created.
func DefaultDBPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(base, "coursekit", "activity.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the directory that holds the database file at path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
