// Package adapter contains infrastructure adapters for the link pipeline.
package adapter

import (
	"os"
	"path/filepath"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the domain layer
// relies on. It hides direct `os` access so the workflow logic can be
// tested without touching the disk where that matters.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces a file's contents with the given permissions.
	// Writes are whole-file replacements; there is no partial-write
	// recovery beyond "write succeeded or the run aborts".
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Canonicalize resolves a path to its absolute, symlink-free form so
	// it can be compared by equality against sourcemap entries.
	Canonicalize(path m.Path) (m.Path, error)

	// DirEntries lists the direct entries of a directory.
	DirEntries(path m.Path) ([]os.DirEntry, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter is the concrete SourceFSAdapter backed by the os
// package.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Canonicalize returns the absolute, symlink-resolved form of path. It
// fails when the path does not exist, which callers treat as the inputs
// being out of sync.
func (a *LocalSourceFSAdapter) Canonicalize(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}

	return m.Path(resolved), nil
}

// DirEntries lists the direct entries of the directory at path.
func (a *LocalSourceFSAdapter) DirEntries(path m.Path) ([]os.DirEntry, error) {
	return os.ReadDir(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}
