package storage

import (
	"context"
)

// DirEntry is one child of an enumerated directory.
// Symbolic links are reported as their target's kind.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileInfo represents metadata about a path
type FileInfo struct {
	Path  string
	IsDir bool
}

// Backend defines the directory enumeration operations the traverser needs.
// Implementations include the local filesystem and an in-memory tree.
type Backend interface {
	// ReadDir returns the direct children of dir
	ReadDir(ctx context.Context, dir string) ([]DirEntry, error)

	// Stat returns metadata for path, following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Join joins path elements using the backend's separator
	Join(elem ...string) string

	// Close releases any resources held by the backend
	Close() error
}
