package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local is a filesystem-based storage backend
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// ReadDir lists the children of dir. Symbolic links are followed; links
// whose target cannot be resolved are left out.
func (l *Local) ReadDir(ctx context.Context, dir string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				// Dangling link
				continue
			}
			isDir = target.IsDir()
		}
		result = append(result, DirEntry{Name: e.Name(), IsDir: isDir})
	}

	return result, nil
}

// Stat returns metadata for path
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	return &FileInfo{Path: path, IsDir: info.IsDir()}, nil
}

// Join joins path elements with the platform separator. The first element
// is kept as written, so children of "." stay "./name" rather than being
// cleaned into a bare name.
func (l *Local) Join(elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	dir, rest := elem[0], filepath.Join(elem[1:]...)
	switch {
	case rest == "":
		return dir
	case dir == "":
		return rest
	}
	return strings.TrimRight(dir, string(filepath.Separator)) + string(filepath.Separator) + rest
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
