package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory directory tree using "/" separated paths.
// Directories can be marked as failing to simulate permission errors or
// directories that vanish mid-scan.
type Memory struct {
	mu       sync.RWMutex
	dirs     map[string]map[string]bool // dir -> child name -> isDir
	failures map[string]error
	reads    map[string]int
}

// NewMemory creates an empty in-memory tree
func NewMemory() *Memory {
	return &Memory{
		dirs:     make(map[string]map[string]bool),
		failures: make(map[string]error),
		reads:    make(map[string]int),
	}
}

// AddFile adds a file, creating missing parent directories
func (m *Memory) AddFile(p string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	m.ensureDir(path.Dir(p))
	m.dirs[path.Dir(p)][path.Base(p)] = false
	return m
}

// AddDir adds a directory, creating missing parents
func (m *Memory) AddDir(p string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureDir(path.Clean(p))
	return m
}

// FailDir makes ReadDir on p return err
func (m *Memory) FailDir(p string, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[path.Clean(p)] = err
	return m
}

// Reads returns how many times p was enumerated
func (m *Memory) Reads(p string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[path.Clean(p)]
}

func (m *Memory) ensureDir(p string) {
	if _, ok := m.dirs[p]; ok {
		return
	}
	m.dirs[p] = make(map[string]bool)
	parent := path.Dir(p)
	if parent == p {
		return
	}
	m.ensureDir(parent)
	m.dirs[parent][path.Base(p)] = true
}

// ReadDir lists the children of dir sorted by name
func (m *Memory) ReadDir(ctx context.Context, dir string) ([]DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir = path.Clean(dir)
	m.reads[dir]++

	if err := m.failures[dir]; err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: err}
	}
	children, ok := m.dirs[dir]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	entries := make([]DirEntry, 0, len(children))
	for name, isDir := range children {
		entries = append(entries, DirEntry{Name: name, IsDir: isDir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Stat returns metadata for p
func (m *Memory) Stat(ctx context.Context, p string) (*FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = path.Clean(p)
	if _, ok := m.dirs[p]; ok {
		return &FileInfo{Path: p, IsDir: true}, nil
	}
	if children, ok := m.dirs[path.Dir(p)]; ok {
		if isDir, ok := children[path.Base(p)]; ok {
			return &FileInfo{Path: p, IsDir: isDir}, nil
		}
	}
	return nil, fmt.Errorf("failed to stat path: %w", &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist})
}

// Join joins path elements with "/"
func (m *Memory) Join(elem ...string) string {
	return path.Join(elem...)
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

// String lists every file in the tree, one per line, for test diagnostics
func (m *Memory) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var files []string
	for dir, children := range m.dirs {
		for name, isDir := range children {
			if !isDir {
				files = append(files, path.Join(dir, name))
			}
		}
	}
	sort.Strings(files)
	return strings.Join(files, "\n")
}
