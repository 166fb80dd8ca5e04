package traverse

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dirconflict/pkg/logging"
	"github.com/sdejongh/dirconflict/pkg/models"
	"github.com/sdejongh/dirconflict/pkg/storage"
)

// DefaultMaxConcurrency bounds the subtree scans in flight for one root
const DefaultMaxConcurrency = 64

var errNotDirectory = errors.New("not a directory")

// Options configures a Traverser
type Options struct {
	// MaxConcurrency caps concurrently running subtree scans
	// (default DefaultMaxConcurrency)
	MaxConcurrency int

	// Exclude holds glob patterns for paths to leave out
	Exclude []string

	// Logger receives a warning for every skipped subtree
	Logger logging.Logger

	// OnDirectory is called after each directory is read with the number
	// of files it contributed. It may be called from several goroutines.
	OnDirectory func(dir string, files int)
}

// Result is the detailed outcome of one traversal
type Result struct {
	// Files found, sorted
	Files []models.FileEntry

	// Dirs is the number of directories read, including the root
	Dirs int

	// Skipped lists subtrees that could not be enumerated
	Skipped []*models.AccessError

	Duration time.Duration
}

// Traverser enumerates the files under a root directory
type Traverser struct {
	backend  storage.Backend
	opts     Options
	excluder *Excluder
}

// New creates a traverser over backend
func New(backend storage.Backend, opts Options) *Traverser {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	opts.Logger = logging.OrNull(opts.Logger)

	return &Traverser{
		backend:  backend,
		opts:     opts,
		excluder: NewExcluder(opts.Exclude),
	}
}

// Traverse returns the files under req.RootPath
func (t *Traverser) Traverse(ctx context.Context, req models.ScanRequest) ([]models.FileEntry, error) {
	res, err := t.TraverseDetailed(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// TraverseDetailed returns the files under req.RootPath along with
// directory counts and the subtrees that had to be skipped.
//
// An empty root fails with *models.InvalidPathError before any I/O. A root
// that is missing, unreadable or not a directory fails with
// *models.RootError. Failures below the root are recorded in
// Result.Skipped and never returned.
func (t *Traverser) TraverseDetailed(ctx context.Context, req models.ScanRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	root := req.RootPath

	info, err := t.backend.Stat(ctx, root)
	if err != nil {
		return nil, &models.RootError{Path: root, Err: err}
	}
	if !info.IsDir {
		return nil, &models.RootError{Path: root, Err: errNotDirectory}
	}

	entries, err := t.backend.ReadDir(ctx, root)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &models.RootError{Path: root, Err: err}
	}

	w := &walker{
		Traverser: t,
		recursive: req.Recursive,
	}
	w.group.SetLimit(t.opts.MaxConcurrency)

	subdirs := w.collect(root, "", entries)
	if req.Recursive {
		w.descend(ctx, subdirs)
	}
	w.group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(w.files, func(i, j int) bool { return w.files[i] < w.files[j] })
	sort.Slice(w.skipped, func(i, j int) bool { return w.skipped[i].Path < w.skipped[j].Path })

	return &Result{
		Files:    w.files,
		Dirs:     w.dirs,
		Skipped:  w.skipped,
		Duration: time.Since(start),
	}, nil
}

type subdir struct {
	path string
	rel  string
}

// walker holds the state of a single traversal
type walker struct {
	*Traverser
	recursive bool
	group     errgroup.Group

	mu      sync.Mutex
	files   []models.FileEntry
	dirs    int
	skipped []*models.AccessError
}

// descend scans each subdirectory in its own goroutine while the fan-out
// ceiling allows it, and inline otherwise. Inline scanning keeps the
// goroutine count bounded without ever blocking a parent on a slot held by
// its own descendants.
func (w *walker) descend(ctx context.Context, subdirs []subdir) {
	for _, d := range subdirs {
		d := d // per-iteration copy; go directive is 1.21 (pre-1.22 loopvar semantics)
		if w.group.TryGo(func() error {
			w.visit(ctx, d)
			return nil
		}) {
			continue
		}
		w.visit(ctx, d)
	}
}

func (w *walker) visit(ctx context.Context, d subdir) {
	if ctx.Err() != nil {
		return
	}

	entries, err := w.backend.ReadDir(ctx, d.path)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.skip(ctx, d.path, err)
		return
	}

	w.descend(ctx, w.collect(d.path, d.rel, entries))
}

// collect records the files of one directory and returns its
// subdirectories that survive the exclude patterns.
func (w *walker) collect(dir, rel string, entries []storage.DirEntry) []subdir {
	var (
		files   []models.FileEntry
		subdirs []subdir
	)

	for _, e := range entries {
		childRel := e.Name
		if rel != "" {
			childRel = rel + "/" + e.Name
		}

		if e.IsDir {
			if w.recursive && !w.excluder.ExcludeDir(childRel) {
				subdirs = append(subdirs, subdir{path: w.backend.Join(dir, e.Name), rel: childRel})
			}
			continue
		}

		if w.excluder.ExcludeFile(childRel) {
			continue
		}
		files = append(files, models.FileEntry(w.backend.Join(dir, e.Name)))
	}

	w.mu.Lock()
	w.files = append(w.files, files...)
	w.dirs++
	w.mu.Unlock()

	if w.opts.OnDirectory != nil {
		w.opts.OnDirectory(dir, len(files))
	}

	return subdirs
}

func (w *walker) skip(ctx context.Context, dir string, err error) {
	accessErr := &models.AccessError{Path: dir, Err: err}

	w.mu.Lock()
	w.skipped = append(w.skipped, accessErr)
	w.mu.Unlock()

	w.opts.Logger.Warn(ctx, "Skipping unreadable directory", logging.Fields{
		"path":  dir,
		"error": err.Error(),
	})
}
