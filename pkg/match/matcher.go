package match

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dirconflict/internal/platform"
	"github.com/sdejongh/dirconflict/pkg/models"
)

// DefaultMaxConcurrency returns the default number of comparison tasks
// allowed to run at once
func DefaultMaxConcurrency() int {
	return runtime.GOMAXPROCS(0) * 4
}

// Options configures a Matcher
type Options struct {
	// MaxConcurrency caps concurrently running comparison tasks
	// (default DefaultMaxConcurrency())
	MaxConcurrency int

	// OnProgress is called after each element of the first collection has
	// been compared against the whole second collection. It may be called
	// from several goroutines.
	OnProgress func(done, total int)
}

// Matcher joins two file collections on case-insensitive base name
type Matcher struct {
	opts Options
}

// New creates a matcher
func New(opts Options) *Matcher {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = DefaultMaxConcurrency()
	}
	return &Matcher{opts: opts}
}

// Match returns one ConflictRecord for every pair (a, b), a from filesA and
// b from filesB, whose base names are equal ignoring case (see platform.FoldName). Pairs are not
// deduplicated: k files named X on one side and m on the other yield k*m
// records, and a path listed twice is matched twice.
//
// Each element of filesA is compared in its own task; tasks are bounded by
// Options.MaxConcurrency. The order of the result is unspecified.
func (m *Matcher) Match(ctx context.Context, filesA, filesB []models.FileEntry) (models.ConflictSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make(models.ConflictSet, 0)
	if len(filesA) == 0 || len(filesB) == 0 {
		return result, nil
	}

	keysB := make([]string, len(filesB))
	for i, f := range filesB {
		keysB[i] = platform.FoldName(platform.BaseName(string(f)))
	}

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.MaxConcurrency)

	for _, a := range filesA {
		a := a // per-iteration copy; go directive is 1.21 (pre-1.22 loopvar semantics)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			found := compareOne(string(a), keysB, filesB)

			mu.Lock()
			result = append(result, found...)
			done++
			n := done
			mu.Unlock()

			if m.opts.OnProgress != nil {
				m.opts.OnProgress(n, len(filesA))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// compareOne scans every precomputed key of side B for matches of a
func compareOne(a string, keysB []string, filesB []models.FileEntry) []models.ConflictRecord {
	name := platform.BaseName(a)
	key := platform.FoldName(name)

	var found []models.ConflictRecord
	var folderA string
	for j, keyB := range keysB {
		if key != keyB {
			continue
		}
		if found == nil {
			folderA = platform.Folder(a)
		}
		found = append(found, models.ConflictRecord{
			Name:    name,
			Folder1: folderA,
			Folder2: platform.Folder(string(filesB[j])),
		})
	}
	return found
}
