package finder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dirconflict/pkg/logging"
	"github.com/sdejongh/dirconflict/pkg/match"
	"github.com/sdejongh/dirconflict/pkg/models"
	"github.com/sdejongh/dirconflict/pkg/storage"
	"github.com/sdejongh/dirconflict/pkg/traverse"
)

// Config holds the tunables of a Finder
type Config struct {
	// TraverseWorkers bounds concurrent subtree scans per side
	TraverseWorkers int

	// MatchWorkers bounds concurrent comparison tasks (0 = automatic)
	MatchWorkers int

	// Exclude holds glob patterns applied to both sides
	Exclude []string

	// Sort orders the conflict set before it is returned
	Sort bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TraverseWorkers: traverse.DefaultMaxConcurrency,
		MatchWorkers:    0,
		Sort:            true,
	}
}

// Finder scans two roots and reports base names present on both sides
type Finder struct {
	backend  storage.Backend
	config   Config
	logger   logging.Logger
	observer Observer
}

// New creates a finder. logger and observer may be nil.
func New(backend storage.Backend, config Config, logger logging.Logger, observer Observer) *Finder {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Finder{
		backend:  backend,
		config:   config,
		logger:   logging.OrNull(logger),
		observer: observer,
	}
}

// Scan returns the files under rootPath using the local filesystem and
// default settings
func Scan(ctx context.Context, rootPath string, recursive bool) ([]models.FileEntry, error) {
	return New(storage.NewLocal(), DefaultConfig(), nil, nil).Scan(ctx, rootPath, recursive)
}

// FindConflicts compares two roots on the local filesystem with default
// settings
func FindConflicts(ctx context.Context, req1, req2 models.ScanRequest) (models.ConflictSet, error) {
	return New(storage.NewLocal(), DefaultConfig(), nil, nil).FindConflicts(ctx, req1, req2)
}

// Scan returns the files under rootPath. It fails with
// *models.InvalidPathError for an empty path and *models.RootError when the
// root cannot be read. Unreadable subdirectories are skipped.
func (f *Finder) Scan(ctx context.Context, rootPath string, recursive bool) ([]models.FileEntry, error) {
	res, err := f.ScanDetailed(ctx, models.NewScanRequest(rootPath, recursive))
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// ScanDetailed traverses a single root and also returns the directory
// count and the subtrees that were skipped
func (f *Finder) ScanDetailed(ctx context.Context, req models.ScanRequest) (*traverse.Result, error) {
	f.observer.PhaseStarted(PhaseScan, 0)
	defer f.observer.PhaseFinished(PhaseScan)

	res, err := f.traverser(models.SideOne).TraverseDetailed(ctx, req)
	if err != nil {
		f.logger.Error(ctx, "Scan failed", err, logging.Fields{"path": req.RootPath})
		return nil, err
	}
	f.logger.Info(ctx, "Scan complete", logging.Fields{
		"path":    req.RootPath,
		"files":   len(res.Files),
		"dirs":    res.Dirs,
		"skipped": len(res.Skipped),
	})
	return res, nil
}

// FindConflicts returns every pair of files, one under each root, whose
// base names match ignoring case. Both requests are validated before any
// filesystem access.
func (f *Finder) FindConflicts(ctx context.Context, req1, req2 models.ScanRequest) (models.ConflictSet, error) {
	report, err := f.Run(ctx, req1, req2)
	if err != nil {
		return nil, err
	}
	return report.Conflicts, nil
}

// Run performs a full conflict search and returns a report with timings,
// statistics and the subtrees that were skipped. On failure the returned
// report (when not nil) carries the failed or cancelled status.
func (f *Finder) Run(ctx context.Context, req1, req2 models.ScanRequest) (*models.ScanReport, error) {
	// Both halves are validated before either begins I/O
	if err := req1.ValidateSide(models.SideOne); err != nil {
		return nil, err
	}
	if err := req2.ValidateSide(models.SideTwo); err != nil {
		return nil, err
	}

	report := &models.ScanReport{
		OperationID: uuid.New().String(),
		Request1:    req1,
		Request2:    req2,
		StartTime:   time.Now(),
		Status:      models.StatusSuccess,
	}
	logger := f.logger.WithFields(logging.Fields{"operation_id": report.OperationID})

	logger.Info(ctx, "Starting conflict search", logging.Fields{
		"path1":      req1.RootPath,
		"recursive1": req1.Recursive,
		"path2":      req2.RootPath,
		"recursive2": req2.Recursive,
	})

	// Phase 1: traverse both roots concurrently
	f.observer.PhaseStarted(PhaseScan, 0)
	res1, res2, err := f.scanBoth(ctx, req1, req2)
	f.observer.PhaseFinished(PhaseScan)
	if err != nil {
		return f.fail(ctx, logger, report, err)
	}

	report.Stats.Files1, report.Stats.Files2 = len(res1.Files), len(res2.Files)
	report.Stats.Dirs1, report.Stats.Dirs2 = res1.Dirs, res2.Dirs
	report.Stats.Skipped1, report.Stats.Skipped2 = len(res1.Skipped), len(res2.Skipped)
	report.Warnings = append(warnings(models.SideOne, res1.Skipped), warnings(models.SideTwo, res2.Skipped)...)

	logger.Info(ctx, "Scan complete", logging.Fields{
		"files1":   len(res1.Files),
		"files2":   len(res2.Files),
		"skipped1": len(res1.Skipped),
		"skipped2": len(res2.Skipped),
	})

	// Phase 2: join on base name
	f.observer.PhaseStarted(PhaseMatch, len(res1.Files))
	matcher := match.New(match.Options{
		MaxConcurrency: f.config.MatchWorkers,
		OnProgress:     f.observer.Matched,
	})
	conflicts, err := matcher.Match(ctx, res1.Files, res2.Files)
	f.observer.PhaseFinished(PhaseMatch)
	if err != nil {
		return f.fail(ctx, logger, report, err)
	}

	if f.config.Sort {
		conflicts.Sort()
	}

	report.Conflicts = conflicts
	report.Stats.Conflicts = len(conflicts)
	report.Stats.DistinctNames = len(conflicts.Names())
	if len(report.Warnings) > 0 {
		report.Status = models.StatusPartial
	}
	f.finish(report)

	logger.Info(ctx, "Conflict search completed", logging.Fields{
		"duration":  report.Duration.String(),
		"status":    report.Status,
		"conflicts": report.Stats.Conflicts,
		"names":     report.Stats.DistinctNames,
	})

	return report, nil
}

// scanBoth traverses both roots in parallel. A fatal error on one side
// cancels the other.
func (f *Finder) scanBoth(ctx context.Context, req1, req2 models.ScanRequest) (*traverse.Result, *traverse.Result, error) {
	var res1, res2 *traverse.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res1, err = f.traverser(models.SideOne).TraverseDetailed(gctx, req1)
		return withSide(err, models.SideOne)
	})
	g.Go(func() error {
		var err error
		res2, err = f.traverser(models.SideTwo).TraverseDetailed(gctx, req2)
		return withSide(err, models.SideTwo)
	})

	if err := g.Wait(); err != nil {
		// Prefer the caller's cancellation over the sibling's derived error
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, err
	}
	return res1, res2, nil
}

func (f *Finder) traverser(side models.Side) *traverse.Traverser {
	return traverse.New(f.backend, traverse.Options{
		MaxConcurrency: f.config.TraverseWorkers,
		Exclude:        f.config.Exclude,
		Logger:         f.logger.WithFields(logging.Fields{"side": side.String()}),
		OnDirectory: func(dir string, files int) {
			f.observer.DirectoryScanned(side, files)
		},
	})
}

func (f *Finder) fail(ctx context.Context, logger logging.Logger, report *models.ScanReport, err error) (*models.ScanReport, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		report.Status = models.StatusCancelled
	} else {
		report.Status = models.StatusFailed
	}
	f.finish(report)
	logger.Error(ctx, "Conflict search failed", err, logging.Fields{"status": report.Status})
	return report, err
}

func (f *Finder) finish(report *models.ScanReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
}

func withSide(err error, side models.Side) error {
	var rootErr *models.RootError
	if errors.As(err, &rootErr) {
		rootErr.Side = side
	}
	var pathErr *models.InvalidPathError
	if errors.As(err, &pathErr) {
		pathErr.Side = side
	}
	return err
}

func warnings(side models.Side, skipped []*models.AccessError) []models.ScanWarning {
	out := make([]models.ScanWarning, 0, len(skipped))
	now := time.Now()
	for _, s := range skipped {
		out = append(out, models.ScanWarning{
			Side:      side,
			Path:      s.Path,
			Error:     s.Err.Error(),
			Timestamp: now,
		})
	}
	return out
}
