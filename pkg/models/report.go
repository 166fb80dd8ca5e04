package models

import (
	"time"
)

// ScanReport represents the results of a conflict search
type ScanReport struct {
	// Operation details
	OperationID string
	Request1    ScanRequest
	Request2    ScanRequest

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Conflicts found
	Conflicts ConflictSet

	// Subtrees skipped because they could not be read
	Warnings []ScanWarning

	// Overall status
	Status ScanStatus
}

// Statistics holds search metrics
type Statistics struct {
	// Files collected per side
	Files1 int
	Files2 int

	// Directories enumerated per side (including the root)
	Dirs1 int
	Dirs2 int

	// Subtrees skipped per side
	Skipped1 int
	Skipped2 int

	// Number of conflict records
	Conflicts int

	// Number of distinct conflicting names (case-folded)
	DistinctNames int
}

// ScanStatus represents the overall result
type ScanStatus string

const (
	// StatusSuccess indicates every directory was read
	StatusSuccess ScanStatus = "success"
	// StatusPartial indicates some subtrees were skipped
	StatusPartial ScanStatus = "partial"
	// StatusFailed indicates the search failed
	StatusFailed ScanStatus = "failed"
	// StatusCancelled indicates the search was cancelled
	StatusCancelled ScanStatus = "cancelled"
)

// ScanWarning records a subtree that contributed no files
type ScanWarning struct {
	Side      Side
	Path      string
	Error     string
	Timestamp time.Time
}

// ExitCode returns the process exit code for the status.
// A successful search that found conflicts exits with 1, like diff(1).
func (r *ScanReport) ExitCode() int {
	switch r.Status {
	case StatusSuccess, StatusPartial:
		if len(r.Conflicts) > 0 {
			return 1
		}
		return 0
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
