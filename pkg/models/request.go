package models

import (
	"strings"
)

// Side identifies which of the two compared roots a value belongs to
type Side int

const (
	// SideOne is the first root (path1)
	SideOne Side = 1
	// SideTwo is the second root (path2)
	SideTwo Side = 2
)

// String returns "path1" or "path2"
func (s Side) String() string {
	switch s {
	case SideOne:
		return "path1"
	case SideTwo:
		return "path2"
	default:
		return "path"
	}
}

// ScanRequest describes one side of a comparison
type ScanRequest struct {
	// RootPath is the directory to enumerate
	RootPath string

	// Recursive includes every descendant directory when true
	Recursive bool
}

// NewScanRequest creates a scan request
func NewScanRequest(rootPath string, recursive bool) ScanRequest {
	return ScanRequest{RootPath: rootPath, Recursive: recursive}
}

// Validate checks the request without touching the filesystem
func (r ScanRequest) Validate() error {
	return r.validate(0)
}

// ValidateSide is Validate with the side recorded on the returned error
func (r ScanRequest) ValidateSide(side Side) error {
	return r.validate(side)
}

func (r ScanRequest) validate(side Side) error {
	if strings.TrimSpace(r.RootPath) == "" {
		return &InvalidPathError{Side: side, Path: r.RootPath, Reason: "path is empty"}
	}
	if strings.ContainsRune(r.RootPath, 0) {
		return &InvalidPathError{Side: side, Path: r.RootPath, Reason: "path contains a NUL byte"}
	}
	return nil
}
