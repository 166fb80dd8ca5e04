package models

import (
	"errors"
	"fmt"
)

// ErrInvalidPath matches any *InvalidPathError with errors.Is
var ErrInvalidPath = errors.New("invalid path")

// InvalidPathError reports an empty or malformed root path.
// It is raised before any traversal starts.
type InvalidPathError struct {
	Side   Side
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.Side != 0 {
		return fmt.Sprintf("invalid %s '%s': %s", e.Side, e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid path '%s': %s", e.Path, e.Reason)
}

// Is reports whether target is ErrInvalidPath
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// AccessError records a subdirectory that could not be enumerated.
// Traversal recovers from it locally; it never escapes a scan.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// RootError reports a root directory that is missing, unreadable or not
// a directory. It is fatal for the whole call.
type RootError struct {
	Side Side
	Path string
	Err  error
}

func (e *RootError) Error() string {
	if e.Side != 0 {
		return fmt.Sprintf("cannot access %s '%s': %v", e.Side, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot access '%s': %v", e.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
