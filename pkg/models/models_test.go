package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Absolute", "/tmp/a", false},
		{"Relative", "dir", false},
		{"WindowsStyle", `C:\Users\me`, false},
		{"Empty", "", true},
		{"Whitespace", "   ", true},
		{"NulByte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewScanRequest(tt.path, false).Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ipe *InvalidPathError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, tt.path, ipe.Path)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestValidateSideRecordsSide(t *testing.T) {
	err := ScanRequest{}.ValidateSide(SideTwo)

	var ipe *InvalidPathError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, SideTwo, ipe.Side)
	assert.Contains(t, err.Error(), "path2")
}

func TestAccessErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("walk: %w", &AccessError{Path: "/x/locked", Err: cause})

	assert.ErrorIs(t, err, cause)
	var ae *AccessError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "/x/locked", ae.Path)
	assert.False(t, errors.Is(err, ErrInvalidPath))
}

func TestRootErrorMessage(t *testing.T) {
	err := &RootError{Side: SideOne, Path: "/missing", Err: errors.New("no such file or directory")}
	assert.Equal(t, "cannot access path1 '/missing': no such file or directory", err.Error())
}

func TestConflictSetSort(t *testing.T) {
	set := ConflictSet{
		{Name: "b.txt", Folder1: "/x/", Folder2: "/y/"},
		{Name: "A.txt", Folder1: "/x/sub/", Folder2: "/y/"},
		{Name: "a.txt", Folder1: "/x/", Folder2: "/y/2/"},
		{Name: "a.txt", Folder1: "/x/", Folder2: "/y/1/"},
	}

	set.Sort()

	want := ConflictSet{
		{Name: "A.txt", Folder1: "/x/sub/", Folder2: "/y/"},
		{Name: "a.txt", Folder1: "/x/", Folder2: "/y/1/"},
		{Name: "a.txt", Folder1: "/x/", Folder2: "/y/2/"},
		{Name: "b.txt", Folder1: "/x/", Folder2: "/y/"},
	}
	assert.Equal(t, want, set)
	assert.Equal(t, []string{"a.txt", "b.txt"}, set.Names())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name      string
		status    ScanStatus
		conflicts ConflictSet
		want      int
	}{
		{"CleanSuccess", StatusSuccess, nil, 0},
		{"ConflictsFound", StatusSuccess, ConflictSet{{Name: "a"}}, 1},
		{"PartialWithConflicts", StatusPartial, ConflictSet{{Name: "a"}}, 1},
		{"PartialClean", StatusPartial, nil, 0},
		{"Failed", StatusFailed, nil, 2},
		{"Cancelled", StatusCancelled, nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ScanReport{Status: tt.status, Conflicts: tt.conflicts}
			assert.Equal(t, tt.want, r.ExitCode())
		})
	}
}
