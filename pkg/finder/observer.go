package finder

import (
	"github.com/sdejongh/dirconflict/pkg/models"
)

// Phase names a stage of a conflict search
type Phase string

const (
	// PhaseScan covers both traversals
	PhaseScan Phase = "scan"
	// PhaseMatch covers the name join
	PhaseMatch Phase = "match"
)

// Observer receives progress notifications. Methods may be called from
// several goroutines at once.
type Observer interface {
	// PhaseStarted is called when a phase begins. total is the number of
	// work items when known, 0 otherwise.
	PhaseStarted(phase Phase, total int)

	// DirectoryScanned is called after each directory read on a side
	DirectoryScanned(side models.Side, files int)

	// Matched is called after each side-one file has been compared
	Matched(done, total int)

	// PhaseFinished is called when a phase ends, successfully or not
	PhaseFinished(phase Phase)
}

type nopObserver struct{}

func (nopObserver) PhaseStarted(Phase, int)           {}
func (nopObserver) DirectoryScanned(models.Side, int) {}
func (nopObserver) Matched(int, int)                  {}
func (nopObserver) PhaseFinished(Phase)               {}
