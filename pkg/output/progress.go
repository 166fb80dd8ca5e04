package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dirconflict/pkg/finder"
	"github.com/sdejongh/dirconflict/pkg/models"
)

const (
	scanTemplate  = `{{string . "phase"}} {{counters . }} files {{etime . }}`
	matchTemplate = `{{string . "phase"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`
)

// ProgressBar draws one progress bar per search phase. It implements
// finder.Observer.
type ProgressBar struct {
	writer io.Writer
	width  int

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// NewProgressBar creates a progress display writing to writer
// (os.Stderr when nil)
func NewProgressBar(writer io.Writer) *ProgressBar {
	if writer == nil {
		writer = os.Stderr
	}

	p := &ProgressBar{writer: writer}
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			p.width = width
		}
	}
	// Default to 100 if we couldn't detect (pipe, redirect, etc.)
	if p.width == 0 {
		p.width = 100
	}
	return p
}

// PhaseStarted starts a fresh bar for the phase
func (p *ProgressBar) PhaseStarted(phase finder.Phase, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
	}

	tmpl := scanTemplate
	label := "Scanning"
	if phase == finder.PhaseMatch {
		tmpl = matchTemplate
		label = "Matching"
	}

	p.bar = pb.New(total).
		SetTemplateString(tmpl).
		SetWriter(p.writer).
		SetWidth(p.width).
		Set("phase", label)
	p.bar.Start()
}

// DirectoryScanned adds the directory's files to the running count
func (p *ProgressBar) DirectoryScanned(side models.Side, files int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil && files > 0 {
		p.bar.Add(files)
	}
}

// Matched advances the matching bar
func (p *ProgressBar) Matched(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.SetCurrent(int64(done))
	}
}

// PhaseFinished completes the current bar
func (p *ProgressBar) PhaseFinished(phase finder.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// Current returns the value of the active bar, or 0 between phases
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}
