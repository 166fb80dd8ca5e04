package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/dirconflict/pkg/models"
)

// Column titles of the conflict table
const (
	HeaderName    = "File Name"
	HeaderFolder1 = "Folder 1"
	HeaderFolder2 = "Folder 2"
)

// HumanFormatter prints a conflict table followed by a summary
type HumanFormatter struct {
	writer io.Writer

	header  *color.Color
	name    *color.Color
	warning *color.Color
	failure *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(useColor bool) *HumanFormatter {
	f := &HumanFormatter{
		header:  color.New(color.Bold, color.Underline),
		name:    color.New(color.FgYellow),
		warning: color.New(color.FgMagenta),
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{f.header, f.name, f.warning, f.failure} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, req1, req2 models.ScanRequest) error {
	f.writer = writer
	if f.writer == nil {
		f.writer = io.Discard
	}

	fmt.Fprintf(f.writer, "Comparing %s%s\n", req1.RootPath, recursiveSuffix(req1))
	fmt.Fprintf(f.writer, "     with %s%s\n\n", req2.RootPath, recursiveSuffix(req2))
	return nil
}

// Complete prints the conflict table and the summary
func (f *HumanFormatter) Complete(report *models.ScanReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	if len(report.Conflicts) > 0 {
		if err := f.writeTable(report.Conflicts); err != nil {
			return err
		}
		fmt.Fprintln(f.writer)
	}

	if len(report.Warnings) > 0 {
		f.warning.Fprintf(f.writer, "Skipped %d unreadable director%s:\n", len(report.Warnings), plural(len(report.Warnings), "y", "ies"))
		for _, w := range report.Warnings {
			fmt.Fprintf(f.writer, "  [%s] %s: %s\n", w.Side, w.Path, w.Error)
		}
		fmt.Fprintln(f.writer)
	}

	fmt.Fprintf(f.writer, "Scanned: %d files in %d dirs (path1), %d files in %d dirs (path2)\n",
		report.Stats.Files1, report.Stats.Dirs1, report.Stats.Files2, report.Stats.Dirs2)
	f.name.Fprintf(f.writer, "Number of conflicts: %d", report.Stats.Conflicts)
	fmt.Fprintf(f.writer, " (%d distinct name%s)\n", report.Stats.DistinctNames, plural(report.Stats.DistinctNames, "", "s"))
	fmt.Fprintf(f.writer, "%s seconds\n", formatSeconds(report.Duration))

	return nil
}

// writeTable aligns the conflicts in columns. Color escapes would throw
// off tabwriter's widths, so the header line is colored after alignment.
func (f *HumanFormatter) writeTable(conflicts models.ConflictSet) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", HeaderName, HeaderFolder1, HeaderFolder2)
	for _, c := range conflicts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Folder1, c.Folder2)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, rows, _ := strings.Cut(buf.String(), "\n")
	f.header.Fprintln(f.writer, strings.TrimRight(header, " "))
	_, err := io.WriteString(f.writer, rows)
	return err
}

// Error reports an error
func (f *HumanFormatter) Error(report *models.ScanReport, err error) error {
	if f.writer != nil {
		f.failure.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func recursiveSuffix(r models.ScanRequest) string {
	if r.Recursive {
		return " (recursive)"
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatSeconds renders d as fractional seconds, e.g. "1.234"
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Round(time.Millisecond).Seconds())
}
