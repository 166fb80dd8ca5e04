package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/dirconflict/pkg/models"
)

// JSONFormatter writes the report as a single JSON document, for
// automation and scripting
type JSONFormatter struct {
	writer io.Writer
}

// JSONReport is the JSON shape of a ScanReport
type JSONReport struct {
	OperationID string         `json:"operation_id"`
	Status      string         `json:"status"`
	StartTime   time.Time      `json:"start_time"`
	Duration    string         `json:"duration"`
	DurationMs  int64          `json:"duration_ms"`
	Path1       JSONRequest    `json:"path1"`
	Path2       JSONRequest    `json:"path2"`
	Stats       JSONStats      `json:"stats"`
	Conflicts   []JSONConflict `json:"conflicts"`
	Warnings    []JSONWarning  `json:"warnings,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// JSONRequest describes one scanned root
type JSONRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

// JSONStats represents statistics in JSON format
type JSONStats struct {
	Files1        int `json:"files1"`
	Files2        int `json:"files2"`
	Dirs1         int `json:"dirs1"`
	Dirs2         int `json:"dirs2"`
	Skipped1      int `json:"skipped1"`
	Skipped2      int `json:"skipped2"`
	Conflicts     int `json:"conflicts"`
	DistinctNames int `json:"distinct_names"`
}

// JSONConflict is one conflict record
type JSONConflict struct {
	Name    string `json:"name"`
	Folder1 string `json:"folder1"`
	Folder2 string `json:"folder2"`
}

// JSONWarning is one skipped subtree
type JSONWarning struct {
	Side  string `json:"side"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewJSONReport converts a report into its JSON shape
func NewJSONReport(report *models.ScanReport) JSONReport {
	out := JSONReport{
		OperationID: report.OperationID,
		Status:      string(report.Status),
		StartTime:   report.StartTime.UTC(),
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Path1:       JSONRequest{Path: report.Request1.RootPath, Recursive: report.Request1.Recursive},
		Path2:       JSONRequest{Path: report.Request2.RootPath, Recursive: report.Request2.Recursive},
		Stats: JSONStats{
			Files1:        report.Stats.Files1,
			Files2:        report.Stats.Files2,
			Dirs1:         report.Stats.Dirs1,
			Dirs2:         report.Stats.Dirs2,
			Skipped1:      report.Stats.Skipped1,
			Skipped2:      report.Stats.Skipped2,
			Conflicts:     report.Stats.Conflicts,
			DistinctNames: report.Stats.DistinctNames,
		},
		Conflicts: make([]JSONConflict, 0, len(report.Conflicts)),
	}

	for _, c := range report.Conflicts {
		out.Conflicts = append(out.Conflicts, JSONConflict(c))
	}
	for _, w := range report.Warnings {
		out.Warnings = append(out.Warnings, JSONWarning{Side: w.Side.String(), Path: w.Path, Error: w.Error})
	}

	return out
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start records the writer; nothing is printed until Complete
func (f *JSONFormatter) Start(writer io.Writer, req1, req2 models.ScanRequest) error {
	f.writer = writer
	return nil
}

// Complete writes the report document
func (f *JSONFormatter) Complete(report *models.ScanReport) error {
	return f.encode(NewJSONReport(report))
}

// Error writes a document carrying the status and the error message
func (f *JSONFormatter) Error(report *models.ScanReport, err error) error {
	doc := map[string]string{"status": string(models.StatusFailed), "error": err.Error()}
	if report != nil {
		doc["status"] = string(report.Status)
		doc["operation_id"] = report.OperationID
	}
	return f.encode(doc)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) encode(v any) error {
	if f.writer == nil {
		return nil
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
