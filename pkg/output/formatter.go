package output

import (
	"io"

	"github.com/sdejongh/dirconflict/pkg/models"
)

// Formatter defines the interface for result output.
// Implementations include human-readable and JSON formatters.
type Formatter interface {
	// Start records the writer and announces the two roots
	Start(writer io.Writer, req1, req2 models.ScanRequest) error

	// Complete renders the finished report
	Complete(report *models.ScanReport) error

	// Error reports a fatal error. report is the partial report when the
	// run got far enough to produce one, nil otherwise.
	Error(report *models.ScanReport, err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, color bool) (Formatter, error) {
	switch name {
	case "human", "":
		return NewHumanFormatter(color), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, &models.ValidationError{Field: "output", Message: "unsupported format " + name + " (use: human, json)"}
	}
}
