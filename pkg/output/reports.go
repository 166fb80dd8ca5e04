package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sdejongh/dirconflict/pkg/models"
)

// Report file formats
const (
	ReportCSV      = "csv"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
	ReportHTML     = "html"
)

// ReportFormats lists the accepted report formats
var ReportFormats = []string{ReportCSV, ReportJSON, ReportMarkdown, ReportHTML}

// ReportFormatFromPath guesses the report format from the file extension,
// falling back to markdown
func ReportFormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReportCSV
	case ".json":
		return ReportJSON
	case ".html", ".htm":
		return ReportHTML
	default:
		return ReportMarkdown
	}
}

// WriteReportFile writes the report to path in the given format
func WriteReportFile(report *models.ScanReport, path, format string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	return WriteReport(file, report, format)
}

// WriteReport renders the report to w
func WriteReport(w io.Writer, report *models.ScanReport, format string) error {
	switch format {
	case ReportCSV:
		return writeCSV(w, report)
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewJSONReport(report))
	case ReportMarkdown, "md":
		_, err := io.WriteString(w, Markdown(report))
		return err
	case ReportHTML:
		return writeHTML(w, report)
	default:
		return &models.ValidationError{
			Field:   "report-format",
			Message: fmt.Sprintf("unsupported format %q (use: %s)", format, strings.Join(ReportFormats, ", ")),
		}
	}
}

func writeCSV(w io.Writer, report *models.ScanReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeaderName, HeaderFolder1, HeaderFolder2}); err != nil {
		return err
	}
	for _, c := range report.Conflicts {
		if err := cw.Write([]string{c.Name, c.Folder1, c.Folder2}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders the report as a markdown document: a summary list
// and the conflict table
func Markdown(report *models.ScanReport) string {
	var b strings.Builder

	b.WriteString("# Conflict report\n\n")
	fmt.Fprintf(&b, "- Path 1: `%s`%s\n", report.Request1.RootPath, recursiveSuffix(report.Request1))
	fmt.Fprintf(&b, "- Path 2: `%s`%s\n", report.Request2.RootPath, recursiveSuffix(report.Request2))
	fmt.Fprintf(&b, "- Status: %s\n", report.Status)
	fmt.Fprintf(&b, "- Number of conflicts: %d\n", report.Stats.Conflicts)
	fmt.Fprintf(&b, "- Elapsed: %s seconds\n", formatSeconds(report.Duration))
	if report.OperationID != "" {
		fmt.Fprintf(&b, "- Operation: %s\n", report.OperationID)
	}
	b.WriteString("\n")

	if len(report.Conflicts) == 0 {
		b.WriteString("No conflicts found.\n")
	} else {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", HeaderName, HeaderFolder1, HeaderFolder2)
		b.WriteString("|---|---|---|\n")
		for _, c := range report.Conflicts {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", markdownCell(c.Name), markdownCell(c.Folder1), markdownCell(c.Folder2))
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\n## Skipped directories\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "- [%s] `%s`: %s\n", w.Side, w.Path, w.Error)
		}
	}

	return b.String()
}

// markdownCell escapes characters that would break a table cell
func markdownCell(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "|", `\|`, "`", "\\`", "*", `\*`, "_", `\_`, "<", "&lt;")
	return r.Replace(s)
}

func writeHTML(w io.Writer, report *models.ScanReport) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(report)), &body); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}

	title := html.EscapeString("Conflicts: " + report.Request1.RootPath + " / " + report.Request2.RootPath)
	_, err := fmt.Fprintf(w, htmlPage, title, strconv.Itoa(report.Stats.Conflicts), body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<meta name="conflicts" content="%s">
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
%s</body>
</html>
`
