package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirconflict/pkg/config"
	"github.com/sdejongh/dirconflict/pkg/finder"
	"github.com/sdejongh/dirconflict/pkg/logging"
	"github.com/sdejongh/dirconflict/pkg/models"
	"github.com/sdejongh/dirconflict/pkg/output"
	"github.com/sdejongh/dirconflict/pkg/storage"
)

// FindFlags holds find command flags
type FindFlags struct {
	Path1        string
	Path2        string
	Recursive    bool
	Recursive1   bool
	Recursive2   bool
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	NoSort       bool
	Parallel     int
	MatchWorkers int
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var findFlags FindFlags

// NewFindCommand creates the find command
func NewFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find files with the same name in two folders",
		Long: `Scan two folders and list every pair of files, one from each folder,
whose names match ignoring case.

Exit status is 0 when no conflicts were found, 1 when at least one conflict
was found, 2 on error and 3 when interrupted.`,
		Example: `  dirconflict find --path1 ~/photos --path2 /mnt/backup/photos -r
  dirconflict find --path1 a --path2 b --recursive2 --exclude '.git/' -o json
  dirconflict find --path1 a --path2 b -r --report conflicts.html`,
		Args: cobra.NoArgs,
		RunE: runFind,
	}

	// Required flags
	cmd.Flags().StringVar(&findFlags.Path1, "path1", "", "first folder (required)")
	cmd.Flags().StringVar(&findFlags.Path2, "path2", "", "second folder (required)")
	cmd.MarkFlagRequired("path1")
	cmd.MarkFlagRequired("path2")

	// Optional flags
	cmd.Flags().BoolVarP(&findFlags.Recursive, "recursive", "r", false, "include subfolders of both folders")
	cmd.Flags().BoolVar(&findFlags.Recursive1, "recursive1", false, "include subfolders of path1")
	cmd.Flags().BoolVar(&findFlags.Recursive2, "recursive2", false, "include subfolders of path2")
	cmd.Flags().StringSliceVar(&findFlags.Exclude, "exclude", []string{}, "glob patterns to exclude (suffix / for directories)")
	cmd.Flags().StringVarP(&findFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&findFlags.Report, "report", "", "also write the conflicts to a report file")
	cmd.Flags().StringVar(&findFlags.ReportFormat, "report-format", "", "report format: csv, json, markdown, html (default: from file extension)")
	cmd.Flags().BoolVar(&findFlags.NoSort, "no-sort", false, "print conflicts in discovery order")
	cmd.Flags().IntVarP(&findFlags.Parallel, "parallel", "p", 0, "concurrent directory reads per folder (default: 64)")
	cmd.Flags().IntVar(&findFlags.MatchWorkers, "match-workers", 0, "concurrent comparison tasks (default: 4 per CPU)")

	// Logging flags
	cmd.Flags().StringVar(&findFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&findFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&findFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	// Validate flags
	if err := validateFindFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	req1 := models.NewScanRequest(findFlags.Path1, cfg.Scan.Recursive1)
	req2 := models.NewScanRequest(findFlags.Path2, cfg.Scan.Recursive2)

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	// Create output formatter
	var formatter output.Formatter
	if !cfg.Output.Quiet {
		formatter, err = output.NewFormatter(cfg.Output.Format, useColor(cfg, stdout))
		if err != nil {
			return err
		}
		if err := formatter.Start(stdout, req1, req2); err != nil {
			return err
		}
	}

	// Create logger
	logger, err := createLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	var observer finder.Observer
	if cfg.Output.Progress && !cfg.Output.Quiet && cfg.Output.Format == "human" && output.IsTerminal(stderr) {
		observer = output.NewProgressBar(stderr)
	}

	backend := storage.NewLocal()
	defer backend.Close()

	f := finder.New(backend, finderConfig(cfg), logger, observer)

	report, err := f.Run(ctx, req1, req2)
	if err != nil {
		// Machine readers get the failure on stdout as well
		if formatter != nil && formatter.Name() == "json" {
			formatter.Error(report, err)
		}
		code := 2
		if report != nil {
			code = report.ExitCode()
		}
		return &ExitError{Code: code, Err: err}
	}

	if formatter != nil {
		if err := formatter.Complete(report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if findFlags.Report != "" {
		format := findFlags.ReportFormat
		if format == "" {
			format = output.ReportFormatFromPath(findFlags.Report)
		}
		if err := output.WriteReportFile(report, findFlags.Report, format); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info(ctx, "Report written", logging.Fields{"path": findFlags.Report, "format": format})
	}

	// Exit with appropriate code
	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func finderConfig(cfg *config.Config) finder.Config {
	return finder.Config{
		TraverseWorkers: cfg.Performance.TraverseWorkers,
		MatchWorkers:    cfg.Performance.MatchWorkers,
		Exclude:         cfg.Exclude,
		Sort:            cfg.Output.Sort,
	}
}

// useColor reports whether human output to w should be colorized.
// color.NoColor already honors NO_COLOR and a non-terminal stdout.
func useColor(cfg *config.Config, w io.Writer) bool {
	return cfg.Output.Color && !globalFlags.NoColor && !color.NoColor && output.IsTerminal(w)
}

// commandContext returns the command's context, cancelled on SIGINT
// when run from main
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// createLogger creates a logger based on configuration.
// Without a log file, --verbose logs to stderr at debug level and
// otherwise logging is disabled.
func createLogger(cfg config.LoggingConfig, stderr io.Writer) (logging.Logger, error) {
	if cfg.File == "" && !globalFlags.Verbose {
		return logging.NewNullLogger(), nil
	}

	// Parse log format
	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	level := logging.ParseLevel(cfg.Level)
	if cfg.File == "" {
		level = logging.DebugLevel
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Writer:     stderr,
		Format:     format,
		Level:      level,
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
