package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirconflict/pkg/finder"
	"github.com/sdejongh/dirconflict/pkg/models"
	"github.com/sdejongh/dirconflict/pkg/output"
	"github.com/sdejongh/dirconflict/pkg/storage"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Path      string
	Recursive bool
	Exclude   []string
	Output    string
}

var scanFlags ScanFlags

// scanResult is the JSON shape of the scan command output
type scanResult struct {
	Path      string               `json:"path"`
	Recursive bool                 `json:"recursive"`
	Dirs      int                  `json:"dirs"`
	Files     []string             `json:"files"`
	Skipped   []output.JSONWarning `json:"skipped,omitempty"`
}

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the files found under one folder",
		Long: `List the files that find would compare for a single folder, one path
per line. Unreadable subfolders are reported on stderr and skipped.`,
		Args: cobra.NoArgs,
		RunE: runScan,
	}

	cmd.Flags().StringVar(&scanFlags.Path, "path", "", "folder to scan (required)")
	cmd.MarkFlagRequired("path")
	cmd.Flags().BoolVarP(&scanFlags.Recursive, "recursive", "r", false, "include subfolders")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", []string{}, "glob patterns to exclude (suffix / for directories)")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "human", "output format: human, json")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if scanFlags.Output != "human" && scanFlags.Output != "json" {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", scanFlags.Output)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(scanFlags.Exclude) > 0 {
		cfg.Exclude = scanFlags.Exclude
	}

	logger, err := createLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	backend := storage.NewLocal()
	defer backend.Close()

	f := finder.New(backend, finderConfig(cfg), logger, nil)
	req := models.NewScanRequest(scanFlags.Path, scanFlags.Recursive)

	res, err := f.ScanDetailed(ctx, req)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	// JSON carries skipped subtrees in the document itself
	if scanFlags.Output != "json" || globalFlags.Quiet {
		for _, s := range res.Skipped {
			fmt.Fprintf(stderr, "Warning: %v\n", s)
		}
	}
	if globalFlags.Quiet {
		return nil
	}

	if scanFlags.Output == "json" {
		out := scanResult{
			Path:      req.RootPath,
			Recursive: req.Recursive,
			Dirs:      res.Dirs,
			Files:     make([]string, 0, len(res.Files)),
		}
		for _, file := range res.Files {
			out.Files = append(out.Files, file.Path())
		}
		for _, s := range res.Skipped {
			out.Skipped = append(out.Skipped, output.JSONWarning{Side: models.SideOne.String(), Path: s.Path, Error: s.Err.Error()})
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, file := range res.Files {
		fmt.Fprintln(stdout, file.Path())
	}
	fmt.Fprintf(stderr, "%d files in %d directories\n", len(res.Files), res.Dirs)
	return nil
}
