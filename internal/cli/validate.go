package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirconflict/pkg/config"
	"github.com/sdejongh/dirconflict/pkg/output"
)

// validateFindFlags validates the find command flags. Path contents are
// checked by the finder so that both paths are validated together.
func validateFindFlags() error {
	// Validate output format
	if findFlags.Output != "" {
		validOutputs := map[string]bool{"human": true, "json": true}
		if !validOutputs[findFlags.Output] {
			return fmt.Errorf("invalid output format: %s (valid: human, json)", findFlags.Output)
		}
	}

	// Validate report format
	if findFlags.ReportFormat != "" {
		valid := false
		for _, f := range output.ReportFormats {
			if findFlags.ReportFormat == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid report format: %s (valid: %s)", findFlags.ReportFormat, strings.Join(output.ReportFormats, ", "))
		}
		if findFlags.Report == "" {
			return fmt.Errorf("--report-format requires --report")
		}
	}

	if findFlags.Parallel < 0 {
		return fmt.Errorf("invalid parallel value: %d (must be positive)", findFlags.Parallel)
	}
	if findFlags.MatchWorkers < 0 {
		return fmt.Errorf("invalid match-workers value: %d (must be positive)", findFlags.MatchWorkers)
	}

	return validateLogFlags(findFlags.LogFormat, findFlags.LogLevel)
}

func validateLogFlags(format, level string) error {
	if format != "" && format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", format)
	}

	if level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(level)] {
			return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", level)
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags.
// Recursion flags only override the configuration when given explicitly.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Recursion
	if findFlags.Recursive {
		cfg.Scan.Recursive1 = true
		cfg.Scan.Recursive2 = true
	}
	if flags.Changed("recursive1") {
		cfg.Scan.Recursive1 = findFlags.Recursive1
	}
	if flags.Changed("recursive2") {
		cfg.Scan.Recursive2 = findFlags.Recursive2
	}

	// Concurrency
	if findFlags.Parallel > 0 {
		cfg.Performance.TraverseWorkers = findFlags.Parallel
	}
	if findFlags.MatchWorkers > 0 {
		cfg.Performance.MatchWorkers = findFlags.MatchWorkers
	}

	// Exclude patterns
	if len(findFlags.Exclude) > 0 {
		cfg.Exclude = findFlags.Exclude
	}

	// Output
	if findFlags.Output != "" {
		cfg.Output.Format = findFlags.Output
	}
	if findFlags.NoSort {
		cfg.Output.Sort = false
	}
	if globalFlags.NoColor {
		cfg.Output.Color = false
	}

	// Logging
	if findFlags.LogFile != "" {
		cfg.Logging.File = findFlags.LogFile
	}
	if findFlags.LogFormat != "" {
		cfg.Logging.Format = findFlags.LogFormat
	}
	if findFlags.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(findFlags.LogLevel)
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}
