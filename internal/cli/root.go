package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// GlobalFlags holds the persistent flags shared by every command
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

var globalFlags GlobalFlags

// ExitError carries a process exit code out of a command. Err is nil when
// the code alone is the result (for example 1 when conflicts were found).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand creates the dirconflict command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirconflict",
		Short: "Find files whose names collide between two directory trees",
		Long: `dirconflict scans two directory trees and lists every pair of files,
one from each tree, whose base names match ignoring case, together with the
folder each one lives in. Use it before merging folders or copying onto a
case-insensitive filesystem.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "config file (default is $HOME/.config/dirconflict/config.yaml)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "log progress to stderr at debug level")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-error output; only the exit code reports the result")
	pf.BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewFindCommand())
	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, Version)
				return
			}

			rows := [][2]string{
				{"Commit", Commit},
				{"Built", BuildDate},
				{"Go version", runtime.Version()},
				{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
			}
			fmt.Fprintf(out, "dirconflict %s\n", Version)
			for _, r := range rows {
				fmt.Fprintf(out, "  %-11s %s\n", r[0]+":", r[1])
			}
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
