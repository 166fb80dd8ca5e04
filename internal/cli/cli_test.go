package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirconflict/pkg/config"
	"github.com/sdejongh/dirconflict/pkg/models"
	"github.com/sdejongh/dirconflict/pkg/output"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
}

// twoTrees creates a/report.TXT, a/sub/x.txt, a/only.txt and
// b/Report.txt, b/x.txt
func twoTrees(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	a, b := filepath.Join(base, "a"), filepath.Join(base, "b")
	writeFiles(t, a, "report.TXT", "sub/x.txt", "only.txt")
	writeFiles(t, b, "Report.txt", "x.txt")
	return a, b
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	return exitErr.Code
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "dirconflict", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"find", "scan", "config", "version"})
}

func TestFindReportsConflicts(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b)
	assert.Equal(t, 1, exitCode(t, err))

	assert.Contains(t, stdout, "File Name")
	assert.Contains(t, stdout, "report.TXT")
	assert.Contains(t, stdout, filepath.ToSlash(a)+"/")
	assert.Contains(t, stdout, "Number of conflicts: 1")
	assert.Contains(t, stdout, " seconds\n")
	assert.NotContains(t, stdout, "x.txt")
}

func TestFindRecursive(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b, "-r")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Number of conflicts: 2")
	assert.Contains(t, stdout, filepath.ToSlash(filepath.Join(a, "sub"))+"/")
}

func TestFindRecursivePerSide(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b, "--recursive2")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Number of conflicts: 1")

	stdout, _, err = execute(t, "find", "--path1", a, "--path2", b, "--recursive1")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Number of conflicts: 2")
}

func TestFindNoConflicts(t *testing.T) {
	base := t.TempDir()
	writeFiles(t, base, "a/one.txt", "b/two.txt")

	stdout, _, err := execute(t, "find", "--path1", filepath.Join(base, "a"), "--path2", filepath.Join(base, "b"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of conflicts: 0")
}

func TestFindMissingRoot(t *testing.T) {
	a, _ := twoTrees(t)
	missing := filepath.Join(t.TempDir(), "missing")

	_, _, err := execute(t, "find", "--path1", a, "--path2", missing)
	assert.Equal(t, 2, exitCode(t, err))

	var rootErr *models.RootError
	require.True(t, errors.As(err, &rootErr))
	assert.Equal(t, models.SideTwo, rootErr.Side)
}

func TestFindEmptyPath(t *testing.T) {
	_, b := twoTrees(t)

	_, _, err := execute(t, "find", "--path1", "", "--path2", b)
	assert.Equal(t, 2, exitCode(t, err))
	assert.True(t, errors.Is(err, models.ErrInvalidPath))
}

func TestFindRequiresBothPaths(t *testing.T) {
	_, _, err := execute(t, "find", "--path1", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path2")
}

func TestFindJSONOutput(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b, "-r", "-o", "json")
	assert.Equal(t, 1, exitCode(t, err))

	var got output.JSONReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "success", got.Status)
	require.Len(t, got.Conflicts, 2)
	assert.Equal(t, "report.TXT", got.Conflicts[0].Name)
	assert.Equal(t, filepath.ToSlash(b)+"/", got.Conflicts[0].Folder2)
	assert.Equal(t, "x.txt", got.Conflicts[1].Name)
	assert.Equal(t, 3, got.Stats.Files1)
}

func TestFindJSONOutputOnFailure(t *testing.T) {
	a, _ := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", filepath.Join(t.TempDir(), "missing"), "-o", "json")
	assert.Equal(t, 2, exitCode(t, err))

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "failed", got["status"])
	assert.Contains(t, got["error"], "path2")
}

func TestFindWritesReport(t *testing.T) {
	a, b := twoTrees(t)
	reportPath := filepath.Join(t.TempDir(), "conflicts.csv")

	_, _, err := execute(t, "find", "--path1", a, "--path2", b, "--report", reportPath)
	assert.Equal(t, 1, exitCode(t, err))

	f, err := os.Open(reportPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"File Name", "Folder 1", "Folder 2"}, records[0])
	assert.Equal(t, "report.TXT", records[1][0])
}

func TestFindReportFormatOverridesExtension(t *testing.T) {
	a, b := twoTrees(t)
	reportPath := filepath.Join(t.TempDir(), "conflicts.out")

	_, _, err := execute(t, "find", "--path1", a, "--path2", b, "--report", reportPath, "--report-format", "html")
	assert.Equal(t, 1, exitCode(t, err))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<td>report.TXT</td>")
}

func TestFindQuiet(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b, "-q")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, stdout)
}

func TestFindExclude(t *testing.T) {
	a, b := twoTrees(t)

	stdout, _, err := execute(t, "find", "--path1", a, "--path2", b, "-r", "--exclude", "sub/")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Number of conflicts: 1")
}

func TestFindVerboseLogsToStderr(t *testing.T) {
	a, b := twoTrees(t)

	_, stderr, err := execute(t, "find", "--path1", a, "--path2", b, "-v")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stderr, "Starting conflict search")
	assert.Contains(t, stderr, "Conflict search completed")
}

func TestFindLogFile(t *testing.T) {
	a, b := twoTrees(t)
	logPath := filepath.Join(t.TempDir(), "logs", "find.log")

	_, stderr, err := execute(t, "find", "--path1", a, "--path2", b, "--log-file", logPath, "--log-format", "json")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
}

func TestFindInvalidFlags(t *testing.T) {
	a, b := twoTrees(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Output", []string{"-o", "xml"}, "invalid output format"},
		{"ReportFormat", []string{"--report", "r.txt", "--report-format", "pdf"}, "invalid report format"},
		{"ReportFormatWithoutReport", []string{"--report-format", "csv"}, "requires --report"},
		{"Parallel", []string{"--parallel", "-1"}, "invalid parallel"},
		{"LogFormat", []string{"--log-format", "xml"}, "invalid log format"},
		{"LogLevel", []string{"--log-level", "loud"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"find", "--path1", a, "--path2", b}, tt.args...)
			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindUsesConfigFile(t *testing.T) {
	a, b := twoTrees(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scan:\n  recursive1: true\noutput:\n  format: json\n"), 0644))

	stdout, _, err := execute(t, "--config", cfgPath, "find", "--path1", a, "--path2", b)
	assert.Equal(t, 1, exitCode(t, err))

	var got output.JSONReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.Path1.Recursive)
	assert.False(t, got.Path2.Recursive)
	assert.Len(t, got.Conflicts, 2)
}

func TestFindFlagOverridesConfigRecursion(t *testing.T) {
	a, b := twoTrees(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scan:\n  recursive1: true\n"), 0644))

	stdout, _, err := execute(t, "--config", cfgPath, "find", "--path1", a, "--path2", b, "--recursive1=false")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stdout, "Number of conflicts: 1")
}

func TestScanCommand(t *testing.T) {
	a, _ := twoTrees(t)

	stdout, stderr, err := execute(t, "scan", "--path", a)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(a, "only.txt"),
		filepath.Join(a, "report.TXT"),
	}, strings.Split(strings.TrimSpace(stdout), "\n"))
	assert.Contains(t, stderr, "2 files in 1 directories")

	stdout, _, err = execute(t, "scan", "--path", a, "-r", "-o", "json")
	require.NoError(t, err)

	var got scanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Len(t, got.Files, 3)
	assert.Equal(t, 2, got.Dirs)
}

func TestScanMissingPath(t *testing.T) {
	_, _, err := execute(t, "scan", "--path", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 2, exitCode(t, err))
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, err := execute(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, cfgPath)
	assert.FileExists(t, cfgPath)

	_, _, err = execute(t, "--config", cfgPath, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "--config", cfgPath, "config", "init", "--force")
	require.NoError(t, err)

	stdout, _, err = execute(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "traverse_workers: 64")
	assert.Contains(t, stdout, "format: human")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dirconflict "+Version)
	assert.Contains(t, stdout, "Go version:")
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())

	inner := errors.New("boom")
	err := &ExitError{Code: 2, Err: inner}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestScanQuietSuppressesOutput(t *testing.T) {
	a, _ := twoTrees(t)

	for _, format := range []string{"human", "json"} {
		t.Run(format, func(t *testing.T) {
			stdout, stderr, err := execute(t, "scan", "--path", a, "-r", "-o", format, "-q")
			require.NoError(t, err)
			assert.Empty(t, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestFindCancelledJSONReportsStatus(t *testing.T) {
	a, b := twoTrees(t)
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"find", "--path1", a, "--path2", b, "-o", "json"})

	err := cmd.ExecuteContext(ctx)
	assert.Equal(t, 3, exitCode(t, err))
	assert.ErrorIs(t, err, context.Canceled)

	var got map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "cancelled", got["status"])
	assert.NotEmpty(t, got["operation_id"])
}
