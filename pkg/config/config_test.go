package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirconflict/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.Performance.TraverseWorkers)
	assert.True(t, cfg.Output.Sort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"TraverseWorkers", func(c *Config) { c.Performance.TraverseWorkers = 0 }, "performance.traverse_workers"},
		{"MatchWorkers", func(c *Config) { c.Performance.MatchWorkers = -1 }, "performance.match_workers"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var ve *models.ValidationError
			require.ErrorAs(t, cfg.Validate(), &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
scan:
  recursive1: true
performance:
  match_workers: 8
exclude:
  - "*.tmp"
  - ".git/"
`))
	require.NoError(t, err)

	assert.True(t, cfg.Scan.Recursive1)
	assert.False(t, cfg.Scan.Recursive2)
	assert.Equal(t, 8, cfg.Performance.MatchWorkers)
	assert.Equal(t, 64, cfg.Performance.TraverseWorkers, "unset keys keep their default")
	assert.Equal(t, []string{"*.tmp", ".git/"}, cfg.Exclude)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("performance:\n  traverse_wrokers: 4\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse(strings.NewReader("output:\n  format: xml\n"))
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scan.Recursive2 = true
	cfg.Exclude = []string{"node_modules/"}

	require.NoError(t, SaveToFile(cfg, path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), fileHeader))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	assert.ErrorContains(t, SaveToFile(cfg, path, false), "already exists")
	assert.NoError(t, SaveToFile(cfg, path, true))
}

func TestLoadDefaultHonorsEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "missing file falls back to defaults")

	require.NoError(t, os.WriteFile(path, []byte("output:\n  sort: false\n"), 0644))
	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.False(t, cfg.Output.Sort)
}
