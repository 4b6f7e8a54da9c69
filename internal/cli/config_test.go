package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("reads values and applies defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cadence.yaml")

		content := `
version: "1"
project: rhwb
database:
  url: postgres://localhost:5432/rhwb
tables:
  comments: custom_comments
pipeline:
  batch_size: 25
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "postgres://localhost:5432/rhwb", cfg.Database.URL)
		assert.Equal(t, "custom_comments", cfg.Tables.Comments)
		assert.Equal(t, 25, cfg.Pipeline.BatchSize)

		// Unset fields fall back to defaults.
		assert.Equal(t, "rhwb_coaches", cfg.Tables.Roster)
		assert.Equal(t, 10, cfg.Database.MaxConnections)
		assert.Equal(t, 300, cfg.Database.StatementTimeoutSeconds)
		assert.Equal(t, 3, cfg.Pipeline.SampleSize)
		assert.Equal(t, ".", cfg.Pipeline.BackupDir)
		assert.Equal(t, 10, cfg.Pipeline.RunTimeoutMinutes)
	})

	t.Run("no config file yields defaults", func(t *testing.T) {
		oldCwd, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(oldCwd)
		require.NoError(t, os.Chdir(t.TempDir()))

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cadence.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tables: ["), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "rhwb_activities_comments", cfg.Tables.Comments)
	assert.Equal(t, "rhwb_coaches", cfg.Tables.Roster)
	assert.Equal(t, 50, cfg.Pipeline.BatchSize)
}
