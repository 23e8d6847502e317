package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that no file and no env yields the stock
// tuning.
func TestLoad_Defaults(t *testing.T) {
	tuning, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), tuning)
}

// TestLoad_MissingFileIsFine tests that a nonexistent path falls back
// to defaults instead of failing.
func TestLoad_MissingFileIsFine(t *testing.T) {
	tuning, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), tuning)
}

// TestLoad_FileOverrides tests partial YAML overrides: named fields
// move, the rest keep their defaults.
func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"throttle_window: 250ms\nmin_effect: 0.2\nrare_tag_min_logs: 5\n",
	), 0o644))

	tuning, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, tuning.ThrottleWindow)
	assert.Equal(t, 0.2, tuning.MinEffect)
	assert.Equal(t, 5, tuning.RareTagMinLogs)
	assert.Equal(t, Default().MinDatasetRows, tuning.MinDatasetRows)
	assert.Equal(t, Default().MinSampleSize, tuning.MinSampleSize)
}

// TestLoad_EnvOverridesFile tests precedence: LAB_* wins over the file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_sample_size: 8\n"), 0o644))
	t.Setenv("LAB_MIN_SAMPLE_SIZE", "12")
	t.Setenv("LAB_MIN_EFFECT", "0.05")

	tuning, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, tuning.MinSampleSize)
	assert.Equal(t, 0.05, tuning.MinEffect)
}

// TestLoad_RejectsInvalid tests that out-of-range values fail loudly.
func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rare_tag_min_share: 1.5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rare_tag_min_share")
}

// TestTuning_Validate tests the individual range checks.
func TestTuning_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	bad := Default()
	bad.ThrottleWindow = -time.Second
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.MinEffect = -0.1
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.MinDatasetRows = -1
	assert.Error(t, bad.Validate())
}
