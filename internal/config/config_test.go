package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "clonecraft/internal/errors"

	"clonecraft/internal/config"
)

func writeToml(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clonecraft.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingBasePathIsConfigurationError(t *testing.T) {
	path := writeToml(t, `min_lines = 5`)
	_, err := config.Load(path)
	require.Error(t, err)
	var cfgErr *cerrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "base_path", cfgErr.Option)
}

func TestLoad_DefaultsPreservedWhenFileOmitsFields(t *testing.T) {
	path := writeToml(t, `base_path = "/src"`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/src", cfg.BasePath)
	assert.Equal(t, 5, cfg.MinLines)
	assert.InDelta(t, 0.75, cfg.Threshold, 1e-9)
	assert.True(t, cfg.EnableLSH)
	assert.Equal(t, 25, cfg.NumBands)
}

func TestLoad_StrictPresetOverridesThresholdAndMinLines(t *testing.T) {
	path := writeToml(t, "base_path = \"/src\"\npreset = \"strict\"\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, cfg.Threshold, 1e-9)
	assert.Equal(t, 8, cfg.MinLines)
}

func TestLoad_ThresholdGivenAsPercentIsNormalized(t *testing.T) {
	path := writeToml(t, "base_path = \"/src\"\nthreshold = 90\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, cfg.Threshold, 1e-9)
}

func TestLoad_InvalidNumericOptionIsConfigurationError(t *testing.T) {
	path := writeToml(t, "base_path = \"/src\"\nnum_bands = 0\n")
	_, err := config.Load(path)
	require.Error(t, err)
	var cfgErr *cerrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "num_bands", cfgErr.Option)
}

func TestLoad_UnknownPresetIsConfigurationError(t *testing.T) {
	path := writeToml(t, "base_path = \"/src\"\npreset = \"aggressive\"\n")
	_, err := config.Load(path)
	require.Error(t, err)
}
