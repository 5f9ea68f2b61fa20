// Package config loads clonecraft's run configuration (spec.md §6): a TOML
// file layered over built-in defaults, then a named preset ("strict" or
// "lenient") layered on top via mapstructure, the way a host CLI command
// would build its options before constructing the pipeline stages.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	cerrors "clonecraft/internal/errors"
)

// Weights mirrors spec.md §6's similarity_weights block.
type Weights struct {
	LCS         float64 `toml:"lcs"`
	Levenshtein float64 `toml:"levenshtein"`
	Structural  float64 `toml:"structural"`
}

// Config is spec.md §6's recognized option set.
type Config struct {
	BasePath          string   `toml:"base_path"`
	MinLines          int      `toml:"min_lines"`
	Threshold         float64  `toml:"threshold"`
	EnableLSH         bool     `toml:"enable_lsh"`
	NumBands          int      `toml:"num_bands"`
	RowsPerBand       int      `toml:"rows_per_band"`
	MaxWindowGrowth   int      `toml:"max_window_growth"`
	MaximalOnly       bool     `toml:"maximal_only"`
	SimilarityWeights Weights  `toml:"similarity_weights"`
	ExcludePatterns   []string `toml:"exclude_patterns"`
	TargetClass       string   `toml:"target_class"`
	// Preset selects a named override set ("strict"/"lenient") applied
	// after the file is parsed (spec.md §6: "presets strict/lenient that
	// override threshold and min_lines").
	Preset string `toml:"preset"`
}

// DefaultExcludePatterns are the default exclusions (spec.md §6: "default
// set"): test trees, build outputs, VCS metadata.
func DefaultExcludePatterns() []string {
	return []string{
		"**/test/**", "**/tests/**", "**/*Test.java", "**/*Tests.java",
		"**/target/**", "**/build/**", "**/out/**", "**/bin/**",
		"**/.git/**", "**/.hg/**", "**/.svn/**",
	}
}

// Defaults returns the built-in defaults (spec.md §6).
func Defaults() Config {
	return Config{
		MinLines:        5,
		Threshold:       0.75,
		EnableLSH:       true,
		NumBands:        25,
		RowsPerBand:     4,
		MaxWindowGrowth: 5,
		MaximalOnly:     true,
		SimilarityWeights: Weights{
			LCS: 0.4, Levenshtein: 0.3, Structural: 0.3,
		},
		ExcludePatterns: DefaultExcludePatterns(),
	}
}

// presetOverrides are the named presets' field overrides (spec.md §6).
var presetOverrides = map[string]map[string]interface{}{
	"strict": {
		"threshold": 0.85,
		"min_lines": 8,
	},
	"lenient": {
		"threshold": 0.6,
		"min_lines": 3,
	},
}

// Load builds a Config from defaults, an optional TOML file at path, and
// an optional named preset, then validates it. An empty path skips file
// loading (defaults plus any preset still apply).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &cerrors.ConfigurationError{Option: "config_file", Reason: err.Error()}
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, &cerrors.ConfigurationError{Option: "config_file", Reason: err.Error()}
		}
	}

	if err := applyPreset(&cfg); err != nil {
		return nil, err
	}

	// threshold may be given as a percent (spec.md §6: "percent or
	// fraction"); normalize anything above 1 by dividing by 100.
	if cfg.Threshold > 1 {
		cfg.Threshold /= 100
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyPreset(cfg *Config) error {
	if cfg.Preset == "" {
		return nil
	}
	overrides, ok := presetOverrides[cfg.Preset]
	if !ok {
		return &cerrors.ConfigurationError{Option: "preset", Reason: "unknown preset " + cfg.Preset}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "toml",
	})
	if err != nil {
		return &cerrors.ConfigurationError{Option: "preset", Reason: err.Error()}
	}
	if err := decoder.Decode(overrides); err != nil {
		return &cerrors.ConfigurationError{Option: "preset", Reason: err.Error()}
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.BasePath == "" {
		return &cerrors.ConfigurationError{Option: "base_path", Reason: "base_path is required"}
	}
	if cfg.MinLines <= 0 {
		return &cerrors.ConfigurationError{Option: "min_lines", Reason: "must be positive"}
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return &cerrors.ConfigurationError{Option: "threshold", Reason: "must be between 0 and 1 (or 0 and 100 as a percent)"}
	}
	if cfg.NumBands <= 0 {
		return &cerrors.ConfigurationError{Option: "num_bands", Reason: "must be positive"}
	}
	if cfg.RowsPerBand <= 0 {
		return &cerrors.ConfigurationError{Option: "rows_per_band", Reason: "must be positive"}
	}
	if cfg.MaxWindowGrowth < 0 {
		return &cerrors.ConfigurationError{Option: "max_window_growth", Reason: "must not be negative"}
	}
	sum := cfg.SimilarityWeights.LCS + cfg.SimilarityWeights.Levenshtein + cfg.SimilarityWeights.Structural
	if sum <= 0 {
		return &cerrors.ConfigurationError{Option: "similarity_weights", Reason: "weights must sum to a positive value"}
	}
	return nil
}
