package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clonecraft/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect clonecraft's resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "print the resolved configuration (file, defaults, preset, overrides merged)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("base_path:         %s\n", cfg.BasePath)
		fmt.Printf("min_lines:         %d\n", cfg.MinLines)
		fmt.Printf("threshold:         %.2f\n", cfg.Threshold)
		fmt.Printf("enable_lsh:        %v\n", cfg.EnableLSH)
		fmt.Printf("num_bands:         %d\n", cfg.NumBands)
		fmt.Printf("rows_per_band:     %d\n", cfg.RowsPerBand)
		fmt.Printf("max_window_growth: %d\n", cfg.MaxWindowGrowth)
		fmt.Printf("maximal_only:      %v\n", cfg.MaximalOnly)
		fmt.Printf("similarity_weights: lcs=%.2f levenshtein=%.2f structural=%.2f\n",
			cfg.SimilarityWeights.LCS, cfg.SimilarityWeights.Levenshtein, cfg.SimilarityWeights.Structural)
		fmt.Printf("exclude_patterns:  %v\n", cfg.ExcludePatterns)
		if cfg.TargetClass != "" {
			fmt.Printf("target_class:      %s\n", cfg.TargetClass)
		}
		if cfg.Preset != "" {
			fmt.Printf("preset:            %s\n", cfg.Preset)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "validate a configuration file without running a scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		fmt.Println("configuration is valid")
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if basePath != "" {
		cfg.BasePath = basePath
	}
	return cfg, nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configValidateCmd)
}
