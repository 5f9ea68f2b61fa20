// Package main implements the clonecraft CLI: a batch analytic tool that
// scans a source tree for duplicate code and prints ranked refactoring
// recommendations.
//
// # File Index
//
//   - main.go        - entry point, rootCmd, global flags, zap bootstrap
//   - cmd_scan.go    - `clonecraft scan`: runs the full pipeline
//   - cmd_report.go  - `clonecraft report`: metrics export (CSV/JSON)
//   - cmd_config.go  - `clonecraft config show|validate`
//   - cmd_resume.go  - `clonecraft resume show|clear`
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"clonecraft/internal/logging"
)

var (
	verbose    bool
	configPath string
	basePath   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clonecraft",
	Short: "clonecraft finds duplicate code and recommends safe extractions",
	Long: `clonecraft detects duplicate code across a body of source files and
proposes semantics-preserving refactorings that extract each maximal group
of duplicates into a single shared helper, with a safety validator gating
every recommendation it emits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func rootLogger() *logging.Logger {
	if logger == nil {
		return logging.NewNop()
	}
	return logging.New(logger, logging.CategoryCLI)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "clonecraft.toml", "path to a clonecraft TOML config file")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "override the config's base_path")

	rootCmd.AddCommand(scanCmd, reportCmd, configCmd, resumeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
