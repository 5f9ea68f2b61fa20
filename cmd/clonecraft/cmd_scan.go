package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/config"
	"clonecraft/internal/enumerate"
	"clonecraft/internal/logging"
	"clonecraft/internal/pipeline"
)

// parseFile converts one enumerated source file into a parsed compilation
// unit. clonecraft defines the astmodel.CompilationUnit contract but ships
// no parser of its own; an integration embedding clonecraft as a library
// sets this before `scan` runs. The CLI reports a clear configuration error
// rather than panicking when it is left unset.
var parseFile func(path string) (astmodel.CompilationUnit, error)

var errNoParser = fmt.Errorf("no parser wired: clonecraft defines the compilation-unit contract " +
	"but ships no Java/source parser; embed clonecraft as a library and set a parser before scanning")

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run the full duplicate-detection pipeline and print a ranked cluster report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if parseFile == nil {
			return errNoParser
		}

		report, err := runScan(*cfg, rootLogger())
		if err != nil {
			return err
		}

		printReport(report)
		return nil
	},
}

// runScan enumerates cfg.BasePath, parses every file via parseFile, and
// runs the pipeline, shared by `scan` and `report`.
func runScan(cfg config.Config, log *logging.Logger) (pipeline.Report, error) {
	enumerator := enumerate.New(log)
	paths, err := enumerator.Enumerate(cfg.BasePath, nil, cfg.ExcludePatterns)
	if err != nil {
		return pipeline.Report{}, fmt.Errorf("enumerating %s: %w", cfg.BasePath, err)
	}

	units := make([]astmodel.CompilationUnit, 0, len(paths))
	for _, path := range paths {
		unit, err := parseFile(path)
		if err != nil {
			log.Warn("skipping unparsable file")
			continue
		}
		units = append(units, unit)
	}

	p := pipeline.New(pipeline.Options{Config: cfg, Log: log})
	return p.Run(context.Background(), units)
}

func printReport(report pipeline.Report) {
	fmt.Printf("run %s: %d cluster(s)\n", report.RunID, len(report.Clusters))
	for _, cr := range report.Clusters {
		if cr.Skipped {
			fmt.Printf("  [skipped] %s (%d members) -- ", cr.ID, len(cr.Cluster.Members))
			for _, issue := range cr.Issues {
				fmt.Printf("%s; ", issue.Message)
			}
			fmt.Println()
			continue
		}
		fmt.Printf("  %s %s -> %s (confidence %.2f, est. %d lines saved)\n",
			cr.ID, cr.Recommendation.Strategy, cr.Recommendation.Name,
			cr.Recommendation.Confidence, cr.Recommendation.EstimatedLinesSaved)
	}
	fmt.Println(report.Metrics.String())
}
