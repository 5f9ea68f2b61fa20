package main

import (
	"os"

	"github.com/spf13/cobra"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "run a scan and print only the metrics exporter's summary",
	Long: `report re-runs the pipeline the same way scan does and emits only the
aggregate metrics (file count, duplicate count, cluster count, estimated LOC
reduction, average similarity, strategy histogram) as CSV, JSON, or a
human-readable one-line summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if parseFile == nil {
			return errNoParser
		}

		log := rootLogger()
		report, err := runScan(*cfg, log)
		if err != nil {
			return err
		}

		switch reportFormat {
		case "json":
			return report.Metrics.WriteJSON(os.Stdout)
		case "csv":
			return report.Metrics.WriteCSV(os.Stdout)
		default:
			_, err := os.Stdout.WriteString(report.Metrics.String() + "\n")
			return err
		}
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text, csv, or json")
}
