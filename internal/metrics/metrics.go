// Package metrics implements the metrics exporter external interface
// (spec.md §6): per-run counts and a strategy histogram, emitted as CSV or
// JSON, with a human-readable summary for terminal output.
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
)

// Summary is spec.md §6's metrics set: "file count, duplicate count,
// cluster count, estimated LOC reduction, average similarity, strategy
// histogram".
type Summary struct {
	FileCount             int            `json:"file_count"`
	DuplicateCount        int            `json:"duplicate_count"`
	ClusterCount          int            `json:"cluster_count"`
	EstimatedLOCReduction int            `json:"estimated_loc_reduction"`
	AverageSimilarity     float64        `json:"average_similarity"`
	StrategyHistogram     map[string]int `json:"strategy_histogram"`
}

// WriteJSON emits the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV emits one metric per row as "name,value", with the strategy
// histogram flattened into "strategy:<name>,count" rows, sorted for
// deterministic output.
func (s Summary) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	rows := [][]string{
		{"file_count", fmt.Sprintf("%d", s.FileCount)},
		{"duplicate_count", fmt.Sprintf("%d", s.DuplicateCount)},
		{"cluster_count", fmt.Sprintf("%d", s.ClusterCount)},
		{"estimated_loc_reduction", fmt.Sprintf("%d", s.EstimatedLOCReduction)},
		{"average_similarity", fmt.Sprintf("%.4f", s.AverageSimilarity)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(s.StrategyHistogram))
	for name := range s.StrategyHistogram {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cw.Write([]string{"strategy:" + name, fmt.Sprintf("%d", s.StrategyHistogram[name])}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// String renders every metric on a single terminal-friendly line, using
// humanize for thousands separators; the average similarity is printed as
// a fraction, not a percentage. The strategy histogram is not included.
func (s Summary) String() string {
	return fmt.Sprintf(
		"files=%s duplicates=%s clusters=%s est. LOC reduction=%s avg. similarity=%s",
		humanize.Comma(int64(s.FileCount)),
		humanize.Comma(int64(s.DuplicateCount)),
		humanize.Comma(int64(s.ClusterCount)),
		humanize.Comma(int64(s.EstimatedLOCReduction)),
		humanize.Commaf(s.AverageSimilarity),
	)
}

// Accumulator builds a Summary incrementally as the pipeline processes
// files and clusters.
type Accumulator struct {
	fileCount      int
	duplicateCount int
	clusterCount   int
	locReduction   int
	similaritySum  float64
	similarityN    int
	histogram      map[string]int
}

// NewAccumulator builds an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{histogram: map[string]int{}}
}

// AddFile records one enumerated file.
func (a *Accumulator) AddFile() { a.fileCount++ }

// AddCluster records one reported cluster: its member count (each member
// beyond the primary is a duplicate), its LOC reduction, its average
// pairwise similarity, and the strategy chosen for it.
func (a *Accumulator) AddCluster(memberCount, locReduction int, averageSimilarity float64, strategy string) {
	a.clusterCount++
	if memberCount > 1 {
		a.duplicateCount += memberCount - 1
	}
	a.locReduction += locReduction
	a.similaritySum += averageSimilarity
	a.similarityN++
	a.histogram[strategy]++
}

// Summary produces the final Summary snapshot.
func (a *Accumulator) Summary() Summary {
	avg := 0.0
	if a.similarityN > 0 {
		avg = a.similaritySum / float64(a.similarityN)
	}
	histogram := make(map[string]int, len(a.histogram))
	for k, v := range a.histogram {
		histogram[k] = v
	}
	return Summary{
		FileCount:             a.fileCount,
		DuplicateCount:        a.duplicateCount,
		ClusterCount:          a.clusterCount,
		EstimatedLOCReduction: a.locReduction,
		AverageSimilarity:     avg,
		StrategyHistogram:     histogram,
	}
}
