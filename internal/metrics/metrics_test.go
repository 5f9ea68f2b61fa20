package metrics_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/metrics"
)

func TestAccumulator_SummarizesAcrossClusters(t *testing.T) {
	acc := metrics.NewAccumulator()
	acc.AddFile()
	acc.AddFile()
	acc.AddCluster(2, 5, 0.9, "EXTRACT_HELPER_METHOD")
	acc.AddCluster(3, 10, 0.8, "EXTRACT_HELPER_METHOD")

	s := acc.Summary()
	assert.Equal(t, 2, s.FileCount)
	assert.Equal(t, 3, s.DuplicateCount)
	assert.Equal(t, 2, s.ClusterCount)
	assert.Equal(t, 15, s.EstimatedLOCReduction)
	assert.InDelta(t, 0.85, s.AverageSimilarity, 1e-9)
	assert.Equal(t, 2, s.StrategyHistogram["EXTRACT_HELPER_METHOD"])
}

func TestSummary_WriteJSONRoundTrips(t *testing.T) {
	s := metrics.Summary{FileCount: 3, ClusterCount: 1, StrategyHistogram: map[string]int{"EXTRACT_HELPER_METHOD": 1}}
	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	var decoded metrics.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, s.FileCount, decoded.FileCount)
	assert.Equal(t, s.StrategyHistogram, decoded.StrategyHistogram)
}

func TestSummary_WriteCSVIncludesHistogramRows(t *testing.T) {
	s := metrics.Summary{
		FileCount:         1,
		AverageSimilarity: 0.9,
		StrategyHistogram: map[string]int{"EXTRACT_HELPER_METHOD": 2, "EXTRACT_PARENT_CLASS": 1},
	}
	var buf bytes.Buffer
	require.NoError(t, s.WriteCSV(&buf))

	out := buf.String()
	assert.Contains(t, out, "strategy:EXTRACT_HELPER_METHOD,2")
	assert.Contains(t, out, "strategy:EXTRACT_PARENT_CLASS,1")
}
