package pipeline_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/pipeline"
)

func TestResumeState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")

	state, err := pipeline.LoadResumeState(path)
	require.NoError(t, err)
	assert.Empty(t, state.Entries)

	state = state.WithApplied("cluster-1", "applied")
	require.NoError(t, state.Save(path))

	reloaded, err := pipeline.LoadResumeState(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Applied("cluster-1"))
	assert.False(t, reloaded.Applied("cluster-2"))
}

func TestResumeState_WithAppliedReplacesExistingEntry(t *testing.T) {
	state := pipeline.ResumeState{}.WithApplied("cluster-1", "applied").WithApplied("cluster-1", "skipped")
	require.Len(t, state.Entries, 1)
	assert.Equal(t, "skipped", state.Entries[0].Result)
}
