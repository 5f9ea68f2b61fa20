package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clonecraft/internal/similarity"
)

func TestLSH_IdenticalSignaturesShareBuckets(t *testing.T) {
	opts := similarity.DefaultLSHOptions()
	tagsA := []string{"METHOD_CALL", "VAR", "STRING_LIT", "METHOD_CALL", "VAR"}
	tagsB := tagsA

	sigA := similarity.Signature(tagsA, opts)
	sigB := similarity.Signature(tagsB, opts)

	idx := similarity.NewIndex(opts)
	idx.Add(1, sigA)
	idx.Add(2, sigB)

	candidates := idx.CandidatesFor(sigA, 1)
	assert.Contains(t, candidates, 2)
}

func TestLSH_DissimilarSequencesUsuallyDontShareBuckets(t *testing.T) {
	opts := similarity.DefaultLSHOptions()
	a := []string{"METHOD_CALL", "VAR", "STRING_LIT", "METHOD_CALL", "VAR"}
	b := []string{"CONTROL_FLOW(if)", "CONTROL_FLOW(while)", "INT_LIT", "OPERATOR"}

	sigA := similarity.Signature(a, opts)
	sigB := similarity.Signature(b, opts)

	idx := similarity.NewIndex(opts)
	idx.Add(1, sigA)

	candidates := idx.CandidatesFor(sigB, -1)
	assert.Empty(t, candidates)
}
