// Package align implements the shared LCS-backtrace alignment spec.md §4.5
// describes for the Variation Tracker, reused by the Similarity Engine's
// structural score (spec.md §4.3) so both components agree on what
// "aligned position i" means.
package align

// OpType classifies one alignment step.
type OpType int

const (
	// OpMatch: a[AIndex] and b[BIndex] are structurally equal (part of the
	// longest common subsequence).
	OpMatch OpType = iota
	// OpSubstitute: a[AIndex] and b[BIndex] are aligned but differ —
	// coalesced from what would otherwise be an adjacent delete+insert
	// pair of the same shape (spec.md §4.5).
	OpSubstitute
	// OpInsert: b[BIndex] has no counterpart in a (AIndex == -1).
	OpInsert
	// OpDelete: a[AIndex] has no counterpart in b (BIndex == -1).
	OpDelete
)

// Op is one step of an alignment between two sequences.
type Op struct {
	Type   OpType
	AIndex int // -1 for OpInsert
	BIndex int // -1 for OpDelete
}

// Compute aligns a against b: positional alignment when they're the same
// length (spec.md §4.5: "positional alignment when lengths match"),
// otherwise an LCS backtrace with matched anchors and the gaps between them
// resolved into substitutions (paired 1:1) and leftover inserts/deletes —
// equivalent to coalescing adjacent delete+insert pairs of the same shape
// into a single substitution.
func Compute[T any](a, b []T, equal func(x, y T) bool) []Op {
	if len(a) == len(b) {
		ops := make([]Op, len(a))
		for i := range a {
			t := OpSubstitute
			if equal(a[i], b[i]) {
				t = OpMatch
			}
			ops[i] = Op{Type: t, AIndex: i, BIndex: i}
		}
		return ops
	}

	matches := lcsMatches(a, b, equal)

	var ops []Op
	prevA, prevB := 0, 0
	for _, m := range matches {
		ops = append(ops, gapOps(prevA, m.ai, prevB, m.bi)...)
		ops = append(ops, Op{Type: OpMatch, AIndex: m.ai, BIndex: m.bi})
		prevA, prevB = m.ai+1, m.bi+1
	}
	ops = append(ops, gapOps(prevA, len(a), prevB, len(b))...)
	return ops
}

// gapOps resolves the unmatched gap a[aStart:aEnd] vs b[bStart:bEnd] into
// paired substitutions plus any leftover insert/delete.
func gapOps(aStart, aEnd, bStart, bEnd int) []Op {
	la, lb := aEnd-aStart, bEnd-bStart
	n := la
	if lb < n {
		n = lb
	}
	var ops []Op
	for i := 0; i < n; i++ {
		ops = append(ops, Op{Type: OpSubstitute, AIndex: aStart + i, BIndex: bStart + i})
	}
	for i := n; i < la; i++ {
		ops = append(ops, Op{Type: OpDelete, AIndex: aStart + i, BIndex: -1})
	}
	for i := n; i < lb; i++ {
		ops = append(ops, Op{Type: OpInsert, AIndex: -1, BIndex: bStart + i})
	}
	return ops
}

type matchPair struct{ ai, bi int }

// lcsMatches returns the matched index pairs of the longest common
// subsequence of a and b under equal, in increasing order.
func lcsMatches[T any](a, b []T, equal func(x, y T) bool) []matchPair {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if equal(a[i], b[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var out []matchPair
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case equal(a[i], b[j]):
			out = append(out, matchPair{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return out
}

// LCSLength returns the length of the longest common subsequence of a and
// b under equal.
func LCSLength[T any](a, b []T, equal func(x, y T) bool) int {
	return len(lcsMatches(a, b, equal))
}
