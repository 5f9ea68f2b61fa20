// Package cluster implements the Clusterer (spec.md §4.8): an undirected
// graph over candidate sequences, connected via above-threshold similarity
// edges, whose connected components of size >= 2 become duplicate clusters.
package cluster

import (
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
)

// Cluster is one connected component of size >= 2 (spec.md §3 DuplicateCluster).
type Cluster struct {
	// Members are every sequence in the component, sorted lexicographically
	// (file path, start line, start column) per spec.md §3/§5.
	Members []extract.Sequence
	// Primary is Members[0]: the lexicographically earliest sequence.
	Primary extract.Sequence
	// LOCReduction is the estimated lines-of-code reduction from extracting
	// this cluster (spec.md §4.8).
	LOCReduction int
}

// Clusterer is the Clusterer.
type Clusterer struct {
	log *logging.Logger
}

// New builds a Clusterer. A nil logger is replaced with a no-op one.
func New(log *logging.Logger) *Clusterer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Clusterer{log: log.For(logging.CategoryCluster)}
}

// Cluster groups seqs into connected components using isEdge(i, j) as the
// adjacency predicate (typically "pair score >= threshold" after any LSH
// pre-filtering the caller already applied), and returns clusters sorted by
// LOCReduction descending (spec.md §4.8).
func (c *Clusterer) Cluster(seqs []extract.Sequence, isEdge func(i, j int) bool) []Cluster {
	n := len(seqs)
	if n == 0 {
		return nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if isEdge(i, j) {
				union(i, j)
			}
		}
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	byRoot := lo.GroupBy(indices, find)

	var clusters []Cluster
	for _, indices := range byRoot {
		if len(indices) < 2 {
			continue
		}
		members := make([]extract.Sequence, len(indices))
		for k, idx := range indices {
			members[k] = seqs[idx]
		}
		sort.Slice(members, func(a, b int) bool { return extract.Less(members[a], members[b]) })
		clusters = append(clusters, Cluster{
			Members:      members,
			Primary:      members[0],
			LOCReduction: locReduction(members),
		})
	}

	sort.Slice(clusters, func(a, b int) bool {
		if clusters[a].LOCReduction != clusters[b].LOCReduction {
			return clusters[a].LOCReduction > clusters[b].LOCReduction
		}
		return extract.Less(clusters[a].Primary, clusters[b].Primary)
	})

	c.log.Debug("clustered candidate sequences", zap.Int("clusters", len(clusters)))
	return clusters
}

// locReduction estimates spec.md §4.8's "Σ(duplicate.size) − (members − 1)
// − 1": the total statement count across every member, less one line per
// call site the extraction leaves behind, less one for the helper
// declaration itself.
func locReduction(members []extract.Sequence) int {
	total := 0
	for _, m := range members {
		total += m.Len()
	}
	reduction := total - (len(members) - 1) - 1
	if reduction < 0 {
		reduction = 0
	}
	return reduction
}
