// Package similarity implements the Similarity Engine (spec.md §4.3) and
// the optional LSH pre-filter (spec.md §4.4).
package similarity

import (
	"clonecraft/internal/align"
	"clonecraft/internal/token"
)

// Weights are the configurable combination weights (spec.md §6
// similarity_weights, defaults lcs=0.4, levenshtein=0.3, structural=0.3).
type Weights struct {
	LCS         float64
	Levenshtein float64
	Structural  float64
}

// DefaultWeights matches spec.md §6/§4.3 defaults.
func DefaultWeights() Weights {
	return Weights{LCS: 0.4, Levenshtein: 0.3, Structural: 0.3}
}

// Options configures the engine (spec.md §6: threshold default 0.75,
// min_lines default 5).
type Options struct {
	Weights   Weights
	Threshold float64
	MinLines  int
}

// DefaultOptions matches spec.md §6 defaults.
func DefaultOptions() Options {
	return Options{Weights: DefaultWeights(), Threshold: 0.75, MinLines: 5}
}

// Result holds the three per-metric scores and the weighted overall score
// for one pair, plus the alignment ops the structural score was computed
// from (spec.md §3 SimilarityPair). The Variation Tracker computes its own
// alignment and does not read these.
type Result struct {
	LCSScore        float64
	LevenshteinScore float64
	StructuralScore float64
	Overall         float64
	Alignment       []align.Op
}

// Engine is the Similarity Engine.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Score computes the three metrics over two normalized token sequences and
// combines them by opts.Weights.
func (e *Engine) Score(a, b []token.Token) Result {
	aTags := tagsOf(a)
	bTags := tagsOf(b)

	equalTag := func(x, y string) bool { return x == y }
	ops := align.Compute(aTags, bTags, equalTag)

	lcsLen := align.LCSLength(aTags, bTags, equalTag)
	maxLen := len(aTags)
	if len(bTags) > maxLen {
		maxLen = len(bTags)
	}
	var lcsRatio float64 = 1.0
	if maxLen > 0 {
		lcsRatio = float64(lcsLen) / float64(maxLen)
	}

	editScore := normalizedEditDistance(aTags, bTags)

	structScore := structuralScore(ops, maxLen)

	w := e.opts.Weights
	overall := w.LCS*lcsRatio + w.Levenshtein*editScore + w.Structural*structScore

	return Result{
		LCSScore:         lcsRatio,
		LevenshteinScore: editScore,
		StructuralScore:  structScore,
		Overall:          overall,
		Alignment:        ops,
	}
}

// Retained reports whether a pair clears the engine's acceptance bar:
// combined score >= threshold and both sides have >= MinLines statements
// (spec.md §4.3). numStatementsA/B are statement counts, not token counts.
func (e *Engine) Retained(result Result, numStatementsA, numStatementsB int) bool {
	if numStatementsA < e.opts.MinLines || numStatementsB < e.opts.MinLines {
		return false
	}
	return result.Overall >= e.opts.Threshold
}

func tagsOf(toks []token.Token) []string {
	tags := make([]string, len(toks))
	for i, t := range toks {
		tags[i] = t.NormalizedTag
	}
	return tags
}

// structuralScore counts the fraction of aligned positions (out of maxLen)
// where both sides are present — i.e. not a pure insert/delete — as a
// coarser complement to the exact-tag LCS ratio (spec.md §4.3:
// "ratio of nodes whose AST kinds match position-by-position under LCS
// alignment"). Substitutions still count as "matching position" structure
// when they sit at an aligned slot; only unmatched inserts/deletes do not.
func structuralScore(ops []align.Op, maxLen int) float64 {
	if maxLen == 0 {
		return 1.0
	}
	aligned := 0
	for _, op := range ops {
		if op.Type == align.OpMatch || op.Type == align.OpSubstitute {
			aligned++
		}
	}
	return float64(aligned) / float64(maxLen)
}
