// Package truncate implements the Sequence Truncator (spec.md §4.9): it
// computes the largest prefix length k such that extracting the first k
// top-level statements is safe for every member of a cluster, applying each
// safety rule in turn and only ever lowering k.
package truncate

import (
	"clonecraft/internal/astmodel"
	"clonecraft/internal/dataflow"
	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
	"clonecraft/internal/token"
	"clonecraft/internal/variation"
)

// Result is spec.md §4.9's (k, optionalPrimaryReturnVariable).
type Result struct {
	K                 int
	ReturnVariable    string
	HasReturnVariable bool
}

// Truncate computes Result for primary against its cluster duplicates,
// given the cluster-wide merged variation Analysis (spec.md §4.5) keyed to
// primary's aligned token positions.
func Truncate(n *token.Normalizer, primary extract.Sequence, duplicates []extract.Sequence, merged variation.Analysis, log *logging.Logger) Result {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.For(logging.CategoryTruncate)

	all := append([]extract.Sequence{primary}, duplicates...)

	k := primary.Len()
	for _, m := range all {
		if m.Len() < k {
			k = m.Len()
		}
	}

	k = applyStructuralCompatibility(primary, duplicates, k)
	k = applyNestedReturnSafety(all, k)
	k = applySingleLiveOut(all, k)

	_, stmtIndexOf := tokensByStatement(n, primary.Statements)
	facts := dataflow.Analyze(primary.Statements)
	k = applyVariationForcing(merged, facts, primary, stmtIndexOf, k)

	res := Result{K: k}
	if k > 0 && k <= len(primary.Statements) {
		prefix := primary.WithStatements(primary.Statements[:k], 0)
		prefixFacts := dataflow.Analyze(prefix.Statements)
		liveOut := dataflow.LiveOut(prefixFacts, primary.Container, prefix)
		if name, ok := dataflow.FindReturnVariable(prefixFacts, liveOut, nil, nil); ok {
			res.ReturnVariable = name
			res.HasReturnVariable = true
		}
	}

	log.Debug("truncation computed")
	return res
}

// applyStructuralCompatibility lowers k to the first index at which the
// primary and some duplicate's statements diverge structurally: differing
// AST node kinds, differing method-call callee names, or differing child
// shape recursively (spec.md §4.9).
func applyStructuralCompatibility(primary extract.Sequence, duplicates []extract.Sequence, k int) int {
	for i := 0; i < k; i++ {
		for _, d := range duplicates {
			if i >= len(d.Statements) {
				return i
			}
			if !structurallyCompatible(primary.Statements[i], d.Statements[i]) {
				return i
			}
		}
	}
	return k
}

func structurallyCompatible(a, b astmodel.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == astmodel.KindMethodCallExpr && a.Text() != b.Text() {
		return false
	}
	ac, bc := a.Children(), b.Children()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !structurallyCompatible(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// applyNestedReturnSafety lowers k to the index of the first statement, in
// any member's first-k prefix, that contains a return statement below its
// own top level (spec.md §4.9).
func applyNestedReturnSafety(members []extract.Sequence, k int) int {
	for _, m := range members {
		limit := k
		if len(m.Statements) < limit {
			limit = len(m.Statements)
		}
		for i := 0; i < limit; i++ {
			if hasNestedReturn(m.Statements[i]) {
				if i < k {
					k = i
				}
				break
			}
		}
	}
	return k
}

func hasNestedReturn(stmt astmodel.Node) bool {
	for _, c := range stmt.Children() {
		if containsReturn(c) {
			return true
		}
	}
	return false
}

func containsReturn(n astmodel.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind() == astmodel.KindReturnStmt {
		return true
	}
	for _, c := range n.Children() {
		if containsReturn(c) {
			return true
		}
	}
	return false
}

// applySingleLiveOut shrinks k until every member's k-prefix has at most
// one live-out variable (spec.md §4.9).
func applySingleLiveOut(members []extract.Sequence, k int) int {
	for k > 0 && !allSingleLiveOut(members, k) {
		k--
	}
	return k
}

func allSingleLiveOut(members []extract.Sequence, k int) bool {
	for _, m := range members {
		if k > len(m.Statements) {
			return false
		}
		prefix := m.WithStatements(m.Statements[:k], 0)
		f := dataflow.Analyze(prefix.Statements)
		lo := dataflow.LiveOut(f, m.Container, prefix)
		if len(lo) > 1 {
			return false
		}
	}
	return true
}

// applyVariationForcing lowers k to the statement index of any variation
// that references an internal (nested-scope) variable, or whose type
// resolves to the universal type and sits inside a return statement
// (spec.md §4.9).
func applyVariationForcing(merged variation.Analysis, facts dataflow.Facts, primary extract.Sequence, stmtIndexOf []int, k int) int {
	for _, v := range merged.Variations {
		if v.PrimaryIndex < 0 || v.PrimaryIndex >= len(stmtIndexOf) {
			continue
		}
		stmtIdx := stmtIndexOf[v.PrimaryIndex]
		if stmtIdx >= k {
			continue
		}

		if v.Kind == variation.KindVariable && (facts.InternalVars[v.PrimaryValue] || facts.InternalVars[v.OtherValue]) {
			if stmtIdx < k {
				k = stmtIdx
			}
			continue
		}

		if v.InferredType != nil && v.InferredType.IsUniversal() && stmtIdx < len(primary.Statements) &&
			primary.Statements[stmtIdx].Kind() == astmodel.KindReturnStmt {
			if stmtIdx < k {
				k = stmtIdx
			}
		}
	}
	return k
}

// tokensByStatement normalizes stmts one at a time (rather than all at once
// via Normalizer.NormalizeStatements) so each resulting token can be traced
// back to the top-level statement index it came from.
func tokensByStatement(n *token.Normalizer, stmts []astmodel.Statement) ([]token.Token, []int) {
	var tokens []token.Token
	var stmtIndexOf []int
	for i, s := range stmts {
		ts := n.NormalizeNode(s)
		tokens = append(tokens, ts...)
		for range ts {
			stmtIndexOf = append(stmtIndexOf, i)
		}
	}
	return tokens, stmtIndexOf
}
