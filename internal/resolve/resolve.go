// Package resolve implements the Parameter & Return Resolver (spec.md
// §4.10): given the aggregated variations and the (possibly truncated)
// primary sequence, it produces the extracted helper's parameter list and
// return-type decision.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/dataflow"
	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
	"clonecraft/internal/truncate"
	"clonecraft/internal/variation"
)

// ParameterSpec is spec.md §3's ParameterSpec.
type ParameterSpec struct {
	Name string
	Type astmodel.TypeRef
	// ExampleValues holds the raw value seen in each sequence, keyed by the
	// variation tracker's SequenceID.
	ExampleValues map[variation.SequenceID]string
	// VariationIndex is the aligned primary-token index this parameter came
	// from, or -1 for a captured variable.
	VariationIndex int
	Site           astmodel.Range
}

// ReturnTypeResult is spec.md §3's ReturnTypeResult.
type ReturnTypeResult struct {
	Type              astmodel.TypeRef
	ReturnVariable    string
	HasReturnVariable bool
}

var excludedNames = map[string]bool{"this": true, "super": true}

// Resolve runs the full parameter/return resolution for one cluster: k is
// the Sequence Truncator's chosen prefix length, merged is the cluster-wide
// Variation Analysis keyed to the (untruncated) primary's aligned token
// positions, stmtIndexOf maps each of those token positions to its
// statement index, and trunc is the truncator's result. The Data-Flow
// Analyzer's facts over the primary's k-prefix are computed here.
func Resolve(
	k int,
	primary extract.Sequence,
	duplicates []extract.Sequence,
	merged variation.Analysis,
	stmtIndexOf []int,
	trunc truncate.Result,
	hostResolver astmodel.Resolver,
	log *logging.Logger,
) ([]ParameterSpec, ReturnTypeResult) {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.For(logging.CategoryResolve)

	prefix := primary
	if k <= len(primary.Statements) {
		prefix = primary.WithStatements(primary.Statements[:k], 0)
	}
	facts := dataflow.Analyze(prefix.Statements)

	params := initialParameters(merged, stmtIndexOf, k)
	params = append(params, capturedParameters(prefix, facts, hostResolver)...)
	params = filterInternalParameters(params, facts)
	params = refineUniversalTypes(params, prefix, facts)
	params = dropParametersPastK(params, prefix)
	params = dedupeByName(params)

	ret := resolveReturnType(k, primary, duplicates, trunc, hostResolver)

	log.Debug("resolved parameters and return type")
	return params, ret
}

// initialParameters builds one ParameterSpec per cluster-wide Variation
// whose statement index falls within the truncated prefix (spec.md §4.10
// step 1).
func initialParameters(merged variation.Analysis, stmtIndexOf []int, k int) []ParameterSpec {
	var params []ParameterSpec
	counters := map[variation.Kind]int{}
	for _, v := range merged.Variations {
		if v.PrimaryIndex < 0 || v.PrimaryIndex >= len(stmtIndexOf) {
			continue
		}
		if stmtIndexOf[v.PrimaryIndex] >= k {
			continue
		}
		name := variationParamName(v, counters)
		example := map[variation.SequenceID]string{}
		for sid, b := range merged.Bindings[v.PrimaryIndex] {
			example[sid] = b.RawValue
		}
		params = append(params, ParameterSpec{
			Name:           name,
			Type:           v.InferredType,
			ExampleValues:  example,
			VariationIndex: v.PrimaryIndex,
			Site:           siteOf(merged, v.PrimaryIndex),
		})
	}
	return params
}

func siteOf(merged variation.Analysis, pos int) astmodel.Range {
	for _, b := range merged.Bindings[pos] {
		if b.Expr != nil {
			return b.Expr.Range()
		}
	}
	return astmodel.Range{}
}

func variationParamName(v variation.Variation, counters map[variation.Kind]int) string {
	if v.Kind == variation.KindVariable && isIdentifierLike(v.PrimaryValue) {
		return v.PrimaryValue
	}
	counters[v.Kind]++
	prefix := map[variation.Kind]string{
		variation.KindLiteral:     "literalArg",
		variation.KindVariable:    "varArg",
		variation.KindMethodCall:  "callArg",
		variation.KindType:        "typeArg",
		variation.KindControlFlow: "flowArg",
	}[v.Kind]
	if prefix == "" {
		prefix = "arg"
	}
	return fmt.Sprintf("%s%d", prefix, counters[v.Kind])
}

func isIdentifierLike(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// capturedParameters finds names used-but-not-defined in the prefix
// (spec.md §4.10 step 2), excluding this/super, visible types, well-known
// classes, and the containing type's own fields when the container is
// non-static.
func capturedParameters(prefix extract.Sequence, facts dataflow.Facts, hostResolver astmodel.Resolver) []ParameterSpec {
	var names []string
	for name := range facts.Used {
		if facts.Defined[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var enclosingFields map[string]bool
	if prefix.Container != nil && !isContainingStatic(prefix) {
		enclosingFields = map[string]bool{}
		if t := prefix.Container.EnclosingType(); t != nil {
			for _, f := range t.Fields() {
				enclosingFields[f.Name] = true
			}
		}
	}

	var params []ParameterSpec
	for _, name := range names {
		if excludedNames[name] {
			continue
		}
		if hostResolver != nil {
			var scope astmodel.Node
			if len(prefix.Statements) > 0 {
				scope = prefix.Statements[0]
			}
			if _, ok := hostResolver.LookupVisibleType(name, scope); ok {
				continue
			}
			if hostResolver.LookupWellKnown(name) {
				continue
			}
		}
		if enclosingFields[name] {
			continue
		}
		params = append(params, ParameterSpec{
			Name:           name,
			Type:           capturedType(name, prefix, facts),
			VariationIndex: -1,
		})
	}
	return params
}

func capturedType(name string, prefix extract.Sequence, facts dataflow.Facts) astmodel.TypeRef {
	if t, ok := facts.TypeMap[name]; ok && t != nil {
		return t
	}
	if prefix.Container != nil {
		if t, ok := prefix.Container.LocalVarTypes()[name]; ok && t != nil {
			return t
		}
		for _, p := range prefix.Container.Parameters() {
			if p.Name == name {
				return p.Type
			}
		}
	}
	return astmodel.UniversalType
}

// filterInternalParameters drops any parameter whose example value is a
// name defined inside the sequence, a qualified access rooted at such a
// name, or a void expression (spec.md §4.10 step 3).
func filterInternalParameters(params []ParameterSpec, facts dataflow.Facts) []ParameterSpec {
	var out []ParameterSpec
	for _, p := range params {
		if p.Type != nil && p.Type.IsVoid() {
			continue
		}
		if p.VariationIndex >= 0 && facts.Defined[p.Name] {
			continue
		}
		internal := false
		for _, v := range p.ExampleValues {
			root, _, _ := strings.Cut(v, ".")
			if facts.Defined[root] {
				internal = true
				break
			}
		}
		if internal {
			continue
		}
		out = append(out, p)
	}
	return out
}

// refineUniversalTypes attempts a narrower context-based type for any
// parameter still typed as the universal type (spec.md §4.10 step 4).
func refineUniversalTypes(params []ParameterSpec, prefix extract.Sequence, facts dataflow.Facts) []ParameterSpec {
	for i, p := range params {
		if p.Type == nil || !p.Type.IsUniversal() {
			continue
		}
		if t := capturedType(p.Name, prefix, facts); t != nil && !t.IsUniversal() {
			params[i].Type = t
		}
	}
	return params
}

// dropParametersPastK drops parameters whose representative site lies past
// the last included statement (spec.md §4.10 step 5).
func dropParametersPastK(params []ParameterSpec, prefix extract.Sequence) []ParameterSpec {
	if len(prefix.Statements) == 0 {
		return params
	}
	lastEnd := prefix.Statements[len(prefix.Statements)-1].Range().End
	var out []ParameterSpec
	for _, p := range params {
		if p.Site.IsZero() || !lastEnd.Before(p.Site.Start) {
			out = append(out, p)
		}
	}
	return out
}

func dedupeByName(params []ParameterSpec) []ParameterSpec {
	return lo.UniqBy(params, func(p ParameterSpec) string { return p.Name })
}

// isContainingStatic implements spec.md §4.10's "Container-sensitive
// decisions" table.
func isContainingStatic(seq extract.Sequence) bool {
	c := seq.Container
	if c == nil {
		return false
	}
	switch c.Kind() {
	case astmodel.ContainerStaticInit:
		return true
	case astmodel.ContainerInstanceInit, astmodel.ContainerConstructor:
		return false
	case astmodel.ContainerLambda:
		for anc := c.EnclosingCallable(); anc != nil; anc = anc.EnclosingCallable() {
			if anc.Kind() != astmodel.ContainerLambda {
				return anc.IsStatic()
			}
		}
		return false
	default:
		return c.IsStatic()
	}
}

// resolveReturnType decides the extracted helper's return type (spec.md
// §4.10 final paragraph).
func resolveReturnType(k int, primary extract.Sequence, duplicates []extract.Sequence, trunc truncate.Result, hostResolver astmodel.Resolver) ReturnTypeResult {
	if trunc.HasReturnVariable {
		prefix := primary
		if k <= len(primary.Statements) {
			prefix = primary.WithStatements(primary.Statements[:k], 0)
		}
		facts := dataflow.Analyze(prefix.Statements)
		t := facts.TypeMap[trunc.ReturnVariable]
		if t == nil {
			t = astmodel.UniversalType
		}
		return ReturnTypeResult{Type: t, ReturnVariable: trunc.ReturnVariable, HasReturnVariable: true}
	}

	all := append([]extract.Sequence{primary}, duplicates...)
	var candidates []astmodel.TypeRef
	for _, m := range all {
		if k > len(m.Statements) {
			continue
		}
		prefix := m.WithStatements(m.Statements[:k], 0)
		f := dataflow.Analyze(prefix.Statements)
		lo := dataflow.LiveOut(f, m.Container, prefix)
		if len(lo) == 1 {
			for name := range lo {
				candidates = append(candidates, f.TypeMap[name])
			}
			continue
		}
		if t := lastReturnExprType(prefix.Statements); t != nil {
			candidates = append(candidates, t)
		}
	}

	chosen := unifyTypes(candidates)
	result := ReturnTypeResult{Type: chosen}
	if chosen != nil && !chosen.IsVoid() {
		prefix := primary
		if k <= len(primary.Statements) {
			prefix = primary.WithStatements(primary.Statements[:k], 0)
		}
		f := dataflow.Analyze(prefix.Statements)
		lo := dataflow.LiveOut(f, primary.Container, prefix)
		if name, ok := dataflow.FindReturnVariable(f, lo, chosen, hostResolver); ok {
			result.ReturnVariable = name
			result.HasReturnVariable = true
		}
	}
	return result
}

func lastReturnExprType(stmts []astmodel.Statement) astmodel.TypeRef {
	var found astmodel.TypeRef
	var walk func(astmodel.Node)
	walk = func(n astmodel.Node) {
		if n == nil {
			return
		}
		if n.Kind() == astmodel.KindReturnStmt {
			children := n.Children()
			if len(children) > 0 {
				found = children[0].ResolvedType()
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
	return found
}

// unifyTypes implements spec.md §4.10's unification preference:
// non-primitives > string > widest numeric > void.
func unifyTypes(types []astmodel.TypeRef) astmodel.TypeRef {
	for _, t := range types {
		if t != nil && !t.IsPrimitive() && !t.IsString() {
			return t
		}
	}
	for _, t := range types {
		if t != nil && t.IsString() {
			return t
		}
	}
	bestRank := -1
	var bestType astmodel.TypeRef
	for _, t := range types {
		if t == nil {
			continue
		}
		if rank, ok := astmodel.NumericRank[t.Name()]; ok && rank > bestRank {
			bestRank = rank
			bestType = t
		}
	}
	if bestType != nil {
		return bestType
	}
	return astmodel.VoidType
}
