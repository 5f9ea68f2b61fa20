// Package variation implements the Variation Tracker (spec.md §4.5): it
// aligns two normalized token sequences and emits, for each differing
// aligned position, a Variation plus the raw value/expression bindings
// downstream components need for parameterization.
package variation

import (
	"sort"

	"clonecraft/internal/align"
	"clonecraft/internal/astmodel"
	"clonecraft/internal/token"
)

// Kind classifies a Variation (spec.md §3).
type Kind int

const (
	KindLiteral Kind = iota
	KindVariable
	KindMethodCall
	KindType
	KindControlFlow
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "LITERAL"
	case KindVariable:
		return "VARIABLE"
	case KindMethodCall:
		return "METHOD_CALL"
	case KindType:
		return "TYPE"
	case KindControlFlow:
		return "CONTROL_FLOW"
	default:
		return "UNKNOWN"
	}
}

// SequenceID identifies one cluster member for the value-bindings map; the
// primary sequence is conventionally SequenceID(0).
type SequenceID int

// Variation is one differing aligned position (spec.md §3).
type Variation struct {
	Kind Kind
	// PrimaryIndex is the aligned index in the primary sequence's token
	// list this variation is keyed to.
	PrimaryIndex int
	PrimaryValue string
	OtherValue   string
	InferredType astmodel.TypeRef
}

// Binding records one sequence's raw value and originating expression at a
// given aligned position (spec.md §3: value bindings map).
type Binding struct {
	RawValue string
	Expr     astmodel.Node
}

// Analysis is spec.md §3's VariationAnalysis.
type Analysis struct {
	Variations                []Variation
	Bindings                  map[int]map[SequenceID]Binding
	HasControlFlowDifferences bool
}

// TrackPair aligns primary against other and produces the Analysis for
// that single pair. primaryID/otherID key the Bindings map.
func TrackPair(primary []token.Token, primaryID SequenceID, other []token.Token, otherID SequenceID) Analysis {
	equalTag := func(a, b token.Token) bool { return a.NormalizedTag == b.NormalizedTag }
	ops := align.Compute(primary, other, equalTag)

	out := Analysis{Bindings: map[int]map[SequenceID]Binding{}}

	record := func(pos int, id SequenceID, tok token.Token) {
		if out.Bindings[pos] == nil {
			out.Bindings[pos] = map[SequenceID]Binding{}
		}
		out.Bindings[pos][id] = Binding{RawValue: tok.RawText, Expr: tok.Node}
	}

	for _, op := range ops {
		switch op.Type {
		case align.OpMatch:
			a, b := primary[op.AIndex], other[op.BIndex]
			record(op.AIndex, primaryID, a)
			record(op.AIndex, otherID, b)
			// Tag equality only means the two tokens are structurally
			// alignable (spec.md §3: "literals and variables share a
			// structural tag to permit parameterization"); their raw
			// content can still differ, e.g. two string literals with the
			// same STRING_LIT tag but different values.
			if a.RawText != b.RawText {
				v := Variation{
					Kind:         classify(a, b),
					PrimaryIndex: op.AIndex,
					PrimaryValue: a.RawText,
					OtherValue:   b.RawText,
					InferredType: typeOf(a),
				}
				out.Variations = append(out.Variations, v)
				if v.Kind == KindControlFlow {
					out.HasControlFlowDifferences = true
				}
			}

		case align.OpSubstitute:
			a, b := primary[op.AIndex], other[op.BIndex]
			record(op.AIndex, primaryID, a)
			record(op.AIndex, otherID, b)
			v := Variation{
				Kind:         classify(a, b),
				PrimaryIndex: op.AIndex,
				PrimaryValue: a.RawText,
				OtherValue:   b.RawText,
				InferredType: typeOf(a),
			}
			out.Variations = append(out.Variations, v)
			if v.Kind == KindControlFlow {
				out.HasControlFlowDifferences = true
			}

		case align.OpDelete:
			a := primary[op.AIndex]
			record(op.AIndex, primaryID, a)
			v := Variation{
				Kind:         classify(a, a),
				PrimaryIndex: op.AIndex,
				PrimaryValue: a.RawText,
				OtherValue:   "",
				InferredType: typeOf(a),
			}
			out.Variations = append(out.Variations, v)
			if v.Kind == KindControlFlow {
				out.HasControlFlowDifferences = true
			}

		case align.OpInsert:
			// No primary-side anchor to key an Insert to (spec.md §4.5
			// keys variations by "the primary-side aligned index"); an
			// extra token only present in `other` surfaces instead as a
			// reduced similarity score and, if it is control flow, is
			// still visible via hasControlFlowDifferences.
			b := other[op.BIndex]
			if b.Kind == token.KindControlFlow {
				out.HasControlFlowDifferences = true
			}
		}
	}

	sort.Slice(out.Variations, func(i, j int) bool { return out.Variations[i].PrimaryIndex < out.Variations[j].PrimaryIndex })
	return out
}

// Merge combines per-pair Analyses (primary vs each other cluster member)
// into one cluster-wide Analysis: variations are deduplicated by aligned
// position (spec.md §5: ordered ascending by aligned primary index) and
// bindings from every pair are unioned.
func Merge(analyses ...Analysis) Analysis {
	out := Analysis{Bindings: map[int]map[SequenceID]Binding{}}
	seen := map[int]bool{}
	for _, an := range analyses {
		out.HasControlFlowDifferences = out.HasControlFlowDifferences || an.HasControlFlowDifferences
		for pos, bySeq := range an.Bindings {
			if out.Bindings[pos] == nil {
				out.Bindings[pos] = map[SequenceID]Binding{}
			}
			for sid, b := range bySeq {
				out.Bindings[pos][sid] = b
			}
		}
		for _, v := range an.Variations {
			if seen[v.PrimaryIndex] {
				continue
			}
			seen[v.PrimaryIndex] = true
			out.Variations = append(out.Variations, v)
		}
	}
	sort.Slice(out.Variations, func(i, j int) bool { return out.Variations[i].PrimaryIndex < out.Variations[j].PrimaryIndex })
	return out
}

func typeOf(t token.Token) astmodel.TypeRef {
	if t.Node == nil {
		return astmodel.UniversalType
	}
	if rt := t.Node.ResolvedType(); rt != nil {
		return rt
	}
	return astmodel.UniversalType
}

func classify(a, b token.Token) Kind {
	if a.Kind == token.KindControlFlow || b.Kind == token.KindControlFlow {
		return KindControlFlow
	}
	if a.Kind == token.KindVar || b.Kind == token.KindVar {
		return KindVariable
	}
	if a.Kind == token.KindType || b.Kind == token.KindType {
		return KindType
	}
	if isCallKind(a.Kind) || isCallKind(b.Kind) {
		return KindMethodCall
	}
	return KindLiteral
}

func isCallKind(k token.Kind) bool {
	return k == token.KindMethodCall || k == token.KindAssert || k == token.KindMock
}
