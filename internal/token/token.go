// Package token implements the Token Normalizer (spec.md §4.2): it walks a
// statement's AST and produces an ordered token sequence whose structural
// tags abstract away identifier/literal content so the similarity engine
// and variation tracker can compare sequences structurally while still
// retaining the original values for value comparison.
package token

import (
	"fmt"

	"clonecraft/internal/astmodel"
)

// Kind is the token's structural category (spec.md §3 Token).
type Kind int

const (
	KindKeyword Kind = iota
	KindOperator
	KindVar
	KindType
	KindStringLit
	KindIntLit
	KindLongLit
	KindDoubleLit
	KindBooleanLit
	KindNullLit
	KindMethodCall
	KindControlFlow
	KindAssert
	KindMock
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "KEYWORD"
	case KindOperator:
		return "OPERATOR"
	case KindVar:
		return "VAR"
	case KindType:
		return "TYPE"
	case KindStringLit:
		return "STRING_LIT"
	case KindIntLit:
		return "INT_LIT"
	case KindLongLit:
		return "LONG_LIT"
	case KindDoubleLit:
		return "DOUBLE_LIT"
	case KindBooleanLit:
		return "BOOLEAN_LIT"
	case KindNullLit:
		return "NULL_LIT"
	case KindMethodCall:
		return "METHOD_CALL"
	case KindControlFlow:
		return "CONTROL_FLOW"
	case KindAssert:
		return "ASSERT"
	case KindMock:
		return "MOCK"
	default:
		return "UNKNOWN"
	}
}

// Token is one normalized unit produced by walking a statement's AST
// (spec.md §3 Token).
type Token struct {
	Kind Kind
	// RawText is the differentiating content: an identifier's name, a
	// literal's textual value, a method call's callee name.
	RawText string
	// NormalizedTag is the structural comparison key, e.g. "STRING_LIT",
	// "METHOD_CALL", "CONTROL_FLOW(if)". Two tokens "structurally match"
	// when Kind and NormalizedTag are equal (spec.md §4.2).
	NormalizedTag string
	Position      astmodel.Position
	// Node links back to the originating AST expression for the variation
	// tracker's value-binding step; may be nil for synthetic tokens.
	Node astmodel.Node
}

// StructuralEquals reports whether two tokens "structurally match" per
// spec.md §4.2: same Kind and same NormalizedTag. It intentionally ignores
// RawText — value equality is the variation tracker's separate concern.
func (t Token) StructuralEquals(o Token) bool {
	return t.Kind == o.Kind && t.NormalizedTag == o.NormalizedTag
}

func controlFlowTag(keyword string) string {
	return fmt.Sprintf("CONTROL_FLOW(%s)", keyword)
}
