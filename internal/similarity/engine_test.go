package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/similarity"
	"clonecraft/internal/token"
)

func setterSequence(valueA, valueB int) []token.Token {
	n := token.New(token.DefaultOptions())
	a := astfixture.ExprStmt(1, astfixture.MethodCall("setA", 1, astfixture.VoidType, astfixture.Ident("user", 1, nil), astfixture.IntLit("1", 1)))
	b := astfixture.ExprStmt(2, astfixture.MethodCall("setB", 2, astfixture.VoidType, astfixture.Ident("user", 2, nil), astfixture.IntLit("2", 2)))
	return append(n.NormalizeNode(a), n.NormalizeNode(b)...)
}

func TestEngine_IdenticalSequencesScoreOne(t *testing.T) {
	toks := setterSequence(1, 2)
	e := similarity.New(similarity.DefaultOptions())
	res := e.Score(toks, toks)
	assert.InDelta(t, 1.0, res.Overall, 1e-9)
	assert.True(t, e.Retained(res, 5, 5))
}

func TestEngine_DifferentStructureScoresLower(t *testing.T) {
	n := token.New(token.DefaultOptions())
	a := n.NormalizeNode(astfixture.ExprStmt(1, astfixture.MethodCall("setA", 1, astfixture.VoidType, astfixture.Ident("user", 1, nil))))
	b := n.NormalizeNode(astfixture.IfStmt(1, astfixture.Ident("ok", 1, astfixture.BooleanType)))
	e := similarity.New(similarity.DefaultOptions())
	res := e.Score(a, b)
	require.Less(t, res.Overall, 1.0)
}

func TestEngine_ThresholdOneAcceptsOnlyExact(t *testing.T) {
	opts := similarity.DefaultOptions()
	opts.Threshold = 1.0
	e := similarity.New(opts)

	toks := setterSequence(1, 2)
	exact := e.Score(toks, toks)
	assert.True(t, e.Retained(exact, 5, 5))

	n := token.New(token.DefaultOptions())
	different := n.NormalizeNode(astfixture.ExprStmt(1, astfixture.MethodCall("setC", 1, astfixture.VoidType)))
	diffResult := e.Score(toks, different)
	assert.False(t, e.Retained(diffResult, 5, 5))
}

func TestEngine_MinLinesRejectsShortSequences(t *testing.T) {
	e := similarity.New(similarity.DefaultOptions())
	toks := setterSequence(1, 2)
	res := e.Score(toks, toks)
	assert.False(t, e.Retained(res, 2, 2))
}
