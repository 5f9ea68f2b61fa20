package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/extract"
	"clonecraft/internal/resolve"
	"clonecraft/internal/token"
	"clonecraft/internal/truncate"
	"clonecraft/internal/variation"
)

func buildSeq(container *astfixture.Container, stmts ...astmodel.Statement) extract.Sequence {
	return extract.Sequence{
		Statements:  stmts,
		Container:   container,
		SourceRange: astmodel.Range{Start: stmts[0].Range().Start, End: stmts[len(stmts)-1].Range().End},
	}
}

func TestResolve_LiteralVariationBecomesParameter(t *testing.T) {
	primaryCall := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType, astfixture.StringLit("PENDING", 1)))
	otherCall := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType, astfixture.StringLit("APPROVED", 1)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, primaryCall)

	primary := buildSeq(container, primaryCall)
	other := buildSeq(container, otherCall)

	n := token.New(token.DefaultOptions())
	pTokens := n.NormalizeNode(primaryCall)
	oTokens := n.NormalizeNode(otherCall)
	pair := variation.TrackPair(pTokens, 0, oTokens, 1)
	merged := variation.Merge(pair)

	stmtIndexOf := make([]int, len(pTokens))
	params, _ := resolve.Resolve(1, primary, []extract.Sequence{other}, merged, stmtIndexOf, truncate.Result{K: 1}, nil, nil)
	require.Len(t, params, 1)
	assert.Equal(t, astfixture.StringType, params[0].Type)
	assert.Equal(t, "PENDING", params[0].ExampleValues[0])
	assert.Equal(t, "APPROVED", params[0].ExampleValues[1])
}

func TestResolve_CapturedParameterExcludesThis(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("log", 1, astfixture.VoidType, astfixture.Ident("this", 1, nil), astfixture.Ident("ctx", 1, astfixture.UniversalType)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	primary := buildSeq(container, call)

	params, _ := resolve.Resolve(1, primary, nil, variation.Analysis{}, []int{0}, truncate.Result{K: 1}, nil, nil)
	names := map[string]bool{}
	for _, p := range params {
		names[p.Name] = true
	}
	assert.True(t, names["ctx"])
	assert.False(t, names["this"])
}

func TestResolve_ReturnTypeFromTruncationVariable(t *testing.T) {
	decl := astfixture.VarDeclStmt("result", astfixture.IntType, 1, astfixture.IntLit("1", 1))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, decl)
	primary := buildSeq(container, decl)

	_, ret := resolve.Resolve(1, primary, nil, variation.Analysis{}, []int{0}, truncate.Result{K: 1, ReturnVariable: "result", HasReturnVariable: true}, nil, nil)
	require.True(t, ret.HasReturnVariable)
	assert.Equal(t, "result", ret.ReturnVariable)
	assert.Equal(t, astfixture.IntType, ret.Type)
}
