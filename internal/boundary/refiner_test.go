package boundary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/boundary"
	"clonecraft/internal/extract"
	"clonecraft/internal/similarity"
	"clonecraft/internal/token"
)

func buildSequence(container *astfixture.Container, start int, stmts ...astmodel.Statement) extract.Sequence {
	return extract.Sequence{
		Statements:  stmts,
		Container:   container,
		StartIndex:  start,
		SourceRange: astmodel.Range{Start: stmts[0].Range().Start, End: stmts[len(stmts)-1].Range().End},
	}
}

func newRefiner(minStatements int) *boundary.Refiner {
	n := token.New(token.DefaultOptions())
	opts := similarity.DefaultOptions()
	opts.MinLines = minStatements
	e := similarity.New(opts)
	return boundary.New(boundary.Options{MinStatements: minStatements}, n, e, nil)
}

func TestRefine_TrimsTrailingUsageOnlyRead(t *testing.T) {
	decl := astfixture.VarDeclStmt("total", astfixture.IntType, 1, astfixture.IntLit("0", 1))
	assign := astfixture.AssignStmt("total", 2, astfixture.IntLit("1", 2))
	body1 := astfixture.ExprStmt(3, astfixture.MethodCall("noop", 3, astfixture.VoidType))
	body2 := astfixture.ExprStmt(4, astfixture.MethodCall("noop2", 4, astfixture.VoidType))
	trailingRead := astfixture.ExprStmt(5, astfixture.MethodCall("log", 5, astfixture.VoidType, astfixture.Ident("total", 5, astfixture.IntType)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 6, decl, assign, body1, body2, trailingRead)

	seq := buildSequence(container, 0, decl, assign, body1, body2, trailingRead)
	other := buildSequence(container, 0, decl, assign, body1, body2, trailingRead)

	r := newRefiner(2)
	newPrimary, _, ok := r.Refine(seq, other)
	require.True(t, ok)
	assert.Equal(t, 4, newPrimary.Len())
}

func TestRefine_ExtendsBackwardOverUsedDeclaration(t *testing.T) {
	decl := astfixture.VarDeclStmt("base", astfixture.IntType, 1, astfixture.IntLit("10", 1))
	use1 := astfixture.ExprStmt(2, astfixture.MethodCall("log", 2, astfixture.VoidType, astfixture.Ident("base", 2, astfixture.IntType)))
	use2 := astfixture.ExprStmt(3, astfixture.MethodCall("log2", 3, astfixture.VoidType, astfixture.Ident("base", 3, astfixture.IntType)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 4, decl, use1, use2)

	seq := buildSequence(container, 1, use1, use2)
	other := buildSequence(container, 1, use1, use2)

	r := newRefiner(2)
	newPrimary, _, ok := r.Refine(seq, other)
	require.True(t, ok)
	assert.Equal(t, 3, newPrimary.Len())
	assert.Equal(t, 0, newPrimary.StartIndex)
}

func TestRefine_RevertsWhenBelowMinStatements(t *testing.T) {
	decl := astfixture.VarDeclStmt("total", astfixture.IntType, 1, astfixture.IntLit("0", 1))
	trailingRead := astfixture.ExprStmt(2, astfixture.MethodCall("log", 2, astfixture.VoidType, astfixture.Ident("total", 2, astfixture.IntType)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 3, decl, trailingRead)

	seq := buildSequence(container, 0, decl, trailingRead)
	other := buildSequence(container, 0, decl, trailingRead)

	r := newRefiner(2)
	newPrimary, _, ok := r.Refine(seq, other)
	require.True(t, ok)
	assert.Equal(t, 2, newPrimary.Len())
}
