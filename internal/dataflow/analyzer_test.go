package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/dataflow"
	"clonecraft/internal/extract"
)

func TestAnalyze_DeclarationAssignmentAndUsage(t *testing.T) {
	decl := astfixture.VarDeclStmt("total", astfixture.IntType, 1, astfixture.IntLit("0", 1))
	assign := astfixture.AssignStmt("total", 2, astfixture.Ident("delta", 2, astfixture.IntType))
	read := astfixture.ExprStmt(3, astfixture.MethodCall("log", 3, astfixture.VoidType, astfixture.Ident("total", 3, astfixture.IntType)))

	f := dataflow.Analyze([]astmodel.Statement{decl, assign, read})

	assert.True(t, f.Defined["total"])
	assert.True(t, f.Declared["total"])
	assert.True(t, f.TopLevelDeclared["total"])
	assert.True(t, f.TopLevelDefined["total"])
	assert.True(t, f.LiteralVars["total"])
	assert.True(t, f.Used["total"])
	assert.True(t, f.Used["delta"])
	assert.False(t, f.Declared["delta"])
}

func TestAnalyze_NestedDeclarationIsInternal(t *testing.T) {
	inner := astfixture.VarDeclStmt("temp", astfixture.IntType, 2, astfixture.Ident("x", 2, astfixture.IntType))
	ifStmt := astfixture.IfStmt(1, astfixture.Ident("ok", 1, astfixture.BooleanType), inner)

	f := dataflow.Analyze([]astmodel.Statement{ifStmt})

	assert.True(t, f.InternalVars["temp"])
	assert.False(t, f.TopLevelDefined["temp"])
	assert.True(t, f.Used["ok"])
}

func TestAnalyze_ReturnStatementPopulatesReturned(t *testing.T) {
	decl := astfixture.VarDeclStmt("result", astfixture.IntType, 1, astfixture.IntLit("0", 1))
	ret := astfixture.ReturnStmt(2, astfixture.Ident("result", 2, astfixture.IntType))

	f := dataflow.Analyze([]astmodel.Statement{decl, ret})

	assert.True(t, f.Returned["result"])
	assert.True(t, f.Used["result"])
}

func TestAnalyze_LambdaBodyIsOpaque(t *testing.T) {
	lambda := astfixture.Stmt(astmodel.KindLambdaExpr, 1, astfixture.AssignStmt("captured", 1, astfixture.IntLit("1", 1)))
	stmt := astfixture.ExprStmt(1, lambda)

	f := dataflow.Analyze([]astmodel.Statement{stmt})

	assert.False(t, f.Defined["captured"])
}

func TestLiveOut_DeadStoreIsExcluded(t *testing.T) {
	decl := astfixture.VarDeclStmt("unused", astfixture.IntType, 1, astfixture.IntLit("0", 1))
	after := astfixture.ExprStmt(5, astfixture.MethodCall("noop", 5, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 6, decl, after)

	seq := extract.Sequence{
		Statements:  []astmodel.Statement{decl},
		Container:   container,
		SourceRange: astmodel.Range{Start: astmodel.Position{Line: 1, Column: 1}, End: astmodel.Position{Line: 1, Column: 80}},
	}

	f := dataflow.Analyze(seq.Statements)
	out := dataflow.LiveOut(f, container, seq)
	assert.Empty(t, out)
}

func TestLiveOut_UsedAfterSequenceSurvives(t *testing.T) {
	decl := astfixture.VarDeclStmt("total", astfixture.IntType, 1, astfixture.Ident("x", 1, astfixture.IntType))
	after := astfixture.ExprStmt(5, astfixture.MethodCall("log", 5, astfixture.VoidType, astfixture.Ident("total", 5, astfixture.IntType)))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 6, decl, after)

	seq := extract.Sequence{
		Statements:  []astmodel.Statement{decl},
		Container:   container,
		SourceRange: astmodel.Range{Start: astmodel.Position{Line: 1, Column: 1}, End: astmodel.Position{Line: 1, Column: 80}},
	}

	f := dataflow.Analyze(seq.Statements)
	out := dataflow.LiveOut(f, container, seq)
	assert.True(t, out["total"])
}

func TestFindReturnVariable_SingleCandidate(t *testing.T) {
	f := dataflow.Facts{
		TopLevelDeclared: map[string]bool{"result": true},
		Returned:         map[string]bool{"result": true},
		TypeMap:          map[string]astmodel.TypeRef{"result": astfixture.IntType},
	}
	name, ok := dataflow.FindReturnVariable(f, map[string]bool{}, astfixture.IntType, astfixture.NewResolver())
	require.True(t, ok)
	assert.Equal(t, "result", name)
}

func TestFindReturnVariable_PrefersNonPrimitive(t *testing.T) {
	f := dataflow.Facts{
		TopLevelDeclared: map[string]bool{"count": true, "user": true},
		Returned:         map[string]bool{"count": true, "user": true},
		TypeMap: map[string]astmodel.TypeRef{
			"count": astfixture.IntType,
			"user":  astfixture.Ref("com.example.User"),
		},
	}
	name, ok := dataflow.FindReturnVariable(f, map[string]bool{}, astfixture.UniversalType, astfixture.NewResolver())
	require.True(t, ok)
	assert.Equal(t, "user", name)
}

func TestFindReturnVariable_NoCandidatesFails(t *testing.T) {
	f := dataflow.Facts{TopLevelDeclared: map[string]bool{}, Returned: map[string]bool{}, TypeMap: map[string]astmodel.TypeRef{}}
	_, ok := dataflow.FindReturnVariable(f, map[string]bool{}, astfixture.IntType, astfixture.NewResolver())
	assert.False(t, ok)
}
