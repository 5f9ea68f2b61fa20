package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/extract"
	"clonecraft/internal/recommend"
	"clonecraft/internal/resolve"
	"clonecraft/internal/safety"
)

func buildSeq(unit *astfixture.CompilationUnit, container *astfixture.Container, stmts ...astmodel.Statement) extract.Sequence {
	return extract.Sequence{
		Statements:  stmts,
		Container:   container,
		Unit:        unit,
		SourceRange: astmodel.Range{Start: stmts[0].Range().Start, End: stmts[len(stmts)-1].Range().End},
	}
}

func TestRecommend_NonTestSourceDefaultsToExtractHelperMethod(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		AverageSimilarity:     0.95,
		TypeCompatibilitySafe: true,
	}, nil)
	assert.Equal(t, safety.StrategyExtractHelperMethod, rec.Strategy)
	assert.Equal(t, "setStatus", rec.Name)
	assert.Equal(t, 1.0, rec.Confidence)
}

func TestRecommend_ConstructorDelegationForSharedConstructorPrefix(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("init", 1, astfixture.VoidType))
	typeDecl := &astfixture.TypeDecl{TName: "Widget"}
	container := astfixture.NewContainer(astmodel.ContainerConstructor, "<init>", 1, 2, call)
	container.CEnclosingType = typeDecl
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		AverageSimilarity:     0.95,
		TypeCompatibilitySafe: true,
	}, nil)
	assert.Equal(t, safety.StrategyConstructorDelegation, rec.Strategy)
}

func TestRecommend_LowSimilarityAndExtraLiveOutReduceConfidence(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		AverageSimilarity:     0.5,
		TypeCompatibilitySafe: true,
		LiveOutCount:          2,
	}, nil)
	assert.InDelta(t, 0.08, rec.Confidence, 1e-9)
}

func TestRecommend_MoreThanFiveParametersMultipliesConfidence(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	var params []resolve.ParameterSpec
	for i := 0; i < 6; i++ {
		params = append(params, resolve.ParameterSpec{Name: "p", Type: astfixture.IntType, VariationIndex: i})
	}

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		Params:                params,
		AverageSimilarity:     0.95,
		TypeCompatibilitySafe: true,
	}, nil)
	require.Len(t, rec.Parameters, 6)
	assert.InDelta(t, 0.7, rec.Confidence, 1e-9)
}

func TestRecommend_AINamerAcceptedWhenValidIdentifier(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		AverageSimilarity:     0.95,
		TypeCompatibilitySafe: true,
		Namer:                 stubNamer{name: "applyPendingStatus", ok: true},
	}, nil)
	assert.Equal(t, "applyPendingStatus", rec.Name)
}

func TestRecommend_AINamerRejectedWhenInvalidIdentifierFallsBackToDeterministic(t *testing.T) {
	call := astfixture.ExprStmt(1, astfixture.MethodCall("setStatus", 1, astfixture.VoidType))
	container := astfixture.NewContainer(astmodel.ContainerMethod, "run", 1, 2, call)
	unit := astfixture.NewUnit("Widget.java", false, container)
	seq := buildSeq(unit, container, call)

	rec := recommend.Recommend(recommend.Input{
		Members:               []extract.Sequence{seq, seq},
		AverageSimilarity:     0.95,
		TypeCompatibilitySafe: true,
		Namer:                 stubNamer{name: "123 not an identifier", ok: true},
	}, nil)
	assert.Equal(t, "setStatus", rec.Name)
}

type stubNamer struct {
	name string
	ok   bool
}

func (s stubNamer) Suggest(astmodel.NamingContext) (string, bool) { return s.name, s.ok }
