package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/astmodel/astfixture"
	"clonecraft/internal/config"
	"clonecraft/internal/pipeline"
	"clonecraft/internal/safety"
)

// fourSetters builds `user.setA(x); user.setB(y); user.setC(z);
// user.setStatus("OK");` against a shared "user" parameter, the spec.md §8
// scenario 1 fixture.
func fourSetters(line int) []astmodel.Statement {
	user := func() astmodel.Node { return astfixture.Ident("user", line, astfixture.Ref("com.example.User")) }
	return []astmodel.Statement{
		astfixture.ExprStmt(line, astfixture.MethodCall("setA", line, astfixture.VoidType, user())),
		astfixture.ExprStmt(line+1, astfixture.MethodCall("setB", line+1, astfixture.VoidType, user())),
		astfixture.ExprStmt(line+2, astfixture.MethodCall("setC", line+2, astfixture.VoidType, user())),
		astfixture.ExprStmt(line+3, astfixture.MethodCall("setStatus", line+3, astfixture.VoidType, user(), astfixture.StringLit("OK", line+3))),
	}
}

func twoMethodUnit() *astfixture.CompilationUnit {
	userParam := astfixture.DeclaredVar("user", astfixture.Ref("com.example.User"), false, 1)
	m1 := astfixture.NewContainer(astmodel.ContainerMethod, "apply", 1, 5, fourSetters(1)...)
	m1.CParams = []astmodel.VarDecl{userParam}
	m2 := astfixture.NewContainer(astmodel.ContainerMethod, "commit", 10, 14, fourSetters(10)...)
	m2.CParams = []astmodel.VarDecl{userParam}
	return astfixture.NewUnit("Service.java", false, m1, m2)
}

func testOptions() config.Config {
	cfg := config.Defaults()
	cfg.BasePath = "/src"
	cfg.MinLines = 4
	cfg.MaxWindowGrowth = 0
	cfg.Threshold = 0.9
	cfg.EnableLSH = false
	return cfg
}

func TestRun_IdenticalSettersAcrossTwoMethodsBecomeOneCluster(t *testing.T) {
	p := pipeline.New(pipeline.Options{Config: testOptions()})

	report, err := p.Run(context.Background(), []astmodel.CompilationUnit{twoMethodUnit()})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 1)
	cr := report.Clusters[0]
	assert.False(t, cr.Skipped)
	assert.Len(t, cr.Cluster.Members, 2)
	assert.Equal(t, safety.StrategyExtractHelperMethod, cr.Recommendation.Strategy)
	assert.Equal(t, 1, report.Metrics.ClusterCount)
	assert.Equal(t, 1, report.Metrics.FileCount)
	assert.NotEmpty(t, cr.ID)
}

func TestRun_NoCandidatesProducesEmptyReport(t *testing.T) {
	p := pipeline.New(pipeline.Options{Config: testOptions()})
	lonely := astfixture.NewContainer(astmodel.ContainerMethod, "solo", 1, 3, fourSetters(1)...)
	unit := astfixture.NewUnit("Solo.java", false, lonely)

	report, err := p.Run(context.Background(), []astmodel.CompilationUnit{unit})
	require.NoError(t, err)
	assert.Empty(t, report.Clusters)
	assert.Equal(t, 0, report.Metrics.ClusterCount)
}

func TestRun_ClusterIDIsStableAcrossRuns(t *testing.T) {
	p := pipeline.New(pipeline.Options{Config: testOptions()})

	r1, err := p.Run(context.Background(), []astmodel.CompilationUnit{twoMethodUnit()})
	require.NoError(t, err)
	r2, err := p.Run(context.Background(), []astmodel.CompilationUnit{twoMethodUnit()})
	require.NoError(t, err)

	require.Len(t, r1.Clusters, 1)
	require.Len(t, r2.Clusters, 1)
	assert.Equal(t, r1.Clusters[0].ID, r2.Clusters[0].ID)
}
