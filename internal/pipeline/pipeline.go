// Package pipeline wires every analytic stage (spec.md §2's data flow:
// container enumeration -> candidate sequences -> similarity pairs ->
// clusters -> refined boundaries -> truncation -> resolved parameters and
// return -> safety validation -> recommendation) into one orchestrator that
// a host (the CLI, an IDE plugin) drives with already-parsed compilation
// units.
package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/boundary"
	"clonecraft/internal/cluster"
	"clonecraft/internal/config"
	"clonecraft/internal/dataflow"
	cerrors "clonecraft/internal/errors"
	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
	"clonecraft/internal/metrics"
	"clonecraft/internal/recommend"
	"clonecraft/internal/resolve"
	"clonecraft/internal/safety"
	"clonecraft/internal/similarity"
	"clonecraft/internal/token"
	"clonecraft/internal/truncate"
	"clonecraft/internal/variation"
)

// Options configures a Pipeline run (spec.md §6 configuration options,
// already normalized by internal/config).
type Options struct {
	Config   config.Config
	Resolver astmodel.Resolver
	Namer    astmodel.Namer
	Log      *logging.Logger
}

// ClusterReport is one cluster's full analysis (spec.md §6: "a stream of
// RefactoringRecommendation records per cluster plus the enclosing
// cluster").
type ClusterReport struct {
	ID             string
	Cluster        cluster.Cluster
	Truncation     truncate.Result
	Parameters     []resolve.ParameterSpec
	Return         resolve.ReturnTypeResult
	Recommendation recommend.Recommendation
	Issues         []*cerrors.ValidationIssue
	// Skipped is true when every candidate strategy (including the
	// EXTRACT_HELPER_METHOD fallback) was blocked by a SeverityError issue
	// (spec.md §7: "cluster either has a complete recommendation or is
	// skipped with diagnostics").
	Skipped bool
}

// Report is one full pipeline run's output.
type Report struct {
	RunID    string
	Clusters []ClusterReport
	Metrics  metrics.Summary
}

// Pipeline holds the stage objects built once from Options and reused
// across Run calls.
type Pipeline struct {
	opts       Options
	normalizer *token.Normalizer
	engine     *similarity.Engine
	refiner    *boundary.Refiner
	clusterer  *cluster.Clusterer
	extractor  *extract.Extractor
	log        *logging.Logger
}

// New builds a Pipeline from opts.
func New(opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = logging.NewNop()
	}
	simOpts := similarity.Options{
		Weights: similarity.Weights{
			LCS:         opts.Config.SimilarityWeights.LCS,
			Levenshtein: opts.Config.SimilarityWeights.Levenshtein,
			Structural:  opts.Config.SimilarityWeights.Structural,
		},
		Threshold: opts.Config.Threshold,
		MinLines:  opts.Config.MinLines,
	}
	norm := token.New(token.DefaultOptions())
	engine := similarity.New(simOpts)
	return &Pipeline{
		opts:       opts,
		normalizer: norm,
		engine:     engine,
		refiner:    boundary.New(boundary.Options{MinStatements: opts.Config.MinLines}, norm, engine, log),
		clusterer:  cluster.New(log),
		extractor: extract.New(extract.Options{
			MinStatements:   opts.Config.MinLines,
			MaxWindowGrowth: opts.Config.MaxWindowGrowth,
		}, log),
		log: log.For(logging.CategoryPipeline),
	}
}

// Run extracts candidate sequences from every unit (in parallel, one
// errgroup goroutine per unit, with no concurrency limit), clusters them,
// and analyzes each cluster (in parallel across clusters, sequentially
// within one cluster per spec.md §5) into a Report.
func (p *Pipeline) Run(ctx context.Context, units []astmodel.CompilationUnit) (Report, error) {
	acc := metrics.NewAccumulator()
	seqs, err := p.extractAll(ctx, units, acc)
	if err != nil {
		return Report{}, err
	}

	clusters := p.clusterer.Cluster(seqs, p.isEdge(seqs))
	if p.opts.Config.MaximalOnly {
		clusters = filterMaximal(clusters)
	}

	reports := make([]ClusterReport, len(clusters))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range clusters {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			reports[i] = p.analyzeCluster(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for _, r := range reports {
		if r.Skipped {
			continue
		}
		acc.AddCluster(len(r.Cluster.Members), r.Cluster.LOCReduction, averageSimilarity(p.engine, p.normalizer, r.Cluster), string(r.Recommendation.Strategy))
	}

	p.log.Info("pipeline run complete")
	return Report{
		RunID:    uuid.New().String(),
		Clusters: reports,
		Metrics:  acc.Summary(),
	}, nil
}

// extractAll runs the Statement Extractor over every unit. Extraction is
// parallelized across files (spec.md §5: "parallelism may be introduced
// across files"); each goroutine only appends to its own slot.
func (p *Pipeline) extractAll(ctx context.Context, units []astmodel.CompilationUnit, acc *metrics.Accumulator) ([]extract.Sequence, error) {
	perUnit := make([][]extract.Sequence, len(units))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			seqs, errs := p.extractor.ExtractUnit(u)
			for _, e := range errs {
				p.log.Warn("extraction error", zap.String("error", e.Error()))
			}
			perUnit[i] = seqs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []extract.Sequence
	for i := range units {
		acc.AddFile()
		all = append(all, perUnit[i]...)
	}
	return all, nil
}

// isEdge builds the Clusterer's adjacency predicate: an optional LSH
// pre-filter (spec.md §4.4) followed by the Similarity Engine's real score.
// Disabling LSH must never change membership beyond recall loss, so the
// pre-filter can only turn a real edge into a missed one, never the reverse.
func (p *Pipeline) isEdge(seqs []extract.Sequence) func(i, j int) bool {
	tags := make([][]string, len(seqs))
	toks := make([][]token.Token, len(seqs))
	for i, s := range seqs {
		toks[i] = p.normalizer.NormalizeStatements(s.Statements)
		tags[i] = make([]string, len(toks[i]))
		for j, t := range toks[i] {
			tags[i][j] = t.NormalizedTag
		}
	}

	var candidates []map[int]bool
	if p.opts.Config.EnableLSH {
		lshOpts := similarity.LSHOptions{
			NumBands:    p.opts.Config.NumBands,
			RowsPerBand: p.opts.Config.RowsPerBand,
			ShingleSize: 3,
		}
		idx := similarity.NewIndex(lshOpts)
		sigs := make([][]uint64, len(seqs))
		for i := range seqs {
			sigs[i] = similarity.Signature(tags[i], lshOpts)
			idx.Add(i, sigs[i])
		}
		candidates = make([]map[int]bool, len(seqs))
		for i := range seqs {
			set := map[int]bool{}
			for _, j := range idx.CandidatesFor(sigs[i], i) {
				set[j] = true
			}
			candidates[i] = set
		}
	}

	return func(i, j int) bool {
		if candidates != nil && !candidates[i][j] && !candidates[j][i] {
			return false
		}
		result := p.engine.Score(toks[i], toks[j])
		return p.engine.Retained(result, seqs[i].Len(), seqs[j].Len())
	}
}

// filterMaximal drops any cluster every one of whose members is a strict
// sub-range of a same-container member in another cluster (spec.md §8:
// "maximal_only = true eliminates sub-ranges of reported clusters").
func filterMaximal(clusters []cluster.Cluster) []cluster.Cluster {
	dominated := make([]bool, len(clusters))
	for i := range clusters {
		for j := range clusters {
			if i == j {
				continue
			}
			if isSubsetOf(clusters[i], clusters[j]) {
				dominated[i] = true
				break
			}
		}
	}
	var out []cluster.Cluster
	for i, c := range clusters {
		if !dominated[i] {
			out = append(out, c)
		}
	}
	return out
}

func isSubsetOf(inner, outer cluster.Cluster) bool {
	if len(inner.Members) > len(outer.Members) {
		return false
	}
	for _, im := range inner.Members {
		found := false
		for _, om := range outer.Members {
			if om.Container == im.Container && om.SourceRange != im.SourceRange && om.SourceRange.Contains(im.SourceRange) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// analyzeCluster runs boundary refinement, variation tracking, truncation,
// parameter/return resolution, safety validation, and recommendation for
// one cluster, sequentially (spec.md §5: "within one cluster the pipeline
// is sequential").
func (p *Pipeline) analyzeCluster(c cluster.Cluster) ClusterReport {
	primary, duplicates := p.refineCluster(c)

	primaryTokens := p.normalizer.NormalizeStatements(primary.Statements)
	analyses := make([]variation.Analysis, 0, len(duplicates))
	for i, d := range duplicates {
		otherTokens := p.normalizer.NormalizeStatements(d.Statements)
		analyses = append(analyses, variation.TrackPair(primaryTokens, 0, otherTokens, variation.SequenceID(i+1)))
	}
	merged := variation.Merge(analyses...)

	trunc := truncate.Truncate(p.normalizer, primary, duplicates, merged, p.log)

	_, stmtIndexOf := tokensByStatement(p.normalizer, primary.Statements)
	params, ret := resolve.Resolve(trunc.K, primary, duplicates, merged, stmtIndexOf, trunc, p.opts.Resolver, p.log)

	liveOutCount := countLiveOut(primary, trunc.K)
	typeSafe := typeCompatibilitySafe(params, ret)
	avgSim := averageSimilarity(p.engine, p.normalizer, c)

	recIn := recommend.Input{
		Members:                append([]extract.Sequence{primary}, duplicates...),
		Params:                 params,
		Return:                 ret,
		AverageSimilarity:      avgSim,
		LiveOutCount:           liveOutCount,
		TypeCompatibilitySafe:  typeSafe,
		LOCReduction:           c.LOCReduction,
		Namer:                  p.opts.Namer,
	}
	rec := recommend.Recommend(recIn, p.log)

	report := ClusterReport{
		ID:         clusterID(primary),
		Cluster:    c,
		Truncation: trunc,
		Parameters: params,
		Return:     ret,
	}

	result := p.validate(primary, duplicates, trunc, params, merged, rec)
	report.Issues = result.Issues
	if !result.Blocked {
		report.Recommendation = rec
		return report
	}

	if rec.Strategy != safety.StrategyExtractHelperMethod {
		recIn.TestPattern = recommend.TestPatternNone
		fallback := rec
		fallback.Strategy = safety.StrategyExtractHelperMethod
		retried := p.validate(primary, duplicates, trunc, params, merged, fallback)
		if !retried.Blocked {
			fallback.Name = rec.Name
			report.Recommendation = fallback
			report.Issues = retried.Issues
			return report
		}
		report.Issues = retried.Issues
	}

	report.Skipped = true
	return report
}

func (p *Pipeline) validate(primary extract.Sequence, duplicates []extract.Sequence, trunc truncate.Result, params []resolve.ParameterSpec, merged variation.Analysis, rec recommend.Recommendation) safety.Result {
	return safety.Validate(safety.Input{
		Primary:    primary,
		Duplicates: duplicates,
		K:          trunc.K,
		FullLength: primary.Len(),
		Params:     params,
		Merged:     merged,
		Strategy:   rec.Strategy,
		HelperName: rec.Name,
	}, p.log)
}

// refineCluster applies the Boundary Refiner between the cluster's primary
// and each duplicate in turn, carrying the (possibly trimmed/extended)
// primary boundary forward so every duplicate is refined against the same
// reference sequence.
func (p *Pipeline) refineCluster(c cluster.Cluster) (extract.Sequence, []extract.Sequence) {
	primary := c.Primary
	duplicates := make([]extract.Sequence, 0, len(c.Members)-1)
	for _, m := range c.Members[1:] {
		refinedPrimary, refinedOther, ok := p.refiner.Refine(primary, m)
		if ok {
			primary = refinedPrimary
			duplicates = append(duplicates, refinedOther)
		} else {
			duplicates = append(duplicates, m)
		}
	}
	return primary, duplicates
}

// tokensByStatement mirrors internal/truncate's private helper: it
// tokenizes stmts and records, per token, the index of the statement it
// came from, so the Parameter & Return Resolver can map an aligned token
// position back to its enclosing top-level statement.
func tokensByStatement(n *token.Normalizer, stmts []astmodel.Statement) ([]token.Token, []int) {
	var toks []token.Token
	var stmtIndexOf []int
	for i, s := range stmts {
		ts := n.NormalizeNode(s)
		toks = append(toks, ts...)
		for range ts {
			stmtIndexOf = append(stmtIndexOf, i)
		}
	}
	return toks, stmtIndexOf
}

func countLiveOut(primary extract.Sequence, k int) int {
	if k <= 0 || k > len(primary.Statements) {
		return 0
	}
	prefix := primary.WithStatements(primary.Statements[:k], 0)
	facts := dataflow.Analyze(prefix.Statements)
	liveOut := dataflow.LiveOut(facts, primary.Container, prefix)
	return len(liveOut)
}

// typeCompatibilitySafe reports whether every resolved parameter and the
// return type (when non-void) carry a concrete type rather than the
// resolver's UniversalType fallback. A fallback to UniversalType means the
// host resolver could not determine a type with confidence, which spec.md
// §4.12 treats as the "type compatibility unsafe" case that halves
// confidence.
func typeCompatibilitySafe(params []resolve.ParameterSpec, ret resolve.ReturnTypeResult) bool {
	for _, p := range params {
		if p.Type != nil && p.Type.IsUniversal() {
			return false
		}
	}
	if ret.Type != nil && ret.Type.IsUniversal() && !ret.Type.IsVoid() {
		return false
	}
	return true
}

func averageSimilarity(engine *similarity.Engine, n *token.Normalizer, c cluster.Cluster) float64 {
	if len(c.Members) < 2 {
		return 1.0
	}
	primaryTokens := n.NormalizeStatements(c.Primary.Statements)
	var sum float64
	for _, m := range c.Members[1:] {
		sum += engine.Score(primaryTokens, n.NormalizeStatements(m.Statements)).Overall
	}
	return sum / float64(len(c.Members)-1)
}

// clusterID derives a stable, opaque per-cluster identifier from the
// primary sequence's identity (file path and start position) rather than
// ksuid.New()'s random/time-based generation, so the same cluster gets the
// same identifier across re-scans of unchanged source (spec.md §5:
// "reproducible across runs on identical input"; spec.md §6: the resume
// file keys on "opaque identifier + result").
func clusterID(primary extract.Sequence) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", primary.FilePath, primary.SourceRange.Start.Line, primary.SourceRange.Start.Column)))
	k, err := ksuid.FromParts(time.Unix(0, 0), h[:16])
	if err != nil {
		return ksuid.Nil.String()
	}
	return k.String()
}

