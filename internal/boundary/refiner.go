// Package boundary implements the Boundary Refiner (spec.md §4.7): it
// conservatively trims trailing usage-only reads and extends a sequence
// backwards over preceding declarations it depends on, then keeps the
// refinement only if the resulting pair still clears the similarity
// threshold.
package boundary

import (
	"clonecraft/internal/astmodel"
	"clonecraft/internal/dataflow"
	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
	"clonecraft/internal/similarity"
	"clonecraft/internal/token"

	"go.uber.org/zap"
)

// Options configures the refiner (spec.md §6 min_lines doubles as
// minStatements here).
type Options struct {
	MinStatements int
}

// DefaultOptions matches spec.md §6's min_lines default.
func DefaultOptions() Options {
	return Options{MinStatements: 5}
}

// Refiner is the Boundary Refiner.
type Refiner struct {
	opts   Options
	norm   *token.Normalizer
	engine *similarity.Engine
	log    *logging.Logger
}

// New builds a Refiner. A nil logger is replaced with a no-op one.
func New(opts Options, norm *token.Normalizer, engine *similarity.Engine, log *logging.Logger) *Refiner {
	if log == nil {
		log = logging.NewNop()
	}
	return &Refiner{opts: opts, norm: norm, engine: engine, log: log.For(logging.CategoryBoundary)}
}

// Refine conservatively refines both sides of a candidate pair and
// recomputes similarity, keeping the refinement only if it still clears the
// engine's threshold. It never returns a sequence shorter than the
// originals would suggest is unsafe: each step reverts to its input when the
// result would drop below opts.MinStatements.
func (r *Refiner) Refine(primary, other extract.Sequence) (extract.Sequence, extract.Sequence, bool) {
	p := r.applyTrim(primary)
	o := r.applyTrim(other)
	if p.Len() < r.opts.MinStatements || o.Len() < r.opts.MinStatements {
		p, o = primary, other
	}

	p = r.applyExtend(p)
	o = r.applyExtend(o)
	if p.Len() < r.opts.MinStatements || o.Len() < r.opts.MinStatements {
		p, o = primary, other
	}

	if p.Len() == primary.Len() && o.Len() == other.Len() && sameStart(p, primary) && sameStart(o, other) {
		return primary, other, true
	}

	pTokens := r.norm.NormalizeStatements(p.Statements)
	oTokens := r.norm.NormalizeStatements(o.Statements)
	result := r.engine.Score(pTokens, oTokens)
	if !r.engine.Retained(result, p.Len(), o.Len()) {
		r.log.Debug("refinement dropped score below threshold, reverting",
			zap.Float64("overall", result.Overall))
		return primary, other, true
	}
	return p, o, true
}

func sameStart(a, b extract.Sequence) bool { return a.StartIndex == b.StartIndex }

// applyTrim trims trailing usage-only statements (spec.md §4.7): expression
// statements whose only effect is reading names already defined earlier in
// the sequence. Control flow, declarations, assignments, and unary
// mutations are never trimmed.
func (r *Refiner) applyTrim(seq extract.Sequence) extract.Sequence {
	stmts := seq.Statements
	end := len(stmts)
	for end > 0 {
		facts := dataflow.Analyze(stmts[:end-1])
		if !isUsageOnly(stmts[end-1], facts.Defined) {
			break
		}
		end--
	}
	if end == len(stmts) {
		return seq
	}
	return seq.WithStatements(stmts[:end], 0)
}

func isUsageOnly(s astmodel.Node, definedEarlier map[string]bool) bool {
	if s.Kind() != astmodel.KindExprStmt {
		return false
	}
	if hasMutation(s) {
		return false
	}
	ok := true
	reads := false
	forEachIdentifier(s, func(name string) {
		reads = true
		if !definedEarlier[name] {
			ok = false
		}
	})
	return ok && reads
}

func hasMutation(n astmodel.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case astmodel.KindAssignStmt, astmodel.KindAssignExpr, astmodel.KindUnaryExpr:
		return true
	}
	for _, c := range n.Children() {
		if hasMutation(c) {
			return true
		}
	}
	return false
}

func forEachIdentifier(n astmodel.Node, fn func(name string)) {
	if n == nil {
		return
	}
	if n.Kind() == astmodel.KindIdentifier {
		fn(n.Text())
	}
	for _, c := range n.Children() {
		forEachIdentifier(c, fn)
	}
}

// applyExtend extends seq backwards over immediately preceding variable
// declarations whose names seq uses but does not itself define, stopping at
// the first non-declaration gap (spec.md §4.7).
func (r *Refiner) applyExtend(seq extract.Sequence) extract.Sequence {
	container := seq.Container
	if container == nil {
		return seq
	}
	facts := dataflow.Analyze(seq.Statements)
	usedNotDefined := map[string]bool{}
	for name := range facts.Used {
		if !facts.Defined[name] {
			usedNotDefined[name] = true
		}
	}

	body := container.Body()
	count := 0
	for idx := seq.StartIndex - 1; idx >= 0; idx-- {
		stmt := body[idx]
		if stmt.Kind() != astmodel.KindVarDeclStmt {
			break
		}
		children := stmt.Children()
		if len(children) == 0 {
			break
		}
		name := children[0].Text()
		if !usedNotDefined[name] {
			break
		}
		count++
	}
	if count == 0 {
		return seq
	}
	newStart := seq.StartIndex - count
	prefix := append([]astmodel.Statement{}, body[newStart:seq.StartIndex]...)
	newStmts := append(prefix, seq.Statements...)
	return seq.WithStatements(newStmts, -count)
}
