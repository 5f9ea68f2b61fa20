// Package safety implements the Safety Validator (spec.md §4.11): given a
// cluster's truncated prefix, its resolved parameters, and the chosen
// refactoring strategy, it emits ValidationIssues for each of the seven
// numbered safety rules plus the escape-analysis check for writes to
// outer-scope variables. An issue with SeverityError blocks the
// refactoring; the Recommendation Generator decides what, if anything, to
// degrade to.
package safety

import (
	"sort"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/dataflow"
	cerrors "clonecraft/internal/errors"
	"clonecraft/internal/extract"
	"clonecraft/internal/logging"
	"clonecraft/internal/resolve"
	"clonecraft/internal/variation"

	"go.uber.org/zap"
)

// Strategy is one of the refactoring strategies spec.md §4.12 can choose.
// It lives here, not in the recommend package, so the Safety Validator's
// rule 7 does not need to import the Recommendation Generator.
type Strategy string

const (
	StrategyExtractHelperMethod        Strategy = "EXTRACT_HELPER_METHOD"
	StrategyExtractToBeforeEach        Strategy = "EXTRACT_TO_BEFORE_EACH"
	StrategyExtractToParameterizedTest Strategy = "EXTRACT_TO_PARAMETERIZED_TEST"
	StrategyExtractToUtilityClass      Strategy = "EXTRACT_TO_UTILITY_CLASS"
	StrategyExtractParentClass         Strategy = "EXTRACT_PARENT_CLASS"
	StrategyConstructorDelegation      Strategy = "CONSTRUCTOR_DELEGATION"
)

// Input bundles everything one rule or another needs. K is the Sequence
// Truncator's chosen prefix length; FullLength is primary's untruncated
// statement count, used by rule 4's "truncation fails to reduce" clause.
type Input struct {
	Primary    extract.Sequence
	Duplicates []extract.Sequence
	K          int
	FullLength int
	Params     []resolve.ParameterSpec
	Merged     variation.Analysis
	Strategy   Strategy
	HelperName string
}

// Result is the validator's full output for one cluster.
type Result struct {
	Issues  []*cerrors.ValidationIssue
	Blocked bool
}

var excludedCaptureNames = map[string]bool{"this": true, "super": true}

// Validate runs all eight checks against in and returns every issue found,
// most-severe rules first is not required by spec.md; order follows the
// rule numbering (plus the escape check alongside capture consistency) for
// stable diagnostics.
func Validate(in Input, log *logging.Logger) Result {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.For(logging.CategorySafety)

	var issues []*cerrors.ValidationIssue

	if issue := checkNameCollision(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkCaptureConsistency(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkOuterScopeMutation(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkControlFlowVariation(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkParameterCount(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkFinalFieldAssignment(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkFinalLocalAssignment(in); issue != nil {
		issues = append(issues, issue)
	}
	if issue := checkExtractParentClassEligibility(in); issue != nil {
		issues = append(issues, issue)
	}

	blocked := false
	for _, iss := range issues {
		if iss.Severity == cerrors.SeverityError {
			blocked = true
		}
	}

	log.Debug("validated cluster", zap.Int("issues", len(issues)), zap.Bool("blocked", blocked))
	return Result{Issues: issues, Blocked: blocked}
}

// checkNameCollision is rule 1: the suggested helper name collides with an
// existing member of the target type.
func checkNameCollision(in Input) *cerrors.ValidationIssue {
	if in.HelperName == "" || in.Primary.Container == nil {
		return nil
	}
	t := in.Primary.Container.EnclosingType()
	if t == nil {
		return nil
	}
	for _, m := range t.Members() {
		if m == in.HelperName {
			return &cerrors.ValidationIssue{
				Rule:     "name-collision",
				Message:  "suggested name \"" + in.HelperName + "\" collides with an existing member of " + t.Name(),
				Severity: cerrors.SeverityError,
			}
		}
	}
	return nil
}

// checkCaptureConsistency is rule 2: the set of names used-but-not-defined
// in the truncated prefix must be identical across every cluster member —
// otherwise the extracted helper would need a different signature per call
// site.
func checkCaptureConsistency(in Input) *cerrors.ValidationIssue {
	all := append([]extract.Sequence{in.Primary}, in.Duplicates...)
	var first map[string]bool
	for _, m := range all {
		set := capturedNameSet(m, in.K)
		if first == nil {
			first = set
			continue
		}
		if !sameSet(first, set) {
			return &cerrors.ValidationIssue{
				Rule:     "capture-consistency",
				Message:  "variable capture differs across cluster members for the extracted prefix",
				Severity: cerrors.SeverityError,
			}
		}
	}
	return nil
}

func capturedNameSet(seq extract.Sequence, k int) map[string]bool {
	prefix := seq
	if k <= len(seq.Statements) {
		prefix = seq.WithStatements(seq.Statements[:k], 0)
	}
	facts := dataflow.Analyze(prefix.Statements)
	set := map[string]bool{}
	for name := range facts.Used {
		if facts.Defined[name] || excludedCaptureNames[name] {
			continue
		}
		set[name] = true
	}
	return set
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if !b[name] {
			return false
		}
	}
	return true
}

// checkOuterScopeMutation is the escape check (spec.md §2's
// Escape/Closure/Mutability component; scenario 4): the prefix writes to
// a name that it uses but never defines itself, i.e. a variable declared
// outside the sequence. The data-flow facts count a plain assignment as a
// definition, so in practice this reports ++/-- style updates of outer
// names; a plain assignment to an outer name is not reported here. Such a
// write would silently become a mutation of a
// pass-by-value helper parameter once internal/resolve turns the captured
// name into a parameter, so it must block the refactoring rather than
// degrade it.
func checkOuterScopeMutation(in Input) *cerrors.ValidationIssue {
	prefix := prefixOf(in.Primary, in.K)
	captured := capturedNameSet(in.Primary, in.K)
	for _, name := range assignmentTargets(prefix.Statements) {
		if captured[name] {
			return &cerrors.ValidationIssue{
				Rule:     "outer-scope-mutation",
				Message:  cerrors.MsgOuterScopeMutation,
				Severity: cerrors.SeverityError,
			}
		}
	}
	return nil
}

// checkControlFlowVariation is rule 3: the cluster-wide variation set
// includes a CONTROL_FLOW entry.
func checkControlFlowVariation(in Input) *cerrors.ValidationIssue {
	if !in.Merged.HasControlFlowDifferences {
		return nil
	}
	return &cerrors.ValidationIssue{
		Rule:     "control-flow-variation",
		Message:  "cluster members differ in control flow",
		Severity: cerrors.SeverityError,
	}
}

// checkParameterCount is rule 4: more than five parameters after
// resolution is a warning, escalated to an error only when truncation
// could not reduce the sequence any further.
func checkParameterCount(in Input) *cerrors.ValidationIssue {
	if len(in.Params) <= 5 {
		return nil
	}
	severity := cerrors.SeverityWarning
	if in.K >= in.FullLength {
		severity = cerrors.SeverityError
	}
	return &cerrors.ValidationIssue{
		Rule:     "parameter-count",
		Message:  "extracted helper would require more than five parameters",
		Severity: severity,
	}
}

// checkFinalFieldAssignment is rule 5: the sequence assigns to a final
// field of the containing type.
func checkFinalFieldAssignment(in Input) *cerrors.ValidationIssue {
	c := in.Primary.Container
	if c == nil {
		return nil
	}
	t := c.EnclosingType()
	if t == nil {
		return nil
	}
	finals := map[string]bool{}
	for _, f := range t.Fields() {
		if f.Final {
			finals[f.Name] = true
		}
	}
	if len(finals) == 0 {
		return nil
	}
	prefix := prefixOf(in.Primary, in.K)
	for _, name := range assignmentTargets(prefix.Statements) {
		if finals[name] {
			return &cerrors.ValidationIssue{
				Rule:     "final-field-assignment",
				Message:  cerrors.MsgFinalFieldWrite,
				Severity: cerrors.SeverityError,
			}
		}
	}
	return nil
}

// checkFinalLocalAssignment is rule 6: the sequence assigns to a final
// local variable of the containing body.
func checkFinalLocalAssignment(in Input) *cerrors.ValidationIssue {
	c := in.Primary.Container
	if c == nil {
		return nil
	}
	finals := map[string]bool{}
	for _, v := range c.FinalLocals() {
		finals[v.Name] = true
	}
	if len(finals) == 0 {
		return nil
	}
	prefix := prefixOf(in.Primary, in.K)
	for _, name := range assignmentTargets(prefix.Statements) {
		if finals[name] {
			return &cerrors.ValidationIssue{
				Rule:     "final-local-assignment",
				Message:  cerrors.MsgFinalLocalWrite,
				Severity: cerrors.SeverityError,
			}
		}
	}
	return nil
}

// checkExtractParentClassEligibility is rule 7: EXTRACT_PARENT_CLASS is
// chosen but the containing type is nested or an enum.
func checkExtractParentClassEligibility(in Input) *cerrors.ValidationIssue {
	if in.Strategy != StrategyExtractParentClass {
		return nil
	}
	c := in.Primary.Container
	if c == nil {
		return nil
	}
	t := c.EnclosingType()
	if t == nil || !(t.IsNested() || t.IsEnum()) {
		return nil
	}
	return &cerrors.ValidationIssue{
		Rule:     "extract-parent-class-eligibility",
		Message:  cerrors.MsgNestedTypeStrategy,
		Severity: cerrors.SeverityError,
	}
}

func prefixOf(seq extract.Sequence, k int) extract.Sequence {
	if k <= len(seq.Statements) {
		return seq.WithStatements(seq.Statements[:k], 0)
	}
	return seq
}

// assignmentTargets returns every name written to by an assignment or
// unary mutation anywhere in stmts, deduplicated and sorted for
// deterministic diagnostics.
func assignmentTargets(stmts []astmodel.Statement) []string {
	seen := map[string]bool{}
	var walk func(astmodel.Node)
	walk = func(n astmodel.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case astmodel.KindAssignStmt, astmodel.KindAssignExpr, astmodel.KindUnaryExpr:
			children := n.Children()
			if len(children) > 0 {
				if name := targetName(children[0]); name != "" {
					seen[name] = true
				}
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// targetName resolves an assignment/mutation target expression to the
// name it writes: an identifier directly, or a field-access expression's
// rightmost child (the field name).
func targetName(n astmodel.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case astmodel.KindIdentifier:
		return n.Text()
	case astmodel.KindFieldAccessExpr:
		children := n.Children()
		if len(children) > 0 {
			return children[len(children)-1].Text()
		}
		return n.Text()
	}
	return ""
}
