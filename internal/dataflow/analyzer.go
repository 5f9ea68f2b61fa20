// Package dataflow implements the Data-Flow Analyzer (spec.md §4.6): a
// single visitor over a sequence's statements producing defined/used/
// returned/typeMap facts, plus the liveOut and findReturnVariable
// derivations downstream components (Boundary Refiner, Truncator,
// Parameter & Return Resolver) consult.
package dataflow

import (
	"sort"

	"clonecraft/internal/astmodel"
	"clonecraft/internal/extract"
)

// Facts is the output of one Analyze call over a sequence's statements.
type Facts struct {
	// Defined is every name introduced by a declaration, an assignment
	// target, a lambda parameter, or a catch parameter.
	Defined map[string]bool
	// Declared is the subset of Defined introduced by an actual variable
	// declaration (VarDeclStmt), as opposed to a plain reassignment.
	Declared map[string]bool
	// TopLevelDeclared is Declared restricted to names declared at the
	// sequence's own top level (depth 0), the candidate pool for
	// findReturnVariable.
	TopLevelDeclared map[string]bool
	// TopLevelDefined is Defined restricted to depth 0, used by liveOut's
	// "internalVars - topLevelDefined" term.
	TopLevelDefined map[string]bool
	// LiteralVars were declared with a literal initializer only.
	LiteralVars map[string]bool
	// InternalVars were defined inside a nested scope (not at the
	// sequence's top level).
	InternalVars map[string]bool
	// Used is every name reference anywhere in the sequence.
	Used map[string]bool
	// Returned is every name appearing in a return statement inside the
	// sequence.
	Returned map[string]bool
	// TypeMap maps a defined name to its AST type.
	TypeMap map[string]astmodel.TypeRef
}

func newFacts() Facts {
	return Facts{
		Defined:          map[string]bool{},
		Declared:         map[string]bool{},
		TopLevelDeclared: map[string]bool{},
		TopLevelDefined:  map[string]bool{},
		LiteralVars:      map[string]bool{},
		InternalVars:     map[string]bool{},
		Used:             map[string]bool{},
		Returned:         map[string]bool{},
		TypeMap:          map[string]astmodel.TypeRef{},
	}
}

// scopeOpening is the set of statement kinds whose children are treated as a
// nested scope relative to their parent, for internalVars classification.
// This is a source-range heuristic, not a full control-flow graph: a
// variable declared inside an if/for/while/switch/try/catch/block body
// counts as internal even though a handful of host languages also allow
// scope-introducing constructs (pattern-bound locals in an if condition,
// for example) that this walk does not special-case.
var scopeOpening = map[astmodel.NodeKind]bool{
	astmodel.KindIfStmt:      true,
	astmodel.KindForStmt:     true,
	astmodel.KindWhileStmt:   true,
	astmodel.KindDoWhileStmt: true,
	astmodel.KindSwitchStmt:  true,
	astmodel.KindCaseClause:  true,
	astmodel.KindTryStmt:     true,
	astmodel.KindCatchClause: true,
	astmodel.KindBlockStmt:   true,
	astmodel.KindSyncStmt:    true,
	astmodel.KindLabeledStmt: true,
}

// Analyze runs the single visitor over stmts (normally seq.Statements) and
// returns the resulting Facts.
func Analyze(stmts []astmodel.Statement) Facts {
	f := newFacts()
	for _, s := range stmts {
		walk(s, 0, false, &f)
	}
	return f
}

// AnalyzeSequence is a convenience wrapper over Analyze(seq.Statements).
func AnalyzeSequence(seq extract.Sequence) Facts {
	return Analyze(seq.Statements)
}

func walk(n astmodel.Node, depth int, inReturn bool, f *Facts) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case astmodel.KindVarDeclStmt:
		children := n.Children()
		if len(children) == 0 {
			return
		}
		declarator := children[0]
		name := declarator.Text()
		define(f, name, depth)
		f.Declared[name] = true
		if depth == 0 {
			f.TopLevelDeclared[name] = true
		}
		f.TypeMap[name] = declarator.ResolvedType()
		if len(children) > 1 {
			init := children[1]
			if isLiteralNode(init) {
				f.LiteralVars[name] = true
			}
			walk(init, depth, inReturn, f)
		}
		return

	case astmodel.KindAssignStmt, astmodel.KindAssignExpr:
		children := n.Children()
		if len(children) >= 1 {
			target := children[0]
			if target.Kind() == astmodel.KindIdentifier {
				define(f, target.Text(), depth)
			} else {
				walk(target, depth, inReturn, f)
			}
		}
		if len(children) >= 2 {
			walk(children[1], depth, inReturn, f)
		}
		return

	case astmodel.KindParamDecl, astmodel.KindCatchParamDecl:
		name := n.Text()
		define(f, name, depth)
		f.Declared[name] = true
		if depth == 0 {
			f.TopLevelDeclared[name] = true
		}
		f.TypeMap[name] = n.ResolvedType()
		return

	case astmodel.KindIdentifier:
		f.Used[n.Text()] = true
		if inReturn {
			f.Returned[n.Text()] = true
		}
		return

	case astmodel.KindReturnStmt:
		for _, c := range n.Children() {
			walk(c, depth, true, f)
		}
		return

	case astmodel.KindLambdaExpr:
		// A lambda body is its own Container and analyzed separately
		// (spec.md §4.1 treats the nested container as a single
		// statement from the outer sequence's point of view); its
		// free-variable references are not attributed to this sequence.
		return
	}

	nextDepth := depth
	if scopeOpening[n.Kind()] {
		nextDepth = depth + 1
	}
	for _, c := range n.Children() {
		walk(c, nextDepth, inReturn, f)
	}
}

func define(f *Facts, name string, depth int) {
	if name == "" {
		return
	}
	f.Defined[name] = true
	if depth == 0 {
		f.TopLevelDefined[name] = true
	} else {
		f.InternalVars[name] = true
	}
}

func isLiteralNode(n astmodel.Node) bool {
	return n != nil && n.Kind().IsLiteral()
}

// LiveOut computes spec.md §4.6's liveOut(seq): (defined ∩
// usedPhysicallyAfterSequence) − literalVars − (internalVars −
// topLevelDefined). container is the sequence's enclosing container, whose
// full body is range-compared against so the result is robust to the
// sequence's statements having been reordered within it.
func LiveOut(f Facts, container astmodel.Container, seq extract.Sequence) map[string]bool {
	after := usedAfter(container, seq)
	out := map[string]bool{}
	for name := range f.Defined {
		if !after[name] {
			continue
		}
		if f.LiteralVars[name] {
			continue
		}
		if f.InternalVars[name] && !f.TopLevelDefined[name] {
			continue
		}
		out[name] = true
	}
	return out
}

// usedAfter collects every name used in container statements whose source
// range starts strictly after seq's source range ends.
func usedAfter(container astmodel.Container, seq extract.Sequence) map[string]bool {
	used := map[string]bool{}
	if container == nil {
		return used
	}
	end := seq.SourceRange.End
	for _, stmt := range container.Body() {
		if !end.Before(stmt.Range().Start) {
			continue
		}
		collectUsed(stmt, used)
	}
	return used
}

func collectUsed(n astmodel.Node, used map[string]bool) {
	if n == nil {
		return
	}
	if n.Kind() == astmodel.KindLambdaExpr {
		return
	}
	if n.Kind() == astmodel.KindIdentifier {
		used[n.Text()] = true
	}
	for _, c := range n.Children() {
		collectUsed(c, used)
	}
}

// FindReturnVariable implements spec.md §4.6's findReturnVariable(seq,
// expectedType). expectedType may be nil or astmodel.VoidType, in which
// case no type-compatibility filter is applied (and callers shouldn't be
// calling this for a void extraction in the first place).
func FindReturnVariable(f Facts, liveOut map[string]bool, expectedType astmodel.TypeRef, resolver astmodel.Resolver) (string, bool) {
	var candidates []string
	for name := range f.TopLevelDeclared {
		if liveOut[name] || f.Returned[name] {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)

	if expectedType != nil && !expectedType.IsVoid() && resolver != nil {
		var filtered []string
		for _, name := range candidates {
			if resolver.IsAssignable(f.TypeMap[name], expectedType) {
				filtered = append(filtered, name)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	}

	var preferred []string
	for _, name := range candidates {
		t := f.TypeMap[name]
		if t != nil && !t.IsPrimitive() && !t.IsString() {
			preferred = append(preferred, name)
		}
	}
	if len(preferred) == 1 {
		return preferred[0], true
	}
	if len(preferred) > 0 {
		candidates = preferred
	}

	if expectedType == nil {
		return "", false
	}
	var textMatch []string
	for _, name := range candidates {
		if t := f.TypeMap[name]; t != nil && t.Name() == expectedType.Name() {
			textMatch = append(textMatch, name)
		}
	}
	if len(textMatch) == 1 {
		return textMatch[0], true
	}
	return "", false
}
