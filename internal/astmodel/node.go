package astmodel

// Node is a single AST node as exposed by the host parser. clonecraft walks
// Nodes read-only: the token normalizer, data-flow analyzer, and truncator
// all operate purely on Kind/Children/Text/ResolvedType, never mutating a
// Node or assuming a concrete host implementation.
type Node interface {
	Kind() NodeKind

	// Children returns the node's direct AST children in source order.
	// Leaf nodes (identifiers, literals) return nil.
	Children() []Node

	// Range is the source range of this node within its compilation unit.
	Range() Range

	// Text is the raw source text this node denotes: an identifier's name,
	// a literal's textual value, a method call's callee name. Interior
	// nodes (e.g. IfStmt) may return "".
	Text() string

	// ResolvedType is the host resolver's best-effort type for this node,
	// or nil if resolution failed (AnalysisError territory — callers treat
	// a nil ResolvedType as astmodel.UniversalType and continue).
	ResolvedType() TypeRef
}

// Statement is a Node known to sit at the top level of a container body.
// It is the unit spec.md's StatementSequence is built from.
type Statement = Node

// VarDecl describes a single declared variable: a local, a field, a
// parameter, or a catch parameter.
type VarDecl struct {
	Name  string
	Type  TypeRef
	Final bool
	// Site is where the declarator/parameter itself lives, used as the
	// ParameterSpec's representative source location (spec.md §3).
	Site Range
}

// TypeDecl is the nearest enclosing type declaration of a container —
// where the Recommendation Generator places an extracted helper, and where
// the Safety Validator checks for name collisions and nested/enum status
// (spec.md §4.10, §4.11 rule 7).
type TypeDecl interface {
	Name() string
	IsNested() bool
	IsEnum() bool
	IsInterface() bool
	IsAnonymous() bool

	// Members lists existing member names (methods, fields) for the
	// Safety Validator's name-collision check (rule 1).
	Members() []string

	// Fields lists the type's own field declarations, used by the
	// Safety Validator (final-field assignment, rule 5) and by the
	// Parameter & Return Resolver when excluding "the containing type's
	// own static fields" from captured parameters (spec.md §4.10 step 2).
	Fields() []VarDecl
}
