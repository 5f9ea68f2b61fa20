package astmodel

// Resolver is the host's symbol-resolution capability: given an expression
// node or a name in scope, it answers type and ancestry questions that
// clonecraft's own passes cannot answer without re-implementing a type
// checker. spec.md §6 calls this out explicitly as an external collaborator;
// every pipeline component that needs it takes one as a constructor
// argument rather than reaching for a package-level singleton.
type Resolver interface {
	// ResolveType returns the static type of an expression node, or
	// (nil, false) if resolution failed. Callers fall back to
	// astmodel.UniversalType and continue (AnalysisError is logged, not
	// propagated — spec.md §7).
	ResolveType(expr Node) (TypeRef, bool)

	// IsAssignable reports whether a value of type from can be assigned to
	// a variable of type to, including generics-stripped and subtype
	// checks (spec.md §4.6 findReturnVariable step 2).
	IsAssignable(from, to TypeRef) bool

	// FindAncestor walks outward from n through its enclosing nodes and
	// returns the nearest one matching kind, or nil.
	FindAncestor(n Node, kind NodeKind) Node

	// FindAll returns every descendant of n (inclusive) matching kind, in
	// source order.
	FindAll(n Node, kind NodeKind) []Node

	// LookupVisibleType reports whether name resolves to a type visible at
	// scope (an imported type, a type in the same package/file, or a
	// well-known standard-library type) rather than a variable — used by
	// the Parameter & Return Resolver to exclude "types visible in scope"
	// from captured parameters (spec.md §4.10 step 2).
	LookupVisibleType(name string, scope Node) (TypeRef, bool)

	// LookupWellKnown reports whether name is a well-known class name (a
	// standard-library type commonly referenced bare, e.g. "Math",
	// "System") excluded from capture the same way.
	LookupWellKnown(name string) bool
}

// FileEnumerator yields absolute file paths under a base path, honoring
// inclusion/exclusion globs. Implemented by internal/enumerate; kept here
// as the contract external tooling (an IDE plugin, a build-system
// integration) could satisfy instead.
type FileEnumerator interface {
	Enumerate(basePath string, includes, excludes []string) ([]string, error)
}

// NamingContext gives the optional AI namer enough information to propose a
// meaningful identifier without re-deriving it from the recommendation.
type NamingContext struct {
	RepresentativeSnippet string
	ContainerNames        []string
	TargetTypeName        string
	IsStatic              bool
}

// Namer proposes an identifier for an extracted helper. The pipeline treats
// it as a pure function snippet -> Option<identifier> (design note in
// spec.md §9): any invalid or absent response falls back to the
// deterministic namer in internal/recommend.
type Namer interface {
	Suggest(ctx NamingContext) (name string, ok bool)
}
