package astmodel

// Container is one code container per spec.md GLOSSARY: a method,
// constructor, static/instance initializer, or block-bodied lambda. It
// owns an ordered top-level statement list that the Statement Extractor
// slides a window across.
type Container interface {
	Kind() ContainerKind

	// Name is a human-readable label for diagnostics and helper naming
	// context — a method name, "<clinit>" for a static initializer, "<init>"
	// for a constructor or instance initializer, or the enclosing method's
	// name plus "$lambda" for a lambda.
	Name() string

	// Body returns the container's top-level statements in source order.
	// A nil/empty Body with a zero Range signals a malformed AST and
	// causes the Statement Extractor to fail with ExtractionError.
	Body() []Statement

	// Range is the source range of the entire container (signature through
	// closing brace), used by the Data-Flow Analyzer's "used after" range
	// comparison (spec.md §4.6).
	Range() Range

	// IsStatic reports the container's own static-ness where that is
	// intrinsic (methods, static initializers): false for non-static
	// members. Lambdas and constructors answer via isContainingStatic
	// instead (spec.md §4.10), which also consults EnclosingCallable.
	IsStatic() bool

	// Parameters are the container's declared parameters (empty for
	// initializers).
	Parameters() []VarDecl

	// EnclosingType is the nearest enclosing type declaration, used for
	// helper placement and the Safety Validator's checks.
	EnclosingType() TypeDecl

	// EnclosingCallable returns the method/constructor that lexically
	// contains this container, walking outward through nested
	// lambdas/anonymous bodies. Returns nil for a top-level method or
	// constructor. Lambdas use this to inherit their enclosing method's
	// static-ness (spec.md §4.10: "Lambda -> walk ancestors to the
	// enclosing method; inherit its static-ness").
	EnclosingCallable() Container

	// LocalVarTypes returns the name->type map of every local variable
	// visible at any point in this container's body (its own declarations
	// plus, for a lambda, effectively-final locals captured from enclosing
	// scopes), used by context-based type refinement (spec.md §4.10 step 4).
	LocalVarTypes() map[string]TypeRef

	// CompilationUnit is the file this container was declared in.
	CompilationUnit() CompilationUnit

	// FinalLocals lists local variables declared "final" anywhere in this
	// container's body, reached by the host's own walk of variable
	// declarators (spec.md §4.11 rule 6: "names reached by walking
	// variable declarators with the 'final' modifier").
	FinalLocals() []VarDecl
}

// CompilationUnit is one parsed source file.
type CompilationUnit interface {
	FilePath() string

	// Containers enumerates every code container declared in this file —
	// including those nested inside other types, per spec.md §4.1 ("every
	// callable declared inside nested/anonymous types"). Order is
	// unspecified; callers that need determinism sort by Range.
	Containers() []Container

	// IsTestFile is a pluggable predicate (spec.md Open Questions: "exact
	// semantics for detecting 'test file' beyond the default path
	// heuristic... should be treated as a pluggable predicate"). The
	// default implementation (DefaultIsTestFile) matches a "Test"/"Tests"/
	// "TestCase" name suffix or a "test"/"tests" path segment; hosts may
	// override per project.
	IsTestFile() bool
}
