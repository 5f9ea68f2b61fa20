package astmodel

// TypeRef is a resolved type handle from the host's symbol resolver. It is
// intentionally thin: clonecraft never needs to do its own type algebra, it
// only needs to compare, classify, and ask the Resolver for subtyping.
type TypeRef interface {
	// Name returns the fully qualified type name, e.g. "java.lang.String"
	// or "com.example.User". Generic type arguments are included verbatim
	// (e.g. "java.util.List<java.lang.String>"); use StripGenerics for the
	// raw generic type.
	Name() string

	// IsVoid reports whether this is the host language's void/unit type.
	IsVoid() bool

	// IsPrimitive reports whether this is a primitive/value type (int,
	// boolean, double, ...) as opposed to a reference type.
	IsPrimitive() bool

	// IsString reports whether this is the host's string type. Surfaced
	// separately from IsPrimitive because the return-type unification rule
	// (spec.md §4.10) prefers non-primitive types, then string, then the
	// widest numeric type.
	IsString() bool

	// IsUniversal reports whether this is the host's universal top type
	// (e.g. java.lang.Object) or an unresolved/unknown type. Variations
	// whose type is universal and which appear inside a return statement
	// force the truncator to lower k (spec.md §4.9).
	IsUniversal() bool

	// StripGenerics returns the raw generic type with type arguments
	// removed, e.g. "java.util.List<String>" -> "java.util.List".
	StripGenerics() TypeRef
}

// UniversalType is a sentinel TypeRef for "no better type could be
// determined" — the fallback the Parameter & Return Resolver reaches for
// before context-based refinement (spec.md §4.10 step 4).
var UniversalType TypeRef = universalType{}

type universalType struct{}

func (universalType) Name() string        { return "<universal>" }
func (universalType) IsVoid() bool        { return false }
func (universalType) IsPrimitive() bool   { return false }
func (universalType) IsString() bool      { return false }
func (universalType) IsUniversal() bool   { return true }
func (u universalType) StripGenerics() TypeRef { return u }

// VoidType is the sentinel TypeRef for "no return value."
var VoidType TypeRef = voidType{}

type voidType struct{}

func (voidType) Name() string        { return "void" }
func (voidType) IsVoid() bool        { return true }
func (voidType) IsPrimitive() bool   { return true }
func (voidType) IsString() bool      { return false }
func (voidType) IsUniversal() bool   { return false }
func (v voidType) StripGenerics() TypeRef { return v }

// NumericRank orders numeric primitive types by width, widest last, so the
// return-type unifier (spec.md §4.10) can pick "the widest numeric type"
// when several member sequences disagree. Types absent from this table are
// treated as non-numeric.
var NumericRank = map[string]int{
	"byte":   1,
	"short":  2,
	"char":   3,
	"int":    4,
	"long":   5,
	"float":  6,
	"double": 7,
}

// IsNumeric reports whether t's Name appears in NumericRank.
func IsNumeric(t TypeRef) bool {
	if t == nil {
		return false
	}
	_, ok := NumericRank[t.Name()]
	return ok
}
