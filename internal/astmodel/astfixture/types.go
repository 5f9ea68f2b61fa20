package astfixture

import (
	"strings"

	"clonecraft/internal/astmodel"
)

// TypeRef is a fixture astmodel.TypeRef.
type TypeRef struct {
	TRName     string
	Void       bool
	Prim       bool
	Str        bool
	Universal  bool
}

func (t TypeRef) Name() string      { return t.TRName }
func (t TypeRef) IsVoid() bool      { return t.Void }
func (t TypeRef) IsPrimitive() bool { return t.Prim }
func (t TypeRef) IsString() bool    { return t.Str }
func (t TypeRef) IsUniversal() bool { return t.Universal }
func (t TypeRef) StripGenerics() astmodel.TypeRef {
	if idx := strings.IndexByte(t.TRName, '<'); idx >= 0 {
		t.TRName = t.TRName[:idx]
	}
	return t
}

// Common reusable types for tests.
var (
	StringType    astmodel.TypeRef = TypeRef{TRName: "java.lang.String", Str: true}
	IntType       astmodel.TypeRef = TypeRef{TRName: "int", Prim: true}
	LongType      astmodel.TypeRef = TypeRef{TRName: "long", Prim: true}
	DoubleType    astmodel.TypeRef = TypeRef{TRName: "double", Prim: true}
	BooleanType   astmodel.TypeRef = TypeRef{TRName: "boolean", Prim: true}
	VoidType                       = astmodel.VoidType
	UniversalType astmodel.TypeRef = TypeRef{TRName: "java.lang.Object", Universal: true}
)

// Ref builds a named reference type, e.g. Ref("com.example.User").
func Ref(name string) astmodel.TypeRef { return TypeRef{TRName: name} }

// TypeDecl is a fixture astmodel.TypeDecl.
type TypeDecl struct {
	TName      string
	Nested     bool
	Enum       bool
	Interface  bool
	Anonymous  bool
	TMembers   []string
	TFields    []astmodel.VarDecl
}

func (t *TypeDecl) Name() string             { return t.TName }
func (t *TypeDecl) IsNested() bool           { return t.Nested }
func (t *TypeDecl) IsEnum() bool             { return t.Enum }
func (t *TypeDecl) IsInterface() bool        { return t.Interface }
func (t *TypeDecl) IsAnonymous() bool        { return t.Anonymous }
func (t *TypeDecl) Members() []string        { return t.TMembers }
func (t *TypeDecl) Fields() []astmodel.VarDecl { return t.TFields }
