package astfixture

import "clonecraft/internal/astmodel"

// Container is a fixture astmodel.Container.
type Container struct {
	CKind              astmodel.ContainerKind
	CName              string
	CBody              []astmodel.Statement
	CRange             astmodel.Range
	CStatic            bool
	CParams            []astmodel.VarDecl
	CEnclosingType     astmodel.TypeDecl
	CEnclosingCallable astmodel.Container
	CLocalTypes        map[string]astmodel.TypeRef
	CUnit              astmodel.CompilationUnit
	CFinalLocals       []astmodel.VarDecl
}

func (c *Container) Kind() astmodel.ContainerKind          { return c.CKind }
func (c *Container) Name() string                          { return c.CName }
func (c *Container) Body() []astmodel.Statement            { return c.CBody }
func (c *Container) Range() astmodel.Range                 { return c.CRange }
func (c *Container) IsStatic() bool                        { return c.CStatic }
func (c *Container) Parameters() []astmodel.VarDecl         { return c.CParams }
func (c *Container) EnclosingType() astmodel.TypeDecl       { return c.CEnclosingType }
func (c *Container) EnclosingCallable() astmodel.Container  { return c.CEnclosingCallable }
func (c *Container) LocalVarTypes() map[string]astmodel.TypeRef {
	if c.CLocalTypes == nil {
		return map[string]astmodel.TypeRef{}
	}
	return c.CLocalTypes
}
func (c *Container) CompilationUnit() astmodel.CompilationUnit { return c.CUnit }
func (c *Container) FinalLocals() []astmodel.VarDecl           { return c.CFinalLocals }

// NewContainer builds a Container spanning [startLine, endLine] with body.
func NewContainer(kind astmodel.ContainerKind, name string, startLine, endLine int, body ...astmodel.Statement) *Container {
	return &Container{
		CKind:       kind,
		CName:       name,
		CBody:       body,
		CRange:      astmodel.Range{Start: astmodel.Position{Line: startLine, Column: 1}, End: astmodel.Position{Line: endLine, Column: 1}},
		CLocalTypes: map[string]astmodel.TypeRef{},
	}
}

// CompilationUnit is a fixture astmodel.CompilationUnit.
type CompilationUnit struct {
	Path        string
	UContainers []astmodel.Container
	Test        bool
}

func (u *CompilationUnit) FilePath() string                  { return u.Path }
func (u *CompilationUnit) Containers() []astmodel.Container   { return u.UContainers }
func (u *CompilationUnit) IsTestFile() bool                   { return u.Test }

// NewUnit builds a CompilationUnit and backfills each container's CUnit
// pointer so Container.CompilationUnit() works without extra wiring.
func NewUnit(path string, test bool, containers ...*Container) *CompilationUnit {
	u := &CompilationUnit{Path: path, Test: test}
	for _, c := range containers {
		c.CUnit = u
		u.UContainers = append(u.UContainers, c)
	}
	return u
}
