package astfixture

import "clonecraft/internal/astmodel"

// Resolver is a fixture astmodel.Resolver. It walks a fixed set of root
// nodes (usually a test's container bodies) to answer ancestry queries, and
// consults small override maps for type lookups a real resolver would
// derive from symbol tables.
type Resolver struct {
	Roots        []astmodel.Node
	Assignable   map[string]map[string]bool // from -> to -> true
	VisibleTypes map[string]astmodel.TypeRef
	WellKnown    map[string]bool
}

// NewResolver builds an empty fixture resolver rooted at roots.
func NewResolver(roots ...astmodel.Node) *Resolver {
	return &Resolver{
		Roots:        roots,
		Assignable:   map[string]map[string]bool{},
		VisibleTypes: map[string]astmodel.TypeRef{},
		WellKnown:    map[string]bool{},
	}
}

// AllowAssign registers that a value of type `from` may be assigned to a
// variable of type `to` (beyond identity and numeric widening, which are
// always allowed).
func (r *Resolver) AllowAssign(from, to string) {
	if r.Assignable[from] == nil {
		r.Assignable[from] = map[string]bool{}
	}
	r.Assignable[from][to] = true
}

func (r *Resolver) ResolveType(expr astmodel.Node) (astmodel.TypeRef, bool) {
	if expr == nil {
		return nil, false
	}
	t := expr.ResolvedType()
	if t == nil {
		return nil, false
	}
	return t, true
}

func (r *Resolver) IsAssignable(from, to astmodel.TypeRef) bool {
	if from == nil || to == nil {
		return false
	}
	if to.IsUniversal() {
		return true
	}
	fn, tn := from.StripGenerics().Name(), to.StripGenerics().Name()
	if fn == tn {
		return true
	}
	if fr, tr := astmodel.NumericRank[fn], astmodel.NumericRank[tn]; fr > 0 && tr > 0 && fr <= tr {
		return true
	}
	if byTo, ok := r.Assignable[fn]; ok && byTo[tn] {
		return true
	}
	return false
}

func (r *Resolver) FindAncestor(n astmodel.Node, kind astmodel.NodeKind) astmodel.Node {
	for _, root := range r.Roots {
		if path, ok := findPath(root, n, nil); ok {
			for i := len(path) - 2; i >= 0; i-- {
				if path[i].Kind() == kind {
					return path[i]
				}
			}
			return nil
		}
	}
	return nil
}

func (r *Resolver) FindAll(n astmodel.Node, kind astmodel.NodeKind) []astmodel.Node {
	var out []astmodel.Node
	var walk func(astmodel.Node)
	walk = func(cur astmodel.Node) {
		if cur == nil {
			return
		}
		if cur.Kind() == kind {
			out = append(out, cur)
		}
		for _, c := range cur.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}

func (r *Resolver) LookupVisibleType(name string, scope astmodel.Node) (astmodel.TypeRef, bool) {
	t, ok := r.VisibleTypes[name]
	return t, ok
}

func (r *Resolver) LookupWellKnown(name string) bool {
	return r.WellKnown[name]
}

// findPath returns the node path from root to target (inclusive), or false
// if target is not reachable from root.
func findPath(root, target astmodel.Node, acc []astmodel.Node) ([]astmodel.Node, bool) {
	acc = append(acc, root)
	if root == target {
		return acc, true
	}
	for _, c := range root.Children() {
		if path, ok := findPath(c, target, acc); ok {
			return path, true
		}
	}
	return nil, false
}
