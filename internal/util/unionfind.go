package util

// UnionFind is a disjoint-set structure over string-typed elements, used to
// track equivalence classes of terminals (character-class derivation) and of
// nonterminals (coalescing).
//
// The zero value is not ready for use; call NewUnionFind.
type UnionFind struct {
	parent map[string]string
	rank   map[string]int
}

// NewUnionFind returns an empty UnionFind. Elements are added implicitly the
// first time they are mentioned to Connect, Find, or IsConnected.
func NewUnionFind() *UnionFind {
	return &UnionFind{
		parent: map[string]string{},
		rank:   map[string]int{},
	}
}

func (uf *UnionFind) ensure(e string) {
	if _, ok := uf.parent[e]; !ok {
		uf.parent[e] = e
		uf.rank[e] = 0
	}
}

// Find returns the representative element of e's equivalence class. e is
// added as a new singleton class if it has not been seen before.
func (uf *UnionFind) Find(e string) string {
	uf.ensure(e)
	if uf.parent[e] != e {
		uf.parent[e] = uf.Find(uf.parent[e])
	}
	return uf.parent[e]
}

// Connect unions the equivalence classes containing a and b. No-op if they
// are already in the same class.
func (uf *UnionFind) Connect(a, b string) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return
	}

	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// IsConnected reports whether a and b are in the same equivalence class.
func (uf *UnionFind) IsConnected(a, b string) bool {
	return uf.Find(a) == uf.Find(b)
}

// Classes returns a mapping from each class's representative to the full set
// of elements in that class.
func (uf *UnionFind) Classes() map[string][]string {
	classes := map[string][]string{}
	for e := range uf.parent {
		rep := uf.Find(e)
		classes[rep] = append(classes[rep], e)
	}
	return classes
}
