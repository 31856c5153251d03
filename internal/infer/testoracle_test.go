package infer

// fakeOracle is a deterministic in-memory Oracle for tests: it accepts a
// candidate string exactly when its accept predicate returns true (see
// newSetOracle for an accept-list predicate). It also counts calls so tests
// can assert on probe volume where that matters.
type fakeOracle struct {
	accept func(candidate string) bool
	calls  int
}

func (f *fakeOracle) Parse(candidate string) bool {
	f.calls++
	return f.accept(candidate)
}

// newSetOracle returns a fakeOracle that accepts exactly the strings in set.
func newSetOracle(set ...string) *fakeOracle {
	m := map[string]bool{}
	for _, s := range set {
		m[s] = true
	}
	return &fakeOracle{accept: func(candidate string) bool { return m[candidate] }}
}
