package grammar

import "fmt"

// BodyPosition names a single symbol slot within a specific rule body: the
// rule's LHS, the full body, and the index of the symbol under
// consideration. Partial coalescing (see coalesce_partial) collects the
// BodyPositions where one nonterminal may be substituted for another.
type BodyPosition struct {
	NonTerminal string
	Body        Production
	Index       int
}

// Symbol returns the symbol named by this position.
func (bp BodyPosition) Symbol() string {
	return bp.Body[bp.Index]
}

// Equal reports whether bp and o name the same rule, body, and index.
func (bp BodyPosition) Equal(o any) bool {
	other, ok := o.(BodyPosition)
	if !ok {
		return false
	}
	return bp.NonTerminal == other.NonTerminal && bp.Index == other.Index && bp.Body.Equal(other.Body)
}

func (bp BodyPosition) String() string {
	left := bp.Body[:bp.Index]
	right := bp.Body[bp.Index+1:]
	return fmt.Sprintf("%s -> %s . %s . %s", bp.NonTerminal, Production(left), bp.Symbol(), Production(right))
}

// FindBodyPositions enumerates every (rule_start, body, position) triple in
// g where the symbol at that position equals sym.
func FindBodyPositions(g *Grammar, sym string) []BodyPosition {
	var found []BodyPosition
	for _, nt := range g.NonTerminals() {
		r := g.Rule(nt)
		for _, body := range r.Productions {
			for i, s := range body {
				if s == sym {
					found = append(found, BodyPosition{NonTerminal: nt, Body: body, Index: i})
				}
			}
		}
	}
	return found
}
