// Package grammar implements the context-free grammar data model used by the
// inference pipeline: an ordered nonterminal-to-rule map, mutated in place
// as bubbling, coalescing, and minimisation refine it.
package grammar

import (
	"fmt"
	"strings"
)

// StartSymbol is the distinguished, permanently reserved root nonterminal
// name. It is never reused for any other purpose and is never inlined away.
const StartSymbol = "t0"

// Production is a single alternative of a rule: an ordered sequence of
// symbols, each either a nonterminal name present as a key of the owning
// Grammar, or a terminal lexeme (optionally written quoted, as `"x"`).
type Production []string

// Equal reports whether p and o are the same symbol sequence.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of p.
func (p Production) Copy() Production {
	cp := make(Production, len(p))
	copy(cp, p)
	return cp
}

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Rule is all alternatives for a single nonterminal, in the order they were
// added.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// HasBody reports whether r already has a production equal to body.
func (r *Rule) HasBody(body Production) bool {
	for _, p := range r.Productions {
		if p.Equal(body) {
			return true
		}
	}
	return false
}

// RemoveBody removes the first production equal to body, if any. Reports
// whether a production was removed.
func (r *Rule) RemoveBody(body Production) bool {
	for i, p := range r.Productions {
		if p.Equal(body) {
			r.Productions = append(r.Productions[:i], r.Productions[i+1:]...)
			return true
		}
	}
	return false
}

// Copy returns a deep copy of r.
func (r *Rule) Copy() *Rule {
	cp := &Rule{NonTerminal: r.NonTerminal, Productions: make([]Production, len(r.Productions))}
	for i, p := range r.Productions {
		cp.Productions[i] = p.Copy()
	}
	return cp
}

func (r *Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is an ordered mapping from nonterminal name to Rule. Grammar does
// not insert START (StartSymbol) by itself; infer.BuildGrammar always adds it.
type Grammar struct {
	order []string
	rules map[string]*Rule
}

// New returns an empty Grammar ready for use.
func New() *Grammar {
	return &Grammar{rules: map[string]*Rule{}}
}

// AddRule adds body as a new production of nt, creating nt's Rule if it does
// not yet exist. If nt already has an identical production, this is a no-op
// -- AddRule never introduces duplicate bodies.
func (g *Grammar) AddRule(nt string, body []string) {
	if g.rules == nil {
		g.rules = map[string]*Rule{}
	}

	r, ok := g.rules[nt]
	if !ok {
		r = &Rule{NonTerminal: nt}
		g.rules[nt] = r
		g.order = append(g.order, nt)
	}

	prod := Production(body)
	if !r.HasBody(prod) {
		r.Productions = append(r.Productions, prod.Copy())
	}
}

// Rule returns the Rule for nt, or nil if nt is not a key of g.
func (g *Grammar) Rule(nt string) *Rule {
	return g.rules[nt]
}

// HasRule reports whether nt is a key of g.
func (g *Grammar) HasRule(nt string) bool {
	_, ok := g.rules[nt]
	return ok
}

// RemoveRule removes nt and its Rule entirely. It is an invariant violation
// to remove StartSymbol; callers must never do so.
func (g *Grammar) RemoveRule(nt string) {
	if nt == StartSymbol {
		panic("grammar: attempt to remove START")
	}
	delete(g.rules, nt)
	for i, n := range g.order {
		if n == nt {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// NonTerminals returns every nonterminal key of g, in insertion order.
func (g *Grammar) NonTerminals() []string {
	cp := make([]string, len(g.order))
	copy(cp, g.order)
	return cp
}

// StartSymbol returns the distinguished root nonterminal name.
func (g *Grammar) StartSymbol() string {
	return StartSymbol
}

// Size returns the total number of symbol occurrences across every body of
// every rule in g.
func (g *Grammar) Size() int {
	total := 0
	for _, nt := range g.order {
		for _, p := range g.rules[nt].Productions {
			total += len(p)
		}
	}
	return total
}

// Copy returns a deep copy of g.
func (g *Grammar) Copy() *Grammar {
	cp := New()
	cp.order = make([]string, len(g.order))
	copy(cp.order, g.order)
	for nt, r := range g.rules {
		cp.rules[nt] = r.Copy()
	}
	return cp
}

// RewriteSymbol replaces every occurrence of oldSym with newSym in every
// body of every rule in g. It does not touch rule keys (LHS names); use
// RenameNonTerminal for that.
func (g *Grammar) RewriteSymbol(oldSym, newSym string) {
	for _, nt := range g.order {
		r := g.rules[nt]
		for i, p := range r.Productions {
			for j, sym := range p {
				if sym == oldSym {
					p[j] = newSym
				}
			}
			r.Productions[i] = p
		}
	}
}

// RenameNonTerminal renames the rule keyed by oldNT (if present) to newNT,
// also rewriting any symbol occurrences of oldNT to newNT across all bodies.
// If g already has a rule for newNT, oldNT's productions are appended to it
// (skipping any that are already present) and oldNT's rule is removed.
func (g *Grammar) RenameNonTerminal(oldNT, newNT string) {
	if oldNT == newNT {
		return
	}

	g.RewriteSymbol(oldNT, newNT)

	r, ok := g.rules[oldNT]
	if !ok {
		return
	}

	if existing, has := g.rules[newNT]; has {
		for _, p := range r.Productions {
			if !existing.HasBody(p) {
				existing.Productions = append(existing.Productions, p)
			}
		}
		g.RemoveRule(oldNT)
		return
	}

	r.NonTerminal = newNT
	g.rules[newNT] = r
	delete(g.rules, oldNT)
	for i, n := range g.order {
		if n == oldNT {
			g.order[i] = newNT
			break
		}
	}
}

// DropSelfUnitBodies removes, from nt's rule, any production that is exactly
// the single symbol nt itself. This is the "no body is exactly [LHS]"
// invariant, enforced explicitly by callers that merge rules together
// (coalescing is the only operation that can otherwise introduce one).
func (g *Grammar) DropSelfUnitBodies(nt string) {
	r, ok := g.rules[nt]
	if !ok {
		return
	}
	kept := r.Productions[:0]
	for _, p := range r.Productions {
		if len(p) == 1 && p[0] == nt {
			continue
		}
		kept = append(kept, p)
	}
	r.Productions = kept
}

// String renders every rule of g, START first, in insertion order for the
// rest.
func (g *Grammar) String() string {
	var sb strings.Builder
	if g.HasRule(StartSymbol) {
		sb.WriteString(g.rules[StartSymbol].String())
		sb.WriteRune('\n')
	}
	for _, nt := range g.order {
		if nt == StartSymbol {
			continue
		}
		sb.WriteString(g.rules[nt].String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
