package infer

import "github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"

// Minimize applies its rewrites in four passes: duplicate bodies are removed,
// trivial unit chains and single-use single-body nonterminals are inlined
// away, and a final duplicate-body pass cleans up whatever the inlining
// produced. START is never inlined.
func Minimize(g *grammar.Grammar) *grammar.Grammar {
	dedupeAllRules(g)
	inlineUnitChains(g)
	inlineSingleUseNonterminals(g)
	dedupeAllRules(g)
	return g
}

// inlineUnitChains repeatedly inlines any non-START nonterminal whose rule
// has exactly one body of length 1 whose symbol is not itself a current
// grammar key -- i.e. a terminal, or a nonterminal that a previous round of
// this same fixed point already inlined away. Branching nonterminals (more
// than one body, or a body of more than one symbol) are never touched and
// so never become inlining targets for whatever points at them.
func inlineUnitChains(g *grammar.Grammar) {
	for {
		changed := false
		for _, nt := range g.NonTerminals() {
			if nt == grammar.StartSymbol {
				continue
			}
			r := g.Rule(nt)
			if r == nil || len(r.Productions) != 1 || len(r.Productions[0]) != 1 {
				continue
			}
			sym := r.Productions[0][0]
			if sym == nt || g.HasRule(sym) {
				continue
			}
			g.RewriteSymbol(nt, sym)
			g.RemoveRule(nt)
			changed = true
			break
		}
		if !changed {
			return
		}
	}
}

// inlineSingleUseNonterminals inlines any non-START nonterminal with
// exactly one body that is referenced exactly once anywhere else in the
// grammar, splicing its body's symbols directly into that single use site.
func inlineSingleUseNonterminals(g *grammar.Grammar) {
	for {
		changed := false
		for _, nt := range g.NonTerminals() {
			if nt == grammar.StartSymbol {
				continue
			}
			r := g.Rule(nt)
			if r == nil || len(r.Productions) != 1 {
				continue
			}
			if countSymbolUses(g, nt) != 1 {
				continue
			}
			spliceSymbol(g, nt, r.Productions[0])
			g.RemoveRule(nt)
			changed = true
			break
		}
		if !changed {
			return
		}
	}
}

func countSymbolUses(g *grammar.Grammar, sym string) int {
	count := 0
	for _, nt := range g.NonTerminals() {
		for _, p := range g.Rule(nt).Productions {
			for _, s := range p {
				if s == sym {
					count++
				}
			}
		}
	}
	return count
}

// spliceSymbol replaces the single occurrence of sym, wherever it is,
// with replacement's symbols spliced in place.
func spliceSymbol(g *grammar.Grammar, sym string, replacement grammar.Production) {
	for _, nt := range g.NonTerminals() {
		r := g.Rule(nt)
		for i, p := range r.Productions {
			idx := indexOfSymbol(p, sym)
			if idx < 0 {
				continue
			}
			newBody := make(grammar.Production, 0, len(p)-1+len(replacement))
			newBody = append(newBody, p[:idx]...)
			newBody = append(newBody, replacement...)
			newBody = append(newBody, p[idx+1:]...)
			r.Productions[i] = newBody
			return
		}
	}
}

func indexOfSymbol(p grammar.Production, sym string) int {
	for i, s := range p {
		if s == sym {
			return i
		}
	}
	return -1
}
