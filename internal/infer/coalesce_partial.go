package infer

import (
	"strings"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
)

// CoalescePartial merges an asymmetrically replaceable pair of nonterminals.
// It assumes full Coalesce has just run, so no remaining pair is fully
// mutually replaceable -- only skip that search here, it is the caller's
// responsibility to have run Coalesce first.
//
// F ranges over the "fully replaceable" candidates (target alone when
// target is non-empty, else every non-START nonterminal); P ranges over
// "partially replaceable" candidates: nonterminals with exactly one body of
// length 1 whose single symbol is a terminal. Every qualifying (F, P) pair
// is merged in turn; the returned bool reports whether any merge happened.
func CoalescePartial(ctx *Context, g *grammar.Grammar, trees []*types.ParseNode, target string) (*grammar.Grammar, []*types.ParseNode, bool) {
	var fCandidates []string
	if target != "" {
		fCandidates = []string{target}
	} else {
		fCandidates = nonStartNonTerminals(g)
	}

	didReplace := false

	for _, f := range fCandidates {
		for _, p := range singleTerminalCandidates(g) {
			if f == p || !g.HasRule(f) || !g.HasRule(p) {
				continue
			}

			sites := findReplaceablePositions(ctx, g, trees, f, p)
			if len(sites) == 0 {
				continue
			}

			newNT := ctx.Alloc.Next()
			if f == grammar.StartSymbol {
				newNT = grammar.StartSymbol
			}

			// sites share their Body slices with g's productions, which
			// applyPartialMerge rewrites in place; the tree rewrite needs
			// the bodies as they were before the merge.
			treeSites := make([]grammar.BodyPosition, len(sites))
			for i, bp := range sites {
				treeSites[i] = grammar.BodyPosition{NonTerminal: bp.NonTerminal, Body: bp.Body.Copy(), Index: bp.Index}
			}

			applyPartialMerge(g, f, p, newNT, sites)
			trees = rewriteForestRulePositions(trees, treeSites, newNT)
			trees = renameForest(trees, f, newNT)

			didReplace = true
		}
	}

	return g, trees, didReplace
}

// findReplaceablePositions runs both halves of the asymmetric-replaceability
// test: first that f is everywhere-replaceable by p, then collects every
// rule position where p can in turn be replaced by f.
func findReplaceablePositions(ctx *Context, g *grammar.Grammar, trees []*types.ParseNode, f, p string) []grammar.BodyPosition {
	pYield := yieldsOf(trees, p)
	if !allAccept(ctx, trees, func(t *types.ParseNode) []string {
		out := make([]string, len(pYield))
		for i, s := range pYield {
			out[i] = substituteAllYield(t, f, s)
		}
		return out
	}) {
		return nil
	}

	fYield := yieldsOf(trees, f)
	if len(fYield) == 0 {
		return nil
	}

	var qualifying []grammar.BodyPosition
	for _, bp := range grammar.FindBodyPositions(g, p) {
		ok := true
	probe:
		for _, s := range fYield {
			for _, t := range trees {
				if !ctx.Oracle.Parse(substituteRulePositionYield(t, bp, s)) {
					ok = false
					break probe
				}
			}
		}
		if ok {
			qualifying = append(qualifying, bp)
		}
	}
	return qualifying
}

// allAccept applies candidates(t) to every tree t and probes the oracle on
// every resulting string, short-circuiting on the first rejection.
func allAccept(ctx *Context, trees []*types.ParseNode, candidates func(*types.ParseNode) []string) bool {
	for _, t := range trees {
		for _, s := range candidates(t) {
			if !ctx.Oracle.Parse(s) {
				return false
			}
		}
	}
	return true
}

// substituteRulePositionYield computes the yield of n with bp.Index's
// child replaced wholesale by replacement at every site where the node's
// payload is bp.NonTerminal and its body (after fixup) equals bp.Body.
func substituteRulePositionYield(n *types.ParseNode, bp grammar.BodyPosition, replacement string) string {
	if n.Terminal {
		return types.FixupPayload(n.Value)
	}

	var sb strings.Builder
	if n.Value == bp.NonTerminal && bodyEquals(n.Body(), bp.Body) {
		for i, c := range n.Children {
			if i == bp.Index {
				sb.WriteString(replacement)
			} else {
				sb.WriteString(substituteRulePositionYield(c, bp, replacement))
			}
		}
		return sb.String()
	}

	for _, c := range n.Children {
		sb.WriteString(substituteRulePositionYield(c, bp, replacement))
	}
	return sb.String()
}

func singleTerminalCandidates(g *grammar.Grammar) []string {
	var out []string
	for _, nt := range g.NonTerminals() {
		r := g.Rule(nt)
		if r == nil || len(r.Productions) != 1 {
			continue
		}
		body := r.Productions[0]
		if len(body) != 1 {
			continue
		}
		if g.HasRule(body[0]) {
			continue // refers to a nonterminal, not a terminal lexeme
		}
		out = append(out, nt)
	}
	return out
}

// applyPartialMerge rewrites g: the qualifying rule positions are repointed
// to newNT, every remaining occurrence of f is rewritten to newNT, bodies
// are deduplicated, f's rule is removed, and a new rule for newNT is added
// with f's original bodies plus p's bodies. p's own rule is left untouched.
func applyPartialMerge(g *grammar.Grammar, f, p, newNT string, sites []grammar.BodyPosition) {
	fRule := g.Rule(f)
	var fBodies []grammar.Production
	if fRule != nil {
		for _, b := range fRule.Productions {
			fBodies = append(fBodies, b.Copy())
		}
	}

	for _, bp := range sites {
		r := g.Rule(bp.NonTerminal)
		if r == nil {
			continue
		}
		for _, prod := range r.Productions {
			if prod.Equal(bp.Body) {
				prod[bp.Index] = newNT
			}
		}
	}

	g.RewriteSymbol(f, newNT)

	if g.HasRule(f) {
		g.RemoveRule(f)
	}

	for _, b := range fBodies {
		g.AddRule(newNT, b)
	}
	if pRule := g.Rule(p); pRule != nil {
		for _, b := range pRule.Productions {
			g.AddRule(newNT, b)
		}
	}
	g.DropSelfUnitBodies(newNT)
	dedupeAllRules(g)
}

// dedupeAllRules removes structurally duplicate bodies from every rule in
// g; RewriteSymbol and the position rewrites above can each independently
// cause two previously distinct bodies to collapse onto the same symbol
// sequence.
func dedupeAllRules(g *grammar.Grammar) {
	for _, nt := range g.NonTerminals() {
		r := g.Rule(nt)
		var kept []grammar.Production
		for _, p := range r.Productions {
			dup := false
			for _, k := range kept {
				if k.Equal(p) {
					dup = true
					break
				}
			}
			if !dup {
				kept = append(kept, p)
			}
		}
		r.Productions = kept
	}
}

// rewriteForestRulePositions rewrites every tree so that, at every site
// matching one of sites, the matched child's own payload becomes newNT
// (its own children are preserved) -- this runs before the wholesale
// rename of f itself, since it targets p-labelled children nested at
// specific rule positions, not occurrences of f.
func rewriteForestRulePositions(trees []*types.ParseNode, sites []grammar.BodyPosition, newNT string) []*types.ParseNode {
	out := make([]*types.ParseNode, len(trees))
	for i, t := range trees {
		out[i] = rewriteRulePositions(t, sites, newNT)
	}
	return out
}

func rewriteRulePositions(n *types.ParseNode, sites []grammar.BodyPosition, newNT string) *types.ParseNode {
	if n.Terminal {
		return n.Copy()
	}

	var matchedPositions []int
	for _, s := range sites {
		if n.Value == s.NonTerminal && bodyEquals(n.Body(), s.Body) {
			matchedPositions = append(matchedPositions, s.Index)
		}
	}

	children := make([]*types.ParseNode, len(n.Children))
	for i, c := range n.Children {
		rewritten := rewriteRulePositions(c, sites, newNT)
		if intSliceContains(matchedPositions, i) {
			children[i] = &types.ParseNode{Terminal: false, Value: newNT, Children: rewritten.Children}
		} else {
			children[i] = rewritten
		}
	}
	return &types.ParseNode{Terminal: false, Value: n.Value, Children: children}
}

func intSliceContains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
