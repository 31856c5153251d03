package infer

import (
	"strings"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
	"github.com/dekarrin/grammarinfer/internal/util"
)

// Coalesce merges nonterminals that are mutually replaceable everywhere
// across trees. If target is non-empty, only pairs involving target are
// tested; otherwise every unordered pair of non-START nonterminals is
// tested. Returns the rewritten grammar and trees, and whether any merge
// occurred.
func Coalesce(ctx *Context, g *grammar.Grammar, trees []*types.ParseNode, target string) (*grammar.Grammar, []*types.ParseNode, bool) {
	nts := nonStartNonTerminals(g)

	uf := util.NewUnionFind()
	for _, nt := range nts {
		uf.Find(nt)
	}

	for i := 0; i < len(nts); i++ {
		for j := i + 1; j < len(nts); j++ {
			a, b := nts[i], nts[j]
			if target != "" && a != target && b != target {
				continue
			}
			if uf.IsConnected(a, b) {
				continue
			}
			if mutuallyReplaceable(ctx, trees, a, b) {
				uf.Connect(a, b)
			}
		}
	}

	didCoalesce := false
	for _, members := range uf.Classes() {
		if len(members) < 2 {
			continue
		}
		didCoalesce = true

		className := chooseClassName(members)
		for _, m := range members {
			if m == className {
				continue
			}
			g.RenameNonTerminal(m, className)
			trees = renameForest(trees, m, className)
		}
		g.DropSelfUnitBodies(className)
	}

	if didCoalesce {
		trees = flattenForest(trees)
	}

	return g, trees, didCoalesce
}

// chooseClassName picks the external name for a coalesced equivalence
// class: START if the class contains it (START's external name must never
// change), else the lexicographically smallest member -- any member would
// do, since representative choice among equivalent nonterminals is
// arbitrary.
func chooseClassName(members []string) string {
	for _, m := range members {
		if m == grammar.StartSymbol {
			return grammar.StartSymbol
		}
	}
	best := members[0]
	for _, m := range members[1:] {
		if m < best {
			best = m
		}
	}
	return best
}

// mutuallyReplaceable tests whether a and b are replaceable for each other
// in every tree, in both directions.
func mutuallyReplaceable(ctx *Context, trees []*types.ParseNode, a, b string) bool {
	return replaceableInto(ctx, trees, a, b) && replaceableInto(ctx, trees, b, a)
}

// replaceableInto reports whether, for every string derivable from into,
// substituting it for every occurrence of from (simultaneously, in every
// tree) is accepted by the oracle.
func replaceableInto(ctx *Context, trees []*types.ParseNode, from, into string) bool {
	candidates := yieldsOf(trees, into)
	if len(candidates) == 0 {
		return true
	}
	for _, s := range candidates {
		for _, t := range trees {
			if !ctx.Oracle.Parse(substituteAllYield(t, from, s)) {
				return false
			}
		}
	}
	return true
}

// yieldsOf collects the deduplicated yield of every subtree across trees
// whose payload is nt.
func yieldsOf(trees []*types.ParseNode, nt string) []string {
	seen := util.NewStringSet()
	var out []string
	for _, t := range trees {
		t.Walk(func(n *types.ParseNode) bool {
			if !n.Terminal && n.Value == nt {
				y := n.Yield()
				if !seen.Has(y) {
					seen.Add(y)
					out = append(out, y)
				}
			}
			return true
		})
	}
	return out
}

// substituteAllYield computes the yield of n with every subtree whose
// payload is nt replaced, whole, by replacement.
func substituteAllYield(n *types.ParseNode, nt, replacement string) string {
	if n.Terminal {
		return types.FixupPayload(n.Value)
	}
	if n.Value == nt {
		return replacement
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(substituteAllYield(c, nt, replacement))
	}
	return sb.String()
}

func nonStartNonTerminals(g *grammar.Grammar) []string {
	var out []string
	for _, nt := range g.NonTerminals() {
		if nt != grammar.StartSymbol {
			out = append(out, nt)
		}
	}
	return out
}

func renameForest(trees []*types.ParseNode, from, to string) []*types.ParseNode {
	out := make([]*types.ParseNode, len(trees))
	for i, t := range trees {
		out[i] = renamePayload(t, from, to)
	}
	return out
}

func renamePayload(n *types.ParseNode, from, to string) *types.ParseNode {
	if n.Terminal {
		return n.Copy()
	}
	value := n.Value
	if value == from {
		value = to
	}
	children := make([]*types.ParseNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = renamePayload(c, from, to)
	}
	return &types.ParseNode{Terminal: false, Value: value, Children: children}
}

func flattenForest(trees []*types.ParseNode) []*types.ParseNode {
	out := make([]*types.ParseNode, len(trees))
	for i, t := range trees {
		out[i] = flattenDoubleIndirection(t)
	}
	return out
}

// flattenDoubleIndirection collapses X -> X -> ... chains: while a node has
// exactly one child whose payload equals the node's own, its children are
// replaced with the grandchild list.
func flattenDoubleIndirection(n *types.ParseNode) *types.ParseNode {
	if n.Terminal {
		return n
	}
	children := make([]*types.ParseNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = flattenDoubleIndirection(c)
	}
	for len(children) == 1 && !children[0].Terminal && children[0].Value == n.Value {
		children = children[0].Children
	}
	return &types.ParseNode{Terminal: false, Value: n.Value, Children: children}
}
