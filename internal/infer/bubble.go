package infer

import (
	"sort"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
)

// grouping is a candidate sibling sub-range to bubble into a single new
// nonterminal: the symbol-sequence template, the fresh nonterminal name
// allocated for it, how many times it appears in total, and how many of
// those appearances are the entire child list of their parent (a "full
// bubble"; a grouping that only ever appears that way is pruned since it
// would just rename the parent).
type grouping struct {
	template  []string
	nt        string
	count     int
	fullCount int
}

// BuildTrees is the main tree-construction loop: repeatedly enumerate
// groupings, apply and score each in sorted order, accept the first one
// whose score is positive, and restart. Terminates when a full pass over
// the sorted grouping list accepts nothing.
func BuildTrees(ctx *Context, trees []*types.ParseNode) []*types.ParseNode {
	for {
		groupings := enumerateGroupings(ctx, trees)
		baseline := BuildGrammar(trees).Size()

		accepted := false
		for _, grp := range groupings {
			candidate := applyGroupingToForest(trees, grp)
			g := BuildGrammar(candidate)

			g, candidate, didFull := Coalesce(ctx, g, candidate, grp.nt)
			if didFull {
				trees = candidate
				accepted = true
				break
			}

			g, candidate, didPartial := CoalescePartial(ctx, g, candidate, grp.nt)
			if didPartial {
				trees = candidate
				accepted = true
				break
			}

			if g.Size() < baseline {
				trees = candidate
				accepted = true
				break
			}
		}

		if !accepted {
			return trees
		}
	}
}

// enumerateGroupings records every contiguous sibling sub-range of length
// >= 2, across every internal node of every tree, keyed by the structural
// symbol sequence (not by concatenating the payloads together, which would
// let two different sequences collide on the same key). Groupings that
// only ever appear as the entire child list of their parent are discarded,
// and the survivors are sorted by (occurrence count desc, template length
// desc), ties broken by first-seen order.
func enumerateGroupings(ctx *Context, trees []*types.ParseNode) []*grouping {
	byKey := map[string]*grouping{}
	var keyOrder []string

	for _, t := range trees {
		t.Walk(func(n *types.ParseNode) bool {
			if n.Terminal {
				return true
			}
			kids := n.Children
			for length := 2; length <= len(kids); length++ {
				for start := 0; start+length <= len(kids); start++ {
					sub := kids[start : start+length]
					tmpl := payloadsOf(sub)
					key := groupingKey(tmpl)

					g, ok := byKey[key]
					if !ok {
						g = &grouping{template: tmpl, nt: ctx.Alloc.Next()}
						byKey[key] = g
						keyOrder = append(keyOrder, key)
					}
					g.count++
					if start == 0 && length == len(kids) {
						g.fullCount++
					}
				}
			}
			return true
		})
	}

	var out []*grouping
	for _, key := range keyOrder {
		g := byKey[key]
		if g.count == g.fullCount {
			continue // never appears as a proper sub-range: bubbling it is a redundant unit production
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return len(out[i].template) > len(out[j].template)
	})

	return out
}

// groupingKey builds a collision-safe map key for a symbol sequence using a
// NUL-separated join, instead of bare concatenation: two distinct bodies
// whose payloads happen to be prefixes of one another must never collapse
// to the same grouping.
func groupingKey(symbols []string) string {
	const sep = "\x00"
	out := ""
	for i, s := range symbols {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

func payloadsOf(nodes []*types.ParseNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = childPayload(n)
	}
	return out
}

func childPayload(n *types.ParseNode) string {
	if n.Terminal {
		return types.FixupPayload(n.Value)
	}
	return n.Value
}

// applyGroupingToForest returns a new tree list with grp applied to every
// tree: each tree is recursively copied, and in every node the leftmost
// match of grp's template among its children is replaced with a single new
// child labelled grp.nt whose children are the matched slice, repeated
// until no match of the template remains among that node's children.
func applyGroupingToForest(trees []*types.ParseNode, grp *grouping) []*types.ParseNode {
	out := make([]*types.ParseNode, len(trees))
	for i, t := range trees {
		out[i] = applyGroupingToTree(t, grp)
	}
	return out
}

func applyGroupingToTree(n *types.ParseNode, grp *grouping) *types.ParseNode {
	if n.Terminal {
		return n.Copy()
	}

	rewrittenChildren := make([]*types.ParseNode, len(n.Children))
	for i, c := range n.Children {
		rewrittenChildren[i] = applyGroupingToTree(c, grp)
	}

	return &types.ParseNode{
		Terminal: false,
		Value:    n.Value,
		Children: applyGroupingToChildren(rewrittenChildren, grp),
	}
}

func applyGroupingToChildren(children []*types.ParseNode, grp *grouping) []*types.ParseNode {
	tmplLen := len(grp.template)
	out := make([]*types.ParseNode, 0, len(children))

	i := 0
	for i < len(children) {
		if i+tmplLen <= len(children) && childrenMatchTemplate(children[i:i+tmplLen], grp.template) {
			matched := append([]*types.ParseNode(nil), children[i:i+tmplLen]...)
			out = append(out, types.NewNonterminal(grp.nt, matched...))
			i += tmplLen
			continue
		}
		out = append(out, children[i])
		i++
	}

	return out
}

func childrenMatchTemplate(nodes []*types.ParseNode, template []string) bool {
	for i, n := range nodes {
		if childPayload(n) != template[i] {
			return false
		}
	}
	return true
}
