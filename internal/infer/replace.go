package infer

import (
	"strings"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
	"github.com/dekarrin/grammarinfer/internal/util"
)

// Sentinel is the placeholder substituted into a template string wherever a
// chosen occurrence is to be replaced; Instantiate later swaps it for a
// concrete replacer string before the result is sent to the oracle.
const Sentinel = "[[:REPLACEME]]"

// AllOccurrenceTemplates returns the set of strings obtainable by
// independently choosing, for each occurrence of nt anywhere in tree,
// whether to keep its yielded substring or substitute Sentinel in its
// place. The returned set is deduplicated and has at most 2^k members,
// where k is the number of nt occurrences in tree.
func AllOccurrenceTemplates(tree *types.ParseNode, nt string) []string {
	count := countOccurrences(tree, nt)
	if count == 0 {
		return []string{tree.Yield()}
	}

	seen := util.NewStringSet()
	var out []string
	total := uint64(1) << uint(count)
	for mask := uint64(0); mask < total; mask++ {
		idx := 0
		s := maskedYield(tree, nt, mask, &idx)
		if !seen.Has(s) {
			seen.Add(s)
			out = append(out, s)
		}
	}
	return out
}

func countOccurrences(n *types.ParseNode, nt string) int {
	count := 0
	n.Walk(func(v *types.ParseNode) bool {
		if !v.Terminal && v.Value == nt {
			count++
		}
		return true
	})
	return count
}

// maskedYield computes the yield of n under the given occurrence mask,
// advancing *idx by one for every occurrence of nt visited (whether or not
// this mask bit substitutes it), so that occurrence indices stay consistent
// across calls with different masks.
func maskedYield(n *types.ParseNode, nt string, mask uint64, idx *int) string {
	if n.Terminal {
		return types.FixupPayload(n.Value)
	}

	isOccurrence := n.Value == nt
	var myIdx int
	if isOccurrence {
		myIdx = *idx
		*idx++
	}

	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(maskedYield(c, nt, mask, idx))
	}
	childYield := sb.String()

	if isOccurrence && mask&(1<<uint(myIdx)) != 0 {
		return Sentinel
	}
	return childYield
}

// Instantiate replaces every occurrence of Sentinel in template with
// replacer, producing a concrete candidate string to send to the oracle.
func Instantiate(template, replacer string) string {
	return strings.ReplaceAll(template, Sentinel, replacer)
}

// RulePositionTemplates enumerates, within tree, every subtree whose payload
// is bp.NonTerminal and whose direct children's payloads (after terminal
// fixup) equal bp.Body exactly, and returns the set of strings obtainable by
// independently choosing, at each such site, whether to keep or substitute
// Sentinel for the bp.Index'th child.
func RulePositionTemplates(tree *types.ParseNode, bp grammar.BodyPosition) []string {
	var sites []*types.ParseNode
	tree.Walk(func(n *types.ParseNode) bool {
		if !n.Terminal && n.Value == bp.NonTerminal && bodyEquals(n.Body(), bp.Body) {
			sites = append(sites, n)
		}
		return true
	})

	if len(sites) == 0 {
		return nil
	}

	seen := util.NewStringSet()
	var out []string
	total := uint64(1) << uint(len(sites))
	for mask := uint64(0); mask < total; mask++ {
		cp := tree.Copy()
		applyRulePositionMask(cp, bp, mask)
		s := cp.Yield()
		if !seen.Has(s) {
			seen.Add(s)
			out = append(out, s)
		}
	}
	return out
}

// applyRulePositionMask mutates n in place, substituting Sentinel for the
// bp.Index'th child at every qualifying site whose mask bit is set. Sites
// are visited in the same pre-order, children-in-order traversal as Walk,
// descending into a matched node's children too, so that site numbering
// here matches RulePositionTemplates' enumeration exactly.
func applyRulePositionMask(n *types.ParseNode, bp grammar.BodyPosition, mask uint64) {
	siteIdx := 0
	var walk func(n *types.ParseNode)
	walk = func(n *types.ParseNode) {
		if n.Terminal {
			return
		}
		if n.Value == bp.NonTerminal && bodyEquals(n.Body(), bp.Body) {
			if mask&(1<<uint(siteIdx)) != 0 {
				n.Children[bp.Index] = types.NewTerminal(Sentinel)
			}
			siteIdx++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
}

func bodyEquals(a []string, b grammar.Production) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
