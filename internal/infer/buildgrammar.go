package infer

import (
	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
)

// BuildGrammar walks every tree depth-first and synthesises a Rule for
// every nonterminal node that has at least one child: LHS is the node's
// payload, body is the list of child payloads (terminals passed through
// fixup). A per-LHS duplicate check (by structural body equality, not by
// concatenating the body into one string) prevents adding duplicate bodies
// within a single pass. START is always present as a key, even if no tree
// happens to visit it with children.
func BuildGrammar(trees []*types.ParseNode) *grammar.Grammar {
	g := grammar.New()
	g.AddRule(grammar.StartSymbol, nil) // ensure START exists; body dropped below if empty

	for _, t := range trees {
		buildGrammarFrom(g, t)
	}

	// an empty body placeholder for START may have been added above if no
	// tree ever gave it real children; remove it once real rules exist.
	if r := g.Rule(grammar.StartSymbol); r != nil {
		pruned := r.Productions[:0]
		for _, p := range r.Productions {
			if len(p) > 0 {
				pruned = append(pruned, p)
			}
		}
		r.Productions = pruned
	}

	return g
}

func buildGrammarFrom(g *grammar.Grammar, n *types.ParseNode) {
	if n == nil || n.Terminal {
		return
	}

	if len(n.Children) > 0 {
		g.AddRule(n.Value, n.Body())
	}

	for _, c := range n.Children {
		buildGrammarFrom(g, c)
	}
}
