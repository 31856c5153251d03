package infer

import (
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
	"github.com/dekarrin/grammarinfer/internal/util"
)

// DeriveClasses equivalence-partitions the terminals appearing across every
// example by pairwise-replaceability under the oracle, then wraps each
// example into a depth-3 tree: START -> per-example nonterminal -> class
// nonterminal (one per original token) -> original terminal leaf.
func DeriveClasses(ctx *Context, examples []Example) ([]*types.ParseNode, error) {
	uniqueTerms := uniqueTerminals(examples)

	uf := util.NewUnionFind()
	for _, t := range uniqueTerms {
		uf.Find(t) // register as a singleton class
	}

	for i := 0; i < len(uniqueTerms); i++ {
		for j := i + 1; j < len(uniqueTerms); j++ {
			a, b := uniqueTerms[i], uniqueTerms[j]
			if uf.IsConnected(a, b) {
				continue
			}
			if replaceableEverywhere(ctx, examples, a, b) && replaceableEverywhere(ctx, examples, b, a) {
				uf.Connect(a, b)
			}
		}
	}

	classes := uf.Classes()
	termClass := map[string]string{}
	for _, members := range classes {
		nt := ctx.Alloc.Next()
		for _, m := range members {
			termClass[m] = nt
		}
	}

	trees := make([]*types.ParseNode, len(examples))
	for i, ex := range examples {
		exampleNT := ctx.Alloc.Next()

		classChildren := make([]*types.ParseNode, len(ex))
		for k, tok := range ex {
			leaf := types.NewTerminal(tok)
			classChildren[k] = types.NewNonterminal(termClass[tok], leaf)
		}

		exampleNode := types.NewNonterminal(exampleNT, classChildren...)
		root := types.NewNonterminal(StartSymbol, exampleNode)
		trees[i] = root
	}

	return trees, nil
}

// replaceableEverywhere reports whether swapping every occurrence of from
// with to, independently in every example, yields only oracle-accepted
// strings.
func replaceableEverywhere(ctx *Context, examples []Example, from, to string) bool {
	for _, ex := range examples {
		candidate := ""
		for _, tok := range ex {
			if tok == from {
				candidate += types.FixupPayload(to)
			} else {
				candidate += types.FixupPayload(tok)
			}
		}
		if !ctx.Oracle.Parse(candidate) {
			return false
		}
	}
	return true
}

func uniqueTerminals(examples []Example) []string {
	seen := util.NewStringSet()
	var order []string
	for _, ex := range examples {
		for _, tok := range ex {
			if !seen.Has(tok) {
				seen.Add(tok)
				order = append(order, tok)
			}
		}
	}
	return order
}
