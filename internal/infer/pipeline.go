// Package infer implements the oracle-guided grammar inference pipeline:
// character-class derivation, bubbling, full and partial coalescing,
// minimisation, and token-class generalisation, in that order.
package infer

import (
	"github.com/dekarrin/grammarinfer/internal/ginferrors"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
)

// Oracle is the membership predicate the pipeline probes. Implementations
// are expected to cache and bound their own calls (see internal/oracle.
// Wrapper); the pipeline itself never retries or times anything out.
type Oracle interface {
	Parse(candidate string) bool
}

// Example is one positive example: an ordered sequence of terminal token
// payloads, guaranteed accepted by the oracle.
type Example []string

// StartSymbol is the pipeline's local name for grammar.StartSymbol, used
// when constructing ParseNode trees rooted at START.
const StartSymbol = grammar.StartSymbol

// Context carries the state that must be threaded explicitly through every
// stage of a single inference run: the fresh-nonterminal allocator and the
// tunable run parameters. A Context is not safe for concurrent use -- the
// whole pipeline is single-threaded and synchronous by design.
type Context struct {
	Alloc      *NonterminalAllocator
	MaxSamples int
	Seed       int64
	Oracle     Oracle
}

// NewContext returns a Context with a fresh allocator and the given oracle
// and token-expansion sample size.
func NewContext(o Oracle, maxSamples int, seed int64) *Context {
	return &Context{
		Alloc:      NewNonterminalAllocator(),
		MaxSamples: maxSamples,
		Seed:       seed,
		Oracle:     o,
	}
}

// Result is the product of a full inference run.
type Result struct {
	Grammar *grammar.Grammar
	Trees   []*types.ParseNode
}

// BuildStartGrammar runs the full pipeline over examples: derive_classes,
// then build_trees (bubbling, which scores each candidate grouping with
// coalesce, then coalesce_partial if coalesce merged nothing), then a final coalesce,
// coalesce_partial, and minimize pass, and finally optional token-class
// generalisation.
func BuildStartGrammar(ctx *Context, examples []Example, expandTokens bool) (*Result, error) {
	if len(examples) == 0 {
		return nil, ginferrors.Setup("no guide examples were supplied", "infer: BuildStartGrammar called with zero examples")
	}

	guideStrings := make([]string, len(examples))
	for i, ex := range examples {
		guideStrings[i] = joinTokens(ex)
	}
	if wrapped, ok := ctx.Oracle.(interface{ CheckSetup([]string) error }); ok {
		if err := wrapped.CheckSetup(guideStrings); err != nil {
			return nil, err
		}
	}

	trees, err := DeriveClasses(ctx, examples)
	if err != nil {
		return nil, err
	}

	trees = BuildTrees(ctx, trees)

	g := BuildGrammar(trees)

	g, trees, _ = Coalesce(ctx, g, trees, "")
	g, trees, _ = CoalescePartial(ctx, g, trees, "")
	g = Minimize(g)

	if expandTokens {
		g, trees = ExpandTokens(ctx, g, trees)
	}

	return &Result{Grammar: g, Trees: trees}, nil
}

func joinTokens(ex Example) string {
	out := ""
	for _, tok := range ex {
		out += types.FixupPayload(tok)
	}
	return out
}
