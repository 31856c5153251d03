package infer

import (
	"testing"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

func Test_BuildGrammar(t *testing.T) {
	tree := types.NewNonterminal(grammar.StartSymbol,
		types.NewNonterminal("t1",
			types.NewNonterminal("t2", types.NewTerminal("a")),
			types.NewTerminal("+"),
			types.NewNonterminal("t2", types.NewTerminal("b")),
		),
	)

	g := BuildGrammar([]*types.ParseNode{tree})

	assert := assert.New(t)
	assert.True(g.HasRule(grammar.StartSymbol))
	if r := g.Rule(grammar.StartSymbol); assert.NotNil(r) {
		assert.Len(r.Productions, 1)
		assert.Equal(grammar.Production{"t1"}, r.Productions[0])
	}

	if r := g.Rule("t1"); assert.NotNil(r) {
		assert.Equal(grammar.Production{"t2", "+", "t2"}, r.Productions[0])
	}

	if r := g.Rule("t2"); assert.NotNil(r) {
		assert.Len(r.Productions, 2)
		assert.True(r.HasBody(grammar.Production{"a"}))
		assert.True(r.HasBody(grammar.Production{"b"}))
	}
}

func Test_BuildGrammar_DuplicateBodiesNotAdded(t *testing.T) {
	tree1 := types.NewNonterminal(grammar.StartSymbol,
		types.NewNonterminal("t1", types.NewTerminal("a")),
	)
	tree2 := types.NewNonterminal(grammar.StartSymbol,
		types.NewNonterminal("t1", types.NewTerminal("a")),
	)

	g := BuildGrammar([]*types.ParseNode{tree1, tree2})

	r := g.Rule("t1")
	if assert.NotNil(t, r) {
		assert.Len(t, r.Productions, 1)
	}
}
