package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FindBodyPositions_MultipleOccurrences(t *testing.T) {
	assert := assert.New(t)

	g := New()
	g.AddRule(StartSymbol, []string{"tA", "tB"})
	g.AddRule("tA", []string{"tB", "x"})
	g.AddRule("tB", []string{"y"})

	got := FindBodyPositions(g, "tB")

	assert.Len(got, 2)

	var sawStart, sawA bool
	for _, bp := range got {
		switch bp.NonTerminal {
		case StartSymbol:
			sawStart = true
			assert.Equal(1, bp.Index)
		case "tA":
			sawA = true
			assert.Equal(0, bp.Index)
		}
	}
	assert.True(sawStart)
	assert.True(sawA)
}

func Test_FindBodyPositions_NoMatches(t *testing.T) {
	g := New()
	g.AddRule(StartSymbol, []string{"x"})

	assert.Empty(t, FindBodyPositions(g, "tZ"))
}

func Test_BodyPosition_Symbol(t *testing.T) {
	bp := BodyPosition{NonTerminal: "tS", Body: Production{"a", "b", "c"}, Index: 1}
	assert.Equal(t, "b", bp.Symbol())
}

func Test_BodyPosition_Equal(t *testing.T) {
	a := BodyPosition{NonTerminal: "tS", Body: Production{"a", "b"}, Index: 0}
	b := BodyPosition{NonTerminal: "tS", Body: Production{"a", "b"}, Index: 0}
	c := BodyPosition{NonTerminal: "tS", Body: Production{"a", "b"}, Index: 1}

	assert := assert.New(t)
	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
	assert.False(a.Equal("not a BodyPosition"))
}
