package infer

import (
	"regexp"
	"testing"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
)

// arithIdentOracle accepts any three-character string of the form X+Y where
// X and Y are each one of a, b, c, d -- so every identifier is mutually
// interchangeable with every other, but "+" is not interchangeable with
// any of them.
func arithIdentOracle() *fakeOracle {
	re := regexp.MustCompile(`^[abcd]\+[abcd]$`)
	return &fakeOracle{accept: func(candidate string) bool { return re.MatchString(candidate) }}
}

// classOfTerminals walks tree, rooted at a DeriveClasses tree (START ->
// example -> class -> terminal), and records each terminal payload's
// immediate class nonterminal name.
func classOfTerminals(tree *types.ParseNode, out map[string]string) {
	tree.Walk(func(n *types.ParseNode) bool {
		if n.Terminal || len(n.Children) != 1 || !n.Children[0].Terminal {
			return true
		}
		out[n.Children[0].Value] = n.Value
		return true
	})
}

func Test_DeriveClasses(t *testing.T) {
	examples := []Example{
		{"a", "+", "b"},
		{"c", "+", "d"},
	}

	ctx := NewContext(arithIdentOracle(), 10, 1)
	trees, err := DeriveClasses(ctx, examples)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(trees, 2)

	// every identifier in both examples should share one class nonterminal,
	// while "+" is classed on its own.
	classOf := map[string]string{}
	for _, tree := range trees {
		classOfTerminals(tree, classOf)
	}

	assert.Equal(classOf["a"], classOf["b"])
	assert.Equal(classOf["a"], classOf["c"])
	assert.Equal(classOf["a"], classOf["d"])
	assert.NotEqual(classOf["a"], classOf["+"])
}

func Test_DeriveClasses_RootIsStart(t *testing.T) {
	examples := []Example{{"a", "+", "b"}}
	ctx := NewContext(arithIdentOracle(), 10, 1)
	trees, err := DeriveClasses(ctx, examples)

	assert := assert.New(t)
	assert.NoError(err)
	if assert.Len(trees, 1) {
		assert.Equal(StartSymbol, trees[0].Value)
	}
}

func Test_DeriveClasses_NoExamples(t *testing.T) {
	ctx := NewContext(arithIdentOracle(), 10, 1)
	trees, err := DeriveClasses(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, trees)
}
