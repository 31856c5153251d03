package infer

import (
	"strings"
	"testing"

	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_FormatGrammar_StartsWithStart(t *testing.T) {
	g := grammar.New()
	g.AddRule(grammar.StartSymbol, []string{"t1"})
	g.AddRule("t1", []string{"a"})
	g.AddRule("t1", []string{"b"})

	out := FormatGrammar(g)

	assert := assert.New(t)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(strings.HasPrefix(lines[0], grammar.StartSymbol+" -> "))
	assert.Contains(out, "a")
	assert.Contains(out, "b")
}

func Test_SpaceIndentNewlines(t *testing.T) {
	in := "first\nsecond\nthird"
	out := spaceIndentNewlines(in, 4)

	want := "first\n    second\n    third"
	assert.Equal(t, want, out)
}

func Test_SpaceIndentNewlines_NoNewline(t *testing.T) {
	in := "single line"
	assert.Equal(t, in, spaceIndentNewlines(in, 4))
}
