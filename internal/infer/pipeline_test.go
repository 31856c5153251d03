package infer

import (
	"context"
	"testing"
	"time"

	"github.com/dekarrin/grammarinfer/internal/ginferrors"
	"github.com/dekarrin/grammarinfer/internal/ictiobus/grammar"
	"github.com/dekarrin/grammarinfer/internal/oracle"
	"github.com/stretchr/testify/assert"
)

func Test_BuildStartGrammar_NoExamples(t *testing.T) {
	ctx := NewContext(&fakeOracle{accept: func(string) bool { return true }}, 10, 1)
	_, err := BuildStartGrammar(ctx, nil, false)
	assert.Error(t, err)
}

func Test_BuildStartGrammar_SimpleArithmetic(t *testing.T) {
	oracle := newSetOracle("a+b", "c+d", "a+d", "c+b", "a+a", "b+b", "c+c", "d+d", "b+a", "d+c", "d+a", "b+c")
	ctx := NewContext(oracle, 10, 1)

	examples := []Example{
		{"a", "+", "b"},
		{"c", "+", "d"},
	}

	result, err := BuildStartGrammar(ctx, examples, false)

	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}
	assert.True(result.Grammar.HasRule(grammar.StartSymbol))
	assert.NotZero(result.Grammar.Size())
	assert.Len(result.Trees, 2)
}

// stubBackend is a minimal oracle.Backend for exercising CheckSetup through
// a real oracle.Wrapper rather than the package-local fakeOracle.
type stubBackend struct {
	accept bool
}

func (b *stubBackend) Parse(ctx context.Context, candidate string) (oracle.Verdict, error) {
	if b.accept {
		return oracle.Accept, nil
	}
	return oracle.Reject, nil
}

func Test_BuildStartGrammar_FatalWhenGuideExamplesRejected(t *testing.T) {
	w := oracle.New(&stubBackend{accept: false}, time.Second)
	ctx := NewContext(w, 10, 1)

	examples := []Example{{"a", "+", "b"}}
	_, err := BuildStartGrammar(ctx, examples, false)

	assert := assert.New(t)
	if assert.Error(err) {
		assert.NotEmpty(ginferrors.OperatorMessage(err))
	}
}
