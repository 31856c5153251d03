package repl

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SplitTokens(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected []string
	}{
		{"empty", "", nil},
		{"single token", "a", []string{"a"}},
		{"multiple tokens", "a b c", []string{"a", "b", "c"}},
		{"collapses repeated whitespace", "a   b\tc", []string{"a", "b", "c"}},
		{"whitespace only", "   \t  ", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := SplitTokens(tc.line)
			if tc.expected == nil {
				assert.Empty(t, actual)
			} else {
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}

func Test_DirectExampleReader_ReadsLineAtATime(t *testing.T) {
	r := NewDirectReader(strings.NewReader("a b c\nd e f\n"))
	defer r.Close()

	line, err := r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "a b c", line)

	line, err = r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "d e f", line)
}

func Test_DirectExampleReader_EOFAfterLastLine(t *testing.T) {
	r := NewDirectReader(strings.NewReader("only\n"))
	defer r.Close()

	line, err := r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "only", line)

	_, err = r.ReadCommand()
	assert.ErrorIs(t, err, io.EOF)
}

func Test_DirectExampleReader_SkipsBlankLinesByDefault(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\n\na b\n"))
	defer r.Close()

	line, err := r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "a b", line)
}

func Test_DirectExampleReader_AllowBlankReturnsBlankLine(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\na b\n"))
	r.AllowBlank(true)
	defer r.Close()

	line, err := r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "", line)
}

func Test_DirectExampleReader_TrimsSurroundingWhitespace(t *testing.T) {
	r := NewDirectReader(strings.NewReader("  a b c  \n"))
	defer r.Close()

	line, err := r.ReadCommand()
	assert.NoError(t, err)
	assert.Equal(t, "a b c", line)
}

func Test_DirectExampleReader_Close_IsNoop(t *testing.T) {
	r := NewDirectReader(strings.NewReader(""))
	assert.NoError(t, r.Close())
}
