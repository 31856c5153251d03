// Package repl contains identifiers used in getting example-tokenisation
// input for the inference session from the CLI or other sources of input.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectExampleReader implements ExampleReader and reads example lines from
// any generic input stream directly. It can be used with any io.Reader but
// does not sanitize the input of control and escape sequences.
//
// DirectExampleReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectExampleReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveExampleReader implements ExampleReader and reads example lines
// from stdin using a Go implementation of the GNU Readline library. This
// keeps input clear of typing and editing escape sequences and enables
// command history. This should in general only be used when directly
// connected to a TTY for input.
//
// InteractiveExampleReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveExampleReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// ExampleReader reads one raw example line at a time from some input
// source. A "line" is whitespace-separated tokens that the caller splits
// into an infer.Example.
type ExampleReader interface {
	ReadCommand() (string, error)
	AllowBlank(allow bool)
	Close() error
}

// NewDirectReader creates a new DirectExampleReader and initializes a
// buffered reader on the provided reader. The returned ExampleReader must
// have Close() called on it before disposal.
func NewDirectReader(r io.Reader) *DirectExampleReader {
	return &DirectExampleReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveExampleReader and
// initializes readline. The returned ExampleReader must have Close() called
// on it before disposal to properly teardown readline resources.
func NewInteractiveReader() (*InteractiveExampleReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "example> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveExampleReader{
		rl:     rl,
		prompt: "example> ",
	}, nil
}

// Close cleans up resources associated with the DirectExampleReader.
func (der *DirectExampleReader) Close() error {
	return nil
}

// Close cleans up readline resources associated with the
// InteractiveExampleReader.
func (ier *InteractiveExampleReader) Close() error {
	return ier.rl.Close()
}

// ReadCommand reads the next line from the underlying reader. The returned
// string will only be empty if there is an error reading input, otherwise
// this function blocks until a line containing non-space characters is
// read (unless blanks are allowed).
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (der *DirectExampleReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = der.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && der.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadCommand reads the next line from stdin via readline. Behaves as
// DirectExampleReader.ReadCommand, but with history and line-editing.
func (ier *InteractiveExampleReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ier.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ier.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank lines are allowed. By default they are not.
func (der *DirectExampleReader) AllowBlank(allow bool) {
	der.blanksAllowed = allow
}

// AllowBlank sets whether blank lines are allowed. By default they are not.
func (ier *InteractiveExampleReader) AllowBlank(allow bool) {
	ier.blanksAllowed = allow
}

// SetPrompt updates the prompt text.
func (ier *InteractiveExampleReader) SetPrompt(p string) {
	ier.rl.SetPrompt(p)
	ier.prompt = p
}

// GetPrompt gets the current prompt text.
func (ier *InteractiveExampleReader) GetPrompt() string {
	return ier.prompt
}

// SplitTokens splits a raw example line on whitespace into its token
// payloads. Blank fields are dropped.
func SplitTokens(line string) []string {
	return strings.Fields(line)
}
