package oracle

import (
	"context"
	"os"
	"os/exec"
)

// SubprocessBackend is the subprocess-style oracle backend: it writes the
// candidate string to a scratch file and runs `<command> <tempfile>`. Exit
// code 0 means Accept, any non-zero exit means Reject.
//
// The scratch file is created fresh for every Parse call and removed on
// every exit path, including when the command errors out or the context is
// cancelled out from under it.
type SubprocessBackend struct {
	// Command is the name (or path) of the external oracle program.
	Command string

	// Args, if non-empty, are extra arguments passed before the scratch
	// file path.
	Args []string
}

// NewSubprocessBackend returns a Backend that shells out to command for
// every Parse call.
func NewSubprocessBackend(command string, args ...string) *SubprocessBackend {
	return &SubprocessBackend{Command: command, Args: args}
}

func (b *SubprocessBackend) Parse(ctx context.Context, candidate string) (Verdict, error) {
	f, err := os.CreateTemp("", "ginfer-candidate-*")
	if err != nil {
		return Reject, err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(candidate); err != nil {
		f.Close()
		return Reject, err
	}
	if err := f.Close(); err != nil {
		return Reject, err
	}

	args := append(append([]string{}, b.Args...), path)
	cmd := exec.CommandContext(ctx, b.Command, args...)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			// timeout/cancellation: let the Wrapper's own select on
			// ctx.Done() fold this to Accept; report the context error so
			// it isn't mistaken for a definite reject.
			return Reject, ctx.Err()
		}
		// any non-zero exit (including *exec.ExitError) is a reject, not an
		// oracle malfunction.
		if _, ok := err.(*exec.ExitError); ok {
			return Reject, nil
		}
		return Reject, err
	}

	return Accept, nil
}
