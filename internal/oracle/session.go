package oracle

import "context"

// Session is a long-lived interpreter session: a candidate string is loaded
// as a simulation model, compiled, then uncompiled, all within the same
// session, so that per-candidate process-spawn overhead is paid only once
// for the session's lifetime rather than once per Parse call.
//
// Implementations are not expected to be safe for concurrent use; the
// Wrapper already serializes all calls to a Backend.
type Session interface {
	// Load prepares candidate for compilation. Any error here is an
	// immediate reject.
	Load(candidate string) error

	// Compile attempts to compile the loaded candidate. An error means the
	// candidate does not belong to the language.
	Compile() error

	// Uncompile releases resources associated with the most recent Load,
	// leaving the session ready for the next candidate.
	Uncompile() error

	// Close releases the session itself. Called exactly once, when the
	// SessionBackend is done with it.
	Close() error
}

// SessionFactory creates a fresh Session, acquiring whatever long-lived
// resource (subprocess, embedded interpreter, network connection) the
// concrete implementation needs.
type SessionFactory func() (Session, error)

// SessionBackend is the long-lived-interpreter-session oracle backend. The
// session is acquired on construction and released on Close; every Parse
// call reuses it rather than spawning anything new.
type SessionBackend struct {
	session Session
}

// NewSessionBackend acquires a Session from factory and returns a Backend
// built on it. The caller must call Close when done with the backend.
func NewSessionBackend(factory SessionFactory) (*SessionBackend, error) {
	s, err := factory()
	if err != nil {
		return nil, err
	}
	return &SessionBackend{session: s}, nil
}

// Close releases the underlying session.
func (b *SessionBackend) Close() error {
	return b.session.Close()
}

func (b *SessionBackend) Parse(ctx context.Context, candidate string) (Verdict, error) {
	if err := b.session.Load(candidate); err != nil {
		return Reject, nil
	}
	defer b.session.Uncompile()

	if err := b.session.Compile(); err != nil {
		return Reject, nil
	}

	if err := ctx.Err(); err != nil {
		return Reject, err
	}

	return Accept, nil
}

// NullSession is a trivial reference Session that accepts every candidate.
// It exists so tests and examples can exercise SessionBackend without a
// real simulation environment.
type NullSession struct{}

func (NullSession) Load(candidate string) error { return nil }
func (NullSession) Compile() error              { return nil }
func (NullSession) Uncompile() error             { return nil }
func (NullSession) Close() error                { return nil }

// NewNullSessionFactory returns a SessionFactory producing a NullSession.
func NewNullSessionFactory() SessionFactory {
	return func() (Session, error) { return NullSession{}, nil }
}
