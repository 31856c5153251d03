package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SessionBackend_NullSessionAlwaysAccepts(t *testing.T) {
	b, err := NewSessionBackend(NewNullSessionFactory())
	assert.NoError(t, err)
	defer b.Close()

	v, err := b.Parse(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Equal(t, Accept, v)
}

type fakeSession struct {
	loadErr    error
	compileErr error
	closed     bool
}

func (s *fakeSession) Load(candidate string) error { return s.loadErr }
func (s *fakeSession) Compile() error               { return s.compileErr }
func (s *fakeSession) Uncompile() error              { return nil }
func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func Test_SessionBackend_LoadFailureRejects(t *testing.T) {
	sess := &fakeSession{loadErr: errors.New("bad candidate")}
	b, err := NewSessionBackend(func() (Session, error) { return sess, nil })
	assert.NoError(t, err)

	v, err := b.Parse(context.Background(), "x")
	assert.NoError(t, err)
	assert.Equal(t, Reject, v)
}

func Test_SessionBackend_CompileFailureRejects(t *testing.T) {
	sess := &fakeSession{compileErr: errors.New("does not compile")}
	b, err := NewSessionBackend(func() (Session, error) { return sess, nil })
	assert.NoError(t, err)

	v, err := b.Parse(context.Background(), "x")
	assert.NoError(t, err)
	assert.Equal(t, Reject, v)
}

func Test_SessionBackend_Close_ClosesUnderlyingSession(t *testing.T) {
	sess := &fakeSession{}
	b, err := NewSessionBackend(func() (Session, error) { return sess, nil })
	assert.NoError(t, err)

	assert.NoError(t, b.Close())
	assert.True(t, sess.closed)
}

func Test_NewSessionBackend_FactoryErrorPropagates(t *testing.T) {
	_, err := NewSessionBackend(func() (Session, error) { return nil, errors.New("no session available") })
	assert.Error(t, err)
}
