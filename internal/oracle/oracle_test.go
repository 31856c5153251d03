package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedBackend struct {
	v     Verdict
	err   error
	delay time.Duration
}

func (b *fixedBackend) Parse(ctx context.Context, candidate string) (Verdict, error) {
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return Reject, ctx.Err()
		}
	}
	return b.v, b.err
}

func Test_Wrapper_Parse_CachesPerCandidate(t *testing.T) {
	backend := &fixedBackend{v: Accept}
	w := New(backend, time.Second)

	assert.True(t, w.Parse("x"))
	assert.True(t, w.Parse("x"))

	stats := w.Stats()
	assert.Equal(t, 1, stats.Calls)
	assert.Equal(t, 1, stats.CacheHits)
}

func Test_Wrapper_Parse_Reject(t *testing.T) {
	backend := &fixedBackend{v: Reject}
	w := New(backend, time.Second)

	assert.False(t, w.Parse("x"))
}

func Test_Wrapper_Parse_TimeoutFoldsToAccept(t *testing.T) {
	backend := &fixedBackend{v: Reject, delay: 50 * time.Millisecond}
	w := New(backend, 5*time.Millisecond)

	assert.True(t, w.Parse("slow"))

	stats := w.Stats()
	assert.Equal(t, 1, stats.Timeouts)
}

func Test_Wrapper_Parse_BackendErrorFoldsToReject(t *testing.T) {
	backend := &fixedBackend{v: Accept, err: errors.New("backend malfunction")}
	w := New(backend, time.Second)

	assert.False(t, w.Parse("x"))
}

func Test_Wrapper_New_ZeroTimeoutUsesDefault(t *testing.T) {
	w := New(&fixedBackend{v: Accept}, 0)
	assert.Equal(t, DefaultTimeout, w.timeout)
}

type memCache struct {
	m map[string]Verdict
}

func (c *memCache) Get(candidate string) (Verdict, bool, error) {
	v, ok := c.m[candidate]
	return v, ok, nil
}

func (c *memCache) Put(candidate string, v Verdict) error {
	c.m[candidate] = v
	return nil
}

func Test_Wrapper_PersistentCache_HitAvoidsBackendCall(t *testing.T) {
	backend := &fixedBackend{v: Reject}
	cache := &memCache{m: map[string]Verdict{"x": Accept}}
	w := New(backend, time.Second).WithPersistentCache(cache)

	assert.True(t, w.Parse("x"))
	assert.Equal(t, 0, w.Stats().Calls)
}

func Test_Wrapper_PersistentCache_WrittenThroughAfterMiss(t *testing.T) {
	backend := &fixedBackend{v: Accept}
	cache := &memCache{m: map[string]Verdict{}}
	w := New(backend, time.Second).WithPersistentCache(cache)

	assert.True(t, w.Parse("y"))
	v, ok, _ := cache.Get("y")
	assert.True(t, ok)
	assert.Equal(t, Accept, v)
}

func Test_CheckSetup_AllAccepted(t *testing.T) {
	w := New(&fixedBackend{v: Accept}, time.Second)
	assert.NoError(t, w.CheckSetup([]string{"a", "b"}))
}

func Test_CheckSetup_FailsOnFirstReject(t *testing.T) {
	w := New(&fixedBackend{v: Reject}, time.Second)
	err := w.CheckSetup([]string{"a"})
	assert.Error(t, err)
}

func Test_Verdict_Bool(t *testing.T) {
	assert.True(t, Accept.Bool())
	assert.False(t, Reject.Bool())
}
