package cache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/grammarinfer/internal/oracle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Store_GetOnEmptyCacheMisses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.db")
	store, err := Open(path, uuid.New())
	assert.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("abc")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func Test_Store_PutThenGetRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.db")
	store, err := Open(path, uuid.New())
	assert.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Put("abc", oracle.Accept))

	v, ok, err := store.Get("abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, oracle.Accept, v)
}

func Test_Store_PutOverwritesExistingVerdict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.db")
	store, err := Open(path, uuid.New())
	assert.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Put("abc", oracle.Accept))
	assert.NoError(t, store.Put("abc", oracle.Reject))

	v, ok, err := store.Get("abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, oracle.Reject, v)
}

func Test_Store_NamespacedByRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.db")

	runA := uuid.New()
	runB := uuid.New()

	storeA, err := Open(path, runA)
	assert.NoError(t, err)
	defer storeA.Close()

	assert.NoError(t, storeA.Put("abc", oracle.Accept))

	storeB, err := Open(path, runB)
	assert.NoError(t, err)
	defer storeB.Close()

	_, ok, err := storeB.Get("abc")
	assert.NoError(t, err)
	assert.False(t, ok, "a verdict cached under one run ID must not leak into another")
}

func Test_Store_ReopenSamePathPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.db")
	runID := uuid.New()

	store1, err := Open(path, runID)
	assert.NoError(t, err)
	assert.NoError(t, store1.Put("persisted", oracle.Accept))
	assert.NoError(t, store1.Close())

	store2, err := Open(path, runID)
	assert.NoError(t, err)
	defer store2.Close()

	v, ok, err := store2.Get("persisted")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, oracle.Accept, v)
}

func Test_Store_ImplementsPersistentCache(t *testing.T) {
	var _ oracle.PersistentCache = (*Store)(nil)
}
