package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/factwatch/internal/view"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(time.Minute, time.Minute, "th", 10)

	sess := store.Create()
	_, err := uuid.Parse(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, view.SearchIdle, sess.Search.Snapshot().State)
	assert.Equal(t, "th", sess.Search.Snapshot().Lang)
	assert.Equal(t, view.CheckIdle, sess.Check.Snapshot().State)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(time.Minute, time.Minute, "th", 10)

	_, ok := store.Get("")
	assert.False(t, ok)
	_, ok = store.Get("not-a-session")
	assert.False(t, ok)
}

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore(time.Minute, time.Minute, "en", 5)

	first, created := store.GetOrCreate("stale-cookie")
	assert.True(t, created)
	assert.NotEqual(t, "stale-cookie", first.ID)

	again, created := store.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(20*time.Millisecond, time.Hour, "th", 10)
	sess := store.Create()

	time.Sleep(40 * time.Millisecond)
	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Minute, time.Minute, "th", 10)
	sess := store.Create()

	store.Delete(sess.ID)
	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, store.TTL())
}
