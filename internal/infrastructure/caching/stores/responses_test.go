package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore() (*ResponseStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewResponseStore()
	store.now = clock.now
	return store, clock
}

func TestResponseStoreTTL(t *testing.T) {
	store, clock := newTestStore()
	key := BuildResponseKey(VariantPublished, "get", "https://cdn/entries", nil)

	store.Set(key, VariantPublished, []byte(`{"items":[]}`), time.Hour)

	body, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(body))

	clock.t = clock.t.Add(time.Hour)
	_, ok = store.Get(key)
	assert.False(t, ok)

	assert.Equal(t, 1, store.PurgeExpired())
	assert.Equal(t, 0, store.Summary()["entries"])
}

func TestResponseStoreZeroTTLSkipsCaching(t *testing.T) {
	store, _ := newTestStore()
	store.Set("k", VariantPreview, []byte("x"), 0)
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestBuildResponseKey(t *testing.T) {
	a := BuildResponseKey(VariantPublished, "POST", "https://gql", []byte(`{"query":"a"}`))
	b := BuildResponseKey(VariantPublished, "POST", "https://gql", []byte(`{"query":"b"}`))
	c := BuildResponseKey(VariantPreview, "POST", "https://gql", []byte(`{"query":"a"}`))

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "published:GET:https://cdn", BuildResponseKey(VariantPublished, "get", "https://cdn", nil))
}

func TestResponseStoreInvalidation(t *testing.T) {
	store, _ := newTestStore()
	store.Set("p1", VariantPublished, []byte("1"), time.Hour)
	store.Set("p2", VariantPublished, []byte("2"), time.Hour)
	store.Set("d1", VariantPreview, []byte("3"), time.Hour)

	assert.Equal(t, 1, store.InvalidateByVariant(VariantPreview))
	summary := store.Summary()
	assert.Equal(t, 2, summary["published"])
	assert.Equal(t, 0, summary["preview"])
	assert.Equal(t, 0, store.InvalidateByVariant(VariantPreview))
}
