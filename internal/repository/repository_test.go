package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficina-erp/oficina/internal/codec"
	"github.com/oficina-erp/oficina/internal/logger"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/store"
)

// failingStore wraps a MemoryStore and fails writes while fail is set.
type failingStore struct {
	*store.MemoryStore
	fail bool
	sets int
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	s.sets++
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func product(id, code string) model.Product {
	return model.Product{ID: id, Code: code, Name: code, ListPrice: decimal.NewFromInt(10)}
}

func newRepo(st store.Store) *Repository[model.Product] {
	return New[model.Product](st, store.KeyProducts, codec.Products{}, logger.Nop())
}

func TestUpsertGetList(t *testing.T) {
	ctx := context.Background()
	r := newRepo(store.NewMemoryStore())

	r.Upsert(ctx, product("b", "B"))
	r.Upsert(ctx, product("a", "A"))
	require.NoError(t, r.Err())

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Code)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "insertion order is kept")
	assert.Equal(t, "a", list[1].ID)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	r := newRepo(store.NewMemoryStore())
	r.Upsert(ctx, product("a", "A"))
	r.Upsert(ctx, product("b", "B"))

	updated := product("a", "A2")
	r.Upsert(ctx, updated)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A2", list[0].Code)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	r := newRepo(store.NewMemoryStore())
	r.Upsert(ctx, product("a", "A"))
	r.Upsert(ctx, product("b", "B"))

	assert.True(t, r.Remove(ctx, "a"))
	assert.False(t, r.Remove(ctx, "a"))
	assert.Equal(t, 1, r.Len())
}

func TestPersistsAfterEachMutationAndReloads(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := newRepo(st)
	r.Upsert(ctx, product("a", "A"))
	r.Upsert(ctx, product("b", "B"))
	r.Remove(ctx, "b")

	fresh := newRepo(st)
	require.NoError(t, fresh.Load(ctx))
	list := fresh.List()
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	r := newRepo(store.NewMemoryStore())
	require.NoError(t, r.Load(context.Background()))
	assert.Empty(t, r.List())
}

func TestLoadRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, store.KeyProducts, []byte(`[{"id":"a","code":"A","name":"A","list_price":1},{"id":"a","code":"B","name":"B","list_price":2}]`)))

	err := newRepo(st).Load(ctx)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, store.KeyProducts, []byte(`not json`)))
	assert.Error(t, newRepo(st).Load(ctx))
}

func TestPersistFailureIsRetainedThenCleared(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{MemoryStore: store.NewMemoryStore(), fail: true}
	r := newRepo(st)

	r.Upsert(ctx, product("a", "A"))
	require.Error(t, r.Err())
	_, ok := r.Get("a")
	assert.True(t, ok, "in-memory change stands when persistence fails")

	st.fail = false
	r.Upsert(ctx, product("b", "B"))
	assert.NoError(t, r.Err())
	assert.Equal(t, 2, st.sets)

	data, ok, err := st.Get(ctx, store.KeyProducts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(data), `"a"`)
}
