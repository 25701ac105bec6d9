package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	for _, key := range []string{KeyQuotes, KeySalesOrders, KeyPurchaseOrders, KeyPayables, KeyReceivables, KeyProducts} {
		assert.NoError(t, ValidateKey(key), key)
	}
	for _, key := range []string{"", "../etc", "Payables", "a b", "1st"} {
		assert.Error(t, ValidateKey(key), key)
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyPayables)
	require.NoError(t, err)
	assert.False(t, ok, "unset key must report ok=false")

	require.NoError(t, s.Set(ctx, KeyPayables, []byte(`[{"id":"a"}]`)))
	got, ok, err := s.Get(ctx, KeyPayables)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, s.Set(ctx, KeyPayables, []byte(`[]`)))
	got, ok, err = s.Get(ctx, KeyPayables)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[]`, string(got))

	_, ok, err = s.Get(ctx, KeyReceivables)
	require.NoError(t, err)
	assert.False(t, ok, "keys are independent")

	assert.Error(t, s.Set(ctx, "../escape", []byte(`[]`)))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte(`[1]`)
	require.NoError(t, s.Set(ctx, KeyProducts, value))
	value[1] = '2'

	got, _, err := s.Get(ctx, KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), KeyQuotes, []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "quotes.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres store test")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	s, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	defer s.Close()

	_, err = pool.Exec(ctx, `DELETE FROM kv_store WHERE key IN ($1, $2)`, KeyPayables, KeyReceivables)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestNewPoolRequiresDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	assert.Error(t, err)
}
