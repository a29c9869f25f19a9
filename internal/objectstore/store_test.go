package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	// Missing key returns (nil, nil), not an error.
	obj, err := store.Get(ctx, "does/not/exist")
	require.NoError(t, err)
	assert.Nil(t, obj)

	err = store.Put(ctx, "hourly/2025/12/27/20-abc12345.ndjson", []byte("line1\nline2"), PutOptions{
		ContentType:    NDJSONContentType,
		CacheControl:   CacheImmutable,
		CustomMetadata: map[string]string{"totalSpots": "2"},
	})
	require.NoError(t, err)

	err = store.Put(ctx, "hourly/2025/12/27/21-def67890.ndjson", []byte("line3"), PutOptions{})
	require.NoError(t, err)

	err = store.Put(ctx, "daily/2025/12/27-xyz.ndjson", []byte("other level"), PutOptions{})
	require.NoError(t, err)

	list, err := store.List(ctx, "hourly/2025/12/27/")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hourly/2025/12/27/20-abc12345.ndjson", list[0].Key)
	assert.Equal(t, "hourly/2025/12/27/21-def67890.ndjson", list[1].Key)

	got, err := store.Get(ctx, "hourly/2025/12/27/20-abc12345.ndjson")
	require.NoError(t, err)
	require.NotNil(t, got)
	text, err := got.Text()
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", text)
	assert.Equal(t, "2", got.CustomMetadata["totalSpots"])
}

func TestMemStore_Contract(t *testing.T) {
	testStoreContract(t, NewMemStore())
}

func TestLocalStore_Contract(t *testing.T) {
	testStoreContract(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_RejectsPathTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	err := store.Put(context.Background(), "../escape.ndjson", []byte("x"), PutOptions{})
	assert.Error(t, err)
}
