package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCache(dir, "fmp_endpoints", "text-embedding-3-small")
	require.NoError(t, err)
	defer cache.Close()

	assert.Equal(t, filepath.Join(dir, "fmp_endpoints.db"), cache.Path())

	ctx := context.Background()
	_, ok, err := cache.Get(ctx, "quote")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "quote", []float32{0.5, -1.25, 3}))
	vec, ok, err := cache.Get(ctx, "quote")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.5, -1.25, 3}, vec)
}

func TestOpenCacheRequiresName(t *testing.T) {
	_, err := OpenCache(t.TempDir(), "", "m")
	assert.Error(t, err)
}

func TestDecodeVectorCorrupted(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCachedEmbedderSkipsHits(t *testing.T) {
	cache, err := OpenCache(t.TempDir(), "s", "m")
	require.NoError(t, err)
	defer cache.Close()

	inner := newWordEmbedder("quote", "news")
	cached := NewCachedEmbedder(inner, cache)
	ctx := context.Background()

	first, err := cached.EmbedDocuments(ctx, []string{"quote", "news"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.docTexts)

	second, err := cached.EmbedDocuments(ctx, []string{"news", "quote news", "quote"})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.docTexts, "only the new text is embedded")

	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])
	assert.Equal(t, []float32{1, 1}, second[1])

	q, err := cached.EmbedQuery(ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, q)
}

func TestCacheSeparatesModels(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	small, err := OpenCache(dir, "fmp_endpoints", "text-embedding-3-small")
	require.NoError(t, err)
	require.NoError(t, small.Put(ctx, "quote", []float32{1, 2}))
	require.NoError(t, small.Close())

	large, err := OpenCache(dir, "fmp_endpoints", "text-embedding-3-large")
	require.NoError(t, err)
	defer large.Close()

	_, ok, err := large.Get(ctx, "quote")
	require.NoError(t, err)
	assert.False(t, ok, "vectors of another model must not be reused")

	require.NoError(t, large.Put(ctx, "quote", []float32{3, 4, 5}))
	vec, ok, err := large.Get(ctx, "quote")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{3, 4, 5}, vec)

	again, err := OpenCache(dir, "fmp_endpoints", "text-embedding-3-small")
	require.NoError(t, err)
	defer again.Close()
	vec, ok, err = again.Get(ctx, "quote")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 2}, vec)
}
