package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	s, err := cosine([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-6)

	s, err = cosine([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, s, 1e-6)

	s, err = cosine([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, float32(0), s)

	_, err = cosine([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}

func TestMemoryIndexQuery(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{ID: "a", Vector: []float32{1, 0}, Metadata: map[string]any{"n": "a"}},
		{ID: "b", Vector: []float32{0.7, 0.7}},
		{ID: "c", Vector: []float32{0, 1}},
	}))

	matches, err := idx.Query(ctx, []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, "a", matches[0].Metadata["n"])

	// k больше размера индекса
	matches, err = idx.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	matches, err = idx.Query(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryIndexUpsertReplaces(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{{ID: "a", Vector: []float32{1, 0}}}))
	require.NoError(t, idx.Upsert(ctx, []Entry{{ID: "a", Vector: []float32{0, 1}}}))
	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestMemoryIndexDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(context.Background(), []Entry{{ID: "a", Vector: []float32{1, 0}}}))
	_, err := idx.Query(context.Background(), []float32{1}, 1)
	assert.Error(t, err)
}
