package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

type fakeStore struct {
	query string
	k     int
	opts  vectorstores.Options
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) SimilaritySearch(ctx context.Context, query string, k int, options ...vectorstores.Option) ([]schema.Document, error) {
	f.query, f.k = query, k
	for _, o := range options {
		o(&f.opts)
	}
	docs := make([]schema.Document, k)
	for i := range docs {
		docs[i] = schema.Document{PageContent: query}
	}
	return docs, nil
}

func TestDefaultK(t *testing.T) {
	store := &fakeStore{}
	r := New(store, 0)
	assert.Equal(t, DefaultK, r.K)

	docs, err := r.GetRelevantDocuments(context.Background(), "stock price")
	require.NoError(t, err)
	assert.Len(t, docs, 4)
	assert.Equal(t, "stock price", store.query)
}

func TestCustomKAndThreshold(t *testing.T) {
	store := &fakeStore{}
	r := &Retriever{Store: store, K: 2, ScoreThreshold: 0.3}

	docs, err := r.GetRelevantDocuments(context.Background(), "news")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, float32(0.3), store.opts.ScoreThreshold)
}

func TestValidation(t *testing.T) {
	_, err := (&Retriever{}).GetRelevantDocuments(context.Background(), "q")
	assert.Error(t, err)

	_, err = New(&fakeStore{}, 1).GetRelevantDocuments(context.Background(), "  ")
	assert.EqualError(t, err, "query parameter is required")
}
