package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp"
	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp/fmptools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
)

func noopTool(name, description string) tools.Tool {
	return tools.NewFunc(name, description, func(ctx context.Context, args map[string]any) (string, error) {
		return name, nil
	})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New("test", newWordEmbedder("price", "news", "income", "revenue"), NewMemoryIndex())
	require.NoError(t, err)
	require.NoError(t, store.AddTools(context.Background(), []tools.Tool{
		noopTool("get_stock_quote", "current stock price"),
		noopTool("get_stock_news", "latest news articles"),
		noopTool("get_income_statement", "income statement with revenue"),
	}))
	return store
}

func TestNewValidation(t *testing.T) {
	_, err := New("x", nil, NewMemoryIndex())
	assert.Error(t, err)
	_, err = New("x", newWordEmbedder(), nil)
	assert.Error(t, err)
}

func TestGetToolsRanksBySimilarity(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, 3, store.Len())

	got, err := store.GetTools(context.Background(), "what is the revenue and income of apple", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "get_income_statement", got[0].Definition().Name)

	got, err = store.GetTools(context.Background(), "price", 5)
	require.NoError(t, err)
	assert.Len(t, got, 3, "k larger than catalog returns the whole catalog")
	assert.Equal(t, "get_stock_quote", got[0].Definition().Name)
}

func TestGetToolsZeroK(t *testing.T) {
	got, err := newTestStore(t).GetTools(context.Background(), "price", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetToolsSkipsUnknownEntries(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddDocuments(context.Background(), []schema.Document{{
		PageContent: "price price price",
		Metadata:    map[string]any{MetaToolName: "removed_tool"},
	}})
	require.NoError(t, err)

	got, err := store.GetTools(context.Background(), "price", 2)
	require.NoError(t, err)
	for _, tool := range got {
		assert.NotEqual(t, "removed_tool", tool.Definition().Name)
	}
}

func TestSimilaritySearchDocuments(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.SimilaritySearch(context.Background(), "news", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "get_stock_news: latest news articles", docs[0].PageContent)
	assert.Equal(t, "get_stock_news", docs[0].Metadata[MetaToolName])
	assert.NotContains(t, docs[0].Metadata, MetaContent)
	assert.Greater(t, docs[0].Score, float32(0))

	docs, err = store.SimilaritySearch(context.Background(), "news", 3, vectorstores.WithScoreThreshold(0.5))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestAddDocumentsIDs(t *testing.T) {
	store, err := New("ids", newWordEmbedder("a"), NewMemoryIndex())
	require.NoError(t, err)

	ids, err := store.AddDocuments(context.Background(), []schema.Document{
		{PageContent: "a", Metadata: map[string]any{MetaID: "explicit"}},
		{PageContent: "a", Metadata: map[string]any{MetaToolName: "tool"}},
		{PageContent: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit", ids[0])
	assert.Equal(t, "tool", ids[1])
	assert.Equal(t, hashText("a"), ids[2])
}

type failingEmbedder struct{ wordEmbedder }

func (f *failingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding api down")
}

func TestAddToolsPropagatesEmbedError(t *testing.T) {
	store, err := New("x", &failingEmbedder{}, NewMemoryIndex())
	require.NoError(t, err)
	err = store.AddTools(context.Background(), []tools.Tool{noopTool("a", "b")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding api down")
	assert.Equal(t, 0, store.Len())
}

type stubFMPClient struct{ fmptools.Client }

func TestCreateMemoryBackend(t *testing.T) {
	embedder := newWordEmbedder("quote", "news", "income", "balance", "cash")
	store, err := Create(context.Background(), Options{
		Client:   &stubFMPClient{},
		Embedder: embedder,
		Store:    config.VectorStoreConfig{CacheDir: t.TempDir(), StoreName: "fmp_test"},
	})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, "fmp_test", store.Name())
	assert.Equal(t, 10, store.Len())

	got, err := store.GetTools(context.Background(), "latest news", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "get_stock_news", got[0].Definition().Name)
}

func TestCreateConfigErrors(t *testing.T) {
	_, err := Create(context.Background(), Options{Client: &stubFMPClient{}})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))

	_, err = Create(context.Background(), Options{
		Client:   &stubFMPClient{},
		Embedder: newWordEmbedder("x"),
		Store:    config.VectorStoreConfig{Backend: "redis", CacheDir: t.TempDir()},
	})
	require.True(t, errors.As(err, &cfgErr))

	_, err = Create(context.Background(), Options{Embedder: newWordEmbedder("x")})
	var fmpErr *fmp.ConfigError
	assert.True(t, errors.As(err, &fmpErr))
}
