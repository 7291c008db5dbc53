// Package embeddings строит эмбеддеры для семантического индекса эндпоинтов.
//
// Используется интерфейс langchaingo embeddings.Embedder, так что индекс
// работает с любым провайдером, который langchaingo умеет оборачивать.
package embeddings

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// DefaultModel - embedding модель OpenAI по умолчанию.
const DefaultModel = "text-embedding-3-small"

// NewOpenAI создает эмбеддер OpenAI через langchaingo.
func NewOpenAI(apiKey, model string) (lcembeddings.Embedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai api key is required for embeddings")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// Batched ограничивает размер одного запроса EmbedDocuments.
//
// Длинные каталоги режутся на части по Size текстов; порядок векторов
// совпадает с порядком входных текстов.
type Batched struct {
	Embedder lcembeddings.Embedder
	Size     int
}

// NewBatched оборачивает эмбеддер. size <= 0 означает 64.
func NewBatched(e lcembeddings.Embedder, size int) *Batched {
	if size <= 0 {
		size = 64
	}
	return &Batched{Embedder: e, Size: size}
}

// EmbedDocuments реализует embeddings.Embedder.
func (b *Batched) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i, chunk := range lo.Chunk(texts, b.Size) {
		vectors, err := b.Embedder.EmbedDocuments(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i, err)
		}
		if len(vectors) != len(chunk) {
			return nil, fmt.Errorf("embed batch %d: expected %d vectors, got %d", i, len(chunk), len(vectors))
		}
		out = append(out, vectors...)
	}
	utils.Debug("documents embedded", "count", len(texts), "batch_size", b.Size)
	return out, nil
}

// EmbedQuery реализует embeddings.Embedder.
func (b *Batched) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return b.Embedder.EmbedQuery(ctx, text)
}

var _ lcembeddings.Embedder = (*Batched)(nil)
