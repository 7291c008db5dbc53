// Package retriever - schema.Retriever над индексом FMP эндпоинтов.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// DefaultK - количество документов по умолчанию.
const DefaultK = 4

// Retriever возвращает документы эндпоинтов, релевантные запросу.
type Retriever struct {
	Store          vectorstores.VectorStore
	K              int
	ScoreThreshold float32
}

// New создает Retriever. k <= 0 означает DefaultK.
func New(store vectorstores.VectorStore, k int) *Retriever {
	if k <= 0 {
		k = DefaultK
	}
	return &Retriever{Store: store, K: k}
}

// GetRelevantDocuments реализует schema.Retriever.
func (r *Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	if r.Store == nil {
		return nil, fmt.Errorf("retriever has no vector store")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query parameter is required")
	}
	k := r.K
	if k <= 0 {
		k = DefaultK
	}
	var opts []vectorstores.Option
	if r.ScoreThreshold > 0 {
		opts = append(opts, vectorstores.WithScoreThreshold(r.ScoreThreshold))
	}
	return r.Store.SimilaritySearch(ctx, query, k, opts...)
}

var _ schema.Retriever = (*Retriever)(nil)
