package vectorstore

import (
	"context"
	"strings"
	"sync"
)

// wordEmbedder - детерминированный bag-of-words эмбеддер для тестов.
type wordEmbedder struct {
	vocab []string

	mu       sync.Mutex
	docCalls int
	docTexts int
}

func newWordEmbedder(vocab ...string) *wordEmbedder {
	return &wordEmbedder{vocab: vocab}
}

func (w *wordEmbedder) vector(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(w.vocab))
	for i, word := range w.vocab {
		v[i] = float32(strings.Count(text, word))
	}
	return v
}

func (w *wordEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	w.mu.Lock()
	w.docCalls++
	w.docTexts += len(texts)
	w.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = w.vector(t)
	}
	return out, nil
}

func (w *wordEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return w.vector(text), nil
}
