// Package vectorstore - семантический индекс каталога FMP инструментов.
//
// Store эмбеддит имя и описание каждого инструмента, хранит векторы в Index
// (в памяти или в Pinecone) и по запросу на естественном языке возвращает
// top-K наиболее подходящих инструментов. Эмбеддинги кэшируются в sqlite.
package vectorstore

import (
	"context"
	"fmt"
	"math"
)

// Entry - вектор с идентификатором и метаданными.
type Entry struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// Match - результат поиска ближайших соседей.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Index - хранилище векторов с поиском по косинусной близости.
type Index interface {
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
}

// cosine возвращает косинусную близость; для нулевых векторов 0.
func cosine(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d != %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb))), nil
}
