package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// MemoryIndex - Index в памяти процесса.
//
// Каталог FMP инструментов небольшой, полный перебор быстрее любой структуры.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// NewMemoryIndex создает пустой индекс.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]Entry)}
}

// Upsert добавляет или заменяет записи по ID.
func (m *MemoryIndex) Upsert(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if _, exists := m.entries[e.ID]; !exists {
			m.order = append(m.order, e.ID)
		}
		m.entries[e.ID] = Entry{
			ID:       e.ID,
			Vector:   append([]float32(nil), e.Vector...),
			Metadata: lo.Assign(e.Metadata),
		}
	}
	return nil
}

// Query возвращает до k ближайших записей по убыванию близости.
// При равной близости сохраняется порядок добавления.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if k <= 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(m.order))
	for _, id := range m.order {
		e := m.entries[id]
		score, err := cosine(vector, e.Vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{ID: id, Score: score, Metadata: lo.Assign(e.Metadata)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Len возвращает количество записей.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

var _ Index = (*MemoryIndex)(nil)
