package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Ключи метаданных документов индекса.
const (
	MetaID          = "id"
	MetaToolName    = "tool_name"
	MetaDescription = "description"
	MetaContent     = "page_content"
)

// Store - семантический индекс инструментов.
//
// Реализует vectorstores.VectorStore из langchaingo, поэтому подходит для
// retriever-а и цепочек langchaingo, и дополнительно умеет возвращать сами
// инструменты через GetTools.
type Store struct {
	name     string
	embedder embeddings.Embedder
	index    Index
	cache    *Cache

	mu    sync.RWMutex
	tools map[string]tools.Tool
}

// New создает пустой Store.
func New(name string, embedder embeddings.Embedder, index Index) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	return &Store{
		name:     name,
		embedder: embedder,
		index:    index,
		tools:    make(map[string]tools.Tool),
	}, nil
}

// Name возвращает имя хранилища.
func (s *Store) Name() string {
	return s.name
}

// ToolDocument строит документ индекса из определения инструмента.
func ToolDocument(def tools.ToolDefinition) schema.Document {
	return schema.Document{
		PageContent: def.Name + ": " + def.Description,
		Metadata: map[string]any{
			MetaID:          def.Name,
			MetaToolName:    def.Name,
			MetaDescription: def.Description,
		},
	}
}

// AddTools индексирует инструменты и запоминает их для GetTools.
func (s *Store) AddTools(ctx context.Context, toolset []tools.Tool) error {
	docs := make([]schema.Document, 0, len(toolset))
	for _, t := range toolset {
		if t == nil {
			continue
		}
		docs = append(docs, ToolDocument(t.Definition()))
	}
	if _, err := s.AddDocuments(ctx, docs); err != nil {
		return err
	}

	s.mu.Lock()
	for _, t := range toolset {
		if t != nil {
			s.tools[t.Definition().Name] = t
		}
	}
	s.mu.Unlock()

	utils.Info("tools indexed", "store", s.name, "count", len(docs))
	return nil
}

// AddDocuments реализует vectorstores.VectorStore.
//
// ID документа берется из метаданных "id", иначе из "tool_name",
// иначе из хэша текста.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}
	opts := s.getOptions(options...)
	embedder := s.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}

	texts := lo.Map(docs, func(d schema.Document, _ int) string { return d.PageContent })
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(docs), len(vectors))
	}

	ids := make([]string, len(docs))
	entries := make([]Entry, len(docs))
	for i, doc := range docs {
		ids[i] = documentID(doc)
		metadata := lo.Assign(doc.Metadata, map[string]any{MetaContent: doc.PageContent})
		entries[i] = Entry{ID: ids[i], Vector: vectors[i], Metadata: metadata}
	}

	if err := s.index.Upsert(ctx, entries); err != nil {
		return nil, err
	}
	return ids, nil
}

// SimilaritySearch реализует vectorstores.VectorStore.
// Учитывает опцию ScoreThreshold.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := s.getOptions(options...)
	embedder := s.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}

	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, numDocuments)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(matches))
	for _, m := range matches {
		if opts.ScoreThreshold > 0 && m.Score < opts.ScoreThreshold {
			continue
		}
		metadata := lo.OmitByKeys(m.Metadata, []string{MetaContent})
		content, _ := m.Metadata[MetaContent].(string)
		docs = append(docs, schema.Document{
			PageContent: content,
			Metadata:    metadata,
			Score:       m.Score,
		})
	}
	return docs, nil
}

// GetTools возвращает до k инструментов, наиболее подходящих к запросу.
//
// Совпадения, для которых инструмент не зарегистрирован в этом процессе
// (например, старые записи удалённого индекса), пропускаются.
func (s *Store) GetTools(ctx context.Context, query string, k int) ([]tools.Tool, error) {
	if k <= 0 {
		return []tools.Tool{}, nil
	}
	docs, err := s.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]tools.Tool, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		name, _ := d.Metadata[MetaToolName].(string)
		t, ok := s.tools[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, t)
	}

	utils.Debug("tools selected", "query", utils.Truncate(query, 80), "k", k,
		"selected", lo.Map(result, func(t tools.Tool, _ int) string { return t.Definition().Name }))
	return result, nil
}

// Len возвращает количество зарегистрированных инструментов.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tools)
}

// Close освобождает кэш эмбеддингов, если он был открыт.
func (s *Store) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func (s *Store) getOptions(options ...vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

func documentID(doc schema.Document) string {
	if id, ok := doc.Metadata[MetaID].(string); ok && id != "" {
		return id
	}
	if name, ok := doc.Metadata[MetaToolName].(string); ok && name != "" {
		return name
	}
	return hashText(doc.PageContent)
}

var _ vectorstores.VectorStore = (*Store)(nil)
