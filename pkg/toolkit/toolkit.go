// Package toolkit отдает набор FMP инструментов, подобранный под запрос.
package toolkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/vectorstore"
)

// DefaultNumResults - сколько инструментов отдаётся по умолчанию.
const DefaultNumResults = 3

// Selector - источник инструментов по семантическому запросу.
type Selector interface {
	GetTools(ctx context.Context, query string, k int) ([]tools.Tool, error)
}

// SelectorFactory создает Selector из разрешённых ключей.
type SelectorFactory func(ctx context.Context, creds config.Credentials) (Selector, error)

// Config - параметры Toolkit.
type Config struct {
	Query        string
	NumResults   int
	FMPAPIKey    string // пусто → FMP_API_KEY
	OpenAIAPIKey string // пусто → OPENAI_API_KEY

	FMP            config.FMPConfig
	Store          config.VectorStoreConfig
	EmbeddingModel string

	// SelectorFactory подменяет построение векторного хранилища.
	SelectorFactory SelectorFactory
}

// Toolkit хранит запрос и хранилище, из которого берутся инструменты.
type Toolkit struct {
	query    string
	k        int
	creds    config.Credentials
	selector Selector
}

// New проверяет параметры и строит векторное хранилище.
func New(ctx context.Context, cfg Config) (*Toolkit, error) {
	if strings.TrimSpace(cfg.Query) == "" {
		return nil, fmt.Errorf("query parameter is required")
	}

	creds, err := config.ResolveCredentials(cfg.FMPAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	k := cfg.NumResults
	if k <= 0 {
		k = DefaultNumResults
	}

	factory := cfg.SelectorFactory
	if factory == nil {
		factory = func(ctx context.Context, creds config.Credentials) (Selector, error) {
			return vectorstore.Create(ctx, vectorstore.Options{
				FMPAPIKey:      creds.FMPAPIKey,
				OpenAIAPIKey:   creds.OpenAIAPIKey,
				FMP:            cfg.FMP,
				Store:          cfg.Store,
				EmbeddingModel: cfg.EmbeddingModel,
			})
		}
	}

	selector, err := factory(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	return &Toolkit{query: cfg.Query, k: k, creds: creds, selector: selector}, nil
}

// Query возвращает запрос, под который подбираются инструменты.
func (t *Toolkit) Query() string { return t.query }

// NumResults возвращает k.
func (t *Toolkit) NumResults() int { return t.k }

// Credentials возвращает разрешённые ключи.
func (t *Toolkit) Credentials() config.Credentials { return t.creds }

// GetTools возвращает до NumResults инструментов для запроса.
func (t *Toolkit) GetTools(ctx context.Context) ([]tools.Tool, error) {
	return t.selector.GetTools(ctx, t.query, t.k)
}
