package vectorstore

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	embedders "github.com/MehdiZare/langchain-fmp-data/pkg/embeddings"
	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp"
	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp/fmptools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// ConfigError - неверные параметры создания хранилища.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid vector store configuration: " + e.Reason
}

// Options - параметры Create.
type Options struct {
	FMPAPIKey      string
	OpenAIAPIKey   string
	FMP            config.FMPConfig
	Store          config.VectorStoreConfig
	EmbeddingModel string

	// Embedder подменяет OpenAI эмбеддер (тесты, другие провайдеры).
	Embedder embeddings.Embedder
	// Client подменяет FMP клиент каталога.
	Client fmptools.Client
	// Index подменяет индекс, заданный Store.Backend.
	Index Index
}

// Create собирает Store над полным каталогом FMP инструментов.
//
// Шаги: FMP клиент → каталог → эмбеддер (батчи + sqlite кэш) → индекс → индексация.
func Create(ctx context.Context, opts Options) (*Store, error) {
	storeCfg := opts.Store.GetDefaults()

	client := opts.Client
	if client == nil {
		fmpCfg := opts.FMP
		if opts.FMPAPIKey != "" {
			fmpCfg.APIKey = opts.FMPAPIKey
		}
		c, err := fmp.NewFromConfig(fmpCfg)
		if err != nil {
			return nil, err
		}
		client = c
	}

	embedder := opts.Embedder
	if embedder == nil {
		if opts.OpenAIAPIKey == "" {
			return nil, &ConfigError{Reason: "openai api key is required for embeddings"}
		}
		e, err := embedders.NewOpenAI(opts.OpenAIAPIKey, opts.EmbeddingModel)
		if err != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		embedder = e
	}
	embedder = embedders.NewBatched(embedder, storeCfg.BatchSize)

	var cache *Cache
	if storeCfg.CacheDir != "" {
		c, err := OpenCache(storeCfg.CacheDir, storeCfg.StoreName, opts.EmbeddingModel)
		if err != nil {
			// без кэша индекс работает, просто дороже
			utils.Warn("embedding cache disabled", "dir", storeCfg.CacheDir, "error", err)
		} else {
			cache = c
			embedder = NewCachedEmbedder(embedder, c)
		}
	}

	index := opts.Index
	if index == nil {
		switch storeCfg.Backend {
		case "memory":
			index = NewMemoryIndex()
		case "pinecone":
			pineconeCfg := storeCfg.Pinecone
			if pineconeCfg.Namespace == "" {
				pineconeCfg.Namespace = storeCfg.StoreName
			}
			p, err := NewPineconeIndex(ctx, pineconeCfg)
			if err != nil {
				closeCache(cache)
				return nil, &ConfigError{Reason: err.Error()}
			}
			index = p
		default:
			closeCache(cache)
			return nil, &ConfigError{Reason: fmt.Sprintf("unknown backend %q", storeCfg.Backend)}
		}
	}

	store, err := New(storeCfg.StoreName, embedder, index)
	if err != nil {
		closeCache(cache)
		return nil, err
	}
	store.cache = cache

	if err := store.AddTools(ctx, fmptools.Catalog(client)); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to index fmp endpoints: %w", err)
	}

	utils.Info("vector store created", "store", storeCfg.StoreName, "backend", storeCfg.Backend, "tools", store.Len())
	return store, nil
}

func closeCache(c *Cache) {
	if c != nil {
		c.Close()
	}
}
