package vectorstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Cache - sqlite кэш эмбеддингов.
//
// Файл лежит в <cache_dir>/<store_name>.db, ключ - sha256 имени модели и текста:
// векторы разных моделей не смешиваются.
// Повторная индексация каталога не тратит запросы к embedding API.
type Cache struct {
	db    *sql.DB
	path  string
	model string
}

// OpenCache открывает или создает кэш для embedding модели model.
func OpenCache(dir, storeName, model string) (*Cache, error) {
	if storeName == "" {
		return nil, fmt.Errorf("store name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	path := filepath.Join(dir, storeName+".db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS embeddings (
		hash   TEXT PRIMARY KEY,
		vector BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init cache schema: %w", err)
	}

	return &Cache{db: db, path: path, model: model}, nil
}

// Path возвращает путь к файлу кэша.
func (c *Cache) Path() string {
	return c.path
}

// Get возвращает вектор по тексту, ok=false если записи нет.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, "SELECT vector FROM embeddings WHERE hash = ?", c.key(text)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache query failed: %w", err)
	}
	vec, err := decodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Put сохраняет вектор для текста.
func (c *Cache) Put(ctx context.Context, text string, vector []float32) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embeddings (hash, vector) VALUES (?, ?)",
		c.key(text), encodeVector(vector))
	if err != nil {
		return fmt.Errorf("cache insert failed: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) key(text string) string {
	return hashText(c.model + "\x00" + text)
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupted cache entry: %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// CachedEmbedder - embeddings.Embedder, который сначала смотрит в Cache.
type CachedEmbedder struct {
	embedder embeddings.Embedder
	cache    *Cache
}

// NewCachedEmbedder оборачивает эмбеддер кэшем.
func NewCachedEmbedder(e embeddings.Embedder, c *Cache) *CachedEmbedder {
	return &CachedEmbedder{embedder: e, cache: c}
}

// EmbedDocuments эмбеддит только тексты, которых нет в кэше.
func (c *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int

	for i, text := range texts {
		vec, ok, err := c.cache.Get(ctx, text)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) > 0 {
		missTexts := lo.Map(missIdx, func(i int, _ int) string { return texts[i] })
		vectors, err := c.embedder.EmbedDocuments(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(missTexts) {
			return nil, fmt.Errorf("expected %d vectors, got %d", len(missTexts), len(vectors))
		}
		for j, i := range missIdx {
			out[i] = vectors[j]
			if err := c.cache.Put(ctx, texts[i], vectors[j]); err != nil {
				return nil, err
			}
		}
	}

	utils.Debug("embedding cache", "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	return out, nil
}

// EmbedQuery реализует embeddings.Embedder, запросы не кэшируются.
func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedder.EmbedQuery(ctx, text)
}

var _ embeddings.Embedder = (*CachedEmbedder)(nil)
