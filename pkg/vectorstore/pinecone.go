package vectorstore

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MehdiZare/langchain-fmp-data/pkg/config"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// pineconeConn - подмножество *pinecone.IndexConnection.
type pineconeConn interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
}

// PineconeIndex - Index поверх namespace Pinecone индекса.
type PineconeIndex struct {
	conn      pineconeConn
	batchSize int
}

// NewPineconeIndex подключается к индексу по host или, если host не задан, по имени.
func NewPineconeIndex(ctx context.Context, cfg config.PineconeConfig) (*PineconeIndex, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone api key is required")
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	host := cfg.IndexHost
	if host == "" {
		if cfg.IndexName == "" {
			return nil, fmt.Errorf("pinecone index_host or index_name is required")
		}
		desc, err := pc.DescribeIndex(ctx, cfg.IndexName)
		if err != nil {
			return nil, fmt.Errorf("failed to describe index: %w", err)
		}
		host = desc.Host
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	utils.Info("pinecone index connected", "host", host, "namespace", cfg.Namespace)
	return &PineconeIndex{conn: conn, batchSize: 100}, nil
}

// Upsert записывает векторы батчами.
func (p *PineconeIndex) Upsert(ctx context.Context, entries []Entry) error {
	vectors := make([]*pinecone.Vector, 0, len(entries))
	for _, e := range entries {
		metadata, err := structpb.NewStruct(e.Metadata)
		if err != nil {
			return fmt.Errorf("failed to create metadata struct for %s: %w", e.ID, err)
		}
		values := append([]float32(nil), e.Vector...)
		vectors = append(vectors, &pinecone.Vector{
			Id:       e.ID,
			Values:   &values,
			Metadata: metadata,
		})
	}

	for i, batch := range lo.Chunk(vectors, p.batchSize) {
		count, err := p.conn.UpsertVectors(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to upsert vectors: %w", err)
		}
		utils.Debug("pinecone vectors upserted", "count", count, "batch", i+1)
	}
	return nil
}

// Query возвращает top-k совпадений с метаданными.
func (p *PineconeIndex) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}
	result, err := p.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(k),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	matches := make([]Match, 0, len(result.Matches))
	for _, m := range result.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		var metadata map[string]any
		if m.Vector.Metadata != nil {
			metadata = m.Vector.Metadata.AsMap()
		}
		matches = append(matches, Match{ID: m.Vector.Id, Score: m.Score, Metadata: metadata})
	}
	return matches, nil
}

var _ Index = (*PineconeIndex)(nil)
