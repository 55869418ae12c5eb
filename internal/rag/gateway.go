package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks nigerian-law-ai/internal/rag Index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/storage"
	"nigerian-law-ai/internal/vectorstore"
)

// Index is similarity search over the indexed legal corpus.
type Index interface {
	// Search returns up to k chunks ordered by descending similarity to query.
	// It fails with ErrIndexUnavailable when the index did not load.
	Search(ctx context.Context, query string, k int) ([]RetrievedChunk, error)
	// Available reports whether the index loaded and can serve searches.
	Available() bool
}

// Embedder turns text into a vector in the index's embedding space.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// CollectionInspector reports the state of a vector collection.
type CollectionInspector interface {
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
}

// IndexGateway implements Index on top of the embeddings model, the vector store and
// the chunk table.
type IndexGateway struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	chunks     storage.ChunkStore
	collection string
	available  atomic.Bool
}

// NewIndexGateway creates a gateway. It starts unavailable; call Load or SetAvailable.
func NewIndexGateway(embedder Embedder, store vectorstore.VectorStore, chunks storage.ChunkStore, collection string) *IndexGateway {
	return &IndexGateway{
		embedder:   embedder,
		store:      store,
		chunks:     chunks,
		collection: collection,
	}
}

// Available reports whether the gateway can serve searches.
func (g *IndexGateway) Available() bool {
	return g.available.Load()
}

// SetAvailable marks the gateway as loaded or not.
func (g *IndexGateway) SetAvailable(ok bool) {
	g.available.Store(ok)
}

// Load checks that the collection exists and holds points and that the embeddings
// model answers, then marks the gateway available. On failure the gateway stays
// unavailable and the reason is returned.
func (g *IndexGateway) Load(ctx context.Context, inspector CollectionInspector) error {
	logger := contextutil.LoggerFromContext(ctx)

	info, err := inspector.GetCollectionInfo(ctx, g.collection)
	if err != nil {
		g.SetAvailable(false)
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	if info.PointsCount == 0 {
		g.SetAvailable(false)
		return fmt.Errorf("%w: collection %q is empty, run preprocessing first", ErrIndexUnavailable, g.collection)
	}

	if _, err := g.embedder.EmbedText(ctx, "Nigerian law"); err != nil {
		g.SetAvailable(false)
		return fmt.Errorf("%w: embeddings probe failed: %w", ErrIndexUnavailable, err)
	}

	g.SetAvailable(true)
	logger.InfoContext(ctx, "vector index loaded",
		"collection", g.collection,
		"points", info.PointsCount,
		"vector_size", info.VectorSize,
	)
	return nil
}

// Search embeds query and returns the k nearest chunks, highest score first.
// Equal scores keep the order the store returned them in.
// Chunks whose text is missing from the chunk table are skipped.
func (g *IndexGateway) Search(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !g.Available() {
		return nil, ErrIndexUnavailable
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be greater than 0", ErrSearchFailure)
	}

	vector, err := g.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrSearchFailure, err)
	}

	results, err := g.store.Search(ctx, g.collection, vector, k, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailure, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	chunks := make([]RetrievedChunk, 0, len(results))
	for i, result := range results {
		record, err := g.chunks.GetByID(ctx, result.PointID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("%w: load chunk %s: %w", ErrSearchFailure, result.PointID, err)
			}
			logger.WarnContext(ctx, "indexed chunk missing from database", "chunk_id", result.PointID)
			continue
		}

		chunk := chunkFromResult(result, record)
		chunks = append(chunks, chunk)

		logger.DebugContext(ctx, "retrieved chunk",
			"rank", i+1,
			"score", result.Score,
			"title", chunk.Title,
			"url", chunk.SourceURL,
			"text_preview", contextutil.Truncate(chunk.Content, 100),
		)
	}

	logger.InfoContext(ctx, "vector search completed", "k", k, "results", len(chunks))
	return chunks, nil
}

// chunkFromResult merges the point payload with the stored chunk row. Payload values
// win; the row fills gaps and the sentinels fill what is left.
func chunkFromResult(result vectorstore.SearchResult, record *storage.ChunkRecord) RetrievedChunk {
	title := stringMeta(result.Meta, "title")
	if title == "" {
		title = stringMeta(result.Meta, "file_path")
	}
	if title == "" {
		title = record.Title
	}
	if title == "" {
		title = UnknownTitle
	}

	url := stringMeta(result.Meta, "url")
	if url == "" {
		url = record.SourceURL
	}
	if url == "" {
		url = UnknownURL
	}

	meta := make(map[string]any, len(result.Meta)+1)
	for k, v := range result.Meta {
		meta[k] = v
	}
	meta["chunk_id"] = result.PointID

	return RetrievedChunk{
		Content:   record.Text,
		Title:     title,
		SourceURL: url,
		Score:     result.Score,
		Metadata:  meta,
	}
}

func stringMeta(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}
