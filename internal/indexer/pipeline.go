package indexer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/storage"
	"nigerian-law-ai/internal/vectorstore"
)

// Embedder turns chunk texts into vectors, one per text, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Config tunes chunking and embedding. Zero values take defaults.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	// BatchSize is the number of texts per embeddings request.
	BatchSize int
	// Concurrency bounds the embeddings requests in flight per document.
	Concurrency int
}

const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 200
	defaultBatchSize    = 32
	defaultConcurrency  = 4
)

// Pipeline turns collected documents into chunk rows and vector points.
type Pipeline struct {
	docRepo     storage.DocumentStore
	chunkRepo   storage.ChunkStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	splitter    *TextSplitter
	markdown    *MarkdownExtractor
	batchSize   int
	concurrency int
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	docRepo storage.DocumentStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	cfg Config,
) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = min(DefaultChunkOverlap, cfg.ChunkSize/2)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return &Pipeline{
		docRepo:     docRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		splitter:    NewTextSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		markdown:    NewMarkdownExtractor(),
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
}

// ChunkID returns the stable id of a document's chunk. It is also the vector point id.
func ChunkID(documentID string, index int) string {
	ns, err := uuid.Parse(documentID)
	if err != nil {
		ns = uuid.NewSHA1(uuid.NameSpaceURL, []byte(documentID))
	}
	return uuid.NewSHA1(ns, []byte(strconv.Itoa(index))).String()
}

// PrepareChunks cleans and splits a document. It returns every split chunk
// and the subset that passes the quality filter.
func (p *Pipeline) PrepareChunks(doc *storage.DocumentRecord) (all, kept []Chunk) {
	text := doc.Content
	if doc.FileType == "md" {
		text = p.markdown.Extract([]byte(text))
	}
	text = CleanText(text)
	if text == "" {
		return nil, nil
	}

	pieces := p.splitter.Split(text)
	all = make([]Chunk, len(pieces))
	for i, piece := range pieces {
		all[i] = Chunk{Index: i, Text: piece}
	}
	return all, FilterQualityChunks(all)
}

// IndexDocument replaces the indexed chunks of doc. Documents whose content
// hash matches the indexed hash are skipped.
func (p *Pipeline) IndexDocument(ctx context.Context, doc *storage.DocumentRecord) (DocumentStats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hash := doc.Hash
	if hash == "" {
		hash = storage.ContentHash(doc.Content)
	}
	if doc.IndexedHash == hash {
		logger.DebugContext(ctx, "skipping unchanged document", "url", doc.URL)
		return DocumentStats{Skipped: true}, nil
	}

	all, kept := p.PrepareChunks(doc)
	stats := DocumentStats{
		ChunksCreated:  len(all),
		ChunksFiltered: len(all) - len(kept),
	}

	if err := p.deleteChunks(ctx, doc.ID); err != nil {
		return stats, err
	}

	if len(kept) == 0 {
		logger.WarnContext(ctx, "no quality chunks in document", "url", doc.URL, "chunks", len(all))
	} else {
		embeddings, err := p.embed(ctx, kept)
		if err != nil {
			return stats, err
		}

		label := doc.FilePath
		if label == "" {
			label = doc.Title
		}

		points := make([]vectorstore.Point, len(kept))
		for i, chunk := range kept {
			chunkID := ChunkID(doc.ID, chunk.Index)

			if err := p.chunkRepo.Insert(ctx, &storage.ChunkRecord{
				ID:         chunkID,
				DocumentID: doc.ID,
				ChunkIndex: chunk.Index,
				Title:      label,
				SourceURL:  doc.URL,
				Text:       chunk.Text,
			}); err != nil {
				return stats, fmt.Errorf("failed to insert chunk: %w", err)
			}

			points[i] = vectorstore.Point{
				ID:  chunkID,
				Vec: embeddings[i],
				Meta: map[string]any{
					"document_id": doc.ID,
					"chunk_index": chunk.Index,
					"title":       label,
					"file_path":   doc.FilePath,
					"url":         doc.URL,
					"source":      doc.SourceType,
					"file_type":   doc.FileType,
				},
			}
		}

		if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
			return stats, fmt.Errorf("failed to upsert vectors: %w", err)
		}
		stats.ChunksEmbedded = len(kept)
	}

	if err := p.docRepo.MarkIndexed(ctx, doc.ID, hash); err != nil {
		return stats, fmt.Errorf("failed to mark document indexed: %w", err)
	}

	logger.InfoContext(ctx, "indexed document",
		"url", doc.URL,
		"chunks", stats.ChunksCreated,
		"filtered", stats.ChunksFiltered,
		"embedded", stats.ChunksEmbedded,
		"p95_tokens", TokenStats(kept).P95,
	)
	return stats, nil
}

// deleteChunks removes the previous chunks of a document from both stores.
// A failed vector delete is logged; orphaned points are overwritten or
// ignored because search resolves text through the chunk table.
func (p *Pipeline) deleteChunks(ctx context.Context, documentID string) error {
	oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list old chunk IDs: %w", err)
	}
	if len(oldIDs) == 0 {
		return nil
	}

	if err := p.vectorStore.Delete(ctx, p.collection, oldIDs); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete old chunks from Qdrant",
			"error", err, "count", len(oldIDs))
	}
	if err := p.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete old chunks from SQLite: %w", err)
	}
	return nil
}

// embed requests embeddings in batches with bounded concurrency. The result
// is aligned with chunks.
func (p *Pipeline) embed(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		g.Go(func() error {
			vecs, err := p.embedder.EmbedTexts(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("failed to generate embeddings: %w", err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embedding count mismatch: expected %d, got %d", end-start, len(vecs))
			}
			copy(embeddings[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// IndexAll indexes every stored document. Failures are logged and counted;
// the run continues with the next document.
func (p *Pipeline) IndexAll(ctx context.Context) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := p.docRepo.ListAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list documents: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_documents", len(docs))

	var stats Stats
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		docStats, err := p.IndexDocument(ctx, &docs[i])
		if err != nil {
			stats.DocsFailed++
			logger.ErrorContext(ctx, "failed to index document", "url", docs[i].URL, "error", err)
			continue
		}
		stats.Add(docStats)
	}

	logger.InfoContext(ctx, "indexing completed",
		"total_documents", len(docs),
		"processed", stats.DocsProcessed,
		"skipped", stats.DocsSkipped,
		"failed", stats.DocsFailed,
		"chunks_created", stats.ChunksCreated,
		"chunks_filtered", stats.ChunksFiltered,
		"chunks_embedded", stats.ChunksEmbedded,
	)
	return stats, nil
}
