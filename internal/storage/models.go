package storage

import "time"

// SourceRecord represents a source repository that documents are collected from.
type SourceRecord struct {
	ID          int
	URL         string // Canonical repository URL, e.g. https://github.com/owner/repo
	Branch      string
	LastCommit  string // HEAD commit hash of the last successful collection ("" if never collected)
	CollectedAt time.Time
	CreatedAt   time.Time
}

// DocumentRecord represents a raw legal document collected from a source repository.
type DocumentRecord struct {
	ID          string // UUID derived from URL
	SourceID    int    // Foreign key to sources.id
	URL         string // Unique identifier of the document
	FilePath    string // Path within the source repository
	FileType    string // File extension without the dot, e.g. "md"
	Title       string
	Branch      string
	SourceType  string // e.g. "github_repo"
	Content     string
	Hash        string // SHA256 hex string of Content
	IndexedHash string // Hash of the content that is currently in the vector index
	ScrapedAt   time.Time
}

// ChunkRecord represents a chunk of a document, indexed for vector search.
type ChunkRecord struct {
	ID         string // UUID (same as Qdrant point ID)
	DocumentID string // Foreign key to documents.id
	ChunkIndex int    // Index within document (starts at 0)
	Title      string // Provenance label shown in citations
	SourceURL  string // Document URL shown in citations
	Text       string
}

// UpsertResult reports what an upsert did to the stored row.
type UpsertResult int

const (
	// UpsertUnchanged means the row existed with identical content.
	UpsertUnchanged UpsertResult = iota
	// UpsertInserted means a new row was created.
	UpsertInserted
	// UpsertUpdated means an existing row was modified.
	UpsertUpdated
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertInserted:
		return "inserted"
	case UpsertUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}
