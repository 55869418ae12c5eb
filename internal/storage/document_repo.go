package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks nigerian-law-ai/internal/storage DocumentStore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for raw document storage operations.
type DocumentStore interface {
	// Upsert inserts a document or updates the one with the same URL.
	// Hash and ID are filled in by the store.
	Upsert(ctx context.Context, doc *DocumentRecord) (UpsertResult, error)
	// GetByURL gets a document by its URL. Returns ErrNotFound if not found.
	GetByURL(ctx context.Context, url string) (*DocumentRecord, error)
	// ListAll returns all documents ordered by URL.
	ListAll(ctx context.Context) ([]DocumentRecord, error)
	// MarkIndexed records the content hash that is now present in the vector index.
	MarkIndexed(ctx context.Context, id, hash string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// DocumentID returns the stable document ID for a URL.
func DocumentID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// ContentHash returns the SHA256 hex digest of content.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

const selectDocument = `SELECT id, source_id, url, file_path, file_type, title, branch, source_type,
	content, hash, indexed_hash, scraped_at FROM documents`

func scanDocument(row interface{ Scan(...any) error }) (DocumentRecord, error) {
	var d DocumentRecord
	err := row.Scan(&d.ID, &d.SourceID, &d.URL, &d.FilePath, &d.FileType, &d.Title, &d.Branch,
		&d.SourceType, &d.Content, &d.Hash, &d.IndexedHash, &d.ScrapedAt)
	return d, err
}

// GetByURL gets a document by its URL. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByURL(ctx context.Context, url string) (*DocumentRecord, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, selectDocument+" WHERE url = ?", url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return &doc, nil
}

// Upsert inserts a new document or updates an existing one keyed by URL.
// An existing document whose content hash is unchanged is left untouched.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) (UpsertResult, error) {
	if doc.URL == "" {
		return UpsertUnchanged, fmt.Errorf("document url is required")
	}
	doc.ID = DocumentID(doc.URL)
	doc.Hash = ContentHash(doc.Content)
	if doc.ScrapedAt.IsZero() {
		doc.ScrapedAt = time.Now().UTC()
	}

	existing, err := r.GetByURL(ctx, doc.URL)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return UpsertUnchanged, fmt.Errorf("failed to check existing document: %w", err)
	}
	if existing != nil && existing.Hash == doc.Hash {
		doc.IndexedHash = existing.IndexedHash
		return UpsertUnchanged, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, source_id, url, file_path, file_type, title, branch, source_type, content, hash, scraped_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET
		 source_id = excluded.source_id, file_path = excluded.file_path, file_type = excluded.file_type,
		 title = excluded.title, branch = excluded.branch, source_type = excluded.source_type,
		 content = excluded.content, hash = excluded.hash, scraped_at = excluded.scraped_at`,
		doc.ID, doc.SourceID, doc.URL, doc.FilePath, doc.FileType, doc.Title, doc.Branch, doc.SourceType,
		doc.Content, doc.Hash, doc.ScrapedAt,
	)
	if err != nil {
		return UpsertUnchanged, fmt.Errorf("failed to upsert document: %w", err)
	}

	if existing == nil {
		return UpsertInserted, nil
	}
	doc.IndexedHash = existing.IndexedHash
	return UpsertUpdated, nil
}

// ListAll returns all documents ordered by URL.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectDocument+" ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

// MarkIndexed records the content hash that is now present in the vector index.
func (r *DocumentRepo) MarkIndexed(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE documents SET indexed_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return fmt.Errorf("failed to mark document indexed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
