package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source_store.go -package=mocks nigerian-law-ai/internal/storage SourceStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SourceStore defines the interface for source repository bookkeeping.
type SourceStore interface {
	// GetOrCreateByURL gets a source by URL, creating it if it doesn't exist.
	GetOrCreateByURL(ctx context.Context, url, branch string) (SourceRecord, error)
	// UpdateCommit records the commit a source was last collected at.
	UpdateCommit(ctx context.Context, id int, commit string) error
}

// SourceRepo provides methods for source operations.
// It implements the SourceStore interface.
type SourceRepo struct {
	db *sql.DB
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

const selectSource = "SELECT id, url, branch, last_commit, collected_at, created_at FROM sources"

func scanSource(row interface{ Scan(...any) error }) (SourceRecord, error) {
	var s SourceRecord
	err := row.Scan(&s.ID, &s.URL, &s.Branch, &s.LastCommit, &s.CollectedAt, &s.CreatedAt)
	return s, err
}

// GetOrCreateByURL gets an existing source by URL, or creates it if it doesn't exist.
// The branch of an existing source is updated when it differs.
func (r *SourceRepo) GetOrCreateByURL(ctx context.Context, url, branch string) (SourceRecord, error) {
	source, err := scanSource(r.db.QueryRowContext(ctx, selectSource+" WHERE url = ?", url))
	if err == nil {
		if source.Branch != branch {
			// A different branch invalidates the recorded commit.
			if _, err := r.db.ExecContext(ctx,
				"UPDATE sources SET branch = ?, last_commit = '' WHERE id = ?", branch, source.ID,
			); err != nil {
				return SourceRecord{}, fmt.Errorf("failed to update source branch: %w", err)
			}
			source.Branch = branch
			source.LastCommit = ""
		}
		return source, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return SourceRecord{}, fmt.Errorf("failed to query source: %w", err)
	}

	result, err := r.db.ExecContext(ctx, "INSERT INTO sources (url, branch) VALUES (?, ?)", url, branch)
	if err != nil {
		return SourceRecord{}, fmt.Errorf("failed to insert source: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return SourceRecord{}, fmt.Errorf("failed to get source id: %w", err)
	}

	source, err = scanSource(r.db.QueryRowContext(ctx, selectSource+" WHERE id = ?", id))
	if err != nil {
		return SourceRecord{}, fmt.Errorf("failed to load created source: %w", err)
	}
	return source, nil
}

// UpdateCommit records the commit a source was last collected at and bumps collected_at.
func (r *SourceRepo) UpdateCommit(ctx context.Context, id int, commit string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sources SET last_commit = ?, collected_at = CURRENT_TIMESTAMP WHERE id = ?", commit, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update source commit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
