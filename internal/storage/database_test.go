package storage

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

// newTestDB opens a migrated database in a temporary directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNew_EnablesForeignKeys(t *testing.T) {
	db := newTestDB(t)

	var fkEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("Failed to check foreign keys: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("New() should enable foreign keys")
	}
}

func TestNew_ConnectionPoolSettings(t *testing.T) {
	db := newTestDB(t)

	if got := db.Stats().MaxOpenConnections; got != 25 {
		t.Errorf("MaxOpenConnections = %v, want 25", got)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	db, err := New("/nonexistent/path/test.db")
	if err == nil {
		if db != nil {
			_ = db.Close()
		}
		t.Error("New() with invalid path should return error")
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	// Second run must be a no-op.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}

	for _, table := range []string{"sources", "documents", "chunks"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("Migrate() table %s not created", table)
		}
	}
}

func TestMigrate_CreatesCorrectSchema(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		table string
		want  string
	}{
		{table: "sources", want: "url TEXT NOT NULL UNIQUE"},
		{table: "documents", want: "REFERENCES sources(id)"},
		{table: "chunks", want: "ON DELETE CASCADE"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var schema string
			err := db.QueryRow("SELECT sql FROM sqlite_master WHERE type='table' AND name=?", tt.table).Scan(&schema)
			if err != nil {
				t.Fatalf("Failed to get %s schema: %v", tt.table, err)
			}
			if !strings.Contains(schema, tt.want) {
				t.Errorf("%s schema missing %q:\n%s", tt.table, tt.want, schema)
			}
		})
	}
}
