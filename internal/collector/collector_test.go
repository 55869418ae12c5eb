package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"nigerian-law-ai/internal/storage"
	"nigerian-law-ai/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeCloner writes files into the clone directory instead of fetching.
type fakeCloner struct {
	t      *testing.T
	files  map[string]string
	commit string
	err    error
	dirs   []string
}

func (f *fakeCloner) Clone(_ context.Context, _, _, dir string) (string, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return "", f.err
	}
	writeTree(f.t, dir, f.files)
	return f.commit, nil
}

func newTestCollector(t *testing.T, sources storage.SourceStore, docs storage.DocumentStore, cloner Cloner) *Collector {
	t.Helper()
	c := NewCollector(sources, docs, cloner)
	c.tempDir = t.TempDir()
	return c
}

const testRepoURL = "https://github.com/mykeels/nigerian-laws"

func TestCollector_CollectRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	docs := mocks.NewMockDocumentStore(ctrl)

	cloner := &fakeCloner{
		t: t,
		files: map[string]string{
			"laws/cama.md":     "# Companies and Allied Matters Act",
			"laws/labour.txt":  "Labour Act",
			"laws/old.md":      "unchanged text",
			"laws/scan.pdf":    string([]byte{0x25, 0x50, 0x44, 0x46, 0xff, 0xfe}),
			"tools/index.js":   "console.log()",
			".git/description": "repo",
		},
		commit: "abc123",
	}

	sources.EXPECT().GetOrCreateByURL(gomock.Any(), testRepoURL, "master").
		Return(storage.SourceRecord{ID: 7, URL: testRepoURL, Branch: "master", LastCommit: "old"}, nil)

	saved := make(map[string]*storage.DocumentRecord)
	docs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, doc *storage.DocumentRecord) (storage.UpsertResult, error) {
			saved[doc.FilePath] = doc
			switch doc.FilePath {
			case "laws/cama.md":
				return storage.UpsertInserted, nil
			case "laws/labour.txt":
				return storage.UpsertUpdated, nil
			default:
				return storage.UpsertUnchanged, nil
			}
		})
	sources.EXPECT().UpdateCommit(gomock.Any(), 7, "abc123").Return(nil)

	c := newTestCollector(t, sources, docs, cloner)
	result, err := c.CollectRepo(context.Background(), testRepoURL+".git", "master")
	if err != nil {
		t.Fatalf("CollectRepo() error = %v", err)
	}

	want := Result{Repo: testRepoURL, Commit: "abc123", Files: 4, Inserted: 1, Updated: 1, Unchanged: 1, Binary: 1}
	if result != want {
		t.Errorf("CollectRepo() = %+v, want %+v", result, want)
	}

	cama := saved["laws/cama.md"]
	if cama == nil {
		t.Fatal("laws/cama.md was not saved")
	}
	if cama.URL != testRepoURL+"/blob/master/laws/cama.md" {
		t.Errorf("URL = %q", cama.URL)
	}
	if cama.Title != "cama.md" || cama.FileType != "md" || cama.Branch != "master" {
		t.Errorf("document = %+v", cama)
	}
	if cama.SourceID != 7 || cama.SourceType != SourceTypeGitHub {
		t.Errorf("source fields = %d/%q", cama.SourceID, cama.SourceType)
	}
	if cama.Content != "# Companies and Allied Matters Act" {
		t.Errorf("Content = %q", cama.Content)
	}

	for _, dir := range cloner.dirs {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("clone directory %s was not removed", dir)
		}
	}
}

func TestCollector_CollectRepo_UnchangedCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	docs := mocks.NewMockDocumentStore(ctrl)

	sources.EXPECT().GetOrCreateByURL(gomock.Any(), testRepoURL, "master").
		Return(storage.SourceRecord{ID: 1, LastCommit: "abc123"}, nil)

	c := newTestCollector(t, sources, docs, &fakeCloner{t: t, files: map[string]string{"a.md": "a"}, commit: "abc123"})
	result, err := c.CollectRepo(context.Background(), testRepoURL, "master")
	if err != nil {
		t.Fatalf("CollectRepo() error = %v", err)
	}
	if !result.Skipped || result.Files != 0 {
		t.Errorf("CollectRepo() = %+v, want skipped run", result)
	}
}

func TestCollector_CollectRepo_FailuresKeepCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceStore(ctrl)
	docs := mocks.NewMockDocumentStore(ctrl)

	sources.EXPECT().GetOrCreateByURL(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.SourceRecord{ID: 1}, nil)
	docs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, doc *storage.DocumentRecord) (storage.UpsertResult, error) {
			if doc.FilePath == "bad.md" {
				return storage.UpsertUnchanged, errors.New("disk full")
			}
			return storage.UpsertInserted, nil
		}).Times(2)
	// UpdateCommit must not be called.

	c := newTestCollector(t, sources, docs, &fakeCloner{
		t:      t,
		files:  map[string]string{"good.md": "good", "bad.md": "bad"},
		commit: "def456",
	})
	result, err := c.CollectRepo(context.Background(), testRepoURL, "master")
	if err != nil {
		t.Fatalf("CollectRepo() error = %v", err)
	}
	if result.Inserted != 1 || result.Failed != 1 {
		t.Errorf("CollectRepo() = %+v, want 1 inserted and 1 failed", result)
	}
}

func TestCollector_CollectRepo_Errors(t *testing.T) {
	tests := []struct {
		name      string
		repoURL   string
		mockSetup func(*mocks.MockSourceStore)
		cloneErr  error
	}{
		{
			name:      "invalid URL",
			repoURL:   "https://example.com/not/github",
			mockSetup: func(*mocks.MockSourceStore) {},
		},
		{
			name:    "source registration fails",
			repoURL: testRepoURL,
			mockSetup: func(m *mocks.MockSourceStore) {
				m.EXPECT().GetOrCreateByURL(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(storage.SourceRecord{}, errors.New("locked"))
			},
		},
		{
			name:    "clone fails",
			repoURL: testRepoURL,
			mockSetup: func(m *mocks.MockSourceStore) {
				m.EXPECT().GetOrCreateByURL(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.SourceRecord{ID: 1}, nil)
			},
			cloneErr: errors.New("network unreachable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sources := mocks.NewMockSourceStore(ctrl)
			tt.mockSetup(sources)

			c := newTestCollector(t, sources, mocks.NewMockDocumentStore(ctrl), &fakeCloner{t: t, err: tt.cloneErr})
			if _, err := c.CollectRepo(context.Background(), tt.repoURL, "master"); err == nil {
				t.Error("CollectRepo() expected error")
			}
		})
	}
}

func TestCollector_CollectRepo_SQLite(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "collect.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	sources := storage.NewSourceRepo(db)
	docs := storage.NewDocumentRepo(db)
	cloner := &fakeCloner{
		t:      t,
		files:  map[string]string{"laws/cama.md": "# CAMA", "laws/evidence.txt": "Evidence Act"},
		commit: "c1",
	}
	c := newTestCollector(t, sources, docs, cloner)
	ctx := context.Background()

	first, err := c.CollectRepo(ctx, testRepoURL, "master")
	if err != nil {
		t.Fatalf("first CollectRepo() error = %v", err)
	}
	if first.Inserted != 2 {
		t.Errorf("first run inserted = %d, want 2", first.Inserted)
	}

	second, err := c.CollectRepo(ctx, testRepoURL, "master")
	if err != nil {
		t.Fatalf("second CollectRepo() error = %v", err)
	}
	if !second.Skipped {
		t.Errorf("second run = %+v, want skipped", second)
	}

	cloner.commit = "c2"
	cloner.files = map[string]string{"laws/cama.md": "# CAMA 2020", "laws/evidence.txt": "Evidence Act"}
	third, err := c.CollectRepo(ctx, testRepoURL, "master")
	if err != nil {
		t.Fatalf("third CollectRepo() error = %v", err)
	}
	if third.Updated != 1 || third.Unchanged != 1 {
		t.Errorf("third run = %+v, want 1 updated and 1 unchanged", third)
	}

	all, err := docs.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListAll() returned %d documents, want 2", len(all))
	}
	if all[0].Content != "# CAMA 2020" {
		t.Errorf("cama content = %q", all[0].Content)
	}
}
