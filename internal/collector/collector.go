package collector

import (
	"context"
	"fmt"
	"os"
	"path"
	"unicode/utf8"

	"nigerian-law-ai/internal/contextutil"
	"nigerian-law-ai/internal/storage"
)

// SourceTypeGitHub marks documents collected from a GitHub repository.
const SourceTypeGitHub = "github_repo"

// Result summarizes one collection run.
type Result struct {
	Repo      string
	Commit    string
	Skipped   bool // HEAD matched the last collected commit
	Files     int
	Inserted  int
	Updated   int
	Unchanged int
	Binary    int
	Failed    int
}

// Collector copies legal documents from a source repository into the document store.
type Collector struct {
	sources storage.SourceStore
	docs    storage.DocumentStore
	cloner  Cloner
	tempDir string
}

// NewCollector creates a Collector. Clones go under the system temp directory.
func NewCollector(sources storage.SourceStore, docs storage.DocumentStore, cloner Cloner) *Collector {
	return &Collector{
		sources: sources,
		docs:    docs,
		cloner:  cloner,
		tempDir: os.TempDir(),
	}
}

// CollectRepo clones branch of repoURL and upserts every supported file.
// Per-file failures are logged and counted. The run is skipped when the
// branch HEAD has not moved since the last successful collection.
func (c *Collector) CollectRepo(ctx context.Context, repoURL, branch string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	repo, err := ParseGitHubURL(repoURL)
	if err != nil {
		return Result{}, err
	}
	result := Result{Repo: repo.URL()}

	source, err := c.sources.GetOrCreateByURL(ctx, repo.URL(), branch)
	if err != nil {
		return result, fmt.Errorf("failed to register source: %w", err)
	}

	dir, err := os.MkdirTemp(c.tempDir, repo.Owner+"_"+repo.Name+"_")
	if err != nil {
		return result, fmt.Errorf("failed to create clone directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.WarnContext(ctx, "failed to remove clone directory", "dir", dir, "error", err)
		}
	}()

	logger.InfoContext(ctx, "cloning repository", "repo", repo.URL(), "branch", branch)
	commit, err := c.cloner.Clone(ctx, repo.URL(), branch, dir)
	if err != nil {
		return result, err
	}
	result.Commit = commit

	if commit != "" && commit == source.LastCommit {
		logger.InfoContext(ctx, "repository unchanged since last collection", "repo", repo.URL(), "commit", commit)
		result.Skipped = true
		return result, nil
	}

	files, err := ScanDir(ctx, dir)
	if err != nil {
		return result, err
	}
	result.Files = len(files)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doc, ok, err := readDocument(f, repo, branch, source.ID)
		if err != nil {
			logger.WarnContext(ctx, "failed to read file", "path", f.RelPath, "error", err)
			result.Failed++
			continue
		}
		if !ok {
			logger.DebugContext(ctx, "skipping non-text file", "path", f.RelPath)
			result.Binary++
			continue
		}

		res, err := c.docs.Upsert(ctx, doc)
		if err != nil {
			logger.ErrorContext(ctx, "failed to save document", "url", doc.URL, "error", err)
			result.Failed++
			continue
		}
		switch res {
		case storage.UpsertInserted:
			result.Inserted++
		case storage.UpsertUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
		logger.DebugContext(ctx, "document saved", "url", doc.URL, "result", res.String())
	}

	// A run with failures is retried in full next time.
	if result.Failed == 0 {
		if err := c.sources.UpdateCommit(ctx, source.ID, commit); err != nil {
			return result, fmt.Errorf("failed to record commit: %w", err)
		}
	}

	logger.InfoContext(ctx, "collection finished",
		"repo", repo.URL(),
		"commit", commit,
		"files", result.Files,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"binary", result.Binary,
		"failed", result.Failed,
	)
	return result, nil
}

// readDocument loads f as a document. ok is false for content that is not valid UTF-8.
func readDocument(f ScannedFile, repo Repo, branch string, sourceID int) (*storage.DocumentRecord, bool, error) {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, false, err
	}
	if !utf8.Valid(data) {
		return nil, false, nil
	}

	return &storage.DocumentRecord{
		SourceID:   sourceID,
		URL:        repo.BlobURL(branch, f.RelPath),
		FilePath:   f.RelPath,
		FileType:   f.FileType,
		Title:      path.Base(f.RelPath),
		Branch:     branch,
		SourceType: SourceTypeGitHub,
		Content:    string(data),
	}, true, nil
}
