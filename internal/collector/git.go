package collector

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Cloner fetches a repository branch into a local directory and returns the
// HEAD commit hash.
type Cloner interface {
	Clone(ctx context.Context, repoURL, branch, dir string) (string, error)
}

// GitCloner clones with go-git. Only the tip of the branch is fetched.
type GitCloner struct{}

// Clone shallow-clones branch of repoURL into dir.
func (GitCloner) Clone(ctx context.Context, repoURL, branch, dir string) (string, error) {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           repoURL,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone %s@%s: %w", repoURL, branch, err)
	}
	return HeadCommit(dir)
}

// HeadCommit returns the commit hash HEAD points at in the repository at dir.
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository %s: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD in %s: %w", dir, err)
	}
	return ref.Hash().String(), nil
}
