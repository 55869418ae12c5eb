package collector

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidRepoURL is returned when a URL does not name a GitHub repository.
var ErrInvalidRepoURL = errors.New("invalid GitHub repository URL")

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// URL returns the canonical https URL of the repository.
func (r Repo) URL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name
}

// BlobURL returns the browsable URL of a file at branch.
func (r Repo) BlobURL(branch, relPath string) string {
	return r.URL() + "/blob/" + branch + "/" + path.Clean(strings.TrimPrefix(relPath, "/"))
}

// ParseGitHubURL extracts owner and repository name from a GitHub URL.
// Query strings, fragments, trailing slashes and a ".git" suffix are ignored.
func ParseGitHubURL(raw string) (Repo, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %q: %w", ErrInvalidRepoURL, raw, err)
	}
	if host := strings.TrimPrefix(strings.ToLower(u.Host), "www."); host != "github.com" {
		return Repo{}, fmt.Errorf("%w: %q is not a github.com URL", ErrInvalidRepoURL, raw)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return Repo{}, fmt.Errorf("%w: %q has no owner and repository", ErrInvalidRepoURL, raw)
	}

	name := strings.TrimSuffix(segments[1], ".git")
	if name == "" {
		return Repo{}, fmt.Errorf("%w: %q has an empty repository name", ErrInvalidRepoURL, raw)
	}
	return Repo{Owner: segments[0], Name: name}, nil
}
