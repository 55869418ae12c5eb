package collector

import (
	"errors"
	"testing"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Repo
		wantErr bool
	}{
		{name: "plain", raw: "https://github.com/mykeels/nigerian-laws", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "git suffix", raw: "https://github.com/mykeels/nigerian-laws.git", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "trailing slash", raw: "https://github.com/mykeels/nigerian-laws/", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "query and fragment", raw: "https://github.com/mykeels/nigerian-laws?tab=readme#top", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "deep link", raw: "https://github.com/mykeels/nigerian-laws/tree/master/laws", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "no scheme", raw: "github.com/mykeels/nigerian-laws", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "www host", raw: "https://www.github.com/mykeels/nigerian-laws", want: Repo{"mykeels", "nigerian-laws"}},
		{name: "other host", raw: "https://gitlab.com/mykeels/nigerian-laws", wantErr: true},
		{name: "owner only", raw: "https://github.com/mykeels", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGitHubURL(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRepoURL) {
					t.Errorf("ParseGitHubURL(%q) error = %v, want ErrInvalidRepoURL", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGitHubURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseGitHubURL(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRepo_URLs(t *testing.T) {
	repo := Repo{Owner: "mykeels", Name: "nigerian-laws"}

	if got, want := repo.URL(), "https://github.com/mykeels/nigerian-laws"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if got, want := repo.BlobURL("master", "laws/cama.md"), "https://github.com/mykeels/nigerian-laws/blob/master/laws/cama.md"; got != want {
		t.Errorf("BlobURL() = %q, want %q", got, want)
	}
	if got, want := repo.BlobURL("main", "/README.md"), "https://github.com/mykeels/nigerian-laws/blob/main/README.md"; got != want {
		t.Errorf("BlobURL() = %q, want %q", got, want)
	}
}
