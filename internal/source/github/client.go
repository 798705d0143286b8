// Package github lists and fetches repository contents through the GitHub
// contents API.
package github

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"gitlab.com/tozd/go/errors"
)

// ContentsClient is the slice of the GitHub API the source needs.
type ContentsClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

type clientWrapper struct {
	client *github.Client
}

func (w *clientWrapper) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetContents(ctx, owner, repo, path, opts)
}

// ClientOptions configures the API client shared by every source the
// provider opens.
type ClientOptions struct {
	// BaseURL points at a GitHub Enterprise API. Empty means github.com.
	BaseURL string
	// TokenEnv names the environment variable holding an optional token.
	TokenEnv string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// NewClient builds the go-github client. A token is attached only when the
// configured environment variable is set.
func NewClient(opts ClientOptions) (*github.Client, error) {
	client := github.NewClient(opts.HTTPClient)

	if opts.TokenEnv != "" {
		if token := strings.TrimSpace(os.Getenv(opts.TokenEnv)); token != "" {
			client = client.WithAuthToken(token)
		}
	}

	if opts.BaseURL != "" {
		withBase, err := client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, errors.Errorf("configuring api base url %q: %w", opts.BaseURL, err)
		}
		client = withBase
	}

	return client, nil
}
