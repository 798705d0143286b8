package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/singleflight"
)

const (
	typeDir = "dir"

	// defaultDownloadTimeout bounds a shared download once no caller is
	// left to cancel it.
	defaultDownloadTimeout = time.Minute
)

// Source browses one owner/repository at an optional ref.
type Source struct {
	contents ContentsClient
	http     *http.Client
	id       source.Identity
	ref      string

	downloads       singleflight.Group
	downloadTimeout time.Duration
}

var _ source.Source = (*Source)(nil)

// NewSource creates a source for id using client for both the contents API and
// raw downloads.
func NewSource(client *github.Client, id source.Identity, ref string) *Source {
	return newSource(&clientWrapper{client: client}, client.Client(), id, ref)
}

func newSource(contents ContentsClient, httpClient *http.Client, id source.Identity, ref string) *Source {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Source{
		contents: contents,
		http:     httpClient,
		id:       id,
		ref:      ref,

		downloadTimeout: defaultDownloadTimeout,
	}
}

// Identity returns "owner/repository".
func (s *Source) Identity() string {
	return s.id.String()
}

// Ref returns the branch, tag or commit the source reads, empty for the default branch.
func (s *Source) Ref() string {
	return s.ref
}

// List fetches the directory at path. A missing path yields a not-found error.
func (s *Source) List(ctx context.Context, path []string) (source.Listing, error) {
	logger := zerolog.Ctx(ctx)
	rel := source.JoinPath(path)

	var opts *github.RepositoryContentGetOptions
	if s.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: s.ref}
	}

	logger.Debug().Str("repo", s.Identity()).Str("path", rel).Str("ref", s.ref).Msg("listing contents")

	file, dir, resp, err := s.contents.GetContents(ctx, s.id.Owner, s.id.Repository, rel, opts)
	if err != nil {
		if isNotFound(resp, err) {
			logger.Debug().Str("path", rel).Msg("path not found")
			return source.Listing{}, source.NotFoundError(path)
		}
		return source.Listing{}, source.ListingError(path, describe(err))
	}

	if file != nil {
		// A body like {"message": "Not Found"} decodes as a content object
		// with neither a type nor a name.
		if file.GetType() == "" && file.GetName() == "" {
			logger.Debug().Str("path", rel).Msg("contents api returned no entry")
			return source.Listing{}, source.NotFoundError(path)
		}
		return source.NewListing([]source.Entry{toEntry(file)}), nil
	}

	entries := make([]source.Entry, 0, len(dir))
	for _, c := range dir {
		if c == nil || c.GetName() == "" {
			continue
		}
		entries = append(entries, toEntry(c))
	}
	return source.NewListing(entries), nil
}

// Fetch downloads the raw text of a file entry.
func (s *Source) Fetch(ctx context.Context, entry source.Entry) (string, error) {
	if entry.IsDir() {
		return "", source.ContentError(entry.Name, errors.New("entry is a directory"))
	}
	if entry.ContentRef == "" {
		return "", source.ContentError(entry.Name, errors.New("entry has no download url"))
	}

	// Concurrent activations of the same file share one request. The request
	// runs detached from the caller that started it, so cancelling a
	// superseded activation does not fail the ones still waiting.
	ch := s.downloads.DoChan(entry.ContentRef, func() (interface{}, error) {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.downloadTimeout)
		defer cancel()
		return s.download(dctx, entry)
	})

	select {
	case <-ctx.Done():
		return "", source.ContentError(entry.ContentRef, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		zerolog.Ctx(ctx).Debug().Str("name", entry.Name).Bool("shared", res.Shared).Msg("fetched content")
		return res.Val.(string), nil
	}
}

func (s *Source) download(ctx context.Context, entry source.Entry) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.ContentRef, nil)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", source.ContentError(entry.ContentRef, errors.Errorf("unexpected status %s", resp.Status))
	}

	data, err := fs.ReadHead(resp.Body, fs.MaxContentBytes)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}

	text, err := fs.DecodeText(entry.Name, data)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}
	return text, nil
}

func toEntry(c *github.RepositoryContent) source.Entry {
	if c.GetType() == typeDir {
		return source.Entry{Name: c.GetName(), Kind: source.KindDirectory}
	}
	return source.Entry{
		Name:       c.GetName(),
		Kind:       source.KindFile,
		Size:       int64(c.GetSize()),
		ContentRef: c.GetDownloadURL(),
	}
}

func isNotFound(resp *github.Response, err error) bool {
	if resp != nil && resp.Response != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func describe(err error) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return errors.Errorf("github rate limit exceeded, resets at %s (set a token to raise the limit): %w", rle.Rate.Reset.Time.Format("15:04:05"), err)
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return errors.Errorf("github secondary rate limit hit: %w", err)
	}
	if errors.Is(err, github.ErrPathForbidden) {
		return errors.Errorf("path contains '..': %w", err)
	}
	return err
}

// Provider opens sources for arbitrary identities on one API endpoint.
type Provider struct {
	client  *github.Client
	initial source.Identity
	ref     string
}

// NewProvider returns a provider sharing client. ref only applies to the
// initial repository; other repositories open at their default branch.
func NewProvider(client *github.Client, initial source.Identity, ref string) *Provider {
	return &Provider{client: client, initial: initial, ref: ref}
}

// Open parses identity and returns a source for it.
func (p *Provider) Open(_ context.Context, identity string) (source.Source, error) {
	id, err := source.ParseIdentity(identity)
	if err != nil {
		return nil, err
	}
	ref := ""
	if id == p.initial {
		ref = p.ref
	}
	return NewSource(p.client, id, ref), nil
}

func (s *Source) String() string {
	if s.ref == "" {
		return s.Identity()
	}
	return fmt.Sprintf("%s@%s", s.Identity(), s.ref)
}
