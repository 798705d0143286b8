package state

import (
	"context"
	"sync"
	"time"

	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ListingLoader performs listing fetches asynchronously.
type ListingLoader interface {
	Start(job ListingJob)
	Cancel(token int)
}

// ListingJob describes a listing fetch to perform.
type ListingJob struct {
	Token  int
	Path   []string
	Source source.Source
	// Hide drops matching entry names before the listing is delivered.
	Hide     []string
	Callback func(ListingLoadResultAction)
}

// ContentLoader performs content fetch and render asynchronously.
type ContentLoader interface {
	Start(job ContentJob)
	Cancel(token int)
}

// ContentJob describes a file to fetch and render.
type ContentJob struct {
	Token    int
	Entry    source.Entry
	Source   source.Source
	Resolver *preview.Resolver
	Callback func(ContentLoadResultAction)
}

// NewAsyncListingLoader constructs the default goroutine-based loader. Each
// fetch runs under timeout; zero disables it.
func NewAsyncListingLoader(ctx context.Context, timeout time.Duration) ListingLoader {
	return &asyncListingLoader{jobs: newJobs(ctx, timeout)}
}

// NewAsyncContentLoader constructs the default goroutine-based content loader.
func NewAsyncContentLoader(ctx context.Context, timeout time.Duration) ContentLoader {
	return &asyncContentLoader{jobs: newJobs(ctx, timeout)}
}

type asyncListingLoader struct {
	jobs *jobs
}

func (l *asyncListingLoader) Start(job ListingJob) {
	if job.Token == 0 || job.Source == nil || job.Callback == nil {
		return
	}
	path := clonePath(job.Path)
	l.jobs.start(job.Token, func(ctx context.Context) func() {
		listing, err := job.Source.List(ctx, path)
		if err != nil {
			var fe *source.FetchError
			if !errors.As(err, &fe) {
				err = source.ListingError(path, err)
			}
			event := zerolog.Ctx(ctx).Warn()
			if errors.Is(err, source.ErrListingNotFound) {
				event = zerolog.Ctx(ctx).Debug()
			}
			event.Err(err).Str("path", source.JoinPath(path)).Msg("listing failed")
		} else {
			listing = source.FilterHidden(listing, job.Hide)
		}
		return func() {
			job.Callback(ListingLoadResultAction{
				Token:   job.Token,
				Path:    path,
				Listing: listing,
				Err:     err,
			})
		}
	})
}

func (l *asyncListingLoader) Cancel(token int) {
	l.jobs.cancel(token)
}

type asyncContentLoader struct {
	jobs *jobs
}

func (l *asyncContentLoader) Start(job ContentJob) {
	if job.Token == 0 || job.Source == nil || job.Callback == nil {
		return
	}
	resolver := job.Resolver
	if resolver == nil {
		resolver = preview.NewResolver()
	}
	l.jobs.start(job.Token, func(ctx context.Context) func() {
		content, view, err := resolver.Load(ctx, job.Source, job.Entry)
		if err != nil {
			var fe *source.FetchError
			if !errors.As(err, &fe) {
				err = source.ContentError(job.Entry.ContentRef, err)
			}
			zerolog.Ctx(ctx).Warn().Err(err).Str("name", job.Entry.Name).Msg("content fetch failed")
		}
		return func() {
			job.Callback(ContentLoadResultAction{
				Token:   job.Token,
				Name:    job.Entry.Name,
				Content: content,
				View:    view,
				Err:     err,
			})
		}
	})
}

func (l *asyncContentLoader) Cancel(token int) {
	l.jobs.cancel(token)
}

// jobs tracks in-flight work by token so superseded work can be cancelled.
type jobs struct {
	parent  context.Context
	timeout time.Duration

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
}

func newJobs(parent context.Context, timeout time.Duration) *jobs {
	if parent == nil {
		parent = context.Background()
	}
	return &jobs{
		parent:  parent,
		timeout: timeout,
		cancels: make(map[int]context.CancelFunc),
	}
}

// start runs work in a goroutine. work returns the delivery step, which is
// skipped when the job was cancelled meanwhile. A timeout is not a
// cancellation: its error is delivered.
func (j *jobs) start(token int, work func(ctx context.Context) func()) {
	jobCtx, cancel := context.WithCancel(j.parent)
	j.mu.Lock()
	if prev, ok := j.cancels[token]; ok {
		prev()
	}
	j.cancels[token] = cancel
	j.mu.Unlock()

	go func() {
		defer func() {
			j.mu.Lock()
			delete(j.cancels, token)
			j.mu.Unlock()
			cancel()
		}()

		workCtx := jobCtx
		if j.timeout > 0 {
			var stop context.CancelFunc
			workCtx, stop = context.WithTimeout(jobCtx, j.timeout)
			defer stop()
		}

		deliver := work(workCtx)

		select {
		case <-jobCtx.Done():
			return
		default:
		}
		deliver()
	}()
}

func (j *jobs) cancel(token int) {
	j.mu.Lock()
	if cancel, ok := j.cancels[token]; ok {
		cancel()
		delete(j.cancels, token)
	}
	j.mu.Unlock()
}
