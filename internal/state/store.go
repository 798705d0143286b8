package state

import (
	"context"
	"sync"
	"time"

	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// Timeout bounds every fetch. Zero disables it.
	Timeout time.Duration
	// Hide lists glob patterns of entry names to leave out of listings.
	Hide []string
	// Listings and Contents override the default async loaders.
	Listings ListingLoader
	Contents ContentLoader
}

// Store owns the current NavigationState and executes the effects Reduce
// emits. Dispatch must only be called from the event loop; loaders report
// back through the dispatch hook, which is expected to hand the result
// action to that loop.
type Store struct {
	ctx      context.Context
	state    NavigationState
	provider source.Provider
	resolver *preview.Resolver
	hide     []string

	listings ListingLoader
	contents ContentLoader

	sourcesMu sync.Mutex
	sources   map[string]source.Source

	dispatch func(Action)

	activeListing int
	activeContent int

	queue       []Action
	dispatching bool
}

// NewStore creates a store holding initial. ctx carries the logger and
// bounds every load.
func NewStore(ctx context.Context, initial NavigationState, provider source.Provider, opts StoreOptions) *Store {
	s := &Store{
		ctx:      ctx,
		state:    initial,
		provider: provider,
		resolver: preview.NewResolver(),
		hide:     opts.Hide,
		listings: opts.Listings,
		contents: opts.Contents,
		sources:  make(map[string]source.Source),
	}
	if s.listings == nil {
		s.listings = NewAsyncListingLoader(ctx, opts.Timeout)
	}
	if s.contents == nil {
		s.contents = NewAsyncContentLoader(ctx, opts.Timeout)
	}
	return s
}

// SetDispatch installs the hook loaders use to deliver results.
func (s *Store) SetDispatch(fn func(Action)) {
	s.dispatch = fn
}

// State returns the current snapshot.
func (s *Store) State() NavigationState {
	return s.state
}

// AddSource registers src under its identity so Open is not consulted for it.
func (s *Store) AddSource(src source.Source) {
	s.sourcesMu.Lock()
	s.sources[src.Identity()] = src
	s.sourcesMu.Unlock()
}

// Dispatch reduces action into the current state and starts the resulting
// effects. Actions dispatched while effects run are queued and applied in
// order.
func (s *Store) Dispatch(action Action) {
	s.queue = append(s.queue, action)
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next)
	}
}

func (s *Store) apply(action Action) {
	next, effects := Reduce(s.state, action)
	s.state = next

	if s.activeListing != 0 && s.activeListing != next.listingToken {
		s.listings.Cancel(s.activeListing)
		s.activeListing = 0
	}
	if s.activeContent != 0 && s.activeContent != next.contentToken {
		s.contents.Cancel(s.activeContent)
		s.activeContent = 0
	}

	for _, effect := range effects {
		s.run(effect)
	}
}

func (s *Store) run(effect Effect) {
	logger := zerolog.Ctx(s.ctx)

	switch e := effect.(type) {
	case ListingLoadRequest:
		logger.Debug().Int("token", e.Token).Str("identity", e.Identity).Str("path", source.JoinPath(e.Path)).Msg("listing load")
		src, err := s.source(e.Identity)
		if err != nil {
			s.deliver(ListingLoadResultAction{Token: e.Token, Path: e.Path, Err: source.ListingError(e.Path, err)})
			return
		}
		s.activeListing = e.Token
		s.listings.Start(ListingJob{
			Token:    e.Token,
			Path:     e.Path,
			Source:   src,
			Hide:     s.hide,
			Callback: func(result ListingLoadResultAction) { s.deliver(result) },
		})

	case ContentLoadRequest:
		logger.Debug().Int("token", e.Token).Str("name", e.Entry.Name).Msg("content load")
		src, err := s.source(e.Identity)
		if err != nil {
			s.deliver(ContentLoadResultAction{Token: e.Token, Name: e.Entry.Name, Err: source.ContentError(e.Entry.ContentRef, err)})
			return
		}
		s.activeContent = e.Token
		s.contents.Start(ContentJob{
			Token:    e.Token,
			Entry:    e.Entry,
			Source:   src,
			Resolver: s.resolver,
			Callback: func(result ContentLoadResultAction) { s.deliver(result) },
		})
	}
}

func (s *Store) deliver(action Action) {
	if s.dispatch != nil {
		s.dispatch(action)
		return
	}
	s.Dispatch(action)
}

func (s *Store) source(identity string) (source.Source, error) {
	s.sourcesMu.Lock()
	defer s.sourcesMu.Unlock()

	if src, ok := s.sources[identity]; ok {
		return src, nil
	}
	src, err := s.provider.Open(s.ctx, identity)
	if err != nil {
		return nil, err
	}
	s.sources[identity] = src
	return src, nil
}
