// Package app runs the terminal browser: it owns the screen, the navigation
// store and the event loop that connects them.
package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rview/internal/source"
	statepkg "github.com/kk-code-lab/rview/internal/state"
	inputui "github.com/kk-code-lab/rview/internal/ui/input"
	renderui "github.com/kk-code-lab/rview/internal/ui/render"
	"github.com/rs/zerolog"
)

// DirectoryWatcher reports changes to the directory on screen.
type DirectoryWatcher interface {
	Follow(path []string) error
	Run(ctx context.Context)
	Close() error
}

// Options configures an Application.
type Options struct {
	// Screen defaults to the terminal.
	Screen   tcell.Screen
	Provider source.Provider
	Initial  statepkg.NavigationState
	Store    statepkg.StoreOptions
	// Style is the chroma style for code.
	Style string
	// Sources are registered with the store up front.
	Sources []source.Source
	// Watch, when set, builds a watcher whose onChange refreshes the listing.
	Watch func(onChange func()) (DirectoryWatcher, error)
}

// Application represents the running app.
type Application struct {
	ctx      context.Context
	screen   tcell.Screen
	store    *statepkg.Store
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	watcher     DirectoryWatcher
	watchedPath []string
	watching    bool

	shouldQuit    bool
	lastClickKey  string
	lastClickTime time.Time
}

// NewApplication initialises the screen and the store. ctx carries the
// logger and bounds every load.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	initial := opts.Initial
	initial.Width, initial.Height = screen.Size()

	actionCh := make(chan statepkg.Action, 16)
	app := &Application{
		ctx:      ctx,
		screen:   screen,
		renderer: renderui.NewRenderer(screen, opts.Style),
		input:    inputui.NewInputHandler(actionCh),
		actionCh: actionCh,
	}

	app.store = statepkg.NewStore(ctx, initial, opts.Provider, opts.Store)
	app.store.SetDispatch(app.post)
	for _, src := range opts.Sources {
		app.store.AddSource(src)
	}

	if opts.Watch != nil {
		watcher, err := opts.Watch(func() { app.post(statepkg.RefreshAction{}) })
		if err != nil {
			screen.Fini()
			return nil, err
		}
		app.watcher = watcher
	}

	app.input.SetState(app.store.State())
	return app, nil
}

// State returns the current navigation snapshot.
func (app *Application) State() statepkg.NavigationState {
	return app.store.State()
}

// post hands an action to the event loop without blocking the caller.
func (app *Application) post(action statepkg.Action) {
	select {
	case app.actionCh <- action:
	default:
		go func() { app.actionCh <- action }()
	}
}

// Close cleans up resources.
func (app *Application) Close() error {
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	app.screen.Fini()
	if err != nil {
		zerolog.Ctx(app.ctx).Warn().Err(err).Msg("closing watcher")
	}
	return err
}
