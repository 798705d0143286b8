package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rview/internal/source"
	statepkg "github.com/kk-code-lab/rview/internal/state"
)

type fakeSource struct {
	listings map[string][]source.Entry
	files    map[string]string
}

func (f *fakeSource) Identity() string { return "o/r" }

func (f *fakeSource) List(_ context.Context, path []string) (source.Listing, error) {
	entries, ok := f.listings[source.JoinPath(path)]
	if !ok {
		return source.Listing{}, source.NotFoundError(path)
	}
	return source.NewListing(entries), nil
}

func (f *fakeSource) Fetch(_ context.Context, entry source.Entry) (string, error) {
	content, ok := f.files[entry.ContentRef]
	if !ok {
		return "", source.ContentError(entry.ContentRef, errors.New("missing"))
	}
	return content, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		listings: map[string][]source.Entry{
			"": {
				{Name: "README.md", Kind: source.KindFile, Size: 12, ContentRef: "README.md"},
				{Name: "src", Kind: source.KindDirectory},
			},
			"src": {
				{Name: "main.go", Kind: source.KindFile, Size: 13, ContentRef: "src/main.go"},
			},
		},
		files: map[string]string{
			"README.md":   "# Hello\n",
			"src/main.go": "package main\n",
		},
	}
}

type fakeWatcher struct {
	mu       sync.Mutex
	follows  [][]string
	onChange func()
}

func (w *fakeWatcher) Follow(path []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.follows = append(w.follows, append([]string(nil), path...))
	return nil
}

func (w *fakeWatcher) Run(ctx context.Context) { <-ctx.Done() }
func (w *fakeWatcher) Close() error            { return nil }

func newTestApp(t *testing.T, opts Options) (*Application, tcell.SimulationScreen) {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	src := newFakeSource()

	opts.Screen = scr
	if opts.Provider == nil {
		opts.Provider = source.ProviderFunc(func(context.Context, string) (source.Source, error) {
			return nil, errors.New("unknown repository")
		})
	}
	opts.Sources = append(opts.Sources, src)
	if opts.Initial.Identity == "" {
		opts.Initial = statepkg.NewState("o/r", true)
	}

	app, err := NewApplication(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, scr
}

// pump feeds loader results back into the store until cond holds.
func pump(t *testing.T, app *Application, cond func(statepkg.NavigationState) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(app.State()) {
		select {
		case action := <-app.actionCh:
			app.handleAction(action)
		case <-deadline:
			t.Fatalf("condition not reached; state: %+v", app.State())
		}
	}
}

func settled(s statepkg.NavigationState) bool {
	return !s.ListingLoading && (s.SelectedFile == nil || !s.SelectedFile.IsContentLoading)
}

func drain(app *Application) []statepkg.Action {
	var out []statepkg.Action
	for {
		select {
		case action := <-app.actionCh:
			out = append(out, action)
		default:
			return out
		}
	}
}

func TestMountShowsReadme(t *testing.T) {
	app, _ := newTestApp(t, Options{Style: "github"})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, func(s statepkg.NavigationState) bool {
		return settled(s) && s.SelectedFile != nil
	})

	state := app.State()
	if state.SelectedFile.Name != "README.md" {
		t.Fatalf("expected README.md to be selected, got %q", state.SelectedFile.Name)
	}
	if state.SelectedFile.Content == nil || *state.SelectedFile.Content != "# Hello\n" {
		t.Fatalf("unexpected content %v", state.SelectedFile.Content)
	}
	if state.Listing.Len() != 2 {
		t.Fatalf("expected two entries, got %d", state.Listing.Len())
	}
}

func TestHandleMouseBreadcrumbNavigatesByIndex(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.dispatch(statepkg.NavigateToAction{Path: []string{"src"}})
	pump(t, app, settled)
	app.render()

	// Root crumb "o/r" starts at column 0.
	if !app.handleMouse(tcell.NewEventMouse(1, 0, tcell.Button1, tcell.ModNone)) {
		t.Fatalf("expected breadcrumb click to be handled")
	}
	actions := drain(app)
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %v", actions)
	}
	act, ok := actions[0].(statepkg.NavigateToBreadcrumbAction)
	if !ok || act.Index != statepkg.RootBreadcrumb {
		t.Fatalf("expected root breadcrumb navigation, got %#v", actions[0])
	}

	app.handleAction(act)
	pump(t, app, settled)
	if !app.State().IsRoot() {
		t.Fatalf("expected to be back at the root, got %v", app.State().CurrentPath)
	}
}

func TestHandleMouseSelectsListingRow(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, settled)
	app.render()

	// Row 1 is the first entry: the src directory.
	if !app.handleMouse(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone)) {
		t.Fatalf("expected listing click to be handled")
	}
	actions := drain(app)
	if len(actions) != 1 || actions[0] != (statepkg.CursorSetAction{Index: 0, Activate: true}) {
		t.Fatalf("expected one absolute cursor action, got %v", actions)
	}
	app.handleAction(actions[0])
	pump(t, app, settled)

	if got := app.State().CurrentPath; !slices.Equal(got, []string{"src"}) {
		t.Fatalf("expected to enter src, got %v", got)
	}
}

func TestHandleMouseClickIgnoresQueuedCursorMoves(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, settled)
	app.render()

	// A key press already waiting in the queue moves the cursor to README.md
	// before the click on src is applied.
	app.post(statepkg.CursorMoveAction{Delta: 1})
	app.handleMouse(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	for _, action := range drain(app) {
		app.handleAction(action)
	}
	pump(t, app, settled)

	if got := app.State().CurrentPath; !slices.Equal(got, []string{"src"}) {
		t.Fatalf("expected the clicked row to open, got path %v", got)
	}
}

func TestHandleMouseIgnoresPreviewClicks(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, settled)
	app.render()

	layout, ok := app.renderer.LastLayout()
	if !ok || !layout.ShowPreview {
		t.Fatalf("expected preview to be visible for test layout")
	}
	if app.handleMouse(tcell.NewEventMouse(layout.PreviewStart+2, 2, tcell.Button1, tcell.ModNone)) {
		t.Fatalf("preview clicks should not change anything")
	}
	if actions := drain(app); len(actions) != 0 {
		t.Fatalf("expected no action for preview click, got %v", actions)
	}
}

func TestHandleMouseWheelScrollsPreview(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, settled)
	app.render()

	layout, _ := app.renderer.LastLayout()
	app.handleMouse(tcell.NewEventMouse(layout.PreviewStart+2, 2, tcell.WheelDown, tcell.ModNone))
	actions := drain(app)
	if len(actions) != 1 || actions[0] != (statepkg.PreviewScrollAction{Delta: wheelPreviewLines}) {
		t.Fatalf("expected preview scroll, got %v", actions)
	}

	app.handleMouse(tcell.NewEventMouse(2, 2, tcell.WheelUp, tcell.ModNone))
	actions = drain(app)
	if len(actions) != 1 || actions[0] != (statepkg.CursorMoveAction{Delta: -1}) {
		t.Fatalf("expected cursor move, got %v", actions)
	}
}

func TestQuitKeyStopsLoop(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !app.shouldQuit {
		t.Fatalf("expected q to quit")
	}
}

func TestWatcherFollowsCommittedDirectory(t *testing.T) {
	watcher := &fakeWatcher{}
	app, _ := newTestApp(t, Options{
		Watch: func(onChange func()) (DirectoryWatcher, error) {
			watcher.onChange = onChange
			return watcher, nil
		},
	})

	app.dispatch(statepkg.MountAction{})
	pump(t, app, settled)
	app.dispatch(statepkg.NavigateToAction{Path: []string{"src"}})
	pump(t, app, settled)

	watcher.mu.Lock()
	follows := append([][]string(nil), watcher.follows...)
	watcher.mu.Unlock()
	if len(follows) != 2 || len(follows[0]) != 0 || !slices.Equal(follows[1], []string{"src"}) {
		t.Fatalf("unexpected follow sequence %v", follows)
	}

	drain(app)
	watcher.onChange()
	actions := drain(app)
	if len(actions) != 1 || actions[0] != (statepkg.RefreshAction{}) {
		t.Fatalf("expected a refresh on change, got %v", actions)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	app, scr := newTestApp(t, Options{})

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(context.Background()) }()
	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after q")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
