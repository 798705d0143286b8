package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rview/internal/state"
	"github.com/rs/zerolog"
)

const (
	doubleClickThreshold = 300 * time.Millisecond
	wheelPreviewLines    = 3
)

// Run mounts the root listing and processes events until the user quits or
// ctx is done.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.watcher != nil {
		go app.watcher.Run(ctx)
	}

	app.dispatch(statepkg.MountAction{})
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		if app.processActions() {
			renderPending = true
		}
	}
	return nil
}

func (app *Application) render() {
	state := app.store.State()
	app.renderer.Render(state)
	app.input.SetState(state)
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		return true
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

// handleMouse maps clicks on breadcrumbs and listing rows to navigation, and
// the wheel to cursor or preview scrolling.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	layout, ok := app.renderer.LastLayout()
	if !ok {
		return false
	}
	state := app.store.State()
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		if layout.InPreview(x, y) {
			app.post(statepkg.PreviewScrollAction{Delta: -wheelPreviewLines})
		} else {
			app.post(statepkg.CursorMoveAction{Delta: -1})
		}
		return true
	case buttons&tcell.WheelDown != 0:
		if layout.InPreview(x, y) {
			app.post(statepkg.PreviewScrollAction{Delta: wheelPreviewLines})
		} else {
			app.post(statepkg.CursorMoveAction{Delta: 1})
		}
		return true
	case buttons&tcell.Button1 == 0:
		return false
	}

	if state.Search.Active {
		return false
	}

	if index, ok := layout.CrumbAt(x, y); ok {
		app.post(statepkg.NavigateToBreadcrumbAction{Index: index})
		return true
	}

	row, ok := layout.ListRowAt(x, y)
	if !ok {
		return false
	}
	idx := state.ListScroll + row
	if _, ok := state.Listing.At(idx); !ok {
		return false
	}

	// Terminals repeat Button1 while the button is held; only the first
	// report of a press counts.
	clickKey := fmt.Sprintf("list-%d", idx)
	if app.lastClickKey == clickKey && time.Since(app.lastClickTime) <= doubleClickThreshold {
		return false
	}
	app.lastClickKey = clickKey
	app.lastClickTime = time.Now()

	app.post(statepkg.CursorSetAction{Index: idx, Activate: true})
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	app.dispatch(action)
	return true
}

func (app *Application) dispatch(action statepkg.Action) {
	app.store.Dispatch(action)
	app.followWatcher()
}

// followWatcher points the watcher at the committed directory.
func (app *Application) followWatcher() {
	if app.watcher == nil {
		return
	}
	state := app.store.State()
	if state.ListingLoading {
		return
	}
	if app.watching && slices.Equal(app.watchedPath, state.CurrentPath) {
		return
	}
	app.watchedPath = append([]string(nil), state.CurrentPath...)
	app.watching = true
	if err := app.watcher.Follow(state.CurrentPath); err != nil {
		zerolog.Ctx(app.ctx).Warn().Err(err).Strs("path", state.CurrentPath).Msg("watching directory")
	}
}
