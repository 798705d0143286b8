//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rview/internal/state"
)

// contSignals are delivered when the shell resumes a stopped browser.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// suspendToShell hands the terminal back and stops the process until the
// shell continues it.
func (app *Application) suspendToShell() {
	_ = app.screen.Suspend()
	// SIGTSTP to our own pid so a pipeline we run in is not stopped with us.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

// resumeAfterStop reclaims the screen and re-lays out the panes, since the
// terminal may have been resized while stopped.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.store.Dispatch(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
