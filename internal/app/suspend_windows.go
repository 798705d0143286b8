//go:build windows

package app

import "os"

// Windows consoles have no job control, so Ctrl-Z is ignored.

func contSignals() []os.Signal { return nil }

func (app *Application) suspendToShell() {}

func (app *Application) resumeAfterStop() bool { return false }
