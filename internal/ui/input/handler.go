package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rview/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan<- statepkg.Action
	state      statepkg.NavigationState // Last rendered snapshot, for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan<- statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState records the snapshot the next events are interpreted against.
func (ih *InputHandler) SetState(state statepkg.NavigationState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state.Search.Active {
		ih.processSearchKey(ev)
		return true
	}

	page := statepkg.ListViewportRows(ih.state.Height)

	switch ev.Key() {
	case tcell.KeyUp:
		ih.actionChan <- statepkg.CursorMoveAction{Delta: -1}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.CursorMoveAction{Delta: 1}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.CursorHomeAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.CursorEndAction{}
	case tcell.KeyEnter, tcell.KeyRight:
		ih.actionChan <- statepkg.ActivateCursorAction{}
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.GoUpAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: -page}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: page}
	case tcell.KeyCtrlU:
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: -max(page/2, 1)}
	case tcell.KeyCtrlD:
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: max(page/2, 1)}
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'k':
		ih.actionChan <- statepkg.CursorMoveAction{Delta: -1}
	case 'j':
		ih.actionChan <- statepkg.CursorMoveAction{Delta: 1}
	case 'K':
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: -1}
	case 'J':
		ih.actionChan <- statepkg.PreviewScrollAction{Delta: 1}
	case 'g':
		ih.actionChan <- statepkg.CursorHomeAction{}
	case 'G':
		ih.actionChan <- statepkg.CursorEndAction{}
	case 'l':
		ih.actionChan <- statepkg.ActivateCursorAction{}
	case 'h':
		ih.actionChan <- statepkg.GoUpAction{}
	case 'r':
		ih.actionChan <- statepkg.RefreshAction{}
	case '/':
		if ih.state.SearchEnabled {
			ih.actionChan <- statepkg.SearchStartAction{}
		}
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}
	return true
}

func (ih *InputHandler) processSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.SearchCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.SearchSubmitAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.SearchBackspaceAction{}
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) {
			ih.actionChan <- statepkg.SearchCharAction{Char: r}
		}
	}
}
