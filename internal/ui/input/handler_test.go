package input

import (
	"fmt"
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rview/internal/state"
)

func newHandler(state statepkg.NavigationState) (*InputHandler, chan statepkg.Action) {
	actionChan := make(chan statepkg.Action, 4)
	handler := NewInputHandler(actionChan)
	handler.SetState(state)
	return handler, actionChan
}

func expectAction(t *testing.T, actionChan chan statepkg.Action) statepkg.Action {
	t.Helper()
	select {
	case action := <-actionChan:
		return action
	default:
		t.Fatal("Expected an action to be emitted")
		return nil
	}
}

func expectNoAction(t *testing.T, actionChan chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-actionChan:
		t.Fatalf("Expected no action, got %T", action)
	default:
	}
}

func TestNavigationKeys(t *testing.T) {
	state := statepkg.NewState("o/r", true)
	state.Height = 22

	tests := []struct {
		key  tcell.Key
		ch   rune
		want statepkg.Action
	}{
		{key: tcell.KeyUp, want: statepkg.CursorMoveAction{Delta: -1}},
		{key: tcell.KeyDown, want: statepkg.CursorMoveAction{Delta: 1}},
		{key: tcell.KeyRune, ch: 'k', want: statepkg.CursorMoveAction{Delta: -1}},
		{key: tcell.KeyRune, ch: 'j', want: statepkg.CursorMoveAction{Delta: 1}},
		{key: tcell.KeyHome, want: statepkg.CursorHomeAction{}},
		{key: tcell.KeyRune, ch: 'g', want: statepkg.CursorHomeAction{}},
		{key: tcell.KeyEnd, want: statepkg.CursorEndAction{}},
		{key: tcell.KeyRune, ch: 'G', want: statepkg.CursorEndAction{}},
		{key: tcell.KeyEnter, want: statepkg.ActivateCursorAction{}},
		{key: tcell.KeyRight, want: statepkg.ActivateCursorAction{}},
		{key: tcell.KeyRune, ch: 'l', want: statepkg.ActivateCursorAction{}},
		{key: tcell.KeyLeft, want: statepkg.GoUpAction{}},
		{key: tcell.KeyBackspace2, want: statepkg.GoUpAction{}},
		{key: tcell.KeyRune, ch: 'h', want: statepkg.GoUpAction{}},
		{key: tcell.KeyPgDn, want: statepkg.PreviewScrollAction{Delta: 20}},
		{key: tcell.KeyPgUp, want: statepkg.PreviewScrollAction{Delta: -20}},
		{key: tcell.KeyCtrlD, want: statepkg.PreviewScrollAction{Delta: 10}},
		{key: tcell.KeyCtrlU, want: statepkg.PreviewScrollAction{Delta: -10}},
		{key: tcell.KeyRune, ch: 'J', want: statepkg.PreviewScrollAction{Delta: 1}},
		{key: tcell.KeyRune, ch: 'K', want: statepkg.PreviewScrollAction{Delta: -1}},
		{key: tcell.KeyRune, ch: 'r', want: statepkg.RefreshAction{}},
		{key: tcell.KeyCtrlZ, want: statepkg.SuspendAction{}},
		{key: tcell.KeyRune, ch: '/', want: statepkg.SearchStartAction{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v-%q", tt.key, tt.ch), func(t *testing.T) {
			handler, actionChan := newHandler(state)
			if !handler.ProcessEvent(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone)) {
				t.Fatalf("navigation keys must not quit")
			}
			if got := expectAction(t, actionChan); got != tt.want {
				t.Fatalf("Expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		key tcell.Key
		ch  rune
	}{
		{key: tcell.KeyRune, ch: 'q'},
		{key: tcell.KeyRune, ch: 'Q'},
		{key: tcell.KeyCtrlC},
	}

	for _, tt := range tests {
		handler, actionChan := newHandler(statepkg.NewState("o/r", true))
		if handler.ProcessEvent(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone)) {
			t.Fatalf("Expected %v/%q to quit", tt.key, tt.ch)
		}
		if _, ok := expectAction(t, actionChan).(statepkg.QuitAction); !ok {
			t.Fatalf("Expected QuitAction")
		}
	}
}

func TestSlashIgnoredWhenSearchDisabled(t *testing.T) {
	handler, actionChan := newHandler(statepkg.NewState("o/r", false))
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone))
	expectNoAction(t, actionChan)
}

func TestSearchModeCapturesTyping(t *testing.T) {
	state := statepkg.NewState("o/r", true)
	state.Search.Active = true
	handler, actionChan := newHandler(state)

	for _, r := range "q/j" {
		if !handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)) {
			t.Fatalf("typing %q in search must not quit", r)
		}
		got := expectAction(t, actionChan)
		if got != (statepkg.SearchCharAction{Char: r}) {
			t.Fatalf("Expected SearchCharAction{%q}, got %#v", r, got)
		}
	}
}

func TestSearchModeKeys(t *testing.T) {
	state := statepkg.NewState("o/r", true)
	state.Search = statepkg.SearchState{Active: true, Query: "golang/go"}

	tests := []struct {
		key  tcell.Key
		want statepkg.Action
	}{
		{key: tcell.KeyEscape, want: statepkg.SearchCancelAction{}},
		{key: tcell.KeyEnter, want: statepkg.SearchSubmitAction{}},
		{key: tcell.KeyBackspace2, want: statepkg.SearchBackspaceAction{}},
		{key: tcell.KeyBackspace, want: statepkg.SearchBackspaceAction{}},
	}

	for _, tt := range tests {
		handler, actionChan := newHandler(state)
		handler.ProcessEvent(tcell.NewEventKey(tt.key, 0, tcell.ModNone))
		if got := expectAction(t, actionChan); got != tt.want {
			t.Fatalf("key %v: expected %#v, got %#v", tt.key, tt.want, got)
		}
	}
}

func TestSearchModeStillQuitsOnCtrlC(t *testing.T) {
	state := statepkg.NewState("o/r", true)
	state.Search.Active = true
	handler, actionChan := newHandler(state)

	if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatalf("Ctrl+C must quit from search mode")
	}
	if _, ok := expectAction(t, actionChan).(statepkg.QuitAction); !ok {
		t.Fatalf("Expected QuitAction")
	}
}

func TestResizeEmitsAction(t *testing.T) {
	handler, actionChan := newHandler(statepkg.NewState("o/r", true))
	handler.ProcessEvent(tcell.NewEventResize(120, 40))

	want := statepkg.ResizeAction{Width: 120, Height: 40}
	if got := expectAction(t, actionChan); got != want {
		t.Fatalf("Expected %#v, got %#v", want, got)
	}
}
