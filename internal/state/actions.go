package state

import (
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/source"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

// MountAction loads the root listing.
type MountAction struct{}

type NavigateToAction struct {
	Path []string
}

type NavigateToBreadcrumbAction struct {
	Index int
}

type ActivateEntryAction struct {
	Entry source.Entry
}

type ActivateCursorAction struct{}
type GoUpAction struct{}
type RefreshAction struct{}

// ===== LOAD RESULTS =====

type ListingLoadResultAction struct {
	Token   int
	Path    []string
	Listing source.Listing
	Err     error
}

type ContentLoadResultAction struct {
	Token   int
	Name    string
	Content string
	View    *preview.Rendered
	Err     error
}

// ===== CURSOR & SCROLL ACTIONS =====

type CursorMoveAction struct {
	Delta int
}
type CursorHomeAction struct{}

// CursorSetAction puts the cursor on row Index of the listing, e.g. for a
// mouse click. With Activate the entry there is opened in the same step.
type CursorSetAction struct {
	Index    int
	Activate bool
}
type CursorEndAction struct{}

type PreviewScrollAction struct {
	Delta int
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

// ===== SEARCH ACTIONS =====

type SearchStartAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchCancelAction struct{}
type SearchSubmitAction struct{}

// ===== APPLICATION ACTIONS =====

// QuitAction and SuspendAction are handled by the event loop and never reach
// Reduce.
type QuitAction struct{}
type SuspendAction struct{}

// ===== EFFECTS =====

// Effect is a side effect requested by Reduce. The Store executes effects.
type Effect interface {
	isEffect()
}

// ListingLoadRequest asks for the listing at Path of the Identity source.
type ListingLoadRequest struct {
	Token    int
	Identity string
	Path     []string
}

// ContentLoadRequest asks for the content of Entry from the Identity source.
type ContentLoadRequest struct {
	Token    int
	Identity string
	Entry    source.Entry
}

func (ListingLoadRequest) isEffect() {}
func (ContentLoadRequest) isEffect() {}
