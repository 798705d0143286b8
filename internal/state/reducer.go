package state

import (
	"unicode/utf8"

	"github.com/kk-code-lab/rview/internal/source"
	"gitlab.com/tozd/go/errors"
)

// Rows taken by the breadcrumb header and the footer.
const chromeRows = 2

// ListViewportRows is the number of listing rows visible at height.
func ListViewportRows(height int) int {
	return max(height-chromeRows, 1)
}

// Reduce applies action to state and returns the next snapshot with the
// effects the store must execute. It performs no I/O.
func Reduce(state NavigationState, action Action) (NavigationState, []Effect) {
	switch a := action.(type) {
	case MountAction:
		return navigateTo(state, nil)
	case NavigateToAction:
		return navigateTo(state, a.Path)
	case NavigateToBreadcrumbAction:
		return navigateToBreadcrumb(state, a.Index)
	case ActivateEntryAction:
		return activateEntry(state, a.Entry)
	case ActivateCursorAction:
		entry, ok := state.CursorEntry()
		if !ok {
			return state, nil
		}
		return activateEntry(state, entry)
	case GoUpAction:
		return goUp(state)
	case RefreshAction:
		next, effects := navigateTo(state, state.CurrentPath)
		next.pendingRefresh = true
		return next, effects

	case ListingLoadResultAction:
		return applyListingResult(state, a)
	case ContentLoadResultAction:
		return applyContentResult(state, a), nil

	case CursorMoveAction:
		return moveCursor(state, state.Cursor+a.Delta), nil
	case CursorSetAction:
		if _, ok := state.Listing.At(a.Index); !ok {
			return state, nil
		}
		state = moveCursor(state, a.Index)
		if !a.Activate {
			return state, nil
		}
		entry, _ := state.CursorEntry()
		return activateEntry(state, entry)
	case CursorHomeAction:
		return moveCursor(state, 0), nil
	case CursorEndAction:
		return moveCursor(state, state.Listing.Len()-1), nil
	case PreviewScrollAction:
		return scrollPreview(state, a.Delta), nil
	case ResizeAction:
		state.Width = a.Width
		state.Height = a.Height
		return moveCursor(state, state.Cursor), nil

	case SearchStartAction:
		if !state.SearchEnabled {
			return state, nil
		}
		state.Search = SearchState{Active: true}
		return state, nil
	case SearchCharAction:
		if !state.Search.Active {
			return state, nil
		}
		state.Search.Query += string(a.Char)
		state.Search.Err = nil
		return state, nil
	case SearchBackspaceAction:
		if !state.Search.Active || state.Search.Query == "" {
			return state, nil
		}
		_, size := utf8.DecodeLastRuneInString(state.Search.Query)
		state.Search.Query = state.Search.Query[:len(state.Search.Query)-size]
		state.Search.Err = nil
		return state, nil
	case SearchCancelAction:
		state.Search = SearchState{}
		return state, nil
	case SearchSubmitAction:
		return submitSearch(state)
	}
	return state, nil
}

// navigateTo starts a new listing generation for path. Any outstanding
// listing request is superseded.
func navigateTo(state NavigationState, path []string) (NavigationState, []Effect) {
	state.listingToken++
	state.pendingPath = clonePath(path)
	state.pendingFocus = ""
	state.pendingRefresh = false
	state.ListingLoading = true
	state.Err = nil
	return state, []Effect{ListingLoadRequest{
		Token:    state.listingToken,
		Identity: state.Identity,
		Path:     clonePath(path),
	}}
}

func navigateToBreadcrumb(state NavigationState, index int) (NavigationState, []Effect) {
	if index == RootBreadcrumb {
		return navigateTo(state, nil)
	}
	if index < 0 || index >= len(state.CurrentPath) {
		return state, nil
	}
	return navigateTo(state, state.CurrentPath[:index+1])
}

func goUp(state NavigationState) (NavigationState, []Effect) {
	if state.IsRoot() {
		return state, nil
	}
	from := state.CurrentPath[len(state.CurrentPath)-1]
	next, effects := navigateTo(state, state.CurrentPath[:len(state.CurrentPath)-1])
	next.pendingFocus = from
	return next, effects
}

func activateEntry(state NavigationState, entry source.Entry) (NavigationState, []Effect) {
	if entry.IsDir() {
		path := make([]string, 0, len(state.CurrentPath)+1)
		path = append(path, state.CurrentPath...)
		path = append(path, entry.Name)
		return navigateTo(state, path)
	}

	state.contentToken++
	state.SelectedFile = &SelectedFile{
		Name:             entry.Name,
		Extension:        entry.Extension(),
		Entry:            entry,
		IsContentLoading: true,
	}
	state.PreviewScroll = 0
	return state, []Effect{ContentLoadRequest{
		Token:    state.contentToken,
		Identity: state.Identity,
		Entry:    entry,
	}}
}

func applyListingResult(state NavigationState, a ListingLoadResultAction) (NavigationState, []Effect) {
	if a.Token != state.listingToken || !state.ListingLoading {
		return state, nil
	}
	state.ListingLoading = false
	focus := state.pendingFocus
	refresh := state.pendingRefresh && samePath(state.pendingPath, state.CurrentPath)
	state.pendingFocus = ""
	state.pendingRefresh = false
	state.pendingPath = nil

	if a.Err != nil {
		// A path that does not exist shows as an empty listing, not an error.
		// Either way the current path stays where it was.
		state.Err = a.Err
		if errors.Is(a.Err, source.ErrListingNotFound) {
			state.Err = nil
		}
		state.Listing = source.Listing{}
		state.Cursor = 0
		state.ListScroll = 0
		return state, nil
	}

	var previousCursor string
	if refresh {
		if entry, ok := state.CursorEntry(); ok {
			previousCursor = entry.Name
		}
	}

	state.CurrentPath = clonePath(a.Path)
	state.Listing = a.Listing
	state.Err = nil
	state.Cursor = 0
	state.ListScroll = 0

	if refresh {
		state = focusEntry(state, previousCursor)
		if sf := state.SelectedFile; sf != nil {
			if entry, ok := state.Listing.Lookup(sf.Name); ok && !entry.IsDir() {
				return activateEntry(state, entry)
			}
		}
	} else {
		state = focusEntry(state, focus)
	}

	// The previous directory's selection no longer applies; dropping the
	// generation discards any content still in flight for it.
	state.SelectedFile = nil
	state.contentToken++
	state.PreviewScroll = 0
	return selectReadme(state)
}

// selectReadme activates the first readme.md file of a freshly committed
// listing.
func selectReadme(state NavigationState) (NavigationState, []Effect) {
	readme, ok := state.Listing.Readme()
	if !ok {
		return state, nil
	}
	return activateEntry(state, readme)
}

func applyContentResult(state NavigationState, a ContentLoadResultAction) NavigationState {
	if a.Token != state.contentToken || state.SelectedFile == nil {
		return state
	}

	sf := *state.SelectedFile
	sf.IsContentLoading = false
	if a.Err != nil {
		sf.Content = nil
		sf.View = nil
		sf.Err = a.Err
	} else {
		content := a.Content
		sf.Content = &content
		sf.View = a.View
		sf.Err = nil
	}
	state.SelectedFile = &sf
	return state
}

func focusEntry(state NavigationState, name string) NavigationState {
	if name == "" {
		return state
	}
	for i, e := range state.Listing.Entries {
		if e.Name == name {
			return moveCursor(state, i)
		}
	}
	return state
}

func moveCursor(state NavigationState, target int) NavigationState {
	n := state.Listing.Len()
	if n == 0 {
		state.Cursor = 0
		state.ListScroll = 0
		return state
	}
	target = min(max(target, 0), n-1)
	state.Cursor = target

	rows := ListViewportRows(state.Height)
	if state.Cursor < state.ListScroll {
		state.ListScroll = state.Cursor
	} else if state.Cursor >= state.ListScroll+rows {
		state.ListScroll = state.Cursor - rows + 1
	}
	state.ListScroll = max(min(state.ListScroll, n-rows), 0)
	return state
}

func scrollPreview(state NavigationState, delta int) NavigationState {
	lines := len(state.PreviewLines())
	limit := max(lines-ListViewportRows(state.Height), 0)
	state.PreviewScroll = min(max(state.PreviewScroll+delta, 0), limit)
	return state
}

// submitSearch re-points the browser at the repository typed into the search
// input. Every outstanding load belongs to the old repository and is dropped.
func submitSearch(state NavigationState) (NavigationState, []Effect) {
	if !state.Search.Active {
		return state, nil
	}
	id, err := source.ParseIdentity(state.Search.Query)
	if err != nil {
		state.Search.Err = err
		return state, nil
	}

	state.Identity = id.String()
	state.CurrentPath = nil
	state.Listing = source.Listing{}
	state.SelectedFile = nil
	state.Err = nil
	state.Cursor = 0
	state.ListScroll = 0
	state.PreviewScroll = 0
	state.Search = SearchState{}
	state.contentToken++
	return navigateTo(state, nil)
}
