package state

import (
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/source"
)

// RootBreadcrumb is the breadcrumb index of the repository root.
const RootBreadcrumb = -1

// SelectedFile is the file shown in the preview pane. It is replaced on every
// activation and never mutated once published in a state snapshot.
type SelectedFile struct {
	Name      string
	Extension string
	Entry     source.Entry
	// Content is nil while loading and after a failed fetch.
	Content          *string
	IsContentLoading bool
	View             *preview.Rendered
	Err              error
}

// SearchState is the repository switcher input.
type SearchState struct {
	Active bool
	Query  string
	Err    error
}

// Breadcrumb is one clickable segment of the current path.
type Breadcrumb struct {
	// Index is RootBreadcrumb for the root and the segment position otherwise.
	Index int
	Label string
}

// NavigationState is a value snapshot of the browser. Reduce returns a new
// snapshot; slices reachable from a published snapshot are never modified.
type NavigationState struct {
	Identity       string
	CurrentPath    []string
	Listing        source.Listing
	ListingLoading bool
	SelectedFile   *SelectedFile
	// Err is the last listing failure.
	Err error

	Cursor        int
	ListScroll    int
	PreviewScroll int

	SearchEnabled bool
	Search        SearchState

	Width  int
	Height int

	// Generation counters. A load result is committed only when its token
	// equals the current counter.
	listingToken int
	contentToken int
	pendingPath  []string
	// pendingFocus names the entry to put the cursor on when the pending
	// listing commits.
	pendingFocus   string
	pendingRefresh bool
}

// NewState returns the idle root state for identity.
func NewState(identity string, searchEnabled bool) NavigationState {
	return NavigationState{
		Identity:      identity,
		SearchEnabled: searchEnabled,
	}
}

// ListingToken returns the generation of the newest listing request.
func (s NavigationState) ListingToken() int {
	return s.listingToken
}

// ContentToken returns the generation of the newest content request.
func (s NavigationState) ContentToken() int {
	return s.contentToken
}

// PendingPath returns the path of the outstanding listing request, if any.
func (s NavigationState) PendingPath() []string {
	if !s.ListingLoading {
		return nil
	}
	return clonePath(s.pendingPath)
}

// IsRoot reports whether the current path is the repository root.
func (s NavigationState) IsRoot() bool {
	return len(s.CurrentPath) == 0
}

// Breadcrumbs derives the breadcrumb trail: the root first, then one crumb per
// path segment keyed by position.
func (s NavigationState) Breadcrumbs() []Breadcrumb {
	crumbs := make([]Breadcrumb, 0, len(s.CurrentPath)+1)
	crumbs = append(crumbs, Breadcrumb{Index: RootBreadcrumb, Label: s.Identity})
	for i, seg := range s.CurrentPath {
		crumbs = append(crumbs, Breadcrumb{Index: i, Label: seg})
	}
	return crumbs
}

// CursorEntry returns the entry under the cursor.
func (s NavigationState) CursorEntry() (source.Entry, bool) {
	return s.Listing.At(s.Cursor)
}

// PreviewLines returns the rendered lines of the selected file.
func (s NavigationState) PreviewLines() [][]preview.Segment {
	if s.SelectedFile == nil || s.SelectedFile.View == nil {
		return nil
	}
	return s.SelectedFile.View.Lines()
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
