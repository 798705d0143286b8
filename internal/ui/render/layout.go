package render

const (
	minListWidth    = 24
	maxListWidth    = 48
	minPreviewWidth = 28
	listWidthRatio  = 0.35
	separatorWidth  = 1
)

// CrumbRegion is the horizontal span of one breadcrumb in the header row.
type CrumbRegion struct {
	// Index is the breadcrumb index passed to NavigateToBreadcrumbAction.
	Index int
	Start int
	End   int
}

// Layout describes where the last frame placed each pane.
type Layout struct {
	Width  int
	Height int

	ListStart int
	ListWidth int

	PreviewStart int
	PreviewWidth int
	ShowPreview  bool

	// Body rows are [BodyTop, BodyBottom).
	BodyTop    int
	BodyBottom int

	Crumbs []CrumbRegion
}

// ComputeLayout splits a w x h screen into the listing and preview panes.
// The preview is dropped when both panes cannot get their minimum width.
func ComputeLayout(w, h int) Layout {
	w = max(w, 0)
	h = max(h, 0)

	l := Layout{
		Width:      w,
		Height:     h,
		ListWidth:  w,
		BodyTop:    1,
		BodyBottom: max(h-1, 1),
	}
	if w < minListWidth+separatorWidth+minPreviewWidth {
		l.PreviewStart = w
		return l
	}

	list := int(float64(w)*listWidthRatio + 0.5)
	list = min(max(list, minListWidth), maxListWidth)
	if w-list-separatorWidth < minPreviewWidth {
		list = w - separatorWidth - minPreviewWidth
	}

	l.ListWidth = list
	l.PreviewStart = list + separatorWidth
	l.PreviewWidth = w - l.PreviewStart
	l.ShowPreview = true
	return l
}

// CrumbAt returns the breadcrumb index drawn at column x of row y.
func (l Layout) CrumbAt(x, y int) (int, bool) {
	if y != 0 {
		return 0, false
	}
	for _, c := range l.Crumbs {
		if x >= c.Start && x < c.End {
			return c.Index, true
		}
	}
	return 0, false
}

// ListRowAt returns the viewport row of the listing pane at (x, y).
func (l Layout) ListRowAt(x, y int) (int, bool) {
	if x < l.ListStart || x >= l.ListStart+l.ListWidth {
		return 0, false
	}
	if y < l.BodyTop || y >= l.BodyBottom {
		return 0, false
	}
	return y - l.BodyTop, true
}

// InPreview reports whether (x, y) falls inside the preview pane.
func (l Layout) InPreview(x, y int) bool {
	if !l.ShowPreview {
		return false
	}
	return x >= l.PreviewStart && x < l.PreviewStart+l.PreviewWidth &&
		y >= l.BodyTop && y < l.BodyBottom
}
