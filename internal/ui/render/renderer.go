package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rview/internal/source"
	statepkg "github.com/kk-code-lab/rview/internal/state"
	textutil "github.com/kk-code-lab/rview/internal/textutil"
)

const (
	crumbSeparator = " › "
	crumbElision   = "…"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	tokens *tokenStyles

	layout   Layout
	rendered bool
}

// NewRenderer creates a renderer drawing code with the named chroma style.
// Unknown style names fall back to chroma's default.
func NewRenderer(screen tcell.Screen, style string) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		tokens: newTokenStyles(style),
	}
}

// LastLayout returns the layout of the most recent frame.
func (r *Renderer) LastLayout() (Layout, bool) {
	return r.layout, r.rendered
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state statepkg.NavigationState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	layout := ComputeLayout(w, h)
	if h <= 0 || w <= 0 {
		r.layout, r.rendered = layout, true
		r.screen.Show()
		return
	}

	layout.Crumbs = r.drawHeader(state, w)
	r.drawListing(state, layout)
	if layout.ShowPreview {
		sepX := layout.PreviewStart - separatorWidth
		for y := layout.BodyTop; y < layout.BodyBottom; y++ {
			r.screen.SetContent(sepX, y, '│', nil, tcell.StyleDefault.Foreground(r.theme.DimFg))
		}
		r.drawPreviewPanel(state, layout)
	}
	if h > 1 {
		r.drawFooter(state, w, h-1)
	}

	r.layout, r.rendered = layout, true
	r.screen.Show()
}

// drawHeader renders the breadcrumb trail on row 0 and returns the region
// of every crumb drawn. Leading crumbs are elided when the trail does not
// fit, and the last crumb is truncated as a final resort.
func (r *Renderer) drawHeader(state statepkg.NavigationState, w int) []CrumbRegion {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	sepStyle := headerStyle.Foreground(r.theme.DimFg)

	crumbs := state.Breadcrumbs()
	labels := make([]string, len(crumbs))
	for i, c := range crumbs {
		labels[i] = textutil.SanitizeTerminalText(c.Label)
	}

	first := 0
	for first < len(labels)-1 && trailWidth(labels[first:], first > 0) > w {
		first++
	}

	x := 0
	if first > 0 {
		x = r.drawText(x, 0, w, crumbElision, sepStyle)
		x = r.drawText(x, 0, w, crumbSeparator, sepStyle)
	}

	regions := make([]CrumbRegion, 0, len(labels)-first)
	for i := first; i < len(labels); i++ {
		if i > first {
			x = r.drawText(x, 0, w, crumbSeparator, sepStyle)
		}
		if x >= w {
			break
		}
		label := labels[i]
		style := headerStyle.Foreground(r.theme.DirectoryFg)
		if i == len(labels)-1 {
			label = textutil.Truncate(label, w-x)
			style = headerStyle.Bold(true)
		}
		start := x
		x = r.drawText(x, 0, w, label, style)
		regions = append(regions, CrumbRegion{Index: crumbs[i].Index, Start: start, End: x})
	}

	if state.ListingLoading && x+2 <= w {
		r.drawText(w-1, 0, w, "⟳", headerStyle.Foreground(r.theme.AccentFg))
		r.fill(x, w-1, 0, headerStyle)
		return regions
	}
	r.fill(x, w, 0, headerStyle)
	return regions
}

func trailWidth(labels []string, elided bool) int {
	sep := textutil.DisplayWidth(crumbSeparator)
	total := 0
	if elided {
		total += textutil.DisplayWidth(crumbElision) + sep
	}
	for i, l := range labels {
		if i > 0 {
			total += sep
		}
		total += textutil.DisplayWidth(l)
	}
	return total
}

// drawListing renders the directory listing with the cursor row highlighted.
func (r *Renderer) drawListing(state statepkg.NavigationState, layout Layout) {
	baseStyle := tcell.StyleDefault
	startX, width := layout.ListStart, layout.ListWidth
	y := layout.BodyTop

	message := ""
	messageStyle := baseStyle.Foreground(r.theme.DimFg)
	switch {
	case state.Listing.IsEmpty() && state.ListingLoading:
		message = " Loading…"
		messageStyle = baseStyle.Foreground(r.theme.AccentFg).Bold(true)
	case state.Err != nil:
		message = " ✗ " + textutil.SanitizeTerminalText(state.Err.Error())
		messageStyle = baseStyle.Foreground(r.theme.ErrorFg)
	case state.Listing.IsEmpty():
		message = " Empty directory"
	}
	if message != "" && y < layout.BodyBottom {
		r.drawLine(startX, y, width, textutil.Truncate(message, width), messageStyle)
		y++
	}

	selected := ""
	if state.SelectedFile != nil {
		selected = state.SelectedFile.Name
	}

	for idx := state.ListScroll; idx < state.Listing.Len() && y < layout.BodyBottom; idx++ {
		entry, _ := state.Listing.At(idx)
		rowStyle := baseStyle.Foreground(r.theme.FileFg)
		if entry.IsDir() {
			rowStyle = baseStyle.Foreground(r.theme.DirectoryFg)
		}
		if entry.Name == selected && !entry.IsDir() {
			rowStyle = rowStyle.Bold(true)
		}
		if idx == state.Cursor {
			rowStyle = baseStyle.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}

		r.drawLine(startX, y, width, formatEntryRow(entry, width), rowStyle)
		y++
	}

	for ; y < layout.BodyBottom; y++ {
		r.fill(startX, startX+width, y, baseStyle)
	}
}

// formatEntryRow lays out " / name" for directories and "   name  size" for
// files within width columns.
func formatEntryRow(entry source.Entry, width int) string {
	icon := " "
	size := ""
	if entry.IsDir() {
		icon = "/"
	} else {
		size = source.HumanSize(entry.Size)
	}

	prefix := fmt.Sprintf(" %s ", icon)
	name := textutil.SanitizeTerminalText(entry.Name)
	nameWidth := width - textutil.DisplayWidth(prefix)
	if size != "" {
		sizeWidth := textutil.DisplayWidth(size) + 2
		if nameWidth-sizeWidth >= 4 {
			name = textutil.PadRight(textutil.Truncate(name, nameWidth-sizeWidth), nameWidth-sizeWidth)
			return prefix + name + " " + size + " "
		}
	}
	return prefix + textutil.Truncate(name, nameWidth)
}

// drawFooter renders the help line, or the repository input while search is
// active.
func (r *Renderer) drawFooter(state statepkg.NavigationState, w, y int) {
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	if state.Search.Active {
		r.drawSearchInput(state, w, y, normalStyle)
		return
	}

	helpText := textutil.SanitizeTerminalText(buildFooterHelpText(state))
	status := textutil.SanitizeTerminalText(buildFooterStatus(state))
	statusWidth := textutil.DisplayWidth(status)

	x := r.drawText(0, y, w, textutil.Truncate(helpText, w), normalStyle.Dim(true))
	if status != "" && x+statusWidth+1 <= w {
		r.fill(x, w-statusWidth, y, normalStyle)
		r.drawText(w-statusWidth, y, w, status, normalStyle)
		return
	}
	r.fill(x, w, y, normalStyle)
}

func (r *Renderer) drawSearchInput(state statepkg.NavigationState, w, y int, headerStyle tcell.Style) {
	highlightStyle := headerStyle.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	placeholderStyle := headerStyle.Dim(true)

	x := r.drawText(0, y, w, " repo> ", headerStyle.Bold(true))
	query := textutil.SanitizeTerminalText(state.Search.Query)
	if query == "" {
		x = r.drawText(x, y, w, "█", highlightStyle)
		x = r.drawText(x, y, w, "(owner/repository)", placeholderStyle)
	} else {
		// Keep the tail of a long query visible next to the cursor.
		room := max(w-x-1, 1)
		x = r.drawText(x, y, w, textutil.TruncateLeft(query, room), headerStyle)
		x = r.drawText(x, y, w, "█", highlightStyle)
	}

	if err := state.Search.Err; err != nil && x < w {
		msg := "  " + textutil.SanitizeTerminalText(err.Error())
		x = r.drawText(x, y, w, textutil.Truncate(msg, w-x), headerStyle.Foreground(r.theme.ErrorFg))
	}
	r.fill(x, w, y, headerStyle)
}
