package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rview/internal/preview"
	statepkg "github.com/kk-code-lab/rview/internal/state"
	textutil "github.com/kk-code-lab/rview/internal/textutil"
	"github.com/mattn/go-runewidth"
)

func (r *Renderer) drawPreviewPanel(state statepkg.NavigationState, layout Layout) {
	startX := layout.PreviewStart
	panelWidth := layout.PreviewWidth
	if panelWidth <= 0 {
		return
	}

	baseStyle := tcell.StyleDefault.Background(r.theme.PreviewBg).Foreground(r.theme.PreviewFg)
	y := layout.BodyTop
	bottomLimit := layout.BodyBottom

	drawMessage := func(text string, style tcell.Style) {
		if y >= bottomLimit {
			return
		}
		r.drawLine(startX, y, panelWidth, textutil.Truncate(text, panelWidth), style)
		y++
	}

	sf := state.SelectedFile
	switch {
	case sf == nil:
		if !state.ListingLoading {
			drawMessage(" No file selected", baseStyle.Foreground(r.theme.DimFg))
		}
	case sf.IsContentLoading:
		drawMessage(" Loading "+textutil.SanitizeTerminalText(sf.Name)+"…", baseStyle.Foreground(r.theme.AccentFg).Bold(true))
	case sf.Err != nil:
		drawMessage(" ✗ "+textutil.SanitizeTerminalText(sf.Err.Error()), baseStyle.Foreground(r.theme.ErrorFg))
	default:
		lines := state.PreviewLines()
		if len(lines) == 0 {
			drawMessage(" (empty file)", baseStyle.Foreground(r.theme.DimFg))
		}
		start := min(max(state.PreviewScroll, 0), len(lines))
		for i := start; i < len(lines) && y < bottomLimit; i++ {
			end := r.drawSegments(startX+1, y, panelWidth-1, lines[i], baseStyle)
			r.screen.SetContent(startX, y, ' ', nil, baseStyle)
			r.fill(end, startX+panelWidth, y, baseStyle)
			y++
		}
	}

	for ; y < bottomLimit; y++ {
		r.fill(startX, startX+panelWidth, y, baseStyle)
	}
}

// drawSegments draws one styled line clipped to maxWidth and returns the
// column after the last cell written.
func (r *Renderer) drawSegments(startX, y, maxWidth int, segments []preview.Segment, baseStyle tcell.Style) int {
	x := startX
	limit := startX + maxWidth
	for _, seg := range segments {
		if x >= limit {
			break
		}
		text := textutil.SanitizeTerminalText(seg.Text)
		style := r.styleForSegment(baseStyle, seg)
		next := r.drawText(x, y, limit, text, style)
		if next-x < runewidth.StringWidth(text) {
			return next
		}
		x = next
	}
	return x
}

func (r *Renderer) styleForSegment(base tcell.Style, seg preview.Segment) tcell.Style {
	switch seg.Style {
	case preview.StyleStrong:
		return base.Bold(true)
	case preview.StyleHeading:
		return base.Bold(true).Foreground(r.theme.HeadingFg)
	case preview.StyleEmphasis:
		return base.Italic(true)
	case preview.StyleStrike:
		return base.StrikeThrough(true)
	case preview.StyleCode:
		style := base
		if r.theme.CodeFg != tcell.ColorDefault {
			style = style.Foreground(r.theme.CodeFg)
		}
		if r.theme.CodeBg != tcell.ColorDefault {
			style = style.Background(r.theme.CodeBg)
		}
		return style.Dim(false)
	case preview.StyleCodeBlock:
		style := base
		if r.theme.CodeBlockFg != tcell.ColorDefault {
			style = style.Foreground(r.theme.CodeBlockFg)
		}
		if r.theme.CodeBlockBg != tcell.ColorDefault {
			style = style.Background(r.theme.CodeBlockBg)
		}
		return style.Dim(false)
	case preview.StyleLink:
		return base.Underline(true).Foreground(r.theme.LinkFg)
	case preview.StyleRule, preview.StyleLineNumber:
		return base.Foreground(r.theme.DimFg)
	case preview.StyleQuote:
		return base.Foreground(r.theme.QuoteFg)
	case preview.StyleHTML:
		return base.Foreground(r.theme.HTMLFg)
	case preview.StyleToken:
		return r.tokens.apply(base, seg.Token)
	default:
		return base
	}
}
