package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawText writes text from startX, clipped at maxX, and returns the column
// after the last cell written. Zero-width runes are attached to the
// preceding cell.
func (r *Renderer) drawText(startX, y, maxX int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && runewidth.RuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		width := max(runewidth.RuneWidth(mainc), 1)
		if x+width > maxX {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		for fill := 1; fill < width; fill++ {
			r.screen.SetContent(x+fill, y, ' ', nil, style)
		}
		x += width
	}
	return x
}

// fill paints [startX, endX) of row y with blanks.
func (r *Renderer) fill(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawLine draws text and pads the rest of the span.
func (r *Renderer) drawLine(startX, y, width int, text string, style tcell.Style) {
	end := r.drawText(startX, y, startX+width, text, style)
	r.fill(end, startX+width, y, style)
}
