package preview

import (
	"strconv"
	"strings"

	"github.com/kk-code-lab/rview/internal/textutil"
)

// Lines flattens the document into styled terminal lines, with a blank line
// between top-level blocks.
func (d *Document) Lines() [][]Segment {
	if d == nil {
		return nil
	}
	return renderBlocks(d.Blocks, 0)
}

func renderBlocks(blocks []Block, depth int) [][]Segment {
	var lines [][]Segment
	for idx, block := range blocks {
		rendered := renderBlock(block, depth)
		if idx > 0 && len(rendered) > 0 && len(lines) > 0 && len(lines[len(lines)-1]) != 0 {
			lines = append(lines, nil)
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func renderBlock(b Block, depth int) [][]Segment {
	switch b.Kind {
	case BlockHeading:
		prefix := strings.Repeat("#", max(b.Level, 1))
		return prefixLines(b.Lines, Segment{Text: prefix + " ", Style: StyleHeading}, Segment{Text: strings.Repeat(" ", len(prefix)+1), Style: StyleHeading})
	case BlockParagraph, BlockHTML:
		return b.Lines
	case BlockCode:
		return renderCodeBlock(b)
	case BlockList:
		return renderList(b, depth)
	case BlockQuote:
		content := renderBlocks(b.Children, depth)
		return prefixLines(content, Segment{Text: "│ ", Style: StyleQuote}, Segment{Text: "│ ", Style: StyleQuote})
	case BlockRule:
		return [][]Segment{{{Text: strings.Repeat("─", 40), Style: StyleRule}}}
	case BlockTable:
		return renderTable(b)
	}
	return nil
}

func prefixLines(lines [][]Segment, first, rest Segment) [][]Segment {
	if len(lines) == 0 {
		return nil
	}
	out := make([][]Segment, len(lines))
	for i, line := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		out[i] = append([]Segment{p}, line...)
	}
	return out
}

func renderCodeBlock(b Block) [][]Segment {
	const pad = "    "
	lines := make([][]Segment, 0, len(b.Lines)+1)
	if b.Info != "" {
		lines = append(lines, []Segment{{Text: pad + "[" + b.Info + "]", Style: StyleCodeBlock}})
	}
	for _, line := range b.Lines {
		lines = append(lines, append([]Segment{{Text: pad, Style: StyleCodeBlock}}, line...))
	}
	return lines
}

func renderList(b Block, depth int) [][]Segment {
	var lines [][]Segment
	pad := strings.Repeat("  ", depth)
	for idx, item := range b.Items {
		bullet := bulletSymbol(depth, b.Ordered, idx, b.Start)
		blocks := renderBlocks(item, depth+1)
		if len(blocks) == 0 {
			lines = append(lines, []Segment{{Text: pad + bullet, Style: StylePlain}})
			continue
		}
		first := append([]Segment{{Text: pad + bullet + " ", Style: StylePlain}}, blocks[0]...)
		lines = append(lines, first)
		indent := pad + strings.Repeat(" ", textutil.DisplayWidth(bullet)+1)
		for _, line := range blocks[1:] {
			if len(line) == 0 {
				lines = append(lines, nil)
				continue
			}
			lines = append(lines, append([]Segment{{Text: indent, Style: StylePlain}}, line...))
		}
	}
	return lines
}

func bulletSymbol(depth int, ordered bool, idx, start int) string {
	if ordered {
		if start == 0 {
			start = 1
		}
		return strconv.Itoa(start+idx) + "."
	}
	switch depth % 3 {
	case 0:
		return "•"
	case 1:
		return "◦"
	default:
		return "▪"
	}
}

// renderTable draws a box-bordered table sized to its widest cells.
func renderTable(b Block) [][]Segment {
	if len(b.Rows) == 0 {
		return nil
	}
	cols := 0
	for _, row := range b.Rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	for _, row := range b.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], textutil.DisplayWidth(JoinText(cell)))
		}
	}

	border := func(left, sep, right string) []Segment {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return []Segment{{Text: left + strings.Join(parts, sep) + right, Style: StyleRule}}
	}

	lines := [][]Segment{border("┌", "┬", "┐")}
	for r, row := range b.Rows {
		line := []Segment{{Text: "│", Style: StyleRule}}
		for i := 0; i < cols; i++ {
			var cell []Segment
			if i < len(row) {
				cell = row[i]
			}
			line = append(line, Segment{Text: " ", Style: StylePlain})
			line = append(line, alignCell(cell, widths[i], alignAt(i, b.Align))...)
			line = append(line, Segment{Text: " │", Style: StyleRule})
		}
		lines = append(lines, line)
		if r == 0 && len(b.Rows) > 1 {
			lines = append(lines, border("├", "┼", "┤"))
		}
	}
	return append(lines, border("└", "┴", "┘"))
}

func alignCell(cell []Segment, width int, alignment Alignment) []Segment {
	gap := width - textutil.DisplayWidth(JoinText(cell))
	if gap <= 0 {
		return cell
	}
	left, right := 0, gap
	switch alignment {
	case AlignRight:
		left, right = gap, 0
	case AlignCenter:
		left = gap / 2
		right = gap - left
	}
	out := make([]Segment, 0, len(cell)+2)
	if left > 0 {
		out = append(out, Segment{Text: strings.Repeat(" ", left), Style: StylePlain})
	}
	out = append(out, cell...)
	if right > 0 {
		out = append(out, Segment{Text: strings.Repeat(" ", right), Style: StylePlain})
	}
	return out
}

func alignAt(idx int, align []Alignment) Alignment {
	if idx < len(align) {
		return align[idx]
	}
	return AlignNone
}
