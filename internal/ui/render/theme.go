package render

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	FileFg      tcell.Color
	DimFg       tcell.Color
	AccentFg    tcell.Color
	ErrorFg     tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	PreviewBg   tcell.Color
	PreviewFg   tcell.Color
	HeadingFg   tcell.Color
	LinkFg      tcell.Color
	QuoteFg     tcell.Color
	HTMLFg      tcell.Color
	CodeBg      tcell.Color
	CodeFg      tcell.Color
	CodeBlockBg tcell.Color
	CodeBlockFg tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		FileFg:      tcell.ColorDefault,
		DimFg:       tcell.ColorLightSlateGray,
		AccentFg:    tcell.Color51,
		ErrorFg:     tcell.ColorRed,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		PreviewBg:   tcell.ColorDefault,
		PreviewFg:   tcell.ColorDefault,
		HeadingFg:   tcell.Color75,
		LinkFg:      tcell.Color39,
		QuoteFg:     tcell.Color246,
		HTMLFg:      tcell.Color173,
		CodeBg:      tcell.ColorDefault,
		CodeFg:      tcell.Color44,  // brighter cyan text for code
		CodeBlockBg: tcell.Color234, // darker grey background for fenced code
		CodeBlockFg: tcell.Color252, // light grey text for fenced code
	}
}

// tokenStyles maps chroma token types onto terminal styles using a named
// chroma style. Backgrounds are ignored so the pane background stays
// uniform.
type tokenStyles struct {
	style   *chroma.Style
	entries map[chroma.TokenType]chroma.StyleEntry
}

func newTokenStyles(name string) *tokenStyles {
	return &tokenStyles{
		style:   styles.Get(name),
		entries: make(map[chroma.TokenType]chroma.StyleEntry),
	}
}

func (t *tokenStyles) apply(base tcell.Style, tt chroma.TokenType) tcell.Style {
	entry, ok := t.entries[tt]
	if !ok {
		entry = t.style.Get(tt)
		t.entries[tt] = entry
	}

	style := base
	if entry.Colour.IsSet() {
		style = style.Foreground(chromaColor(entry.Colour))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}
	return style
}

func chromaColor(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}
