package render

import (
	"strings"

	"github.com/kk-code-lab/rview/internal/source"
	statepkg "github.com/kk-code-lab/rview/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state statepkg.NavigationState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state statepkg.NavigationState) []string {
	if state.Search.Active {
		return []string{
			"type: owner/repository",
			"↵: open",
			"Esc: cancel",
		}
	}

	segments := []string{
		"↑↓: move",
		"↵: open",
		"⌫: up",
		"PgUp/PgDn: scroll",
		"r: refresh",
	}
	if state.SearchEnabled {
		segments = append(segments, "/: repo")
	}
	return append(segments, "q: quit")
}

// buildFooterStatus describes the selected file for the right side of the
// footer.
func buildFooterStatus(state statepkg.NavigationState) string {
	sf := state.SelectedFile
	if sf == nil {
		return ""
	}
	parts := []string{sf.Name, source.HumanSize(sf.Entry.Size)}
	switch {
	case sf.View == nil:
	case sf.View.Code != nil && sf.View.Code.Language != "":
		parts = append(parts, sf.View.Code.Language)
	default:
		parts = append(parts, sf.View.Mode.String())
	}
	return " " + strings.Join(parts, " · ") + " "
}
