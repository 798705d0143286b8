package preview

import "github.com/alecthomas/chroma/v2"

// Style describes a semantic style for rendered preview segments.
type Style int

const (
	StylePlain Style = iota
	StyleEmphasis
	StyleStrong
	StyleStrike
	StyleCode
	StyleCodeBlock
	StyleLink
	StyleHeading
	StyleRule
	StyleQuote
	// StyleHTML marks raw HTML copied verbatim from a document.
	StyleHTML
	StyleLineNumber
	// StyleToken marks highlighted code; Segment.Token carries the token type.
	StyleToken
)

// Segment is a chunk of text with an associated style.
type Segment struct {
	Text  string
	Style Style
	Token chroma.TokenType
}

// JoinText concatenates the text of segments.
func JoinText(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}
	total := 0
	for _, seg := range segments {
		total += len(seg.Text)
	}
	buf := make([]byte, 0, total)
	for _, seg := range segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}

// PlainLines renders lines without styling.
func PlainLines(lines [][]Segment) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = JoinText(line)
	}
	return out
}
