package preview

// Mode selects how fetched content is rendered.
type Mode int

const (
	ModeCode Mode = iota
	ModeDocument
)

func (m Mode) String() string {
	switch m {
	case ModeDocument:
		return "document"
	case ModeCode:
		return "code"
	}
	return "unknown"
}

// Classify maps a lowercased file extension to a render mode. Only "md" is a
// document; everything else, including no extension, is code. Callers are
// expected to pass source.Entry.Extension(), which is already lowercased.
func Classify(ext string) Mode {
	if ext == "md" {
		return ModeDocument
	}
	return ModeCode
}
