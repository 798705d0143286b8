package source

import (
	"regexp"
	"strings"
)

// Kind distinguishes files from directories in a listing.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "dir"
	}
	return "file"
}

// Entry is a single item of a directory listing.
type Entry struct {
	Name string
	Kind Kind
	Size int64
	// ContentRef locates the raw bytes of a file: a download URL for remote
	// sources, an absolute path for local ones. Empty for directories.
	ContentRef string
}

var extensionPattern = regexp.MustCompile(`(?:\.([^.]+))?$`)

// Extension returns the lowercased text after the last dot of the name, or ""
// when there is none.
func (e Entry) Extension() string {
	return ExtensionOf(e.Name)
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// ExtensionOf derives the extension used for render classification.
func ExtensionOf(name string) string {
	m := extensionPattern.FindStringSubmatch(name)
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// Listing is the ordered content of one directory: directories first, then
// files, each group in the order the source returned them.
type Listing struct {
	Entries []Entry
}

// NewListing partitions entries directories-first while keeping source order
// inside each group. Later entries reusing an earlier name are dropped.
func NewListing(entries []Entry) Listing {
	if len(entries) == 0 {
		return Listing{}
	}

	seen := make(map[string]struct{}, len(entries))
	dirs := make([]Entry, 0, len(entries))
	files := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	return Listing{Entries: append(dirs, files...)}
}

// Len returns the number of entries.
func (l Listing) Len() int {
	return len(l.Entries)
}

// IsEmpty reports whether the listing has no entries.
func (l Listing) IsEmpty() bool {
	return len(l.Entries) == 0
}

// At returns the entry at index i.
func (l Listing) At(i int) (Entry, bool) {
	if i < 0 || i >= len(l.Entries) {
		return Entry{}, false
	}
	return l.Entries[i], true
}

// Lookup finds an entry by exact name.
func (l Listing) Lookup(name string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Readme returns the first file named readme.md, compared case-insensitively.
func (l Listing) Readme() (Entry, bool) {
	for _, e := range l.Entries {
		if e.Kind == KindFile && strings.EqualFold(e.Name, "readme.md") {
			return e, true
		}
	}
	return Entry{}, false
}
