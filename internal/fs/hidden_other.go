//go:build !windows

package fs

// IsSystemEntry reports whether path is an operating system entry that a
// listing never shows. Only Windows marks such entries.
func IsSystemEntry(string) bool {
	return false
}
